package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startUDPListener returns a local UDP sink and a channel of received lines.
func startUDPListener(t *testing.T) (string, <-chan string) {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	lines := make(chan string, 16)
	go func() {
		buf := make([]byte, 1024)
		for {
			n, _, readErr := conn.ReadFrom(buf)
			if readErr != nil {
				return
			}
			lines <- string(buf[:n])
		}
	}()

	return conn.LocalAddr().String(), lines
}

func receiveLine(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case line := <-lines:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for statsd line")
		return ""
	}
}

func TestClient_Count(t *testing.T) {
	addr, lines := startUDPListener(t)

	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "wayfarer"})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Count("authz.decision", 1, map[string]string{"outcome": "allow", "category": "public"})

	assert.Equal(t, "wayfarer.authz.decision:1|c|#category:public,outcome:allow", receiveLine(t, lines))
}

func TestClient_Timing(t *testing.T) {
	addr, lines := startUDPListener(t)

	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Timing("authz.duration", 250*time.Millisecond, nil)

	assert.Equal(t, "authz.duration:250|ms", receiveLine(t, lines))
}

func TestClient_GlobalTagsMerged(t *testing.T) {
	addr, lines := startUDPListener(t)

	client, err := NewClient(Config{
		Enabled:    true,
		Address:    addr,
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Count("logins", 1, map[string]string{"mode": "oauth"})

	assert.Equal(t, "logins:1|c|#env:test,mode:oauth", receiveLine(t, lines))
}

func TestClient_DisabledIsNoOp(t *testing.T) {
	client, err := NewClient(Config{Enabled: false, Address: "localhost:8125"})
	require.NoError(t, err)

	// Must not panic or attempt network IO.
	client.Count("x", 1, nil)
	client.Timing("y", time.Second, nil)
	assert.NoError(t, client.Close())
}

func TestClient_NilIsSafe(t *testing.T) {
	var client *Client
	client.Count("x", 1, nil)
	client.Timing("y", time.Second, nil)
	assert.NoError(t, client.Close())
}

func TestClient_MetricNameSanitized(t *testing.T) {
	addr, lines := startUDPListener(t)

	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: ".wayfarer."})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	client.Count("auth /login hits", 2, nil)

	assert.Equal(t, "wayfarer.auth__login_hits:2|c", receiveLine(t, lines))
}
