package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
)

type capturedMetric struct {
	name string
	tags map[string]string
}

type captureSink struct {
	counts  []capturedMetric
	timings []capturedMetric
}

func (s *captureSink) Count(name string, value int64, tags map[string]string) {
	s.counts = append(s.counts, capturedMetric{name: name, tags: tags})
}

func (s *captureSink) Timing(name string, value time.Duration, tags map[string]string) {
	s.timings = append(s.timings, capturedMetric{name: name, tags: tags})
}

func TestEmitAuthzDecision(t *testing.T) {
	sink := &captureSink{}

	EmitAuthzDecision(sink, AuthzMetric{
		Category: domainauth.CategoryProtected,
		Outcome:  OutcomeRedirectLogin,
		Duration: 3 * time.Millisecond,
	})

	require.Len(t, sink.counts, 1)
	assert.Equal(t, "authz.decision", sink.counts[0].name)
	assert.Equal(t, map[string]string{"category": "protected", "outcome": "redirect_login"}, sink.counts[0].tags)

	require.Len(t, sink.timings, 1)
	assert.Equal(t, "authz.duration", sink.timings[0].name)
}

func TestEmitAuthzDecision_NilSink(t *testing.T) {
	assert.NotPanics(t, func() {
		EmitAuthzDecision(nil, AuthzMetric{Category: domainauth.CategoryPublic, Outcome: OutcomeAllow})
	})
}

func TestEmitAuthzDecision_ZeroDurationSkipsTiming(t *testing.T) {
	sink := &captureSink{}
	EmitAuthzDecision(sink, AuthzMetric{Category: domainauth.CategoryPublic, Outcome: OutcomeAllow})

	assert.Len(t, sink.counts, 1)
	assert.Empty(t, sink.timings)
}

func TestOutcomeForVerdict(t *testing.T) {
	assert.Equal(t, OutcomeAllow, OutcomeForVerdict(domainauth.Allow()))
	assert.Equal(t, OutcomeRedirectHome, OutcomeForVerdict(domainauth.RedirectTo("/")))
	assert.Equal(t, OutcomeRedirectLogin, OutcomeForVerdict(domainauth.RedirectTo("/login?callbackUrl=%2Fdashboard")))
}
