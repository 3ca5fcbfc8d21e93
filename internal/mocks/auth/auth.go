package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
	"github.com/wayfarer-travel/wayfarer-go/internal/domain/model"
	"github.com/wayfarer-travel/wayfarer-go/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider  = (*MockAuthProvider)(nil)
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
	_ ports.UserDirectory = (*StubUserDirectory)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: domainauth.Identity{
			UserID:    "mock-user-1",
			Name:      "Mock User",
			Email:     "mock.user@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	state := fmt.Sprintf("%s-%d", statePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", noncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	// Return a copy of the default user with a fresh expiration time
	user := m.DefaultUser
	if user.UserID == "" {
		user = domainauth.Identity{
			UserID: "mock-user-1",
			Name:   "Mock User",
			Email:  "mock.user@example.com",
		}
	}
	user.ExpiresAt = time.Now().Add(time.Hour)

	return user, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemorySessionStore) DeleteForUser(_ context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		if sess.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// StubUserDirectory is an in-memory user directory keyed by id and email.
// Mutate Users between calls to simulate account changes; lookups always read
// the current state, mirroring the no-caching contract of the real directory.
type StubUserDirectory struct {
	mu    sync.Mutex
	Users map[string]*model.UserRecord // keyed by id

	// LookupErr, when set, is returned by every read to simulate storage failure.
	LookupErr error
	// TouchErr, when set, is returned by TouchLastLogin.
	TouchErr error

	TouchedIDs []string
}

// NewStubUserDirectory creates an empty StubUserDirectory.
func NewStubUserDirectory() *StubUserDirectory {
	return &StubUserDirectory{Users: make(map[string]*model.UserRecord)}
}

// Put stores a user record keyed by its ID.
func (s *StubUserDirectory) Put(rec *model.UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Users[rec.ID] = rec
}

func (s *StubUserDirectory) ByID(_ context.Context, id string) (*model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	rec, ok := s.Users[id]
	if !ok {
		return nil, ports.ErrUserNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *StubUserDirectory) ByEmail(_ context.Context, email string) (*model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	for _, rec := range s.Users {
		if rec.Email == email {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, ports.ErrUserNotFound
}

func (s *StubUserDirectory) EnsureUser(ctx context.Context, identity domainauth.Identity) (*model.UserRecord, error) {
	if rec, err := s.ByEmail(ctx, identity.Email); err == nil {
		return rec, nil
	} else if !errors.Is(err, ports.ErrUserNotFound) {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	rec := &model.UserRecord{
		ID:        identity.UserID,
		Email:     identity.Email,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if identity.Name != "" {
		name := identity.Name
		rec.Name = &name
	}
	s.Users[rec.ID] = rec
	cp := *rec
	return &cp, nil
}

func (s *StubUserDirectory) TouchLastLogin(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.TouchErr != nil {
		return s.TouchErr
	}
	rec, ok := s.Users[id]
	if !ok {
		return ports.ErrUserNotFound
	}
	now := time.Now().UTC()
	rec.LastLoginAt = &now
	s.TouchedIDs = append(s.TouchedIDs, id)
	return nil
}
