package gate_test

import (
	"context"
	"errors"
	"sync"
	"time"

	gate "github.com/clutchcli/go-gate"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
)

var errDuplicateToken = errors.New("UNIQUE constraint failed: invite_tokens.token")

// MockLogger implements gate.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// nopLogger swallows everything; used where log output is irrelevant.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// MockIdentity implements gate.Identity
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() string {
	args := m.Called()
	return args.String(0)
}

// stubIdentity is a plain value identity for console tests.
type stubIdentity struct {
	id       string
	username string
	email    string
	role     string
}

func (s stubIdentity) ID() string       { return s.id }
func (s stubIdentity) Username() string { return s.username }
func (s stubIdentity) Email() string    { return s.email }
func (s stubIdentity) Role() string     { return s.role }

// MockAuthGateway implements gate.AuthGateway
type MockAuthGateway struct {
	mock.Mock
}

func (m *MockAuthGateway) CurrentIdentity(ctx context.Context) (gate.Identity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(gate.Identity), args.Error(1)
}

func (m *MockAuthGateway) CreateAccount(ctx context.Context, payload gate.RegisterPayload) (gate.Identity, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(gate.Identity), args.Error(1)
}

func (m *MockAuthGateway) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockTokenStore implements gate.TokenStore
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Insert(ctx context.Context, record *gate.InviteToken) (*gate.InviteToken, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gate.InviteToken), args.Error(1)
}

func (m *MockTokenStore) FindByToken(ctx context.Context, token string) (*gate.InviteToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gate.InviteToken), args.Error(1)
}

func (m *MockTokenStore) SetActive(ctx context.Context, token string, active bool) error {
	args := m.Called(ctx, token, active)
	return args.Error(0)
}

// MockInviteService implements gate.InviteService
type MockInviteService struct {
	mock.Mock
}

func (m *MockInviteService) Issue(ctx context.Context) (*gate.InviteToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gate.InviteToken), args.Error(1)
}

func (m *MockInviteService) Validate(ctx context.Context, token string, claimedExpiry time.Time) (gate.InviteStatus, error) {
	args := m.Called(ctx, token, claimedExpiry)
	return args.Get(0).(gate.InviteStatus), args.Error(1)
}

func (m *MockInviteService) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockInviteService) Link(record *gate.InviteToken) string {
	args := m.Called(record)
	return args.String(0)
}

// memStore is a map-backed TokenStore used for lifecycle round trips where
// a mock's call-by-call scripting would get in the way.
type memStore struct {
	mu      sync.Mutex
	records map[string]*gate.InviteToken

	findCalls int
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*gate.InviteToken{}}
}

func (s *memStore) Insert(_ context.Context, record *gate.InviteToken) (*gate.InviteToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.Token]; exists {
		return nil, errDuplicateToken
	}

	clone := *record
	s.records[record.Token] = &clone
	return &clone, nil
}

func (s *memStore) FindByToken(_ context.Context, token string) (*gate.InviteToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.findCalls++

	record, ok := s.records[token]
	if !ok {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"token": token})
	}

	clone := *record
	return &clone, nil
}

func (s *memStore) SetActive(_ context.Context, token string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.records[token]; ok {
		record.Active = active
	}
	return nil
}
