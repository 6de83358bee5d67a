package gate

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// DefaultInviteTTL is how long a freshly minted invite link stays usable.
const DefaultInviteTTL = 15 * time.Minute

const (
	defaultOrigin     = "http://localhost:8080"
	defaultSignupPath = "/signup"
	issueAttempts     = 3
)

// InviteService governs the invite token lifecycle: issuance, validation,
// revocation. It is the sole writer of persisted invite state.
type InviteService interface {
	Issue(ctx context.Context) (*InviteToken, error)
	Validate(ctx context.Context, token string, claimedExpiry time.Time) (InviteStatus, error)
	Revoke(ctx context.Context, token string) error
	Link(record *InviteToken) string
}

// InviteServiceImpl implements the InviteService interface
type InviteServiceImpl struct {
	store      TokenStore
	ttl        time.Duration
	origin     string
	signupPath string
	now        func() time.Time
	logger     Logger
	activity   ActivitySink
}

var _ InviteService = (*InviteServiceImpl)(nil)

// InviteServiceOption customizes invite service construction.
type InviteServiceOption func(*InviteServiceImpl)

// WithInviteTTL overrides the validity window for newly issued tokens.
func WithInviteTTL(ttl time.Duration) InviteServiceOption {
	return func(s *InviteServiceImpl) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithInviteClock injects a custom clock (useful for tests).
func WithInviteClock(clock func() time.Time) InviteServiceOption {
	return func(s *InviteServiceImpl) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithInviteOrigin sets the origin used when building shareable links.
func WithInviteOrigin(origin string) InviteServiceOption {
	return func(s *InviteServiceImpl) {
		if origin != "" {
			s.origin = strings.TrimRight(origin, "/")
		}
	}
}

// WithSignupPath overrides the path portion of invite links.
func WithSignupPath(path string) InviteServiceOption {
	return func(s *InviteServiceImpl) {
		if path != "" {
			s.signupPath = path
		}
	}
}

// WithInviteActivitySink registers an audit sink for lifecycle events.
func WithInviteActivitySink(sink ActivitySink) InviteServiceOption {
	return func(s *InviteServiceImpl) {
		s.activity = normalizeActivitySink(sink)
	}
}

// WithInviteConfig applies origin, signup path, and TTL from a Config in one
// shot. Individual options still win when applied after it.
func WithInviteConfig(cfg Config) InviteServiceOption {
	return func(s *InviteServiceImpl) {
		if cfg == nil {
			return
		}
		WithInviteOrigin(cfg.GetOrigin())(s)
		WithSignupPath(cfg.GetSignupPath())(s)
		WithInviteTTL(cfg.GetInviteTTL())(s)
	}
}

// WithInviteLogger overrides the logger.
func WithInviteLogger(logger Logger) InviteServiceOption {
	return func(s *InviteServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewInviteService creates a new InviteService backed by the given store.
func NewInviteService(store TokenStore, opts ...InviteServiceOption) *InviteServiceImpl {
	s := &InviteServiceImpl{
		store:      store,
		ttl:        DefaultInviteTTL,
		origin:     defaultOrigin,
		signupPath: defaultSignupPath,
		now:        time.Now,
		logger:     defLogger{},
		activity:   noopActivitySink{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Issue mints a fresh token and persists it as active. Token values carry
// 128 bits of entropy; if the store reports the value already exists we
// generate a new one instead of overwriting.
func (s *InviteServiceImpl) Issue(ctx context.Context) (*InviteToken, error) {
	for attempt := 1; attempt <= issueAttempts; attempt++ {
		value, err := newTokenValue()
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate invite token")
		}

		now := s.now()
		record := &InviteToken{
			Token:     value,
			IssuedAt:  now,
			ExpiresAt: now.Add(s.ttl),
			Active:    true,
		}

		created, err := s.store.Insert(ctx, record)
		if err == nil {
			s.recordActivity(ctx, ActivityEvent{
				EventType: ActivityEventInviteIssued,
				Token:     created.Token,
			})
			return created, nil
		}

		if !isDuplicateKeyError(err) {
			return nil, wrapStorageError(err)
		}

		s.logger.Warn("invite token collision, regenerating", "attempt", attempt)
	}

	return nil, ErrTokenCollision
}

// Validate checks a presented token against the stored record. The claimed
// expiry defends against forged-but-plausible links: it must match the
// stored value exactly, but the pass/fail decision always uses the stored
// expiry, never the client's.
func (s *InviteServiceImpl) Validate(ctx context.Context, token string, claimedExpiry time.Time) (InviteStatus, error) {
	record, err := s.store.FindByToken(ctx, token)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return s.decided(ctx, token, InviteInvalid), nil
		}
		return InviteInvalid, wrapStorageError(err)
	}

	if record.ExpiresAtMillis() != claimedExpiry.UnixMilli() {
		return s.decided(ctx, token, InviteInvalid), nil
	}

	// Time is checked before the kill switch so a token past its window
	// always reads as expired, revoked or not.
	if s.now().After(record.ExpiresAt) {
		return s.decided(ctx, token, InviteExpired), nil
	}

	if !record.Active {
		return s.decided(ctx, token, InviteInvalid), nil
	}

	return s.decided(ctx, token, InviteValid), nil
}

func (s *InviteServiceImpl) decided(ctx context.Context, token string, status InviteStatus) InviteStatus {
	event := ActivityEvent{
		EventType: ActivityEventInviteRejected,
		Token:     token,
		Status:    status,
	}
	if status == InviteValid {
		event.EventType = ActivityEventInviteValidated
	}
	s.recordActivity(ctx, event)
	return status
}

// Revoke flips the token's kill switch. Idempotent: revoking an already
// revoked or unknown token is not an error, and Active never reverts.
func (s *InviteServiceImpl) Revoke(ctx context.Context, token string) error {
	if err := s.store.SetActive(ctx, token, false); err != nil {
		return wrapStorageError(err)
	}

	s.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventInviteRevoked,
		Token:     token,
	})
	return nil
}

func (s *InviteServiceImpl) recordActivity(ctx context.Context, event ActivityEvent) {
	event.OccurredAt = s.now()
	if err := s.activity.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record failed", "event", string(event.EventType), "error", err)
	}
}

// Link builds the shareable signup URL for a token. Both query parameters
// are required by the gate on the way back in.
func (s *InviteServiceImpl) Link(record *InviteToken) string {
	return fmt.Sprintf("%s%s?token=%s&expires=%d", s.origin, s.signupPath, record.Token, record.ExpiresAtMillis())
}

func newTokenValue() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
