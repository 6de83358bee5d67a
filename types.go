package gate

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal. Supplied by
// the external authentication service, immutable for a console session.
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// AuthGateway is the external authentication service we consume but do not
// implement. Credential storage, password hashing, and session cookies all
// live behind it.
type AuthGateway interface {
	CurrentIdentity(ctx context.Context) (Identity, error)
	CreateAccount(ctx context.Context, payload RegisterPayload) (Identity, error)
	SignOut(ctx context.Context) error
}

// RegisterPayload carries the account creation fields forwarded to the
// AuthGateway once the invite gate has passed.
type RegisterPayload interface {
	GetUsername() string
	GetPassword() string
}

// TokenStore is the durable keyed storage behind InviteService. Keyed
// uniquely by token value; InviteService is the only writer.
type TokenStore interface {
	Insert(ctx context.Context, record *InviteToken) (*InviteToken, error)
	FindByToken(ctx context.Context, token string) (*InviteToken, error)
	SetActive(ctx context.Context, token string, active bool) error
}

// Config holds invite gate options
type Config interface {
	GetOrigin() string
	GetSignupPath() string
	GetInviteTTL() time.Duration
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GATE "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GATE "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GATE "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GATE "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
