package gate

import (
	"context"
	"strconv"
	"time"
)

// SignupGate validates an inbound token and expiry pair before account
// creation is allowed to proceed. It never creates accounts itself and does
// not revoke tokens on successful signup; reuse inside the expiry window is
// permitted until an admin revokes the link.
type SignupGate struct {
	invites InviteService
	logger  Logger
}

// SignupGateOption customizes gate construction.
type SignupGateOption func(*SignupGate)

// WithGateLogger overrides the logger.
func WithGateLogger(logger Logger) SignupGateOption {
	return func(g *SignupGate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewSignupGate creates a gate in front of the given invite service.
func NewSignupGate(invites InviteService, opts ...SignupGateOption) *SignupGate {
	g := &SignupGate{
		invites: invites,
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Check inspects the raw query parameters from an invite link. A missing or
// unparseable parameter is a client protocol error and short-circuits to
// GateInvalid with no storage lookup; everything else is delegated to the
// invite service, whose stored record is authoritative. When err is non-nil
// the returned result is GateValidating: storage was unreachable and no
// decision was made.
func (g *SignupGate) Check(ctx context.Context, token, expires string) (GateResult, error) {
	if token == "" || expires == "" {
		return GateInvalid, nil
	}

	millis, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return GateInvalid, nil
	}

	status, err := g.invites.Validate(ctx, token, time.UnixMilli(millis))
	if err != nil {
		g.logger.Error("signup gate check failed", "error", err)
		return GateValidating, err
	}

	switch status {
	case InviteValid:
		return GateValid, nil
	case InviteExpired:
		return GateExpired, nil
	default:
		return GateInvalid, nil
	}
}
