package gate

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// InviteToken is the persisted invite record. Tokens are never deleted;
// revocation flips Active off and expiry is evaluated from ExpiresAt at
// check time. Rows for long-dead tokens are retained for audit.
type InviteToken struct {
	bun.BaseModel `bun:"table:invite_tokens,alias:invt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Token         string     `bun:"token,notnull,unique" json:"token,omitempty"`
	IssuedAt      time.Time  `bun:"issued_at,notnull" json:"issued_at,omitempty"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	Active        bool       `bun:"active,notnull" json:"active,omitempty"`
	CreatedBy     string     `bun:"created_by" json:"created_by,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Usable reports whether the token can still gate a signup at the given
// instant: active and not strictly past its stored expiry.
func (t *InviteToken) Usable(now time.Time) bool {
	if t == nil {
		return false
	}
	return t.Active && !now.After(t.ExpiresAt)
}

// ExpiresAtMillis is the stored expiry as epoch milliseconds, the unit
// invite links carry on the wire.
func (t *InviteToken) ExpiresAtMillis() int64 {
	return t.ExpiresAt.UnixMilli()
}

// InviteStatus is the discriminated outcome of a validation check. Expired
// and invalid are routine results, not errors; callers use the distinction
// to show different user-facing copy.
type InviteStatus string

const (
	// InviteValid means the token is live and the claimed expiry matched.
	InviteValid InviteStatus = "valid"
	// InviteExpired means the token existed and matched but its stored
	// expiry has passed. The sole cause is time.
	InviteExpired InviteStatus = "expired"
	// InviteInvalid covers absent tokens, claimed-expiry mismatches, and
	// revoked tokens.
	InviteInvalid InviteStatus = "invalid"
)

// GateResult is the signup gate's view of an inbound invite link.
type GateResult string

const (
	// GateValidating is the transient pre-check state; it is also returned
	// when a storage failure prevented the gate from reaching a decision.
	GateValidating GateResult = "validating"
	GateValid      GateResult = "valid"
	GateExpired    GateResult = "expired"
	GateInvalid    GateResult = "invalid"
)
