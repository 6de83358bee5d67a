package gate

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var _ Identity = (*SessionObject)(nil)

// SessionObject is the console-side view of an authenticated session as
// decoded from the external auth service's JWT. It satisfies Identity so a
// console can be bound directly to a decoded session.
type SessionObject struct {
	UserID         string         `json:"user_id,omitempty"`
	Audience       []string       `json:"audience,omitempty"`
	Issuer         string         `json:"issuer,omitempty"`
	IssuedAt       *time.Time     `json:"issued_at,omitempty"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetData() map[string]any {
	return s.Data
}

// Identity implementation. Display attributes ride in the session's data
// claim; the auth service owns what goes in there.

func (s *SessionObject) ID() string {
	return s.UserID
}

func (s *SessionObject) Username() string {
	return s.dataString("username")
}

func (s *SessionObject) Email() string {
	return s.dataString("email")
}

func (s *SessionObject) Role() string {
	return s.dataString("role")
}

func (s *SessionObject) dataString(key string) string {
	if s.Data == nil {
		return ""
	}
	if raw, ok := s.Data[key]; ok {
		if val, ok := raw.(string); ok {
			return val
		}
	}
	return ""
}

// SessionFromClaims decodes the registered claims plus the "dat" extension
// claim into a SessionObject.
func SessionFromClaims(claims jwt.Claims) (*SessionObject, error) {
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, ErrUnableToParseData
	}

	aud, err := claims.GetAudience()
	if err != nil {
		return nil, ErrUnableToParseData
	}

	iss, err := claims.GetIssuer()
	if err != nil {
		return nil, ErrUnableToParseData
	}

	eat, err := claims.GetExpirationTime()
	if err != nil {
		return nil, ErrUnableToParseData
	}

	iat, err := claims.GetIssuedAt()
	if err != nil {
		return nil, ErrUnableToParseData
	}

	dat, err := getData(claims)
	if err != nil {
		return nil, err
	}

	session := &SessionObject{
		UserID:   sub,
		Audience: aud,
		Issuer:   iss,
		Data:     dat,
	}

	if iat != nil {
		session.IssuedAt = &iat.Time
	}

	if eat != nil {
		session.ExpirationDate = &eat.Time
	}

	return session, nil
}

func getData(claims jwt.Claims) (map[string]any, error) {
	mp, ok := claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnableToMapClaims
	}

	d, ok := mp["dat"]
	if !ok {
		return nil, ErrUnableToMapClaims
	}

	dat, ok := d.(map[string]any)
	if !ok {
		return nil, ErrUnableToMapClaims
	}
	return dat, nil
}
