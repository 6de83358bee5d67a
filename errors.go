package gate

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInviteCollision = "INVITE_TOKEN_COLLISION"
	textCodeTokenStorage    = "INVITE_TOKEN_STORAGE"
	textCodeAuthGateway     = "AUTH_GATEWAY"
)

// ErrUnableToDecodeSession unable to decode JWT from session cookie
var ErrUnableToDecodeSession = errors.New("unable to decode session")

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = errors.New("unable to map claims")

// ErrUnableToParseData parse error
var ErrUnableToParseData = errors.New("unable to parse data")

// ErrTokenCollision is returned when issuing exhausts its retry budget
// because every generated value already existed in the store.
var ErrTokenCollision = goerrors.New("invite token collision", goerrors.CategoryConflict).
	WithTextCode(textCodeInviteCollision)

// ErrTokenStorage wraps backing store failures. Never conflated with an
// invalid or expired invite; callers surface a generic retry message.
var ErrTokenStorage = goerrors.New("invite token storage unavailable", goerrors.CategoryExternal).
	WithTextCode(textCodeTokenStorage)

// ErrAuthGateway wraps delegated failures from the external auth service.
var ErrAuthGateway = goerrors.New("auth gateway error", goerrors.CategoryExternal).
	WithTextCode(textCodeAuthGateway)

// IsStorageError reports whether err originated in the token store rather
// than in token state.
func IsStorageError(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == textCodeTokenStorage
	}
	return false
}

func wrapStorageError(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, ErrTokenStorage.Category, ErrTokenStorage.Message).
		WithTextCode(ErrTokenStorage.TextCode)
}
