// Package auth keeps the player's login session: it decodes access tokens,
// persists them across runs, and validates registration input before it
// reaches the backend.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ErrMalformedToken is returned for tokens that cannot be decoded or lack
// a subject.
var ErrMalformedToken = errors.New("auth: malformed token")

// Session is the identity carried by an access token.
type Session struct {
	Token     string
	UserID    string
	Username  string
	ExpiresAt time.Time // Zero when the token has no exp claim
}

// Expired reports whether the token's exp claim is not after now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Decode reads the claims of an access token. The signature is not
// checked; only the backend can do that.
func Decode(token string) (Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Session{}, fmt.Errorf("%w: no sub claim", ErrMalformedToken)
	}
	username, _ := claims["username"].(string)

	s := Session{Token: token, UserID: sub, Username: username}
	switch exp := claims["exp"].(type) {
	case float64:
		s.ExpiresAt = time.Unix(int64(exp), 0)
	case nil:
	default:
		return Session{}, fmt.Errorf("%w: exp claim is %T", ErrMalformedToken, exp)
	}
	return s, nil
}
