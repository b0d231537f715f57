// Package session derives the client session from an access token issued by
// the backend. The token is decoded, not verified: the signature check belongs
// to the server side, the client only needs the owner id and the expiry to
// scope its caches and refuse obviously dead sessions.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sittersafe/carelog/internal/common"
)

// Session is one authenticated owner context. All services are constructed
// against it and torn down when it ends.
type Session struct {
	OwnerID   string
	Token     string
	ExpiresAt time.Time
}

// FromToken decodes the access token and extracts the owner identity.
func FromToken(token string) (*Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("malformed access token: %w", common.ErrInvalidToken)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("access token has no subject: %w", common.ErrInvalidToken)
	}

	s := &Session{OwnerID: sub, Token: token}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
	return s, nil
}

// Check reports whether the session is still usable at the given instant.
// Tokens without an expiry never expire client-side.
func (s *Session) Check(now time.Time) error {
	if !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt) {
		return common.ErrTokenExpired
	}
	return nil
}
