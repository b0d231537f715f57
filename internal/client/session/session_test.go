package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sittersafe/carelog/internal/common"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestFromToken_Success(t *testing.T) {
	exp := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	tok := signedToken(t, jwt.MapClaims{"sub": "owner-1", "exp": exp.Unix()})

	s, err := FromToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", s.OwnerID)
	assert.Equal(t, tok, s.Token)
	assert.True(t, s.ExpiresAt.Equal(exp))
}

func TestFromToken_NoExpiry(t *testing.T) {
	s, err := FromToken(signedToken(t, jwt.MapClaims{"sub": "owner-1"}))
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt.IsZero())
	assert.NoError(t, s.Check(time.Now().Add(100*24*time.Hour)))
}

func TestFromToken_MissingSubject(t *testing.T) {
	_, err := FromToken(signedToken(t, jwt.MapClaims{"exp": time.Now().Unix()}))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestFromToken_Malformed(t *testing.T) {
	_, err := FromToken("not.a.jwt")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestCheck_Expired(t *testing.T) {
	exp := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	s, err := FromToken(signedToken(t, jwt.MapClaims{"sub": "owner-1", "exp": exp.Unix()}))
	require.NoError(t, err)

	assert.NoError(t, s.Check(exp.Add(-time.Minute)))
	assert.ErrorIs(t, s.Check(exp.Add(time.Minute)), common.ErrTokenExpired)
}
