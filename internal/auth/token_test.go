package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	u := &marketplace.User{ID: "u1", IsSeller: true}

	signed, err := tokens.Issue(u)
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "seller", claims.Role)
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	u := &marketplace.User{ID: "u1"}

	other, err := NewTokens("other-secret", time.Hour).Issue(u)
	require.NoError(t, err)
	_, err = tokens.Parse(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	old := NewTokens("secret", time.Minute)
	old.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := old.Issue(u)
	require.NoError(t, err)
	_, err = tokens.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
