package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, expires, err := GenerateToken(7, "admin")
	require.NoError(t, err)
	assert.False(t, expires.IsZero())

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	token, _, err := GenerateToken(7, "editor")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)
	_, err = ValidateToken("not.a.jwt")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestClaimsContext(t *testing.T) {
	_, ok := ClaimsFrom(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &Claims{UserID: 3, Role: "editor"})
	c, ok := ClaimsFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, uint(3), c.UserID)
}
