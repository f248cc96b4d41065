package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 1)

	token, err := svc.Generate()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, claims.Role)
	require.Equal(t, RoleAdmin, claims.Subject)
}

func TestJWTWrongSecretRejected(t *testing.T) {
	token, err := NewJWTService("secret-a", 1).Generate()
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", 1).Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTExpiredRejected(t *testing.T) {
	token, err := NewJWTService("test-secret", -1).Generate()
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", 1).Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTGarbageRejected(t *testing.T) {
	_, err := NewJWTService("test-secret", 1).Validate("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-draw")
	require.NoError(t, err)
	require.True(t, VerifyPassword("s3cret-draw", hash))
	require.False(t, VerifyPassword("wrong", hash))
	require.False(t, VerifyPassword("s3cret-draw", "not-a-hash"))
}
