package auth

import (
	"testing"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	id := uuid.New()
	tok, err := NewAccessToken("secret", id, models.RoleStudent, time.Minute)
	require.NoError(t, err)
	assert.True(t, tok.Exp.After(time.Now()))

	claims, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAccessToken_EmptyRole(t *testing.T) {
	tok, err := NewAccessToken("secret", uuid.New(), models.RoleNone, time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleNone, claims.Role)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	tok, err := NewAccessToken("secret", uuid.New(), models.RoleAdmin, time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewAccessToken("secret", uuid.New(), models.RoleAdmin, -time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken("secret", "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(time.Hour)
	require.NoError(t, err)
	b, err := NewRefreshToken(time.Hour)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.Len(t, a.Hash, 64)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Equal(t, a.Hash, HashRefreshToken(a.Raw))
}
