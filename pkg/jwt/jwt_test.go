package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/mall/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", 2*time.Hour, 7*24*time.Hour)

	pair, err := m.GenerateToken(42, "buyer@example.com", "buyer")
	require.NoError(t, err)
	assert.Equal(t, int64(7200), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "buyer@example.com", claims.Email)
	assert.InDelta(t, (2 * time.Hour).Seconds(), m.RemainingTTL(claims).Seconds(), 5)

	refresh, err := m.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), refresh.UserID)
	assert.Empty(t, refresh.Email)
}

func TestManager_ParseToken_Expired(t *testing.T) {
	m := NewManager("test-secret", time.Minute, time.Hour)
	pair, err := m.GenerateToken(1, "a@b.c", "a")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestManager_ParseToken_WrongSecret(t *testing.T) {
	pair, err := NewManager("secret-a", time.Hour, time.Hour).GenerateToken(1, "", "")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour, time.Hour).ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = NewManager("secret-b", time.Hour, time.Hour).ParseToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
