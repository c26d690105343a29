package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/mall/pkg/errors"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "mall:session:42", sessionKey(42))
	assert.Equal(t, "mall:blacklist:abc", blacklistKey("abc"))
}

func TestAddToBlacklist_ExpiredTokenSkipped(t *testing.T) {
	// ttl<=0时不会访问Redis，nil client也不会panic
	s := &SessionStore{}
	assert.NoError(t, s.AddToBlacklist(context.Background(), "t", 0))
	assert.NoError(t, s.AddToBlacklist(context.Background(), "t", -time.Second))
}

// 需要真实Redis：MALL_TEST_REDIS_ADDR=127.0.0.1:6379
func TestSessionStore_Live(t *testing.T) {
	addr := os.Getenv("MALL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MALL_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	s := NewSessionStore(client)

	require.NoError(t, s.SaveSession(ctx, 7, map[string]interface{}{"nickname": "buyer"}, time.Minute))
	session, err := s.GetSession(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "buyer", session["nickname"])

	require.NoError(t, s.DeleteSession(ctx, 7))
	_, err = s.GetSession(ctx, 7)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	require.NoError(t, s.AddToBlacklist(ctx, "token-1", time.Minute))
	revoked, err := s.IsInBlacklist(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.IsInBlacklist(ctx, "token-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
