package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis_BadURL(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestRedisStore_NilClient(t *testing.T) {
	store := NewRedisStore(nil, time.Minute)
	_, err := store.Get(context.Background(), "k", &struct{}{})
	assert.ErrorIs(t, err, ErrNilStore)
}

// Integration test (requires running Redis)
func TestRedisStore_Integration(t *testing.T) {
	rawURL := os.Getenv("REDIS_URL")
	if rawURL == "" {
		t.Skip("REDIS_URL not set, skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := ConnectRedis(ctx, rawURL)
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
	}
	defer client.Close()

	exerciseStore(t, NewRedisStore(client, time.Minute))

	short := NewRedisStore(client, 50*time.Millisecond)
	require.NoError(t, short.Set(ctx, KeyPendingBooking, map[string]int{"id": 1}))
	time.Sleep(150 * time.Millisecond)
	found, err := short.Get(ctx, KeyPendingBooking, &map[string]int{})
	require.NoError(t, err)
	assert.False(t, found)
}
