package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnectMongo_BadURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	client, err := ConnectMongo(ctx, "mongodb://bad:uri")
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestMongoStore_NilCollection(t *testing.T) {
	store := &MongoStore{}
	ctx := context.Background()

	_, err := store.Get(ctx, "k", &struct{}{})
	assert.ErrorIs(t, err, ErrNilStore)
	assert.ErrorIs(t, store.Set(ctx, "k", 1), ErrNilStore)
	assert.ErrorIs(t, store.Delete(ctx, "k"), ErrNilStore)
}

// Integration test (requires running MongoDB)
func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := ConnectMongo(ctx, uri)
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
	}
	defer client.Disconnect(context.Background())

	store := NewMongoStore(client, "test_ev_portal")
	store.Collection.Drop(ctx)

	exerciseStore(t, store)
}
