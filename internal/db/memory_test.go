package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draft struct {
	Plate   string `json:"plate"`
	Mileage int64  `json:"mileage"`
}

// exerciseStore runs the same contract against any KeyValue.
func exerciseStore(t *testing.T, store KeyValue) {
	ctx := context.Background()

	var out draft
	found, err := store.Get(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, KeyReceptionDraft, draft{Plate: "51A12345", Mileage: 1200}))
	found, err = store.Get(ctx, KeyReceptionDraft, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, draft{Plate: "51A12345", Mileage: 1200}, out)

	require.NoError(t, store.Set(ctx, KeyReceptionDraft, draft{Plate: "30E1234"}))
	found, err = store.Get(ctx, KeyReceptionDraft, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "30E1234", out.Plate)

	require.NoError(t, store.Delete(ctx, KeyReceptionDraft))
	found, err = store.Get(ctx, KeyReceptionDraft, &out)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, store.Delete(ctx, KeyReceptionDraft))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ids := []int64{1, 2}
	require.NoError(t, store.Set(ctx, "ids", ids))
	ids[0] = 99

	var out []int64
	_, err := store.Get(ctx, "ids", &out)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, out)
}

func TestMemoryStore_DecodeError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", "text"))

	var out draft
	found, err := store.Get(ctx, "k", &out)
	assert.True(t, found)
	assert.Error(t, err)
}
