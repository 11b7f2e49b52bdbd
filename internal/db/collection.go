package db

import (
	"context"
	"errors"
)

// ErrNilStore is returned by stores constructed without a backing client.
var ErrNilStore = errors.New("store has no backing client")

// KeyValue persists small JSON-encodable values under string keys. It stands
// in for the browser's local and session storage.
type KeyValue interface {
	// Get decodes the value under key into out and reports whether it existed.
	Get(ctx context.Context, key string, out interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// Well-known keys.
const (
	KeySession        = "auth.session"
	KeyPendingBooking = "booking.pending"
	KeyReceptionDraft = "reception.formDraft"
)
