package store

import (
	"context"
	"errors"
)

var ErrEmptyKey = errors.New("slot key is required")

// Slot is a durable key-value slot holding one serialized payload per key
type Slot interface {
	// Get returns the stored payload and whether the key exists
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous payload
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
