// Package metadata is a small durable key-value store kept next to the
// invoice cache. It holds the last sync mode flag and sync bookkeeping.
package metadata

import (
	"context"
)

// Repository stores opaque values by key. Get returns (nil, nil) for a
// missing key. Delete removes every listed key and ignores absent ones.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
