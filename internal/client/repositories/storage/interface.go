package storage

import (
	"context"
)

// Repository reads and writes storage rows. Implementations accept either a
// database handle or a transaction.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	// List returns every stored pair keyed by name.
	List(ctx context.Context) (map[string][]byte, error)
}
