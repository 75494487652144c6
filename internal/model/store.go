package model

import "context"

// Store is a remote hash-shaped storage.
// Values on the wire are opaque strings produced by a codec.
type Store interface {
	MetricsProvider

	// Returns all fields of key.
	// Nonexistent key yields empty map, not an error.
	ReadAllFields(ctx context.Context, key string) (map[string]string, error)

	// Sets given fields of key, creating it if absent.
	SetFields(ctx context.Context, key string, fields map[string]string) error

	DeleteFields(ctx context.Context, key string, fields []string) error
	DeleteKey(ctx context.Context, key string) error
}
