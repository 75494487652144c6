package dirtyhash

import (
	"github.com/dgraph-io/badger"
	"github.com/go-redis/redis"
	"github.com/horockey/dirtyhash/internal/gateway/remote_hashes/http_remote_hashes"
	"github.com/horockey/dirtyhash/internal/gateway/remote_hashes/redis_remote_hashes"
	"github.com/horockey/dirtyhash/internal/model"
	"github.com/horockey/dirtyhash/internal/repository/local_hashes/badger_local_hashes"
	"github.com/horockey/dirtyhash/internal/repository/local_hashes/inmemory_local_hashes"
	"github.com/horockey/dirtyhash/pkg/codec"
	"github.com/rs/zerolog"
)

type (
	// Store is the backing hash storage shared by records.
	Store = model.Store

	Codec[V any] = codec.Codec[V]

	// DeletePredicate decides whether a dirty field is removed from store
	// instead of being written on Synchronize.
	DeletePredicate[V any] func(field string, value V) bool

	// EqualFunc reports whether assigning b over a is a no-op.
	EqualFunc[V any] func(a, b V) bool
)

// Redis hash store over go-redis client, ring or cluster.
func NewRedisStore(cl redis.Cmdable, logger zerolog.Logger) Store {
	return redis_remote_hashes.New(cl, logger)
}

// Store served by Server at baseURL.
func NewHTTPStore(baseURL string, apiKey string, logger zerolog.Logger) Store {
	return http_remote_hashes.New(baseURL, apiKey, logger)
}

// Process-local store. Mostly useful in tests.
func NewInMemoryStore() Store {
	return inmemory_local_hashes.New()
}

// Embedded persistent store. DB lifecycle is up to caller.
func NewBadgerStore(db *badger.DB) Store {
	return badger_local_hashes.New(db)
}
