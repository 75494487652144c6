package badger_local_hashes

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/horockey/dirtyhash/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

var _ model.Store = &badgerLocalHashes{}

// Separates hash key and field name in badger keys.
// Hash keys containing it are rejected.
const fieldSep = byte(0)

type badgerLocalHashes struct {
	db      *badger.DB
	metrics *metrics
}

func New(db *badger.DB) *badgerLocalHashes {
	return &badgerLocalHashes{
		db:      db,
		metrics: newMetrics(db),
	}
}

func (repo *badgerLocalHashes) Metrics() []prometheus.Collector {
	return repo.metrics.list()
}

func (repo *badgerLocalHashes) ReadAllFields(ctx context.Context, key string) (res map[string]string, resErr error) {
	defer func(ts time.Time) {
		repo.metrics.requestsCnt.Inc()
		repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch {
		case resErr != nil:
			repo.metrics.errProcessCnt.Inc()
		case len(res) == 0:
			repo.metrics.successProcessCnt.Inc()
			repo.metrics.keyMissesCnt.Inc()
		default:
			repo.metrics.successProcessCnt.Inc()
			repo.metrics.keyHitsCnt.Inc()
		}
	}(time.Now())

	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("checking context: %w", err)
	}

	prefix := hashPrefix(key)
	res = map[string]string{}

	if err := repo.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			field := string(bytes.TrimPrefix(item.Key(), prefix))

			if err := item.Value(func(val []byte) error {
				res[field] = string(val)
				return nil
			}); err != nil {
				return fmt.Errorf("getting value of %s: %w", field, err)
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("performing view txn: %w", err)
	}

	return res, nil
}

func (repo *badgerLocalHashes) SetFields(ctx context.Context, key string, fields map[string]string) (resErr error) {
	defer repo.observe(time.Now(), &resErr)

	if err := model.ValidateSetFields(key, fields); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("checking context: %w", err)
	}

	if err := repo.db.Update(func(txn *badger.Txn) error {
		for field, val := range fields {
			if err := txn.Set(fieldKey(key, field), []byte(val)); err != nil {
				return fmt.Errorf("setting field %s: %w", field, err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("performing upd txn: %w", err)
	}

	return nil
}

func (repo *badgerLocalHashes) DeleteFields(ctx context.Context, key string, fields []string) (resErr error) {
	defer repo.observe(time.Now(), &resErr)

	if err := model.ValidateDeleteFields(key, fields); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("checking context: %w", err)
	}

	if err := repo.db.Update(func(txn *badger.Txn) error {
		for _, field := range fields {
			if err := txn.Delete(fieldKey(key, field)); err != nil {
				return fmt.Errorf("deleting field %s: %w", field, err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("performing del txn: %w", err)
	}

	return nil
}

func (repo *badgerLocalHashes) DeleteKey(ctx context.Context, key string) (resErr error) {
	defer repo.observe(time.Now(), &resErr)

	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("checking context: %w", err)
	}

	prefix := hashPrefix(key)

	if err := repo.db.Update(func(txn *badger.Txn) error {
		keys := [][]byte{}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return fmt.Errorf("deleting item: %w", err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("performing del txn: %w", err)
	}

	return nil
}

func (repo *badgerLocalHashes) observe(ts time.Time, resErr *error) {
	repo.metrics.requestsCnt.Inc()
	repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

	switch *resErr {
	case nil:
		repo.metrics.successProcessCnt.Inc()
	default:
		repo.metrics.errProcessCnt.Inc()
	}
}

func validateKey(key string) error {
	if err := model.ValidateKey(key); err != nil {
		return err
	}
	if bytes.IndexByte([]byte(key), fieldSep) >= 0 {
		return model.InvalidArgumentError{Arg: "key", Reason: "contains NUL byte"}
	}
	return nil
}

func hashPrefix(key string) []byte {
	return append([]byte(key), fieldSep)
}

func fieldKey(key, field string) []byte {
	return append(hashPrefix(key), field...)
}
