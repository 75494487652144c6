package inmemory_local_hashes

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/horockey/dirtyhash/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
)

var _ model.Store = &inmemoryLocalHashes{}

type inmemoryLocalHashes struct {
	storage map[string]map[string]string
	mu      sync.RWMutex
	metrics *metrics
}

func New() *inmemoryLocalHashes {
	repo := inmemoryLocalHashes{
		storage: map[string]map[string]string{},
	}

	repo.metrics = newMetrics(&repo)

	return &repo
}

func (repo *inmemoryLocalHashes) Metrics() []prometheus.Collector {
	return repo.metrics.list()
}

func (repo *inmemoryLocalHashes) ReadAllFields(_ context.Context, key string) (res map[string]string, resErr error) {
	repo.metrics.getRequestsCnt.Inc()
	defer repo.observe(time.Now(), &resErr)

	if err := model.ValidateKey(key); err != nil {
		return nil, err
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	h, found := repo.storage[key]
	if !found {
		return map[string]string{}, nil
	}

	return maps.Clone(h), nil
}

func (repo *inmemoryLocalHashes) SetFields(_ context.Context, key string, fields map[string]string) (resErr error) {
	repo.metrics.setRequestsCnt.Inc()
	defer repo.observe(time.Now(), &resErr)

	if err := model.ValidateSetFields(key, fields); err != nil {
		return err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	h, found := repo.storage[key]
	if !found {
		h = make(map[string]string, len(fields))
		repo.storage[key] = h
	}
	maps.Copy(h, fields)

	return nil
}

func (repo *inmemoryLocalHashes) DeleteFields(_ context.Context, key string, fields []string) (resErr error) {
	repo.metrics.delRequestsCnt.Inc()
	defer repo.observe(time.Now(), &resErr)

	if err := model.ValidateDeleteFields(key, fields); err != nil {
		return err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	h, found := repo.storage[key]
	if !found {
		return nil
	}

	repo.storage[key] = lo.OmitByKeys(h, fields)
	// redis drops hashes with no fields left
	if len(repo.storage[key]) == 0 {
		delete(repo.storage, key)
	}

	return nil
}

func (repo *inmemoryLocalHashes) DeleteKey(_ context.Context, key string) (resErr error) {
	repo.metrics.delRequestsCnt.Inc()
	defer repo.observe(time.Now(), &resErr)

	if err := model.ValidateKey(key); err != nil {
		return err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	delete(repo.storage, key)
	return nil
}

func (repo *inmemoryLocalHashes) observe(ts time.Time, resErr *error) {
	repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))
	switch *resErr {
	case nil:
		repo.metrics.successProcessCnt.Inc()
	default:
		repo.metrics.errProcessCnt.Inc()
	}
}
