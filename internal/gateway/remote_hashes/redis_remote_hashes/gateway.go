package redis_remote_hashes

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/horockey/dirtyhash/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

var _ model.Store = &redisRemoteHashes{}

// Redis hash commands over any redis.Cmdable (client, ring or cluster).
// The v6 client has no per-command context, so ctx is only checked before each call.
type redisRemoteHashes struct {
	cl      redis.Cmdable
	metrics *metrics
	logger  zerolog.Logger
}

func New(cl redis.Cmdable, logger zerolog.Logger) *redisRemoteHashes {
	return &redisRemoteHashes{
		cl:      cl,
		metrics: newMetrics(),
		logger:  logger,
	}
}

func (gw *redisRemoteHashes) Metrics() []prometheus.Collector {
	return gw.metrics.list()
}

func (gw *redisRemoteHashes) ReadAllFields(ctx context.Context, key string) (res map[string]string, resErr error) {
	gw.logger.Debug().Str("key", key).Msg("HGETALL")
	defer gw.observe(time.Now(), &resErr)

	if err := model.ValidateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("checking context: %w", err)
	}

	res, err := gw.cl.HGetAll(key).Result()
	if err != nil {
		return nil, fmt.Errorf("executing HGETALL: %w", err)
	}
	if res == nil {
		res = map[string]string{}
	}

	return res, nil
}

func (gw *redisRemoteHashes) SetFields(ctx context.Context, key string, fields map[string]string) (resErr error) {
	gw.logger.Debug().Str("key", key).Int("fields", len(fields)).Msg("HMSET")
	defer gw.observe(time.Now(), &resErr)

	if err := model.ValidateSetFields(key, fields); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("checking context: %w", err)
	}

	args := lo.MapValues(fields, func(v string, _ string) any { return v })
	if err := gw.cl.HMSet(key, args).Err(); err != nil {
		return fmt.Errorf("executing HMSET: %w", err)
	}

	return nil
}

func (gw *redisRemoteHashes) DeleteFields(ctx context.Context, key string, fields []string) (resErr error) {
	gw.logger.Debug().Str("key", key).Strs("fields", fields).Msg("HDEL")
	defer gw.observe(time.Now(), &resErr)

	if err := model.ValidateDeleteFields(key, fields); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("checking context: %w", err)
	}

	if err := gw.cl.HDel(key, fields...).Err(); err != nil {
		return fmt.Errorf("executing HDEL: %w", err)
	}

	return nil
}

func (gw *redisRemoteHashes) DeleteKey(ctx context.Context, key string) (resErr error) {
	gw.logger.Debug().Str("key", key).Msg("DEL")
	defer gw.observe(time.Now(), &resErr)

	if err := model.ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("checking context: %w", err)
	}

	if err := gw.cl.Del(key).Err(); err != nil {
		return fmt.Errorf("executing DEL: %w", err)
	}

	return nil
}

func (gw *redisRemoteHashes) observe(ts time.Time, resErr *error) {
	gw.metrics.requestsCnt.Inc()
	gw.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

	switch *resErr {
	case nil:
		gw.metrics.successProcessCnt.Inc()
	default:
		gw.metrics.errProcessCnt.Inc()
	}
}
