package cache

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/pinball-leaderboard/internal/platform/logging"
	"github.com/riskibarqy/pinball-leaderboard/internal/platform/resilience"
)

// RedisClient is the subset of *redis.Client the store needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisStore caches loader results as JSON documents in Redis. Hits return the
// raw []byte payload; callers decode it into their own type.
type RedisStore struct {
	client    RedisClient
	ttl       time.Duration
	keyPrefix string
	logger    *logging.Logger
	flight    resilience.SingleFlight
}

func NewRedisStore(client RedisClient, ttl time.Duration, keyPrefix string, logger *logging.Logger) *RedisStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisStore{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		logger:    logger,
		flight:    resilience.SingleFlight{Timeout: sharedLoadTimeout},
	}
}

func (s *RedisStore) GetOrLoad(ctx context.Context, key string, loader Loader) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" || s.client == nil {
		return loader(ctx)
	}

	fullKey := s.keyPrefix + key
	if payload, ok := s.get(ctx, fullKey); ok {
		return payload, nil
	}

	value, err, _ := s.flight.Do(ctx, fullKey, func(loadCtx context.Context) (any, error) {
		loaded, loadErr := loader(loadCtx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.set(loadCtx, fullKey, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// get treats every redis failure as a miss so the cache never fails a read.
func (s *RedisStore) get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return payload, true
}

func (s *RedisStore) set(ctx context.Context, key string, value any) {
	payload, err := sonic.Marshal(value)
	if err != nil {
		s.logger.WarnContext(ctx, "redis cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "redis cache set failed", "key", key, "error", err)
	}
}
