package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	mu      sync.Mutex
	values  map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	setKeys []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setKeys = append(f.setKeys, key)
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.values[key] = value.([]byte)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStore_MissStoresJSONAndHitReturnsBytes(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisStore(client, time.Minute, "pinball:", nil)

	loaded, err := store.GetOrLoad(context.Background(), "champions", func(context.Context) (any, error) {
		return []string{"Medieval Madness"}, nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Medieval Madness"}, loaded)
	require.Equal(t, `["Medieval Madness"]`, string(client.values["pinball:champions"]))
	require.Equal(t, time.Minute, client.ttls["pinball:champions"])

	hit, err := store.GetOrLoad(context.Background(), "champions", func(context.Context) (any, error) {
		t.Fatalf("loader must not run on a hit")
		return nil, nil
	})
	require.NoError(t, err)
	require.Equal(t, []byte(`["Medieval Madness"]`), hit)
}

func TestRedisStore_RedisFailureFallsBackToLoader(t *testing.T) {
	client := newFakeRedis()
	client.getErr = errors.New("connection refused")
	client.setErr = errors.New("connection refused")
	store := NewRedisStore(client, time.Minute, "", nil)

	v, err := store.GetOrLoad(context.Background(), "stats", func(context.Context) (any, error) {
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, v)
	require.Equal(t, []string{"stats"}, client.setKeys)
}

func TestRedisStore_LoaderErrorIsNotCached(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisStore(client, time.Minute, "", nil)
	loadErr := errors.New("db down")

	_, err := store.GetOrLoad(context.Background(), "stats", func(context.Context) (any, error) {
		return nil, loadErr
	})
	require.ErrorIs(t, err, loadErr)
	require.Empty(t, client.setKeys)
}

func TestRedisStore_LoadOutlivesCanceledCaller(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisStore(client, time.Minute, "pinball:", nil)

	started := make(chan struct{})
	release := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := store.GetOrLoad(ctx, "statistics", func(loadCtx context.Context) (any, error) {
			close(started)
			<-release
			return map[string]int{"active_players": 3}, loadCtx.Err()
		})
		errCh <- err
	}()
	<-started

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
	close(release)

	require.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		_, ok := client.values["pinball:statistics"]
		return ok
	}, time.Second, 5*time.Millisecond)
}
