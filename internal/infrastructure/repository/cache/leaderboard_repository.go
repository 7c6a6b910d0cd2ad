package cache

import (
	"context"
	"strconv"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
	basecache "github.com/riskibarqy/pinball-leaderboard/internal/platform/cache"
)

// LeaderboardRepository serves reads from a cache backend and falls through
// to next on a miss.
type LeaderboardRepository struct {
	next  leaderboard.Repository
	cache basecache.Backend
}

func NewLeaderboardRepository(next leaderboard.Repository, cache basecache.Backend) *LeaderboardRepository {
	return &LeaderboardRepository{next: next, cache: cache}
}

func (r *LeaderboardRepository) ListTop(ctx context.Context, limit int) ([]leaderboard.Standing, error) {
	items, err := getOrLoad(ctx, r.cache, "leaderboard:top:"+strconv.Itoa(limit), func(ctx context.Context) ([]leaderboard.Standing, error) {
		return r.next.ListTop(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return append([]leaderboard.Standing(nil), items...), nil
}

func (r *LeaderboardRepository) ListAll(ctx context.Context) ([]leaderboard.Standing, error) {
	items, err := getOrLoad(ctx, r.cache, "leaderboard:all", r.next.ListAll)
	if err != nil {
		return nil, err
	}
	return append([]leaderboard.Standing(nil), items...), nil
}

func (r *LeaderboardRepository) ListChampions(ctx context.Context) ([]leaderboard.Champion, error) {
	items, err := getOrLoad(ctx, r.cache, "leaderboard:champions", r.next.ListChampions)
	if err != nil {
		return nil, err
	}
	return append([]leaderboard.Champion(nil), items...), nil
}

func (r *LeaderboardRepository) ListRecentActivity(ctx context.Context, limit int) ([]leaderboard.Activity, error) {
	items, err := getOrLoad(ctx, r.cache, "leaderboard:recent:"+strconv.Itoa(limit), func(ctx context.Context) ([]leaderboard.Activity, error) {
		return r.next.ListRecentActivity(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return append([]leaderboard.Activity(nil), items...), nil
}

func (r *LeaderboardRepository) GetStatistics(ctx context.Context) (leaderboard.Statistics, bool, error) {
	cached, err := getOrLoad(ctx, r.cache, "leaderboard:statistics", func(ctx context.Context) (cachedStatistics, error) {
		stats, exists, err := r.next.GetStatistics(ctx)
		if err != nil {
			return cachedStatistics{}, err
		}
		return cachedStatistics{Value: stats, Exists: exists}, nil
	})
	if err != nil {
		return leaderboard.Statistics{}, false, err
	}
	return cached.Value, cached.Exists, nil
}

type cachedStatistics struct {
	Value  leaderboard.Statistics
	Exists bool
}

// getOrLoad accepts either the loaded value itself (in-process store) or its
// JSON encoding (redis store).
func getOrLoad[T any](ctx context.Context, backend basecache.Backend, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	v, err := backend.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return zero, err
	}

	switch value := v.(type) {
	case T:
		return value, nil
	case []byte:
		var out T
		if err := sonic.Unmarshal(value, &out); err != nil {
			return zero, crerr.Wrapf(err, "decode cached %s", key)
		}
		return out, nil
	default:
		return zero, crerr.Newf("unexpected cached type %T for %s", v, key)
	}
}
