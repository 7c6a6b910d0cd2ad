package memory

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/health"
)

// HealthRepository reports on the demo dataset held by a LeaderboardRepository.
type HealthRepository struct {
	source *LeaderboardRepository
}

func NewHealthRepository(source *LeaderboardRepository) *HealthRepository {
	return &HealthRepository{source: source}
}

func (r *HealthRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *HealthRepository) CountRows(ctx context.Context, table string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.source.mu.RLock()
	defer r.source.mu.RUnlock()

	data := r.source.data
	switch table {
	case "events":
		return int64(len(data.Events)), nil
	case "players":
		return int64(len(data.Players)), nil
	case "machines":
		return int64(len(data.Machines)), nil
	case "high_scores_archive":
		return int64(len(data.Scores)), nil
	case "leaderboard_cache":
		return int64(len(data.Leaderboard)), nil
	case "leaderboard_history":
		return int64(len(data.History)), nil
	default:
		return 0, crerr.Mark(crerr.Newf("count %s", table), health.ErrTableMissing)
	}
}

func (r *HealthRepository) GetActiveEvent(ctx context.Context) (health.ActiveEvent, bool, error) {
	if err := ctx.Err(); err != nil {
		return health.ActiveEvent{}, false, err
	}

	r.source.mu.RLock()
	defer r.source.mu.RUnlock()

	for _, e := range r.source.data.Events {
		if e.IsActive {
			return health.ActiveEvent{Code: e.Code, Name: e.Name}, true, nil
		}
	}
	return health.ActiveEvent{}, false, nil
}

func (r *HealthRepository) GetDataCounts(ctx context.Context) (health.DataCounts, error) {
	if err := ctx.Err(); err != nil {
		return health.DataCounts{}, err
	}

	r.source.mu.RLock()
	defer r.source.mu.RUnlock()

	data := r.source.data
	var active int64
	for _, m := range data.Machines {
		if m.IsActive {
			active++
		}
	}
	return health.DataCounts{
		TotalPlayers:       int64(len(data.Players)),
		ActiveMachines:     active,
		TotalScores:        int64(len(data.Scores)),
		LeaderboardEntries: int64(len(data.Leaderboard)),
	}, nil
}
