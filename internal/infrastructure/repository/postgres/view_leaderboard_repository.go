package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
	qb "github.com/riskibarqy/pinball-leaderboard/internal/platform/querybuilder"
)

// ViewLeaderboardRepository reads the pre-aggregated views maintained in the
// database; trend and personal-best flags arrive already computed.
type ViewLeaderboardRepository struct {
	db queryer
}

func NewViewLeaderboardRepository(db *sqlx.DB) *ViewLeaderboardRepository {
	return &ViewLeaderboardRepository{db: db}
}

func (r *ViewLeaderboardRepository) ListTop(ctx context.Context, limit int) ([]leaderboard.Standing, error) {
	query, args, err := qb.SelectModel(viewStandingRowModel{}).
		From("leaderboard_current").
		Where(qb.Expr("rank <= ?", limit)).
		OrderBy("rank").
		ToSQL()
	if err != nil {
		return nil, dataAccessError(err, "build list top standings view query")
	}

	var rows []viewStandingRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, dataAccessError(err, "list top standings view")
	}

	out := make([]leaderboard.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Standing{
			Rank:           row.Rank,
			Name:           row.Name,
			Score:          row.Score,
			GamesPlayed:    int(row.GamesPlayed.Int64),
			Trend:          leaderboard.Trend(nullStringValue(row.Trend)),
			TrendPositions: int(row.TrendPositions.Int64),
		})
	}
	return out, nil
}

func (r *ViewLeaderboardRepository) ListAll(ctx context.Context) ([]leaderboard.Standing, error) {
	query, args, err := qb.SelectModel(rankedRowModel{}).
		From("leaderboard_current").
		OrderBy("rank").
		ToSQL()
	if err != nil {
		return nil, dataAccessError(err, "build list standings view query")
	}

	var rows []rankedRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, dataAccessError(err, "list standings view")
	}

	out := make([]leaderboard.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Standing{Rank: row.Rank, Name: row.Name, Score: row.Score})
	}
	return out, nil
}

func (r *ViewLeaderboardRepository) ListChampions(ctx context.Context) ([]leaderboard.Champion, error) {
	query, args, err := qb.SelectModel(championRowModel{}).
		From("game_champions").
		OrderBy("score DESC").
		ToSQL()
	if err != nil {
		return nil, dataAccessError(err, "build list champions view query")
	}

	var rows []championRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, dataAccessError(err, "list champions view")
	}
	return championsFromRows(rows), nil
}

func (r *ViewLeaderboardRepository) ListRecentActivity(ctx context.Context, limit int) ([]leaderboard.Activity, error) {
	query, args, err := qb.Select(
		"player",
		"game",
		"score",
		`"timestamp" AS played_at`,
		"COALESCE(is_personal_best, false) AS is_personal_best",
	).
		From("recent_activity").
		OrderBy(`"timestamp" DESC`).
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, dataAccessError(err, "build list recent activity view query")
	}

	var rows []activityRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, dataAccessError(err, "list recent activity view")
	}
	return activitiesFromRows(rows), nil
}

// GetStatistics reports exists=false when the view yields no row, which is
// how it represents a league without an active event.
func (r *ViewLeaderboardRepository) GetStatistics(ctx context.Context) (leaderboard.Statistics, bool, error) {
	query, args, err := qb.Select(
		"games_this_week",
		"games_this_month",
		"active_players",
		"average_score::bigint AS average_score",
		"most_popular_game",
		"TRIM(busiest_day) AS busiest_day",
	).
		From("league_statistics").
		Limit(1).
		ToSQL()
	if err != nil {
		return leaderboard.Statistics{}, false, dataAccessError(err, "build statistics view query")
	}

	var row statisticsRowModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return leaderboard.Statistics{}, false, nil
		}
		return leaderboard.Statistics{}, false, dataAccessError(err, "get statistics view")
	}
	return statisticsFromRow(row), true, nil
}
