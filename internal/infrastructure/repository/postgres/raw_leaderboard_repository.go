package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
	qb "github.com/riskibarqy/pinball-leaderboard/internal/platform/querybuilder"
)

// The previous rank is the sample right after the newest one within the
// lookback window, taken per player via LEAD over descending recorded_at.
const listTopStandingsQuery = `
WITH current_rankings AS (
	SELECT
		lc.player_id,
		p.display_name,
		lc.combined_score,
		ROW_NUMBER() OVER (ORDER BY lc.combined_score DESC) AS rank
	FROM leaderboard_cache lc
	JOIN players p ON lc.player_id = p.player_id
),
player_games AS (
	SELECT player_id, COUNT(DISTINCT machine_id) AS games_played
	FROM high_scores_archive
	WHERE event_code = (SELECT event_code FROM events WHERE is_active = true LIMIT 1)
	GROUP BY player_id
),
rank_history AS (
	SELECT player_id, previous_rank
	FROM (
		SELECT
			player_id,
			LEAD(current_rank) OVER (PARTITION BY player_id ORDER BY recorded_at DESC) AS previous_rank,
			ROW_NUMBER() OVER (PARTITION BY player_id ORDER BY recorded_at DESC) AS rn
		FROM leaderboard_history
		WHERE recorded_at >= NOW() - INTERVAL '7 days'
	) samples
	WHERE samples.rn = 1
)
SELECT
	cr.rank,
	cr.display_name AS name,
	cr.combined_score AS score,
	COALESCE(pg.games_played, 0) AS games_played,
	rh.previous_rank
FROM current_rankings cr
LEFT JOIN player_games pg ON cr.player_id = pg.player_id
LEFT JOIN rank_history rh ON cr.player_id = rh.player_id
ORDER BY cr.rank
LIMIT $1`

const listChampionsQuery = `
WITH ranked_scores AS (
	SELECT
		player_id,
		machine_id,
		high_score,
		ROW_NUMBER() OVER (PARTITION BY machine_id ORDER BY high_score DESC) AS rn
	FROM high_scores_archive
	WHERE event_code = $1
)
SELECT
	m.machine_name AS name,
	p.display_name AS champion,
	rs.high_score AS score
FROM ranked_scores rs
JOIN machines m ON rs.machine_id = m.machine_id
JOIN players p ON rs.player_id = p.player_id
WHERE rs.rn = 1 AND m.is_active = true
ORDER BY rs.high_score DESC`

const listRecentActivityQuery = `
WITH personal_bests AS (
	SELECT player_id, machine_id, MAX(high_score) AS best_score
	FROM high_scores_archive
	WHERE event_code = $1
	GROUP BY player_id, machine_id
)
SELECT
	p.display_name AS player,
	m.machine_name AS game,
	h.high_score AS score,
	h.date_set AS played_at,
	(h.high_score = pb.best_score) AS is_personal_best
FROM high_scores_archive h
JOIN players p ON h.player_id = p.player_id
JOIN machines m ON h.machine_id = m.machine_id
JOIN personal_bests pb ON h.player_id = pb.player_id AND h.machine_id = pb.machine_id
WHERE h.event_code = $1
ORDER BY h.date_set DESC
LIMIT $2`

// Every aggregate is scoped to the active event passed as $1.
const getStatisticsQuery = `
WITH event_scores AS (
	SELECT player_id, machine_id, high_score, date_set
	FROM high_scores_archive
	WHERE event_code = $1
)
SELECT
	(SELECT COUNT(*) FROM event_scores WHERE date_set >= NOW() - INTERVAL '7 days') AS games_this_week,
	(SELECT COUNT(*) FROM event_scores WHERE date_set >= NOW() - INTERVAL '30 days') AS games_this_month,
	(SELECT COUNT(DISTINCT player_id) FROM event_scores) AS active_players,
	(SELECT AVG(high_score)::bigint FROM event_scores) AS average_score,
	(
		SELECT m.machine_name
		FROM event_scores es
		JOIN machines m ON es.machine_id = m.machine_id
		GROUP BY m.machine_name
		ORDER BY COUNT(*) DESC
		LIMIT 1
	) AS most_popular_game,
	(
		SELECT TRIM(TO_CHAR(date_set, 'Day'))
		FROM event_scores
		GROUP BY TO_CHAR(date_set, 'Day'), EXTRACT(DOW FROM date_set)
		ORDER BY COUNT(*) DESC
		LIMIT 1
	) AS busiest_day`

// RawLeaderboardRepository aggregates directly over the fact tables.
type RawLeaderboardRepository struct {
	db queryer
}

func NewRawLeaderboardRepository(db *sqlx.DB) *RawLeaderboardRepository {
	return &RawLeaderboardRepository{db: db}
}

func (r *RawLeaderboardRepository) ListTop(ctx context.Context, limit int) ([]leaderboard.Standing, error) {
	var rows []standingRowModel
	if err := r.db.SelectContext(ctx, &rows, listTopStandingsQuery, limit); err != nil {
		return nil, dataAccessError(err, "list top standings")
	}

	out := make([]leaderboard.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Standing{
			Rank:         row.Rank,
			Name:         row.Name,
			Score:        row.Score,
			GamesPlayed:  row.GamesPlayed,
			PreviousRank: nullInt64ToIntPtr(row.PreviousRank),
		})
	}
	return out, nil
}

func (r *RawLeaderboardRepository) ListAll(ctx context.Context) ([]leaderboard.Standing, error) {
	query, args, err := qb.Select(
		"ROW_NUMBER() OVER (ORDER BY lc.combined_score DESC) AS rank",
		"p.display_name AS name",
		"lc.combined_score AS score",
	).
		From("leaderboard_cache lc").
		Join("players p", "lc.player_id = p.player_id").
		OrderBy("lc.combined_score DESC").
		ToSQL()
	if err != nil {
		return nil, dataAccessError(err, "build list standings query")
	}

	var rows []rankedRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, dataAccessError(err, "list standings")
	}

	out := make([]leaderboard.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Standing{Rank: row.Rank, Name: row.Name, Score: row.Score})
	}
	return out, nil
}

func (r *RawLeaderboardRepository) ListChampions(ctx context.Context) ([]leaderboard.Champion, error) {
	event, ok, err := findActiveEvent(ctx, r.db)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []leaderboard.Champion{}, nil
	}

	var rows []championRowModel
	if err := r.db.SelectContext(ctx, &rows, listChampionsQuery, event.EventCode); err != nil {
		return nil, dataAccessError(err, "list game champions")
	}
	return championsFromRows(rows), nil
}

func (r *RawLeaderboardRepository) ListRecentActivity(ctx context.Context, limit int) ([]leaderboard.Activity, error) {
	event, ok, err := findActiveEvent(ctx, r.db)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []leaderboard.Activity{}, nil
	}

	var rows []activityRowModel
	if err := r.db.SelectContext(ctx, &rows, listRecentActivityQuery, event.EventCode, limit); err != nil {
		return nil, dataAccessError(err, "list recent activity")
	}
	return activitiesFromRows(rows), nil
}

func (r *RawLeaderboardRepository) GetStatistics(ctx context.Context) (leaderboard.Statistics, bool, error) {
	event, ok, err := findActiveEvent(ctx, r.db)
	if err != nil {
		return leaderboard.Statistics{}, false, err
	}
	if !ok {
		return leaderboard.Statistics{}, false, nil
	}

	var row statisticsRowModel
	if err := r.db.GetContext(ctx, &row, getStatisticsQuery, event.EventCode); err != nil {
		return leaderboard.Statistics{}, false, dataAccessError(err, "get statistics")
	}
	return statisticsFromRow(row), true, nil
}

func findActiveEvent(ctx context.Context, db queryer) (eventTableModel, bool, error) {
	query, args, err := qb.SelectModel(eventTableModel{}).
		From("events").
		Where(qb.Eq("is_active", true)).
		Limit(1).
		ToSQL()
	if err != nil {
		return eventTableModel{}, false, dataAccessError(err, "build active event query")
	}

	var row eventTableModel
	if err := db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return eventTableModel{}, false, nil
		}
		return eventTableModel{}, false, dataAccessError(err, "get active event")
	}
	return row, true, nil
}

func championsFromRows(rows []championRowModel) []leaderboard.Champion {
	out := make([]leaderboard.Champion, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Champion{Machine: row.Name, Player: row.Champion, Score: row.Score})
	}
	return out
}

func activitiesFromRows(rows []activityRowModel) []leaderboard.Activity {
	out := make([]leaderboard.Activity, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Activity{
			Player:         row.Player,
			Game:           row.Game,
			Score:          row.Score,
			PlayedAt:       row.PlayedAt,
			IsPersonalBest: row.IsPersonalBest,
		})
	}
	return out
}

func statisticsFromRow(row statisticsRowModel) leaderboard.Statistics {
	return leaderboard.NormalizeStatistics(leaderboard.Statistics{
		GamesThisWeek:   row.GamesThisWeek,
		GamesThisMonth:  row.GamesThisMonth,
		ActivePlayers:   row.ActivePlayers,
		AverageScore:    row.AverageScore.Int64,
		MostPopularGame: nullStringValue(row.MostPopularGame),
		BusiestDay:      nullStringValue(row.BusiestDay),
	})
}
