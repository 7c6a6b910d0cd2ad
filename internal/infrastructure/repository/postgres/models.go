package postgres

import (
	"database/sql"
	"time"
)

type eventTableModel struct {
	EventCode string         `db:"event_code"`
	EventName sql.NullString `db:"event_name"`
}

type standingRowModel struct {
	Rank         int           `db:"rank"`
	Name         string        `db:"name"`
	Score        int64         `db:"score"`
	GamesPlayed  int           `db:"games_played"`
	PreviousRank sql.NullInt64 `db:"previous_rank"`
}

type rankedRowModel struct {
	Rank  int    `db:"rank"`
	Name  string `db:"name"`
	Score int64  `db:"score"`
}

type viewStandingRowModel struct {
	Rank           int            `db:"rank"`
	Name           string         `db:"name"`
	Score          int64          `db:"score"`
	GamesPlayed    sql.NullInt64  `db:"games_played"`
	Trend          sql.NullString `db:"trend"`
	TrendPositions sql.NullInt64  `db:"trend_positions"`
}

type championRowModel struct {
	Name     string `db:"name"`
	Champion string `db:"champion"`
	Score    int64  `db:"score"`
}

type activityRowModel struct {
	Player         string    `db:"player"`
	Game           string    `db:"game"`
	Score          int64     `db:"score"`
	PlayedAt       time.Time `db:"played_at"`
	IsPersonalBest bool      `db:"is_personal_best"`
}

type statisticsRowModel struct {
	GamesThisWeek   int64          `db:"games_this_week"`
	GamesThisMonth  int64          `db:"games_this_month"`
	ActivePlayers   int64          `db:"active_players"`
	AverageScore    sql.NullInt64  `db:"average_score"`
	MostPopularGame sql.NullString `db:"most_popular_game"`
	BusiestDay      sql.NullString `db:"busiest_day"`
}

type dataCountsRowModel struct {
	TotalPlayers       int64 `db:"total_players"`
	ActiveMachines     int64 `db:"active_machines"`
	TotalScores        int64 `db:"total_scores"`
	LeaderboardEntries int64 `db:"leaderboard_entries"`
}
