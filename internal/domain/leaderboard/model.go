package leaderboard

import "time"

// Trend describes how a player's rank moved against their previous sample.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Event is a league period; at most one is active at a time.
type Event struct {
	Code     string
	Name     string
	IsActive bool
}

type Player struct {
	ID          int64
	DisplayName string
}

type Machine struct {
	ID       int64
	Name     string
	IsActive bool
}

// ScoreRecord is one archived high score. Records are append-only.
type ScoreRecord struct {
	ID        int64
	PlayerID  int64
	MachineID int64
	EventCode string
	Score     int64
	SetAt     time.Time
}

// RankSample is a historical rank snapshot for one player.
type RankSample struct {
	PlayerID   int64
	Rank       int
	RecordedAt time.Time
}

// Standing is one leaderboard row. PreviousRank is nil when no earlier sample
// exists inside the lookback window.
type Standing struct {
	Rank           int
	Name           string
	Score          int64
	GamesPlayed    int
	PreviousRank   *int
	Trend          Trend
	TrendPositions int
}

// Champion is the top scorer on one active machine.
type Champion struct {
	Machine string
	Player  string
	Score   int64
}

type Activity struct {
	Player         string
	Game           string
	Score          int64
	PlayedAt       time.Time
	IsPersonalBest bool
}

// Statistics summarises the active event.
type Statistics struct {
	GamesThisWeek   int64
	GamesThisMonth  int64
	ActivePlayers   int64
	AverageScore    int64
	MostPopularGame string
	BusiestDay      string
}
