package health

import (
	"context"

	crerr "github.com/cockroachdb/errors"
)

// ErrTableMissing marks a count against a table that does not exist.
var ErrTableMissing = crerr.New("table does not exist")

// Tables are the store tables reported by diagnostics, in display order.
var Tables = []string{
	"events",
	"players",
	"machines",
	"high_scores_archive",
	"leaderboard_cache",
	"leaderboard_history",
}

type ActiveEvent struct {
	Code string
	Name string
}

type DataCounts struct {
	TotalPlayers       int64
	ActiveMachines     int64
	TotalScores        int64
	LeaderboardEntries int64
}

// TableCount is the row count of one table. Missing is set when the table does
// not exist; Err holds any other failure.
type TableCount struct {
	Table   string
	Rows    int64
	Missing bool
	Err     error
}

type Repository interface {
	Ping(ctx context.Context) error
	CountRows(ctx context.Context, table string) (int64, error)
	GetActiveEvent(ctx context.Context) (ActiveEvent, bool, error)
	GetDataCounts(ctx context.Context) (DataCounts, error)
}
