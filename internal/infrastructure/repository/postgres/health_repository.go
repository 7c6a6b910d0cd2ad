package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/health"
	qb "github.com/riskibarqy/pinball-leaderboard/internal/platform/querybuilder"
)

const getDataCountsQuery = `
SELECT
	(SELECT COUNT(*) FROM players) AS total_players,
	(SELECT COUNT(*) FROM machines WHERE is_active = true) AS active_machines,
	(SELECT COUNT(*) FROM high_scores_archive) AS total_scores,
	(SELECT COUNT(*) FROM leaderboard_cache) AS leaderboard_entries`

type pinger interface {
	PingContext(ctx context.Context) error
}

type HealthRepository struct {
	db     queryer
	pinger pinger
}

func NewHealthRepository(db *sqlx.DB) *HealthRepository {
	return &HealthRepository{db: db, pinger: db}
}

func (r *HealthRepository) Ping(ctx context.Context) error {
	if err := r.pinger.PingContext(ctx); err != nil {
		return crerr.Wrap(err, "ping database")
	}
	return nil
}

// CountRows counts rows of one of the known diagnostic tables. A missing table
// is reported as health.ErrTableMissing.
func (r *HealthRepository) CountRows(ctx context.Context, table string) (int64, error) {
	if !isDiagnosticTable(table) {
		return 0, crerr.Newf("table %q is not a diagnostic table", table)
	}

	query, args, err := qb.Select("COUNT(*)").From(pq.QuoteIdentifier(table)).ToSQL()
	if err != nil {
		return 0, crerr.Wrapf(err, "build count %s query", table)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		if isUndefinedTable(err) {
			return 0, crerr.Mark(crerr.Wrapf(err, "count %s", table), health.ErrTableMissing)
		}
		return 0, crerr.Wrapf(err, "count %s", table)
	}
	return count, nil
}

func (r *HealthRepository) GetActiveEvent(ctx context.Context) (health.ActiveEvent, bool, error) {
	row, ok, err := findActiveEvent(ctx, r.db)
	if err != nil || !ok {
		return health.ActiveEvent{}, ok, err
	}
	return health.ActiveEvent{Code: row.EventCode, Name: nullStringValue(row.EventName)}, true, nil
}

func (r *HealthRepository) GetDataCounts(ctx context.Context) (health.DataCounts, error) {
	var row dataCountsRowModel
	if err := r.db.GetContext(ctx, &row, getDataCountsQuery); err != nil {
		return health.DataCounts{}, crerr.Wrap(err, "get data counts")
	}
	return health.DataCounts{
		TotalPlayers:       row.TotalPlayers,
		ActiveMachines:     row.ActiveMachines,
		TotalScores:        row.TotalScores,
		LeaderboardEntries: row.LeaderboardEntries,
	}, nil
}

func isDiagnosticTable(table string) bool {
	for _, t := range health.Tables {
		if t == table {
			return true
		}
	}
	return false
}
