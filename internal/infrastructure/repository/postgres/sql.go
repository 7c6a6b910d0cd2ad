package postgres

import (
	"context"
	"database/sql"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
)

const pqUndefinedTable = pq.ErrorCode("42P01")

// queryer is the read surface of *sqlx.DB used by the repositories.
type queryer interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

func isNotFound(err error) bool {
	return crerr.Is(err, sql.ErrNoRows)
}

func isUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if crerr.As(err, &pqErr) {
		return pqErr.Code == pqUndefinedTable
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "42p01") || (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"))
}

// dataAccessError wraps err with op and marks it as a leaderboard data access failure.
func dataAccessError(err error, op string) error {
	if err == nil {
		return nil
	}
	return crerr.Mark(crerr.Wrap(err, op), leaderboard.ErrDataAccess)
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func nullStringValue(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return strings.TrimSpace(v.String)
}
