package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
)

func TestIsUndefinedTable(t *testing.T) {
	t.Run("matches pq error code", func(t *testing.T) {
		err := fmt.Errorf("count machines: %w", &pq.Error{Code: "42P01", Message: "relation \"machines\" does not exist"})
		if !isUndefinedTable(err) {
			t.Fatalf("expected true for 42P01")
		}
	})

	t.Run("matches driver message", func(t *testing.T) {
		err := fakeErr("pq: relation \"leaderboard_history\" does not exist")
		if !isUndefinedTable(err) {
			t.Fatalf("expected true for missing relation message")
		}
	})

	t.Run("ignores other pq errors", func(t *testing.T) {
		err := &pq.Error{Code: "57P01", Message: "terminating connection"}
		if isUndefinedTable(err) {
			t.Fatalf("expected false for admin shutdown")
		}
	})

	t.Run("ignores nil", func(t *testing.T) {
		if isUndefinedTable(nil) {
			t.Fatalf("expected false for nil")
		}
	})
}

func TestDataAccessError(t *testing.T) {
	if dataAccessError(nil, "noop") != nil {
		t.Fatalf("expected nil for nil error")
	}

	cause := fakeErr("pq: connection refused")
	err := dataAccessError(cause, "list standings")
	if !crerr.Is(err, leaderboard.ErrDataAccess) {
		t.Fatalf("expected error to be marked as data access failure")
	}
	if err.Error() != "list standings: pq: connection refused" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get active event: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("boom")) {
		t.Fatalf("expected unrelated error not to be not found")
	}
}

func TestNullInt64ToIntPtr(t *testing.T) {
	if nullInt64ToIntPtr(sql.NullInt64{}) != nil {
		t.Fatalf("expected nil for null value")
	}
	got := nullInt64ToIntPtr(sql.NullInt64{Int64: 4, Valid: true})
	if got == nil || *got != 4 {
		t.Fatalf("expected 4, got %v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

// fakeQueryer records statements and lets each test fill the destination.
type fakeQueryer struct {
	queries []string
	args    [][]any
	fill    func(dest any, query string) error
}

func (f *fakeQueryer) SelectContext(_ context.Context, dest any, query string, args ...any) error {
	return f.record(dest, query, args)
}

func (f *fakeQueryer) GetContext(_ context.Context, dest any, query string, args ...any) error {
	return f.record(dest, query, args)
}

func (f *fakeQueryer) record(dest any, query string, args []any) error {
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)
	if f.fill == nil {
		return nil
	}
	return f.fill(dest, query)
}
