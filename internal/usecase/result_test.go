package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindNone},
		{name: "dependency", err: fmt.Errorf("%w: ping", ErrDependencyUnavailable), want: KindUnavailable},
		{name: "marked data access", err: crerr.Mark(errors.New("pq: timeout"), leaderboard.ErrDataAccess), want: KindUnavailable},
		{name: "invalid input", err: fmt.Errorf("%w: limit", ErrInvalidInput), want: KindInvalidInput},
		{name: "not found", err: ErrNotFound, want: KindNotFound},
		{name: "canceled", err: fmt.Errorf("list: %w", context.Canceled), want: KindCanceled},
		{name: "unknown", err: errors.New("boom"), want: KindInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf()=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestResult_OrDefault(t *testing.T) {
	ok := Ok([]int{1, 2})
	if !ok.OK() || len(ok.OrDefault(nil)) != 2 {
		t.Fatalf("unexpected ok result: %+v", ok)
	}

	failed := Fail[[]int](ErrDependencyUnavailable)
	if failed.OK() || failed.Kind() != KindUnavailable {
		t.Fatalf("unexpected failed result: %+v", failed)
	}
	if got := failed.OrDefault([]int{}); got == nil || len(got) != 0 {
		t.Fatalf("expected default value, got %v", got)
	}
}
