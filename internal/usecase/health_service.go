package usecase

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/iter"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/health"
)

// Diagnostics describes the store as seen by the service. Failures after the
// connection check are reported per section instead of failing the whole report.
type Diagnostics struct {
	Connected      bool
	ConnectionErr  error
	Tables         []health.TableCount
	ActiveEvent    *health.ActiveEvent
	ActiveEventErr error
	DataCounts     *health.DataCounts
	DataCountsErr  error
}

type HealthService struct {
	repo health.Repository
}

func NewHealthService(repo health.Repository) *HealthService {
	return &HealthService{repo: repo}
}

func (s *HealthService) Check(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.HealthService.Check")
	defer span.End()

	if err := s.repo.Ping(ctx); err != nil {
		return recordFailure(span, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err))
	}
	return nil
}

// Diagnostics returns an error only when the store cannot be reached; the
// returned report is populated either way.
func (s *HealthService) Diagnostics(ctx context.Context) (Diagnostics, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HealthService.Diagnostics")
	defer span.End()

	var out Diagnostics
	if err := s.repo.Ping(ctx); err != nil {
		out.ConnectionErr = err
		return out, recordFailure(span, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err))
	}
	out.Connected = true

	out.Tables = iter.Map(health.Tables, func(table *string) health.TableCount {
		rows, err := s.repo.CountRows(ctx, *table)
		switch {
		case err == nil:
			return health.TableCount{Table: *table, Rows: rows}
		case crerr.Is(err, health.ErrTableMissing):
			return health.TableCount{Table: *table, Missing: true, Err: err}
		default:
			return health.TableCount{Table: *table, Err: err}
		}
	})

	event, ok, err := s.repo.GetActiveEvent(ctx)
	switch {
	case err != nil:
		out.ActiveEventErr = err
	case ok:
		out.ActiveEvent = &event
	}

	counts, err := s.repo.GetDataCounts(ctx)
	if err != nil {
		out.DataCountsErr = err
	} else {
		out.DataCounts = &counts
	}

	return out, nil
}
