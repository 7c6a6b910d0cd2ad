package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
)

// RecentActivity is an Activity with its age relative to the request time.
type RecentActivity struct {
	leaderboard.Activity
	MinutesAgo int64
}

type LeaderboardService struct {
	repo leaderboard.Repository
	now  func() time.Time
}

func NewLeaderboardService(repo leaderboard.Repository, now func() time.Time) *LeaderboardService {
	if now == nil {
		now = time.Now
	}
	return &LeaderboardService{repo: repo, now: now}
}

func (s *LeaderboardService) Top10(ctx context.Context) Result[[]leaderboard.Standing] {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Top10")
	defer span.End()

	items, err := s.repo.ListTop(ctx, leaderboard.TopLimit)
	if err != nil {
		return Fail[[]leaderboard.Standing](recordFailure(span, unavailable("list top standings", err)))
	}
	if len(items) > leaderboard.TopLimit {
		items = items[:leaderboard.TopLimit]
	}

	out := make([]leaderboard.Standing, len(items))
	copy(out, items)
	leaderboard.ApplyTrends(out)
	recordRows(span, len(out))
	return Ok(out)
}

func (s *LeaderboardService) FullLeaderboard(ctx context.Context) Result[[]leaderboard.Standing] {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.FullLeaderboard")
	defer span.End()

	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return Fail[[]leaderboard.Standing](recordFailure(span, unavailable("list standings", err)))
	}

	out := make([]leaderboard.Standing, 0, len(items))
	for _, item := range items {
		out = append(out, leaderboard.Standing{Rank: item.Rank, Name: item.Name, Score: item.Score})
	}
	recordRows(span, len(out))
	return Ok(out)
}

func (s *LeaderboardService) GameChampions(ctx context.Context) Result[[]leaderboard.Champion] {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GameChampions")
	defer span.End()

	items, err := s.repo.ListChampions(ctx)
	if err != nil {
		return Fail[[]leaderboard.Champion](recordFailure(span, unavailable("list game champions", err)))
	}
	recordRows(span, len(items))
	return Ok(append(make([]leaderboard.Champion, 0, len(items)), items...))
}

func (s *LeaderboardService) RecentActivity(ctx context.Context) Result[[]RecentActivity] {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.RecentActivity")
	defer span.End()

	items, err := s.repo.ListRecentActivity(ctx, leaderboard.RecentActivityLimit)
	if err != nil {
		return Fail[[]RecentActivity](recordFailure(span, unavailable("list recent activity", err)))
	}
	if len(items) > leaderboard.RecentActivityLimit {
		items = items[:leaderboard.RecentActivityLimit]
	}

	now := s.now()
	out := make([]RecentActivity, 0, len(items))
	for _, item := range items {
		out = append(out, RecentActivity{
			Activity:   item,
			MinutesAgo: leaderboard.MinutesAgo(item.PlayedAt, now),
		})
	}
	recordRows(span, len(out))
	return Ok(out)
}

// Statistics yields EmptyStatistics when the store has nothing for the active event.
func (s *LeaderboardService) Statistics(ctx context.Context) Result[leaderboard.Statistics] {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Statistics")
	defer span.End()

	stats, exists, err := s.repo.GetStatistics(ctx)
	if err != nil {
		return Fail[leaderboard.Statistics](recordFailure(span, unavailable("get statistics", err)))
	}
	if !exists {
		return Ok(leaderboard.EmptyStatistics())
	}
	return Ok(leaderboard.NormalizeStatistics(stats))
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
}
