package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
)

type stubLeaderboardRepo struct {
	top        []leaderboard.Standing
	all        []leaderboard.Standing
	champions  []leaderboard.Champion
	activity   []leaderboard.Activity
	stats      leaderboard.Statistics
	statsFound bool
	err        error

	gotTopLimit    int
	gotRecentLimit int
}

func (s *stubLeaderboardRepo) ListTop(_ context.Context, limit int) ([]leaderboard.Standing, error) {
	s.gotTopLimit = limit
	return s.top, s.err
}

func (s *stubLeaderboardRepo) ListAll(context.Context) ([]leaderboard.Standing, error) {
	return s.all, s.err
}

func (s *stubLeaderboardRepo) ListChampions(context.Context) ([]leaderboard.Champion, error) {
	return s.champions, s.err
}

func (s *stubLeaderboardRepo) ListRecentActivity(_ context.Context, limit int) ([]leaderboard.Activity, error) {
	s.gotRecentLimit = limit
	return s.activity, s.err
}

func (s *stubLeaderboardRepo) GetStatistics(context.Context) (leaderboard.Statistics, bool, error) {
	return s.stats, s.statsFound, s.err
}

var serviceNow = time.Date(2024, 3, 15, 21, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func TestLeaderboardService_Top10ComputesMissingTrends(t *testing.T) {
	repo := &stubLeaderboardRepo{top: []leaderboard.Standing{
		{Rank: 1, Name: "P2", Score: 590, PreviousRank: intPtr(3)},
		{Rank: 2, Name: "P1", Score: 100, PreviousRank: intPtr(1)},
		{Rank: 3, Name: "P3", Score: 90},
		{Rank: 4, Name: "P4", Score: 80, Trend: leaderboard.TrendUp, TrendPositions: 5},
	}}
	svc := NewLeaderboardService(repo, func() time.Time { return serviceNow })

	res := svc.Top10(context.Background())
	if !res.OK() {
		t.Fatalf("Top10 error: %v", res.Err)
	}
	if repo.gotTopLimit != 10 {
		t.Fatalf("expected limit 10, got %d", repo.gotTopLimit)
	}

	want := []struct {
		trend leaderboard.Trend
		delta int
	}{
		{leaderboard.TrendUp, 2},
		{leaderboard.TrendDown, 1},
		{leaderboard.TrendNeutral, 0},
		{leaderboard.TrendUp, 5},
	}
	for i, w := range want {
		if res.Data[i].Trend != w.trend || res.Data[i].TrendPositions != w.delta {
			t.Fatalf("standing %d: got (%s,%d) want (%s,%d)", i, res.Data[i].Trend, res.Data[i].TrendPositions, w.trend, w.delta)
		}
	}
}

func TestLeaderboardService_Top10CapsAtTen(t *testing.T) {
	items := make([]leaderboard.Standing, 0, 12)
	for i := 0; i < 12; i++ {
		items = append(items, leaderboard.Standing{Rank: i + 1, Score: int64(1000 - i)})
	}
	svc := NewLeaderboardService(&stubLeaderboardRepo{top: items}, nil)

	res := svc.Top10(context.Background())
	if len(res.Data) != 10 {
		t.Fatalf("expected 10 standings, got %d", len(res.Data))
	}
}

func TestLeaderboardService_FullLeaderboardDropsTrend(t *testing.T) {
	repo := &stubLeaderboardRepo{all: []leaderboard.Standing{
		{Rank: 1, Name: "P1", Score: 10, GamesPlayed: 3, Trend: leaderboard.TrendUp, TrendPositions: 1, PreviousRank: intPtr(2)},
	}}
	svc := NewLeaderboardService(repo, nil)

	res := svc.FullLeaderboard(context.Background())
	if !res.OK() || len(res.Data) != 1 {
		t.Fatalf("FullLeaderboard=%+v", res)
	}
	got := res.Data[0]
	if got.Trend != "" || got.PreviousRank != nil || got.GamesPlayed != 0 {
		t.Fatalf("expected bare standing, got %+v", got)
	}
}

func TestLeaderboardService_RecentActivityMinutesAgo(t *testing.T) {
	repo := &stubLeaderboardRepo{activity: []leaderboard.Activity{
		{Player: "P1", Game: "M1", Score: 80, PlayedAt: serviceNow.Add(-61*time.Minute - 30*time.Second)},
		{Player: "P1", Game: "M1", Score: 100, PlayedAt: serviceNow.Add(-3 * time.Hour), IsPersonalBest: true},
	}}
	svc := NewLeaderboardService(repo, func() time.Time { return serviceNow })

	res := svc.RecentActivity(context.Background())
	if !res.OK() {
		t.Fatalf("RecentActivity error: %v", res.Err)
	}
	if repo.gotRecentLimit != 50 {
		t.Fatalf("expected limit 50, got %d", repo.gotRecentLimit)
	}
	if res.Data[0].MinutesAgo != 61 || res.Data[1].MinutesAgo != 180 {
		t.Fatalf("unexpected minutes: %d, %d", res.Data[0].MinutesAgo, res.Data[1].MinutesAgo)
	}
	if !res.Data[1].IsPersonalBest {
		t.Fatalf("expected personal best flag to be kept")
	}
}

func TestLeaderboardService_StatisticsWithoutActiveEvent(t *testing.T) {
	svc := NewLeaderboardService(&stubLeaderboardRepo{statsFound: false}, nil)

	res := svc.Statistics(context.Background())
	if !res.OK() {
		t.Fatalf("Statistics error: %v", res.Err)
	}
	if res.Data != leaderboard.EmptyStatistics() {
		t.Fatalf("expected empty statistics, got %+v", res.Data)
	}
}

func TestLeaderboardService_FailuresAreUnavailable(t *testing.T) {
	svc := NewLeaderboardService(&stubLeaderboardRepo{err: errors.New("pq: connection refused")}, nil)
	ctx := context.Background()

	if res := svc.Top10(ctx); res.Kind() != KindUnavailable || res.Data != nil {
		t.Fatalf("Top10 kind=%s data=%v", res.Kind(), res.Data)
	}
	if res := svc.FullLeaderboard(ctx); res.Kind() != KindUnavailable {
		t.Fatalf("FullLeaderboard kind=%s", res.Kind())
	}
	if res := svc.GameChampions(ctx); res.Kind() != KindUnavailable {
		t.Fatalf("GameChampions kind=%s", res.Kind())
	}
	if res := svc.RecentActivity(ctx); res.Kind() != KindUnavailable {
		t.Fatalf("RecentActivity kind=%s", res.Kind())
	}
	res := svc.Statistics(ctx)
	if res.Kind() != KindUnavailable {
		t.Fatalf("Statistics kind=%s", res.Kind())
	}
	if res.OrDefault(leaderboard.EmptyStatistics()).BusiestDay != leaderboard.NotAvailable {
		t.Fatalf("expected default statistics on failure")
	}
}
