package leaderboard

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestComputeTrend(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		previous  *int
		wantTrend Trend
		wantDelta int
	}{
		{name: "no previous sample", current: 3, previous: nil, wantTrend: TrendNeutral, wantDelta: 0},
		{name: "climbed", current: 2, previous: intPtr(5), wantTrend: TrendUp, wantDelta: 3},
		{name: "dropped", current: 4, previous: intPtr(1), wantTrend: TrendDown, wantDelta: 3},
		{name: "unchanged", current: 7, previous: intPtr(7), wantTrend: TrendNeutral, wantDelta: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			trend, delta := ComputeTrend(tc.current, tc.previous)
			if trend != tc.wantTrend || delta != tc.wantDelta {
				t.Fatalf("ComputeTrend(%d)=(%s,%d) want (%s,%d)", tc.current, trend, delta, tc.wantTrend, tc.wantDelta)
			}
		})
	}
}

func TestApplyTrends(t *testing.T) {
	standings := []Standing{
		{Rank: 1, PreviousRank: intPtr(2)},
		{Rank: 2, PreviousRank: intPtr(1)},
		{Rank: 3},
		{Rank: 4, PreviousRank: intPtr(9), Trend: TrendDown, TrendPositions: 2},
	}
	ApplyTrends(standings)

	if standings[0].Trend != TrendUp || standings[0].TrendPositions != 1 {
		t.Fatalf("unexpected first standing: %+v", standings[0])
	}
	if standings[1].Trend != TrendDown || standings[1].TrendPositions != 1 {
		t.Fatalf("unexpected second standing: %+v", standings[1])
	}
	if standings[2].Trend != TrendNeutral || standings[2].TrendPositions != 0 {
		t.Fatalf("unexpected third standing: %+v", standings[2])
	}
	if standings[3].Trend != TrendDown || standings[3].TrendPositions != 2 {
		t.Fatalf("expected precomputed trend to be kept: %+v", standings[3])
	}
}

func TestEmptyStatistics(t *testing.T) {
	s := EmptyStatistics()
	if s.GamesThisWeek != 0 || s.GamesThisMonth != 0 || s.ActivePlayers != 0 || s.AverageScore != 0 {
		t.Fatalf("expected zero counts, got %+v", s)
	}
	if s.MostPopularGame != NotAvailable || s.BusiestDay != NotAvailable {
		t.Fatalf("expected N/A labels, got %+v", s)
	}
}

func TestNormalizeStatistics(t *testing.T) {
	s := NormalizeStatistics(Statistics{GamesThisWeek: 4, MostPopularGame: " Attack from Mars ", BusiestDay: ""})
	if s.MostPopularGame != "Attack from Mars" {
		t.Fatalf("unexpected game: %q", s.MostPopularGame)
	}
	if s.BusiestDay != NotAvailable {
		t.Fatalf("unexpected busiest day: %q", s.BusiestDay)
	}
	if s.GamesThisWeek != 4 {
		t.Fatalf("counts must be kept, got %+v", s)
	}
}

func TestMinutesAgo(t *testing.T) {
	now := time.Date(2024, 3, 1, 21, 0, 0, 0, time.UTC)

	if got := MinutesAgo(now.Add(-90*time.Second), now); got != 1 {
		t.Fatalf("expected truncation to 1 minute, got %d", got)
	}
	if got := MinutesAgo(now.Add(-2*time.Hour), now); got != 120 {
		t.Fatalf("expected 120 minutes, got %d", got)
	}
	if got := MinutesAgo(now.Add(time.Minute), now); got != 0 {
		t.Fatalf("future timestamps must clamp to 0, got %d", got)
	}
	if got := MinutesAgo(time.Time{}, now); got != 0 {
		t.Fatalf("zero time must be 0, got %d", got)
	}
}
