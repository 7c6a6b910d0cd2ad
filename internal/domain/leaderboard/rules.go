package leaderboard

import (
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

const (
	TopLimit            = 10
	RecentActivityLimit = 50
	TrendLookback       = 7 * 24 * time.Hour
	NotAvailable        = "N/A"
)

// ErrDataAccess marks failures reading from the leaderboard store.
var ErrDataAccess = crerr.New("leaderboard data access failed")

// ComputeTrend compares the current rank with the previous one. A lower rank
// number is better, so moving from 5 to 2 is "up" by 3.
func ComputeTrend(currentRank int, previousRank *int) (Trend, int) {
	if previousRank == nil {
		return TrendNeutral, 0
	}
	prev := *previousRank
	switch {
	case prev > currentRank:
		return TrendUp, prev - currentRank
	case prev < currentRank:
		return TrendDown, currentRank - prev
	default:
		return TrendNeutral, 0
	}
}

func EmptyStatistics() Statistics {
	return Statistics{
		MostPopularGame: NotAvailable,
		BusiestDay:      NotAvailable,
	}
}

// NormalizeStatistics replaces blank labels with N/A.
func NormalizeStatistics(s Statistics) Statistics {
	s.MostPopularGame = strings.TrimSpace(s.MostPopularGame)
	if s.MostPopularGame == "" {
		s.MostPopularGame = NotAvailable
	}
	s.BusiestDay = strings.TrimSpace(s.BusiestDay)
	if s.BusiestDay == "" {
		s.BusiestDay = NotAvailable
	}
	return s
}

// MinutesAgo returns whole elapsed minutes, truncated and never negative.
func MinutesAgo(playedAt, now time.Time) int64 {
	if playedAt.IsZero() || !now.After(playedAt) {
		return 0
	}
	return int64(now.Sub(playedAt) / time.Minute)
}

// ApplyTrends fills Trend and TrendPositions from each standing's PreviousRank.
// Standings that already carry a trend keep it.
func ApplyTrends(standings []Standing) {
	for i := range standings {
		if standings[i].Trend != "" {
			continue
		}
		standings[i].Trend, standings[i].TrendPositions = ComputeTrend(standings[i].Rank, standings[i].PreviousRank)
	}
}
