package leaderboard

import "context"

// Repository reads aggregated leaderboard data for the active event.
type Repository interface {
	ListTop(ctx context.Context, limit int) ([]Standing, error)
	ListAll(ctx context.Context) ([]Standing, error)
	ListChampions(ctx context.Context) ([]Champion, error)
	ListRecentActivity(ctx context.Context, limit int) ([]Activity, error)
	GetStatistics(ctx context.Context) (Statistics, bool, error)
}
