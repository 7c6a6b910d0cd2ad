package httpapi

import (
	"github.com/riskibarqy/pinball-leaderboard/internal/domain/health"
	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
	"github.com/riskibarqy/pinball-leaderboard/internal/usecase"
)

type topStandingDTO struct {
	Rank           int    `json:"rank"`
	Name           string `json:"name"`
	Score          int64  `json:"score"`
	GamesPlayed    int    `json:"games_played"`
	Trend          string `json:"trend"`
	TrendPositions int    `json:"trend_positions"`
}

type standingDTO struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

type championDTO struct {
	Name     string `json:"name"`
	Champion string `json:"champion"`
	Score    int64  `json:"score"`
}

type activityDTO struct {
	Player         string `json:"player"`
	Game           string `json:"game"`
	Score          int64  `json:"score"`
	MinutesAgo     int64  `json:"minutes_ago"`
	IsPersonalBest bool   `json:"is_personal_best"`
}

type statisticsDTO struct {
	TotalGamesThisWeek  int64  `json:"total_games_this_week"`
	TotalGamesThisMonth int64  `json:"total_games_this_month"`
	ActivePlayers       int64  `json:"active_players"`
	AverageScore        int64  `json:"average_score"`
	MostPopularGame     string `json:"most_popular_game"`
	BusiestDay          string `json:"busiest_day"`
}

type healthDTO struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

type diagnosticsDTO struct {
	DatabaseConnection string          `json:"database_connection"`
	ConnectionError    string          `json:"connection_error,omitempty"`
	Tables             []tableCountDTO `json:"tables"`
	ActiveEvent        *activeEventDTO `json:"active_event"`
	ActiveEventError   string          `json:"active_event_error,omitempty"`
	DataCounts         *dataCountsDTO  `json:"data_counts"`
	DataCountsError    string          `json:"data_counts_error,omitempty"`
}

type tableCountDTO struct {
	Table  string `json:"table"`
	Status string `json:"status"`
	Rows   int64  `json:"rows"`
	Error  string `json:"error,omitempty"`
}

type activeEventDTO struct {
	Code string `json:"event_code"`
	Name string `json:"event_name"`
}

type dataCountsDTO struct {
	TotalPlayers       int64 `json:"total_players"`
	ActiveMachines     int64 `json:"active_machines"`
	TotalScores        int64 `json:"total_scores"`
	LeaderboardEntries int64 `json:"leaderboard_entries"`
}

func toTopStandingDTOs(items []leaderboard.Standing) []topStandingDTO {
	out := make([]topStandingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, topStandingDTO{
			Rank:           item.Rank,
			Name:           item.Name,
			Score:          item.Score,
			GamesPlayed:    item.GamesPlayed,
			Trend:          string(item.Trend),
			TrendPositions: item.TrendPositions,
		})
	}
	return out
}

func toStandingDTOs(items []leaderboard.Standing) []standingDTO {
	out := make([]standingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, standingDTO{Rank: item.Rank, Name: item.Name, Score: item.Score})
	}
	return out
}

func toChampionDTOs(items []leaderboard.Champion) []championDTO {
	out := make([]championDTO, 0, len(items))
	for _, item := range items {
		out = append(out, championDTO{Name: item.Machine, Champion: item.Player, Score: item.Score})
	}
	return out
}

func toActivityDTOs(items []usecase.RecentActivity) []activityDTO {
	out := make([]activityDTO, 0, len(items))
	for _, item := range items {
		out = append(out, activityDTO{
			Player:         item.Player,
			Game:           item.Game,
			Score:          item.Score,
			MinutesAgo:     item.MinutesAgo,
			IsPersonalBest: item.IsPersonalBest,
		})
	}
	return out
}

func toStatisticsDTO(stats leaderboard.Statistics) statisticsDTO {
	return statisticsDTO{
		TotalGamesThisWeek:  stats.GamesThisWeek,
		TotalGamesThisMonth: stats.GamesThisMonth,
		ActivePlayers:       stats.ActivePlayers,
		AverageScore:        stats.AverageScore,
		MostPopularGame:     stats.MostPopularGame,
		BusiestDay:          stats.BusiestDay,
	}
}

func toDiagnosticsDTO(d usecase.Diagnostics) diagnosticsDTO {
	out := diagnosticsDTO{
		DatabaseConnection: "connected",
		Tables:             make([]tableCountDTO, 0, len(d.Tables)),
	}
	if !d.Connected {
		out.DatabaseConnection = "failed"
		if d.ConnectionErr != nil {
			out.ConnectionError = d.ConnectionErr.Error()
		}
	}

	for _, table := range d.Tables {
		item := tableCountDTO{Table: table.Table, Status: "ok", Rows: table.Rows}
		switch {
		case table.Missing:
			item.Status = "missing"
		case table.Err != nil:
			item.Status = "error"
		}
		if table.Err != nil {
			item.Error = table.Err.Error()
		}
		out.Tables = append(out.Tables, item)
	}

	if d.ActiveEvent != nil {
		out.ActiveEvent = &activeEventDTO{Code: d.ActiveEvent.Code, Name: d.ActiveEvent.Name}
	}
	if d.ActiveEventErr != nil {
		out.ActiveEventError = d.ActiveEventErr.Error()
	}
	if d.DataCounts != nil {
		out.DataCounts = toDataCountsDTO(*d.DataCounts)
	}
	if d.DataCountsErr != nil {
		out.DataCountsError = d.DataCountsErr.Error()
	}

	return out
}

func toDataCountsDTO(c health.DataCounts) *dataCountsDTO {
	return &dataCountsDTO{
		TotalPlayers:       c.TotalPlayers,
		ActiveMachines:     c.ActiveMachines,
		TotalScores:        c.TotalScores,
		LeaderboardEntries: c.LeaderboardEntries,
	}
}
