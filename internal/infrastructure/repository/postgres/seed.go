package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/pinball-leaderboard/internal/infrastructure/repository/memory"
)

const (
	seedEventQuery = `
INSERT INTO events (event_code, event_name, is_active)
VALUES (:event_code, :event_name, :is_active)
ON CONFLICT (event_code) DO NOTHING`
	seedPlayerQuery = `
INSERT INTO players (player_id, display_name)
VALUES (:player_id, :display_name)
ON CONFLICT (player_id) DO NOTHING`
	seedMachineQuery = `
INSERT INTO machines (machine_id, machine_name, is_active)
VALUES (:machine_id, :machine_name, :is_active)
ON CONFLICT (machine_id) DO NOTHING`
	seedScoreQuery = `
INSERT INTO high_scores_archive (player_id, machine_id, event_code, high_score, date_set)
VALUES (:player_id, :machine_id, :event_code, :high_score, :date_set)`
	seedLeaderboardQuery = `
INSERT INTO leaderboard_cache (player_id, combined_score, current_rank)
VALUES (:player_id, :combined_score, :current_rank)
ON CONFLICT (player_id) DO NOTHING`
	seedHistoryQuery = `
INSERT INTO leaderboard_history (player_id, current_rank, recorded_at)
VALUES (:player_id, :current_rank, :recorded_at)`
)

// BootstrapSeed loads data into an empty local database. It is a no-op once
// any event exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, data memory.Dataset) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM events`); err != nil {
		return fmt.Errorf("count events for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, e := range data.Events {
		if err := execNamed(ctx, tx, seedEventQuery, map[string]any{
			"event_code": e.Code,
			"event_name": e.Name,
			"is_active":  e.IsActive,
		}); err != nil {
			return fmt.Errorf("seed event %s: %w", e.Code, err)
		}
	}

	for _, p := range data.Players {
		if err := execNamed(ctx, tx, seedPlayerQuery, map[string]any{
			"player_id":    p.ID,
			"display_name": p.DisplayName,
		}); err != nil {
			return fmt.Errorf("seed player %d: %w", p.ID, err)
		}
	}

	for _, m := range data.Machines {
		if err := execNamed(ctx, tx, seedMachineQuery, map[string]any{
			"machine_id":   m.ID,
			"machine_name": m.Name,
			"is_active":    m.IsActive,
		}); err != nil {
			return fmt.Errorf("seed machine %d: %w", m.ID, err)
		}
	}

	for _, s := range data.Scores {
		if err := execNamed(ctx, tx, seedScoreQuery, map[string]any{
			"player_id":  s.PlayerID,
			"machine_id": s.MachineID,
			"event_code": s.EventCode,
			"high_score": s.Score,
			"date_set":   s.SetAt.UTC(),
		}); err != nil {
			return fmt.Errorf("seed score %d: %w", s.ID, err)
		}
	}

	for _, e := range data.Leaderboard {
		if err := execNamed(ctx, tx, seedLeaderboardQuery, map[string]any{
			"player_id":      e.PlayerID,
			"combined_score": e.CombinedScore,
			"current_rank":   e.CurrentRank,
		}); err != nil {
			return fmt.Errorf("seed leaderboard entry %d: %w", e.PlayerID, err)
		}
	}

	for _, h := range data.History {
		if err := execNamed(ctx, tx, seedHistoryQuery, map[string]any{
			"player_id":    h.PlayerID,
			"current_rank": h.Rank,
			"recorded_at":  h.RecordedAt.UTC(),
		}); err != nil {
			return fmt.Errorf("seed rank sample %d: %w", h.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}

func execNamed(ctx context.Context, tx *sqlx.Tx, query string, arg map[string]any) error {
	sqlQuery, args, err := sqlx.Named(query, arg)
	if err != nil {
		return fmt.Errorf("bind query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
		return err
	}
	return nil
}
