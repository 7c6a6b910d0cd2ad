package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
)

// LeaderboardRepository aggregates an in-memory Dataset the same way the SQL
// source aggregates the fact tables.
type LeaderboardRepository struct {
	mu       sync.RWMutex
	data     Dataset
	players  map[int64]string
	machines map[int64]leaderboard.Machine
	now      func() time.Time
}

func NewLeaderboardRepository(data Dataset, now func() time.Time) *LeaderboardRepository {
	if now == nil {
		now = time.Now
	}
	r := &LeaderboardRepository{now: now}
	r.Replace(data)
	return r
}

// Replace swaps the whole dataset.
func (r *LeaderboardRepository) Replace(data Dataset) {
	players := make(map[int64]string, len(data.Players))
	for _, p := range data.Players {
		players[p.ID] = p.DisplayName
	}
	machines := make(map[int64]leaderboard.Machine, len(data.Machines))
	for _, m := range data.Machines {
		machines[m.ID] = m
	}

	r.mu.Lock()
	r.data = data
	r.players = players
	r.machines = machines
	r.mu.Unlock()
}

func (r *LeaderboardRepository) ListTop(ctx context.Context, limit int) ([]leaderboard.Standing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	standings := r.rankedLocked()
	if limit >= 0 && len(standings) > limit {
		standings = standings[:limit]
	}

	eventCode, hasEvent := r.activeEventLocked()
	games := make(map[int64]map[int64]struct{})
	if hasEvent {
		for _, s := range r.data.Scores {
			if s.EventCode != eventCode {
				continue
			}
			if games[s.PlayerID] == nil {
				games[s.PlayerID] = make(map[int64]struct{})
			}
			games[s.PlayerID][s.MachineID] = struct{}{}
		}
	}

	previous := r.previousRanksLocked(r.now().Add(-leaderboard.TrendLookback))
	out := make([]leaderboard.Standing, 0, len(standings))
	for _, st := range standings {
		out = append(out, leaderboard.Standing{
			Rank:         st.rank,
			Name:         st.name,
			Score:        st.score,
			GamesPlayed:  len(games[st.playerID]),
			PreviousRank: previous[st.playerID],
		})
	}
	return out, nil
}

func (r *LeaderboardRepository) ListAll(ctx context.Context) ([]leaderboard.Standing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	standings := r.rankedLocked()
	out := make([]leaderboard.Standing, 0, len(standings))
	for _, st := range standings {
		out = append(out, leaderboard.Standing{Rank: st.rank, Name: st.name, Score: st.score})
	}
	return out, nil
}

func (r *LeaderboardRepository) ListChampions(ctx context.Context) ([]leaderboard.Champion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	eventCode, ok := r.activeEventLocked()
	if !ok {
		return []leaderboard.Champion{}, nil
	}

	best := make(map[int64]leaderboard.ScoreRecord)
	order := make([]int64, 0)
	for _, s := range r.data.Scores {
		if s.EventCode != eventCode {
			continue
		}
		cur, seen := best[s.MachineID]
		if !seen {
			order = append(order, s.MachineID)
		}
		if !seen || s.Score > cur.Score {
			best[s.MachineID] = s
		}
	}

	out := make([]leaderboard.Champion, 0, len(order))
	for _, machineID := range order {
		m, ok := r.machines[machineID]
		if !ok || !m.IsActive {
			continue
		}
		rec := best[machineID]
		name, ok := r.players[rec.PlayerID]
		if !ok {
			continue
		}
		out = append(out, leaderboard.Champion{Machine: m.Name, Player: name, Score: rec.Score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (r *LeaderboardRepository) ListRecentActivity(ctx context.Context, limit int) ([]leaderboard.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	eventCode, ok := r.activeEventLocked()
	if !ok {
		return []leaderboard.Activity{}, nil
	}

	type key struct{ player, machine int64 }
	bests := make(map[key]int64)
	records := make([]leaderboard.ScoreRecord, 0)
	for _, s := range r.data.Scores {
		if s.EventCode != eventCode {
			continue
		}
		k := key{s.PlayerID, s.MachineID}
		if cur, seen := bests[k]; !seen || s.Score > cur {
			bests[k] = s.Score
		}
		records = append(records, s)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].SetAt.After(records[j].SetAt) })

	capHint := len(records)
	if limit >= 0 && limit < capHint {
		capHint = limit
	}
	out := make([]leaderboard.Activity, 0, capHint)
	for _, s := range records {
		if limit >= 0 && len(out) >= limit {
			break
		}
		playerName, okPlayer := r.players[s.PlayerID]
		machine, okMachine := r.machines[s.MachineID]
		if !okPlayer || !okMachine {
			continue
		}
		out = append(out, leaderboard.Activity{
			Player:         playerName,
			Game:           machine.Name,
			Score:          s.Score,
			PlayedAt:       s.SetAt,
			IsPersonalBest: s.Score == bests[key{s.PlayerID, s.MachineID}],
		})
	}
	return out, nil
}

func (r *LeaderboardRepository) GetStatistics(ctx context.Context) (leaderboard.Statistics, bool, error) {
	if err := ctx.Err(); err != nil {
		return leaderboard.Statistics{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	eventCode, ok := r.activeEventLocked()
	if !ok {
		return leaderboard.Statistics{}, false, nil
	}

	now := r.now()
	weekStart := now.Add(-7 * 24 * time.Hour)
	monthStart := now.Add(-30 * 24 * time.Hour)

	var stats leaderboard.Statistics
	players := make(map[int64]struct{})
	machinePlays := newCounter[int64]()
	dayPlays := newCounter[time.Weekday]()
	var total, count int64

	for _, s := range r.data.Scores {
		if s.EventCode != eventCode {
			continue
		}
		if !s.SetAt.Before(weekStart) {
			stats.GamesThisWeek++
		}
		if !s.SetAt.Before(monthStart) {
			stats.GamesThisMonth++
		}
		players[s.PlayerID] = struct{}{}
		total += s.Score
		count++
		if _, known := r.machines[s.MachineID]; known {
			machinePlays.add(s.MachineID)
		}
		dayPlays.add(s.SetAt.Weekday())
	}

	stats.ActivePlayers = int64(len(players))
	if count > 0 {
		stats.AverageScore = int64(math.Round(float64(total) / float64(count)))
	}
	if machineID, ok := machinePlays.top(); ok {
		stats.MostPopularGame = r.machines[machineID].Name
	}
	if day, ok := dayPlays.top(); ok {
		stats.BusiestDay = day.String()
	}

	return leaderboard.NormalizeStatistics(stats), true, nil
}

type rankedPlayer struct {
	playerID int64
	name     string
	score    int64
	rank     int
}

// rankedLocked numbers leaderboard entries by combined score, skipping
// entries whose player is unknown so ranks stay contiguous.
func (r *LeaderboardRepository) rankedLocked() []rankedPlayer {
	out := make([]rankedPlayer, 0, len(r.data.Leaderboard))
	for _, e := range r.data.Leaderboard {
		name, ok := r.players[e.PlayerID]
		if !ok {
			continue
		}
		out = append(out, rankedPlayer{playerID: e.PlayerID, name: name, score: e.CombinedScore})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	for i := range out {
		out[i].rank = i + 1
	}
	return out
}

func (r *LeaderboardRepository) activeEventLocked() (string, bool) {
	for _, e := range r.data.Events {
		if e.IsActive {
			return e.Code, true
		}
	}
	return "", false
}

// previousRanksLocked returns, per player, the rank of the second newest
// sample recorded at or after since.
func (r *LeaderboardRepository) previousRanksLocked(since time.Time) map[int64]*int {
	byPlayer := make(map[int64][]leaderboard.RankSample)
	for _, s := range r.data.History {
		if s.RecordedAt.Before(since) {
			continue
		}
		byPlayer[s.PlayerID] = append(byPlayer[s.PlayerID], s)
	}

	out := make(map[int64]*int, len(byPlayer))
	for playerID, samples := range byPlayer {
		if len(samples) < 2 {
			continue
		}
		sort.SliceStable(samples, func(i, j int) bool { return samples[i].RecordedAt.After(samples[j].RecordedAt) })
		rank := samples[1].Rank
		out[playerID] = &rank
	}
	return out
}

// counter tallies keys and remembers first-seen order so ties resolve to the
// key seen first.
type counter[K comparable] struct {
	counts map[K]int
	order  []K
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: make(map[K]int)}
}

func (c *counter[K]) add(k K) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

func (c *counter[K]) top() (K, bool) {
	var best K
	bestCount := 0
	for _, k := range c.order {
		if c.counts[k] > bestCount {
			best, bestCount = k, c.counts[k]
		}
	}
	return best, bestCount > 0
}
