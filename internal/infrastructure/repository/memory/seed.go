package memory

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
)

// LeaderboardEntry mirrors one leaderboard_cache row.
type LeaderboardEntry struct {
	PlayerID      int64
	CombinedScore int64
	CurrentRank   int
}

// Dataset is the full content of the demo store.
type Dataset struct {
	Events      []leaderboard.Event
	Players     []leaderboard.Player
	Machines    []leaderboard.Machine
	Scores      []leaderboard.ScoreRecord
	Leaderboard []LeaderboardEntry
	History     []leaderboard.RankSample
}

var seedPlayerNames = []string{
	"Mike", "Sarah", "John", "Emma", "Dave", "Lisa", "Tom", "Amy",
	"Chris", "Maria", "Dan", "Kate", "Rob", "Nina", "Paul", "Jen",
	"Steve", "Zoe", "Mark", "Beth", "Alex", "Sam", "Ryan", "Lucy",
}

func SeedMachines() []leaderboard.Machine {
	return []leaderboard.Machine{
		{ID: 1, Name: "Medieval Madness", IsActive: true},
		{ID: 2, Name: "Attack from Mars", IsActive: true},
		{ID: 3, Name: "The Addams Family", IsActive: true},
		{ID: 4, Name: "Twilight Zone", IsActive: true},
		{ID: 5, Name: "Monster Bash", IsActive: true},
		{ID: 6, Name: "Star Trek TNG", IsActive: true},
		{ID: 7, Name: "Theatre of Magic", IsActive: false},
	}
}

func SeedPlayers() []leaderboard.Player {
	out := make([]leaderboard.Player, 0, len(seedPlayerNames))
	for i, name := range seedPlayerNames {
		out = append(out, leaderboard.Player{ID: int64(i + 1), DisplayName: name})
	}
	return out
}

func SeedEvents(now time.Time) []leaderboard.Event {
	year := now.Year()
	return []leaderboard.Event{
		{Code: fmt.Sprintf("LEAGUE-%d", year-1), Name: fmt.Sprintf("League Season %d", year-1)},
		{Code: fmt.Sprintf("LEAGUE-%d", year), Name: fmt.Sprintf("League Season %d", year), IsActive: true},
	}
}

// GenerateDataset builds a random but reproducible dataset: the same seed and
// now always yield the same records.
func GenerateDataset(seed uint64, now time.Time) Dataset {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	events := SeedEvents(now)
	players := SeedPlayers()
	machines := SeedMachines()
	activeEvent := events[len(events)-1].Code
	pastEvent := events[0].Code

	var scores []leaderboard.ScoreRecord
	nextID := int64(1)
	for _, p := range players {
		plays := 3 + rng.IntN(12)
		for i := 0; i < plays; i++ {
			m := machines[rng.IntN(len(machines))]
			scores = append(scores, leaderboard.ScoreRecord{
				ID:        nextID,
				PlayerID:  p.ID,
				MachineID: m.ID,
				EventCode: activeEvent,
				Score:     int64(1_000_000 + rng.IntN(150_000_000)),
				SetAt:     now.Add(-time.Duration(rng.Int64N(int64(30 * 24 * time.Hour)))).Truncate(time.Second),
			})
			nextID++
		}
		if rng.IntN(3) == 0 {
			scores = append(scores, leaderboard.ScoreRecord{
				ID:        nextID,
				PlayerID:  p.ID,
				MachineID: machines[rng.IntN(len(machines))].ID,
				EventCode: pastEvent,
				Score:     int64(1_000_000 + rng.IntN(150_000_000)),
				SetAt:     now.Add(-time.Duration(40+rng.IntN(300)) * 24 * time.Hour).Truncate(time.Second),
			})
			nextID++
		}
	}

	entries := buildLeaderboard(scores, activeEvent)
	history := buildHistory(rng, entries, now)

	return Dataset{
		Events:      events,
		Players:     players,
		Machines:    machines,
		Scores:      scores,
		Leaderboard: entries,
		History:     history,
	}
}

// buildLeaderboard sums each player's best score per machine in the event.
func buildLeaderboard(scores []leaderboard.ScoreRecord, eventCode string) []LeaderboardEntry {
	type key struct{ player, machine int64 }
	best := make(map[key]int64)
	for _, s := range scores {
		if s.EventCode != eventCode {
			continue
		}
		k := key{s.PlayerID, s.MachineID}
		if s.Score > best[k] {
			best[k] = s.Score
		}
	}

	combined := make(map[int64]int64)
	for k, v := range best {
		combined[k.player] += v
	}

	out := make([]LeaderboardEntry, 0, len(combined))
	for playerID, score := range combined {
		out = append(out, LeaderboardEntry{PlayerID: playerID, CombinedScore: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CombinedScore != out[j].CombinedScore {
			return out[i].CombinedScore > out[j].CombinedScore
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	for i := range out {
		out[i].CurrentRank = i + 1
	}
	return out
}

// buildHistory records one sample per day for the last ten days; the newest
// sample equals the current rank.
func buildHistory(rng *rand.Rand, entries []LeaderboardEntry, now time.Time) []leaderboard.RankSample {
	out := make([]leaderboard.RankSample, 0, len(entries)*10)
	for _, e := range entries {
		for day := 0; day < 10; day++ {
			rank := e.CurrentRank
			if day > 0 {
				rank += rng.IntN(7) - 3
				if rank < 1 {
					rank = 1
				}
			}
			out = append(out, leaderboard.RankSample{
				PlayerID:   e.PlayerID,
				Rank:       rank,
				RecordedAt: now.Add(-time.Duration(day)*24*time.Hour - time.Hour).Truncate(time.Second),
			})
		}
	}
	return out
}
