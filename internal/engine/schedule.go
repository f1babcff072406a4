package engine

import "time"

type RoundConfig struct {
	Index      int
	WordLength int
	TimeLimit  time.Duration
	MaxPoints  int
}

var RoundOrder = []RoundConfig{
	{Index: 1, WordLength: 3, TimeLimit: 127 * time.Second, MaxPoints: 3},
	{Index: 2, WordLength: 4, TimeLimit: 186 * time.Second, MaxPoints: 4},
	{Index: 3, WordLength: 5, TimeLimit: 304 * time.Second, MaxPoints: 5},
	{Index: 4, WordLength: 5, TimeLimit: 304 * time.Second, MaxPoints: 5},
	{Index: 5, WordLength: 6, TimeLimit: 369 * time.Second, MaxPoints: 6},
	{Index: 6, WordLength: 6, TimeLimit: 369 * time.Second, MaxPoints: 6},
}

var TotalRounds = len(RoundOrder)

// Sudden death never exposes its time limit to clients.
var SuddenDeathConfig = RoundConfig{WordLength: 4, TimeLimit: 120 * time.Second}

const (
	MaxAttempts       = 4
	HintPenalty       = 1
	HintFreeThreshold = 60 * time.Second
)

// ConfigFor returns the schedule entry for a 1-based round index. Indexes
// outside the schedule clamp to the nearest end.
func ConfigFor(index int) RoundConfig {
	switch {
	case index < 1:
		return RoundOrder[0]
	case index > len(RoundOrder):
		return RoundOrder[len(RoundOrder)-1]
	}
	return RoundOrder[index-1]
}
