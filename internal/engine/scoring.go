package engine

import (
	"fmt"
	"time"
)

type BonusKind string

const (
	BonusFirstTry BonusKind = "first_try"
	BonusNoHint   BonusKind = "no_hint"
	BonusStreak   BonusKind = "streak"
)

type Bonus struct {
	Kind   BonusKind `json:"kind"`
	Points int       `json:"points"`
	Label  string    `json:"label"`
}

type Award struct {
	Base    int     `json:"base"`
	Bonuses []Bonus `json:"bonuses"`
	Total   int     `json:"total"`
}

// BasePoints maps the share of time left to a tier of the round's ceiling:
// at least half left pays full, at least a tenth pays 60%, anything later
// pays 30%. The reduced tiers never pay less than 1.
func BasePoints(cfg RoundConfig, remaining time.Duration) int {
	if cfg.TimeLimit <= 0 {
		return cfg.MaxPoints
	}
	if remaining < 0 {
		remaining = 0
	}
	pct := float64(remaining) / float64(cfg.TimeLimit)
	switch {
	case pct >= 0.5:
		return cfg.MaxPoints
	case pct >= 0.1:
		return max(1, cfg.MaxPoints*6/10)
	default:
		return max(1, cfg.MaxPoints*3/10)
	}
}

// ScoreCorrect computes the award for solving a round. streak is the number
// of consecutive rounds the player solved before this one.
func ScoreCorrect(cfg RoundConfig, remaining time.Duration, guessNumber int, hintUsed bool, streak int) Award {
	a := Award{Base: BasePoints(cfg, remaining)}
	if guessNumber == 1 {
		a.Bonuses = append(a.Bonuses, Bonus{Kind: BonusFirstTry, Points: 2, Label: "First try! +2"})
	}
	if !hintUsed {
		a.Bonuses = append(a.Bonuses, Bonus{Kind: BonusNoHint, Points: 1, Label: "No hint! +1"})
	}
	if streak >= 2 {
		a.Bonuses = append(a.Bonuses, Bonus{Kind: BonusStreak, Points: 1, Label: fmt.Sprintf("%d round streak! +1", streak)})
	}
	a.Total = a.Base
	for _, b := range a.Bonuses {
		a.Total += b.Points
	}
	return a
}

// HintCost is the penalty for revealing a hint with remaining time left.
func HintCost(remaining time.Duration) int {
	if remaining > HintFreeThreshold {
		return HintPenalty
	}
	return 0
}

// ApplyPenalty subtracts penalty from score without going below zero.
func ApplyPenalty(score, penalty int) int {
	return max(0, score-penalty)
}
