package types

import "github.com/Suraj-070/worduel/internal/engine"

// RejoinSnapshot is everything a returning client needs to resume exactly
// where the match stood.
type RejoinSnapshot struct {
	RoomID          string               `json:"roomId"`
	YouID           string               `json:"youId"`
	Phase           string               `json:"phase"`
	Round           int                  `json:"round"`
	TotalRounds     int                  `json:"totalRounds"`
	Players         []Player             `json:"players"`
	Scores          Scores               `json:"scores"`
	Streaks         Scores               `json:"streaks"`
	ShuffledLetters []string             `json:"shuffledLetters"`
	WordLength      int                  `json:"wordLength"`
	TimeLimit       int                  `json:"timeLimit"`
	TimeRemaining   int                  `json:"timeRemaining"`
	RoundStartTime  int64                `json:"roundStartTime"`
	Hint            string               `json:"hint,omitempty"`
	HintUsed        bool                 `json:"hintUsed"`
	Finished        bool                 `json:"finished"`
	Guesses         []engine.GuessRecord `json:"guesses"`
	IsSuddenDeath   bool                 `json:"isSuddenDeath"`
	TiedPlayers     []Player             `json:"tiedPlayers,omitempty"`
}
