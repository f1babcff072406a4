// Package history records concluded matches and serves the most recent
// ones back. Postgres through gorm is used when a DSN is configured; the
// in-memory store covers local runs and tests.
package history

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/Suraj-070/worduel/internal/match"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Store interface {
	Record(ctx context.Context, res match.Result) error
	Recent(ctx context.Context, limit int) ([]Summary, error)
	Close() error
}

type PlayerScore struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	Online      bool   `json:"online"`
}

type Summary struct {
	RoomID      string        `json:"roomId"`
	Private     bool          `json:"isPrivate"`
	Outcome     string        `json:"outcome"`
	WinnerID    string        `json:"winnerId,omitempty"`
	Rounds      int           `json:"rounds"`
	SuddenDeath bool          `json:"suddenDeath"`
	EndedAt     time.Time     `json:"endedAt"`
	Players     []PlayerScore `json:"players"`
}

func Summarize(res match.Result) Summary {
	s := Summary{
		RoomID:      res.RoomID,
		Private:     res.Private,
		Outcome:     string(res.Outcome),
		Rounds:      res.Rounds,
		SuddenDeath: res.SuddenDeath,
		EndedAt:     res.EndedAt.UTC(),
		Players: lo.Map(res.Seats, func(s match.SeatResult, _ int) PlayerScore {
			return PlayerScore{
				ID:          s.Player.ID,
				Username:    s.Player.Username,
				DisplayName: s.Player.DisplayName,
				Score:       s.Score,
				Online:      s.Online,
			}
		}),
	}
	if res.Winner != nil {
		s.WinnerID = res.Winner.ID
	}
	return s
}

// ClampLimit maps a requested page size into [1, MaxLimit].
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}
