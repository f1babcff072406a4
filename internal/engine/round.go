package engine

import (
	"errors"
	"time"
)

var ErrRoundClosed = errors.New("round is not active")
var ErrUnknownPlayer = errors.New("player not in round")
var ErrPlayerFinished = errors.New("player already finished")
var ErrWrongLength = errors.New("guess length does not match word")
var ErrHintUsed = errors.New("hint already used")
var ErrTauntUsed = errors.New("taunt already used")
var ErrSuddenDeath = errors.New("not allowed during sudden death")
var ErrUnsupportedCommand = errors.New("unsupported command")

type PlayerID string

type Mode string

const (
	ModeNormal      Mode = "normal"
	ModeSuddenDeath Mode = "sudden_death"
)

// Created is implicit: NewRound returns an Active round.
type Phase string

const (
	PhaseActive      Phase = "active"
	PhaseAllFinished Phase = "all_finished"
	PhaseClosed      Phase = "closed"
)

type GuessRecord struct {
	Guess  string         `json:"guess"`
	Result []LetterResult `json:"result"`
}

type PlayerRound struct {
	Guesses   []GuessRecord
	Finished  bool
	Solved    bool
	HintUsed  bool
	TauntUsed bool
}

type Round struct {
	Config    RoundConfig
	Mode      Mode
	Word      string
	Hint      string
	Letters   []string
	StartedAt time.Time
	Phase     Phase
	Players   map[PlayerID]*PlayerRound
}

type CommandType string

const (
	CmdGuess  CommandType = "Guess"
	CmdHint   CommandType = "Hint"
	CmdTimeUp CommandType = "TimeUp"
	CmdTaunt  CommandType = "Taunt"
)

/*
	CmdGuess  -> EvtGuessEvaluated -> EvtPlayerFinished (solved or out of attempts) -> EvtRoundCompleted
	          -> in sudden death a solve emits EvtSuddenDeathWon and closes the round outright
	CmdHint   -> EvtHintRevealed (penalty decided from time remaining)
	CmdTimeUp -> EvtPlayerFinished -> EvtRoundCompleted
	CmdTaunt  -> EvtTauntSent
*/

type Command struct {
	Type   CommandType
	Player PlayerID
	Guess  string
	// Streak is the player's consecutive solved rounds before this one.
	Streak int
	Now    time.Time
}

type EventType string

const (
	EvtGuessEvaluated EventType = "GuessEvaluated"
	EvtPlayerFinished EventType = "PlayerFinished"
	EvtHintRevealed   EventType = "HintRevealed"
	EvtTauntSent      EventType = "TauntSent"
	EvtRoundCompleted EventType = "RoundCompleted"
	EvtSuddenDeathWon EventType = "SuddenDeathWon"
)

type Event struct {
	Type        EventType
	Player      PlayerID
	Guess       string
	Result      []LetterResult
	GuessNumber int
	Solved      bool
	Award       Award
	Hint        string
	Penalty     int
}

// NewRound starts a normal round for players.
func NewRound(cfg RoundConfig, word, hint string, players []PlayerID, r Rand, now time.Time) *Round {
	rd := &Round{
		Config:    cfg,
		Mode:      ModeNormal,
		Word:      word,
		Hint:      hint,
		Letters:   Shuffle(word, r),
		StartedAt: now,
		Phase:     PhaseActive,
		Players:   make(map[PlayerID]*PlayerRound, len(players)),
	}
	for _, p := range players {
		rd.Players[p] = &PlayerRound{}
	}
	return rd
}

// NewSuddenDeathRound starts a tie-break round. Every player gets a record,
// but only participants start unfinished.
func NewSuddenDeathRound(word, hint string, players, participants []PlayerID, r Rand, now time.Time) *Round {
	rd := NewRound(SuddenDeathConfig, word, hint, players, r, now)
	rd.Mode = ModeSuddenDeath
	in := make(map[PlayerID]bool, len(participants))
	for _, p := range participants {
		in[p] = true
	}
	for id, pr := range rd.Players {
		pr.Finished = !in[id]
	}
	return rd
}

func (r *Round) Remaining(now time.Time) time.Duration {
	left := r.Config.TimeLimit - now.Sub(r.StartedAt)
	if left < 0 {
		return 0
	}
	return left
}

func (r *Round) Active() bool { return r.Phase == PhaseActive }

func (r *Round) AllFinished() bool {
	for _, pr := range r.Players {
		if !pr.Finished {
			return false
		}
	}
	return true
}

// Close moves a completed round to Closed. It reports false when the round
// was already closed, so round-end side effects run exactly once.
func (r *Round) Close() bool {
	if r.Phase == PhaseClosed {
		return false
	}
	r.Phase = PhaseClosed
	return true
}

// Apply validates cmd against the round and mutates it, returning the events
// that describe what happened. Errors leave the round untouched.
//
// A hint costs HintCost of the remaining time, except in sudden death or
// when the word has no hint text, where revealing it is free.
func Apply(r *Round, cmd Command) ([]Event, error) {
	if !r.Active() {
		return nil, ErrRoundClosed
	}
	pr, ok := r.Players[cmd.Player]
	if !ok {
		return nil, ErrUnknownPlayer
	}

	switch cmd.Type {
	case CmdGuess:
		if pr.Finished {
			return nil, ErrPlayerFinished
		}
		if r.Mode == ModeNormal && len(pr.Guesses) >= MaxAttempts {
			return nil, ErrPlayerFinished
		}
		if len(cmd.Guess) != len(r.Word) {
			return nil, ErrWrongLength
		}

		result := Evaluate(cmd.Guess, r.Word)
		pr.Guesses = append(pr.Guesses, GuessRecord{Guess: cmd.Guess, Result: result})
		solved := Solved(result)
		evt := Event{
			Type:        EvtGuessEvaluated,
			Player:      cmd.Player,
			Guess:       cmd.Guess,
			Result:      result,
			GuessNumber: len(pr.Guesses),
			Solved:      solved,
		}

		if r.Mode == ModeSuddenDeath {
			if !solved {
				return []Event{evt}, nil
			}
			pr.Finished, pr.Solved = true, true
			r.Phase = PhaseAllFinished
			return []Event{
				evt,
				{Type: EvtPlayerFinished, Player: cmd.Player, Solved: true},
				{Type: EvtSuddenDeathWon, Player: cmd.Player},
			}, nil
		}

		if solved {
			evt.Award = ScoreCorrect(r.Config, r.Remaining(cmd.Now), evt.GuessNumber, pr.HintUsed, cmd.Streak)
		}
		events := []Event{evt}
		if solved || len(pr.Guesses) >= MaxAttempts {
			events = append(events, r.finish(cmd.Player, solved)...)
		}
		return events, nil

	case CmdHint:
		if pr.HintUsed {
			return nil, ErrHintUsed
		}
		pr.HintUsed = true
		penalty := 0
		if r.Mode == ModeNormal && r.Hint != "" {
			penalty = HintCost(r.Remaining(cmd.Now))
		}
		return []Event{{Type: EvtHintRevealed, Player: cmd.Player, Hint: r.Hint, Penalty: penalty}}, nil

	case CmdTimeUp:
		if r.Mode == ModeSuddenDeath {
			return nil, ErrSuddenDeath
		}
		if pr.Finished {
			return nil, nil
		}
		return r.finish(cmd.Player, false), nil

	case CmdTaunt:
		if r.Mode == ModeSuddenDeath {
			return nil, ErrSuddenDeath
		}
		if pr.TauntUsed {
			return nil, ErrTauntUsed
		}
		pr.TauntUsed = true
		return []Event{{Type: EvtTauntSent, Player: cmd.Player}}, nil

	default:
		return nil, ErrUnsupportedCommand
	}
}

// Expire finishes every unfinished player as timed out. It backs up client
// time_up signals that never arrive.
func Expire(r *Round) []Event {
	if !r.Active() || r.Mode == ModeSuddenDeath {
		return nil
	}
	var events []Event
	for id, pr := range r.Players {
		if !pr.Finished {
			pr.Finished = true
			events = append(events, Event{Type: EvtPlayerFinished, Player: id})
		}
	}
	if len(events) > 0 {
		r.Phase = PhaseAllFinished
		events = append(events, Event{Type: EvtRoundCompleted})
	}
	return events
}

func (r *Round) finish(id PlayerID, solved bool) []Event {
	pr := r.Players[id]
	pr.Finished = true
	pr.Solved = solved
	events := []Event{{Type: EvtPlayerFinished, Player: id, Solved: solved}}
	if r.AllFinished() {
		r.Phase = PhaseAllFinished
		events = append(events, Event{Type: EvtRoundCompleted})
	}
	return events
}
