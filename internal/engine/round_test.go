package engine

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice PlayerID = "alice"
	bob   PlayerID = "bob"
	carol PlayerID = "carol"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestRound(index int, word, hint string, players ...PlayerID) *Round {
	return NewRound(ConfigFor(index), word, hint, players, rand.New(rand.NewPCG(1, 1)), t0)
}

func guess(p PlayerID, g string, at time.Duration) Command {
	return Command{Type: CmdGuess, Player: p, Guess: g, Now: t0.Add(at)}
}

func TestScoreCorrect(t *testing.T) {
	cases := []struct {
		name        string
		round       int
		remaining   time.Duration
		guessNumber int
		hintUsed    bool
		streak      int
		wantBase    int
		wantTotal   int
	}{
		{name: "round 1 first try fast no hint", round: 1, remaining: 100 * time.Second, guessNumber: 1, wantBase: 3, wantTotal: 6},
		{name: "exactly half left is full tier", round: 2, remaining: 93 * time.Second, guessNumber: 2, wantBase: 4, wantTotal: 5},
		{name: "middle tier floors", round: 5, remaining: 100 * time.Second, guessNumber: 3, hintUsed: true, wantBase: 3, wantTotal: 3},
		{name: "middle tier minimum one", round: 1, remaining: 30 * time.Second, guessNumber: 2, hintUsed: true, wantBase: 1, wantTotal: 1},
		{name: "late tier", round: 6, remaining: 10 * time.Second, guessNumber: 4, hintUsed: true, wantBase: 1, wantTotal: 1},
		{name: "streak bonus from two", round: 3, remaining: 200 * time.Second, guessNumber: 1, streak: 2, wantBase: 5, wantTotal: 9},
		{name: "streak of one earns nothing", round: 3, remaining: 200 * time.Second, guessNumber: 2, hintUsed: true, streak: 1, wantBase: 5, wantTotal: 5},
		{name: "no time left", round: 4, remaining: -5 * time.Second, guessNumber: 2, wantBase: 1, wantTotal: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := ScoreCorrect(ConfigFor(tc.round), tc.remaining, tc.guessNumber, tc.hintUsed, tc.streak)
			assert.Equal(t, tc.wantBase, a.Base)
			assert.Equal(t, tc.wantTotal, a.Total)
		})
	}
}

func TestConfigFor(t *testing.T) {
	assert.Equal(t, 3, ConfigFor(1).WordLength)
	assert.Equal(t, 127*time.Second, ConfigFor(1).TimeLimit)
	assert.Equal(t, 5, ConfigFor(4).MaxPoints)
	assert.Equal(t, 369*time.Second, ConfigFor(6).TimeLimit)
	assert.Equal(t, ConfigFor(6), ConfigFor(9))
	assert.Equal(t, ConfigFor(1), ConfigFor(0))
	assert.Equal(t, 6, TotalRounds)
}

func TestApply_CorrectFirstGuessScoresSix(t *testing.T) {
	r := newTestRound(1, "cat", "", alice, bob)

	events, err := Apply(r, guess(alice, "cat", 10*time.Second))
	require.NoError(t, err)

	evt, ok := findEvent(events, EvtGuessEvaluated)
	require.True(t, ok)
	assert.True(t, evt.Solved)
	assert.Equal(t, 1, evt.GuessNumber)
	assert.Equal(t, 3, evt.Award.Base)
	assert.Equal(t, 6, evt.Award.Total)

	fin, ok := findEvent(events, EvtPlayerFinished)
	require.True(t, ok)
	assert.True(t, fin.Solved)
	assert.False(t, containsEvent(events, EvtRoundCompleted))
	assert.True(t, r.Active())
}

func TestApply_GuessRejections(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(r *Round)
		cmd     Command
		wantErr error
	}{
		{
			name:    "wrong length",
			cmd:     guess(alice, "cats", time.Second),
			wantErr: ErrWrongLength,
		},
		{
			name:    "unknown player",
			cmd:     guess(carol, "cat", time.Second),
			wantErr: ErrUnknownPlayer,
		},
		{
			name:    "finished player",
			setup:   func(r *Round) { r.Players[alice].Finished = true },
			cmd:     guess(alice, "cot", time.Second),
			wantErr: ErrPlayerFinished,
		},
		{
			name:    "closed round",
			setup:   func(r *Round) { r.Close() },
			cmd:     guess(alice, "cot", time.Second),
			wantErr: ErrRoundClosed,
		},
		{
			name:    "unsupported",
			cmd:     Command{Type: "Dance", Player: alice},
			wantErr: ErrUnsupportedCommand,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRound(1, "cat", "", alice, bob)
			if tc.setup != nil {
				tc.setup(r)
			}
			events, err := Apply(r, tc.cmd)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
			assert.Empty(t, events)
		})
	}
}

func TestApply_AttemptCapFinishesPlayer(t *testing.T) {
	r := newTestRound(1, "cat", "", alice, bob)

	for i, g := range []string{"cot", "cut", "bat"} {
		events, err := Apply(r, guess(alice, g, time.Second))
		require.NoError(t, err)
		require.Falsef(t, containsEvent(events, EvtPlayerFinished), "attempt %d", i+1)
	}

	events, err := Apply(r, guess(alice, "hat", time.Second))
	require.NoError(t, err)
	fin, ok := findEvent(events, EvtPlayerFinished)
	require.True(t, ok)
	assert.False(t, fin.Solved)
	assert.True(t, r.Players[alice].Finished)

	_, err = Apply(r, guess(alice, "cat", time.Second))
	assert.ErrorIs(t, err, ErrPlayerFinished)
	assert.Len(t, r.Players[alice].Guesses, MaxAttempts)
}

func TestApply_RoundCompletesOnceWhenEveryoneFinished(t *testing.T) {
	r := newTestRound(1, "cat", "", alice, bob)

	_, err := Apply(r, guess(alice, "cat", time.Second))
	require.NoError(t, err)

	events, err := Apply(r, Command{Type: CmdTimeUp, Player: bob, Now: t0.Add(127 * time.Second)})
	require.NoError(t, err)
	assert.True(t, containsEvent(events, EvtRoundCompleted))
	assert.Equal(t, PhaseAllFinished, r.Phase)
	assert.True(t, r.AllFinished())

	assert.True(t, r.Close())
	assert.False(t, r.Close(), "second close must be a no-op")

	_, err = Apply(r, Command{Type: CmdTimeUp, Player: bob})
	assert.ErrorIs(t, err, ErrRoundClosed)
}

func TestApply_TimeUpIsIdempotentForFinishedPlayer(t *testing.T) {
	r := newTestRound(1, "cat", "", alice, bob)
	_, err := Apply(r, guess(alice, "cat", time.Second))
	require.NoError(t, err)

	events, err := Apply(r, Command{Type: CmdTimeUp, Player: alice})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.True(t, r.Players[alice].Solved)
}

func TestApply_Hint(t *testing.T) {
	t.Run("penalty with more than sixty seconds left", func(t *testing.T) {
		r := newTestRound(1, "cat", "a pet", alice, bob)
		events, err := Apply(r, Command{Type: CmdHint, Player: alice, Now: t0.Add(57 * time.Second)})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "a pet", events[0].Hint)
		assert.Equal(t, 1, events[0].Penalty)

		_, err = Apply(r, Command{Type: CmdHint, Player: alice, Now: t0.Add(58 * time.Second)})
		assert.ErrorIs(t, err, ErrHintUsed)
	})

	t.Run("free with sixty seconds or less", func(t *testing.T) {
		r := newTestRound(1, "cat", "a pet", alice, bob)
		events, err := Apply(r, Command{Type: CmdHint, Player: alice, Now: t0.Add(67 * time.Second)})
		require.NoError(t, err)
		assert.Equal(t, 0, events[0].Penalty)
	})

	t.Run("missing hint costs nothing", func(t *testing.T) {
		r := newTestRound(1, "cat", "", alice, bob)
		events, err := Apply(r, Command{Type: CmdHint, Player: alice, Now: t0})
		require.NoError(t, err)
		assert.Equal(t, 0, events[0].Penalty)
	})

	t.Run("hint forfeits the no hint bonus", func(t *testing.T) {
		r := newTestRound(1, "cat", "a pet", alice, bob)
		_, err := Apply(r, Command{Type: CmdHint, Player: alice, Now: t0})
		require.NoError(t, err)
		events, err := Apply(r, guess(alice, "cat", time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5, events[0].Award.Total)
	})
}

func TestApplyPenalty_FloorsAtZero(t *testing.T) {
	assert.Equal(t, 0, ApplyPenalty(0, HintPenalty))
	assert.Equal(t, 4, ApplyPenalty(5, HintPenalty))
}

func TestSuddenDeathRound(t *testing.T) {
	r := NewSuddenDeathRound("moon", "", []PlayerID{alice, bob, carol}, []PlayerID{alice, bob}, rand.New(rand.NewPCG(2, 2)), t0)

	assert.Equal(t, ModeSuddenDeath, r.Mode)
	assert.Equal(t, 4, len(r.Word))
	assert.True(t, r.Players[carol].Finished, "non-tied players start finished")
	assert.False(t, r.Players[alice].Finished)

	_, err := Apply(r, guess(carol, "moon", time.Second))
	assert.ErrorIs(t, err, ErrPlayerFinished)

	_, err = Apply(r, Command{Type: CmdTimeUp, Player: alice})
	assert.ErrorIs(t, err, ErrSuddenDeath)

	for i := 0; i < MaxAttempts+2; i++ {
		events, err := Apply(r, guess(alice, "noon", time.Second))
		require.NoError(t, err, "sudden death has no attempt cap")
		require.False(t, containsEvent(events, EvtSuddenDeathWon))
	}

	events, err := Apply(r, guess(bob, "moon", time.Second))
	require.NoError(t, err)
	won, ok := findEvent(events, EvtSuddenDeathWon)
	require.True(t, ok)
	assert.Equal(t, bob, won.Player)
	ev, _ := findEvent(events, EvtGuessEvaluated)
	assert.Zero(t, ev.Award.Total)
	assert.False(t, r.Active())

	_, err = Apply(r, guess(alice, "moon", time.Second))
	assert.ErrorIs(t, err, ErrRoundClosed)
}

func TestExpire(t *testing.T) {
	r := newTestRound(2, "moon", "", alice, bob, carol)
	_, err := Apply(r, guess(alice, "moon", time.Second))
	require.NoError(t, err)

	events := Expire(r)
	assert.True(t, containsEvent(events, EvtRoundCompleted))
	assert.True(t, r.Players[bob].Finished)
	assert.False(t, r.Players[bob].Solved)
	assert.True(t, r.Players[alice].Solved)

	assert.Empty(t, Expire(r))
}

func TestTaunt(t *testing.T) {
	r := newTestRound(1, "cat", "", alice, bob)
	events, err := Apply(r, Command{Type: CmdTaunt, Player: alice})
	require.NoError(t, err)
	assert.True(t, containsEvent(events, EvtTauntSent))

	_, err = Apply(r, Command{Type: CmdTaunt, Player: alice})
	assert.ErrorIs(t, err, ErrTauntUsed)
}
