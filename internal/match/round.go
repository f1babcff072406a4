package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Suraj-070/worduel/internal/engine"
	"github.com/Suraj-070/worduel/pkg/types"
)

func (m *Match) fromClient(msg FromClient) {
	s := m.seatByClient(msg.ClientID)
	if s == nil {
		m.log.Debug("request from client not seated here", zap.String("client", msg.ClientID))
		return
	}

	switch req := msg.Req.(type) {
	case types.SubmitGuess:
		m.guess(s, req.Guess)
	case types.RequestHint:
		m.hint(s)
	case types.TimeUp:
		m.timeUp(s)
	case types.SendTaunt:
		m.taunt(s, req)
	default:
		m.log.Warn("unsupported room request", zap.String("event", msg.Req.Event()))
	}
}

// advance moves from a pause (match start or round end) into the next round
// or, after the last one, into final resolution.
func (m *Match) advance() {
	if m.roundIndex >= m.totalRounds {
		m.resolve()
		return
	}
	m.startRound()
}

func (m *Match) startRound() {
	m.roundIndex++
	cfg := engine.ConfigFor(m.roundIndex)
	entry := m.words.PickRandom(cfg.WordLength)

	m.round = engine.NewRound(cfg, entry.Word, entry.Hint, m.playerIDs(), m.rand, m.now())
	m.phase = PhaseInRound
	m.timers.After(keyDeadline, cfg.TimeLimit+m.timings.RoundSlack)

	m.log.Debug("round started", zap.Int("round", m.roundIndex), zap.Int("length", cfg.WordLength))
	m.broadcast(types.EvtRoundStart, types.RoundStart{
		Round:           m.roundIndex,
		ShuffledLetters: m.round.Letters,
		WordLength:      cfg.WordLength,
		TimeLimit:       int(cfg.TimeLimit.Seconds()),
		HasHint:         entry.Hint != "",
	})
}

func normalizeGuess(g string) string { return strings.ToLower(strings.TrimSpace(g)) }

func (m *Match) guess(s *seat, raw string) {
	r := m.round
	if r == nil || !r.Active() {
		return
	}
	g := normalizeGuess(raw)
	pid := engine.PlayerID(s.ID)

	if pr := r.Players[pid]; pr == nil || pr.Finished {
		return
	}
	if len(g) != len(r.Word) {
		m.deliver(s, types.EvtInvalidWord, types.InvalidWord{Guess: g, Reason: fmt.Sprintf("Word must be %d letters.", len(r.Word))})
		return
	}
	if !m.words.IsValidGuess(g) {
		m.deliver(s, types.EvtInvalidWord, types.InvalidWord{Guess: g, Reason: "Not a valid word!"})
		return
	}

	events, err := engine.Apply(r, engine.Command{
		Type:   engine.CmdGuess,
		Player: pid,
		Guess:  g,
		Streak: s.streak,
		Now:    m.now(),
	})
	if err != nil {
		m.log.Debug("guess rejected", zap.String("player", s.ID), zap.Error(err))
		return
	}

	for _, e := range events {
		switch e.Type {
		case engine.EvtGuessEvaluated:
			s.score += e.Award.Total
			attemptsLeft := 0
			if r.Mode == engine.ModeNormal {
				attemptsLeft = engine.MaxAttempts - e.GuessNumber
			}
			m.deliver(s, types.EvtGuessResult, types.GuessResult{
				Guess:        e.Guess,
				Result:       e.Result,
				GuessNumber:  e.GuessNumber,
				IsCorrect:    e.Solved,
				PointsEarned: e.Award.Total,
				Bonuses:      lo.Map(e.Award.Bonuses, func(b engine.Bonus, _ int) string { return b.Label }),
				TotalScore:   s.score,
				AttemptsLeft: attemptsLeft,
			})
			m.broadcastExcept(s, types.EvtOpponentGuessed, types.OpponentGuessed{
				PlayerID:    s.ID,
				Username:    s.Username,
				GuessNumber: e.GuessNumber,
				IsCorrect:   e.Solved,
				Scores:      m.scores(),
			})

		case engine.EvtPlayerFinished:
			if r.Mode == engine.ModeNormal {
				if e.Solved {
					s.streak++
				} else {
					s.streak = 0
				}
			}

		case engine.EvtRoundCompleted:
			m.endRound()

		case engine.EvtSuddenDeathWon:
			m.endSuddenDeath(s)
		}
	}
}

func (m *Match) hint(s *seat) {
	r := m.round
	if r == nil || !r.Active() {
		return
	}
	events, err := engine.Apply(r, engine.Command{Type: engine.CmdHint, Player: engine.PlayerID(s.ID), Now: m.now()})
	switch {
	case errors.Is(err, engine.ErrHintUsed):
		m.deliver(s, types.EvtHintAlreadyUsed, types.Empty{})
		return
	case err != nil:
		m.log.Debug("hint rejected", zap.String("player", s.ID), zap.Error(err))
		return
	}

	e := events[0]
	s.score = engine.ApplyPenalty(s.score, e.Penalty)
	m.deliver(s, types.EvtHintRevealed, types.HintRevealed{Hint: e.Hint, Penalty: e.Penalty, TotalScore: s.score})
}

func (m *Match) timeUp(s *seat) {
	r := m.round
	if r == nil || !r.Active() {
		return
	}
	events, err := engine.Apply(r, engine.Command{Type: engine.CmdTimeUp, Player: engine.PlayerID(s.ID), Now: m.now()})
	if err != nil {
		// sudden death has no public clock; its cap is server-side
		return
	}
	m.onFinished(events)
}

func (m *Match) taunt(s *seat, req types.SendTaunt) {
	r := m.round
	if r == nil || !r.Active() {
		return
	}
	if _, err := engine.Apply(r, engine.Command{Type: engine.CmdTaunt, Player: engine.PlayerID(s.ID)}); err != nil {
		m.log.Debug("taunt rejected", zap.String("player", s.ID), zap.Error(err))
		return
	}

	msg := types.TauntMessage{TauntID: req.TauntID, FromUsername: s.Username, ToID: req.ToID}
	target := m.seatByID(engine.PlayerID(req.ToID))
	if target == nil || target == s {
		m.broadcastExcept(s, types.EvtTauntReceived, msg)
		return
	}
	m.deliver(target, types.EvtTauntReceived, msg)
	for _, o := range m.seats {
		if o != s && o != target {
			m.deliver(o, types.EvtTauntBroadcast, msg)
		}
	}
}

// onFinished applies streak resets for players that ran out of time and
// closes the round if it completed.
func (m *Match) onFinished(events []engine.Event) {
	for _, e := range events {
		switch e.Type {
		case engine.EvtPlayerFinished:
			if s := m.seatByID(e.Player); s != nil && !e.Solved {
				s.streak = 0
			}
		case engine.EvtRoundCompleted:
			m.endRound()
		}
	}
}

// expireRound is the server-side backstop for time_up signals that never
// arrive, e.g. from a player who is mid-grace-period.
func (m *Match) expireRound() {
	if m.round == nil || m.round.Mode != engine.ModeNormal {
		return
	}
	m.log.Debug("round deadline reached", zap.Int("round", m.roundIndex))
	m.onFinished(engine.Expire(m.round))
}

func (m *Match) endRound() {
	if m.round == nil || !m.round.Close() {
		return
	}
	m.timers.Cancel(keyDeadline)
	m.phase = PhaseRoundEnd

	m.broadcast(types.EvtRoundEnd, types.RoundEnd{
		Round:   m.roundIndex,
		Word:    m.round.Word,
		Scores:  m.scores(),
		Streaks: m.streaks(),
		Players: m.players(),
	})
	m.timers.After(keyAdvance, m.timings.RoundEndDelay)
}

// resolve decides the match after the last round: a unique top score wins,
// a tie at the top goes to sudden death.
func (m *Match) resolve() {
	top := lo.MaxBy(m.seats, func(a, b *seat) bool { return a.score > b.score })
	tied := lo.Filter(m.seats, func(s *seat, _ int) bool { return s.score == top.score })

	if len(tied) == 1 {
		winner := top.Player
		m.broadcast(types.EvtSessionEnd, types.SessionEnd{Scores: m.scores(), Players: m.players(), Winner: &winner})
		m.conclude(OutcomeWinner, &winner)
		return
	}

	m.tied = lo.Map(tied, func(s *seat, _ int) engine.PlayerID { return engine.PlayerID(s.ID) })
	m.phase = PhaseSuddenDeathCountdown
	m.sdLeft = m.timings.ticks(m.timings.SuddenDeathCountdown)
	m.log.Info("sudden death", zap.Strings("tied", lo.Map(tied, func(s *seat, _ int) string { return s.ID })))

	m.broadcast(types.EvtSuddenDeathCountdown, types.SuddenDeathCountdown{Seconds: m.sdLeft, TiedPlayers: m.tiedPlayers()})
	m.timers.After(keySuddenTick, m.timings.Tick)
}

func (m *Match) suddenDeathTick() {
	if m.phase != PhaseSuddenDeathCountdown {
		return
	}
	m.sdLeft--
	m.broadcast(types.EvtSuddenDeathCountdown, types.SuddenDeathCountdown{Seconds: m.sdLeft, TiedPlayers: m.tiedPlayers()})
	if m.sdLeft > 0 {
		m.timers.After(keySuddenTick, m.timings.Tick)
		return
	}
	m.startSuddenDeath()
}

func (m *Match) startSuddenDeath() {
	entry := m.words.PickRandom(engine.SuddenDeathConfig.WordLength)
	m.round = engine.NewSuddenDeathRound(entry.Word, entry.Hint, m.playerIDs(), m.tied, m.rand, m.now())
	m.phase = PhaseSuddenDeath
	m.sdPlayed = true
	m.timers.After(keySuddenCap, m.timings.SuddenDeathCap)

	m.broadcast(types.EvtSuddenDeathStart, types.SuddenDeathStart{
		ShuffledLetters: m.round.Letters,
		WordLength:      len(entry.Word),
		HasHint:         entry.Hint != "",
		TiedPlayers:     m.tiedPlayers(),
	})
}

// endSuddenDeath concludes with winner, or as a draw when winner is nil.
func (m *Match) endSuddenDeath(winner *seat) {
	if m.round == nil || !m.round.Close() {
		return
	}
	m.timers.Cancel(keySuddenCap)

	msg := types.SuddenDeathEnd{Word: m.round.Word, Scores: m.scores(), Players: m.players()}
	if winner == nil {
		m.broadcast(types.EvtSuddenDeathEnd, msg)
		m.conclude(OutcomeDraw, nil)
		return
	}
	p := winner.Player
	msg.Winner = &p
	m.broadcast(types.EvtSuddenDeathEnd, msg)
	m.conclude(OutcomeSuddenDeath, &p)
}

func (m *Match) suddenDeathTimeout() {
	if m.phase != PhaseSuddenDeath {
		return
	}
	m.log.Info("sudden death timed out")
	m.endSuddenDeath(nil)
}

func (m *Match) tiedPlayers() []types.Player {
	return lo.FilterMap(m.tied, func(id engine.PlayerID, _ int) (types.Player, bool) {
		s := m.seatByID(id)
		if s == nil {
			return types.Player{}, false
		}
		return s.Player, true
	})
}
