package match

import (
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Suraj-070/worduel/internal/client"
	"github.com/Suraj-070/worduel/internal/engine"
	"github.com/Suraj-070/worduel/pkg/types"
)

const (
	msgDisconnected = "⚠️ Opponent disconnected, waiting 30 seconds..."
	msgReconnected  = "✅ Opponent reconnected, game continues!"
	msgForfeited    = "🏆 Opponent failed to reconnect. You Win!"
	msgNoPlayer     = "Player not found in room!"
)

func graceKey(id string) string { return keyGracePrefix + id }

// disconnect starts the grace period for the seat bound to clientID. The
// countdown chain doubles as the forfeiture timer: reaching zero forfeits.
func (m *Match) disconnect(clientID string) {
	s := m.seatByClient(clientID)
	if s == nil {
		return
	}
	s.disconnected = true
	s.graceLeft = m.timings.ticks(m.timings.Grace)
	m.log.Info("player disconnected", zap.String("player", s.ID), zap.Int("grace", s.graceLeft))

	m.broadcastExcept(s, types.EvtOpponentDisconnected, types.OpponentDisconnected{
		Player:  s.Player,
		Message: msgDisconnected,
		Grace:   s.graceLeft,
	})
	m.timers.After(graceKey(s.ID), m.timings.Tick)
}

func (m *Match) graceTick(id engine.PlayerID) {
	s := m.seatByID(id)
	if s == nil || !s.disconnected {
		return
	}
	s.graceLeft--
	m.broadcastExcept(s, types.EvtReconnectCountdown, types.ReconnectCountdown{PlayerID: s.ID, Seconds: s.graceLeft})
	if s.graceLeft > 0 {
		m.timers.After(graceKey(s.ID), m.timings.Tick)
		return
	}
	m.forfeit(s)
}

// forfeit ends the match in favour of everyone still connected. The top
// scorer among them is named the winner.
func (m *Match) forfeit(gone *seat) {
	remaining := lo.Filter(m.seats, func(s *seat, _ int) bool { return s != gone && !s.disconnected })

	var winner *types.Player
	if len(remaining) > 0 {
		top := lo.MaxBy(remaining, func(a, b *seat) bool { return a.score > b.score })
		p := top.Player
		winner = &p
	}
	m.log.Info("player forfeited", zap.String("player", gone.ID))

	m.broadcastExcept(gone, types.EvtOpponentForfeited, types.OpponentForfeited{
		Winner:    winner,
		Winners:   lo.Map(remaining, func(s *seat, _ int) types.Player { return s.Player }),
		Forfeited: gone.Player,
		Message:   msgForfeited,
	})
	m.conclude(OutcomeForfeit, winner)
}

// rejoin rebinds a seat to a new connection. The seat is found by username,
// so every per-player record carries over untouched. A live seat can be
// taken over too, which covers a reload that beats the close frame.
func (m *Match) rejoin(c *client.Client, username string) {
	s := m.seatByUsername(username)
	if s == nil {
		m.log.Debug("rejoin refused", zap.String("client", c.ID))
		if m.hooks.OnRejoinFailed != nil {
			m.hooks.OnRejoinFailed(m.id, c, msgNoPlayer)
			return
		}
		c.Send(types.EvtRejoinFailed, types.ErrorMessage{Message: msgNoPlayer})
		return
	}

	old := ""
	if s.client != nil {
		old = s.client.ID
	}
	wasAway := s.disconnected
	m.timers.Cancel(graceKey(s.ID))
	s.client = c
	s.disconnected = false
	s.graceLeft = 0
	m.log.Info("player rejoined", zap.String("player", s.ID), zap.String("client", c.ID), zap.Bool("was_away", wasAway))

	m.deliver(s, types.EvtRejoinSuccess, m.snapshot(s))
	if wasAway {
		m.broadcastExcept(s, types.EvtOpponentReconnected, types.OpponentReconnected{Player: s.Player, Message: msgReconnected})
	}
	if m.hooks.OnRebind != nil {
		m.hooks.OnRebind(m.id, s.ID, old, c.ID)
	}
}

func (m *Match) snapshot(s *seat) types.RejoinSnapshot {
	snap := types.RejoinSnapshot{
		RoomID:        m.id,
		YouID:         s.ID,
		Phase:         string(m.phase),
		Round:         m.roundIndex,
		TotalRounds:   m.totalRounds,
		Players:       m.players(),
		Scores:        m.scores(),
		Streaks:       m.streaks(),
		IsSuddenDeath: m.phase == PhaseSuddenDeath || m.phase == PhaseSuddenDeathCountdown,
		TiedPlayers:   m.tiedPlayers(),
	}
	r := m.round
	if r == nil {
		return snap
	}
	snap.ShuffledLetters = r.Letters
	snap.WordLength = len(r.Word)
	snap.RoundStartTime = r.StartedAt.UnixMilli()
	if r.Mode == engine.ModeNormal {
		snap.TimeLimit = int(r.Config.TimeLimit.Seconds())
		snap.TimeRemaining = int(r.Remaining(m.now()).Seconds())
	}
	if pr := r.Players[engine.PlayerID(s.ID)]; pr != nil {
		snap.Guesses = append([]engine.GuessRecord{}, pr.Guesses...)
		snap.HintUsed = pr.HintUsed
		snap.Finished = pr.Finished
		if pr.HintUsed {
			snap.Hint = r.Hint
		}
	}
	return snap
}
