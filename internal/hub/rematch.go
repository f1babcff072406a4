package hub

import (
	"go.uber.org/zap"

	"github.com/Suraj-070/worduel/internal/lobby"
	"github.com/Suraj-070/worduel/internal/match"
	"github.com/Suraj-070/worduel/pkg/types"
)

// rematch is what a concluded match leaves behind: its roster, and the
// votes cast so far for playing again.
type rematch struct {
	roomID  string
	private bool
	seats   []match.SeatResult
	votes   map[string]*conn
}

func (h *Hub) openRematch(res match.Result) {
	h.rematch[res.RoomID] = &rematch{
		roomID:  res.RoomID,
		private: res.Private,
		seats:   res.Seats,
		votes:   make(map[string]*conn),
	}
	h.timers.After(roomKey(res.RoomID, kindRetain), h.cfg.Retention)
}

func (r *rematch) seat(playerID string) (match.SeatResult, bool) {
	for _, s := range r.seats {
		if s.Player.ID == playerID {
			return s, true
		}
	}
	return match.SeatResult{}, false
}

// others returns live connections of every roster player except playerID.
func (h *Hub) others(r *rematch, playerID string) []*conn {
	var out []*conn
	for _, s := range r.seats {
		if s.Player.ID == playerID {
			continue
		}
		if v := r.votes[s.Player.ID]; v != nil {
			out = append(out, v)
			continue
		}
		if c := h.conns[s.ClientID]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (h *Hub) requestRematch(c *conn, roomID string) {
	r, ok := h.rematch[roomID]
	if !ok {
		return
	}
	seat, ok := r.seat(c.player.ID)
	if !ok || r.votes[c.player.ID] != nil {
		return
	}
	r.votes[c.player.ID] = c

	for _, o := range h.others(r, c.player.ID) {
		o.client.Send(types.EvtOpponentWantsRematch, types.OpponentWantsRematch{Player: seat.Player})
	}

	if len(r.votes) < len(r.seats) {
		h.timers.After(roomKey(roomID, kindRematch), h.cfg.RematchWindow)
		return
	}

	members := make([]lobby.Member, 0, len(r.seats))
	for _, s := range r.seats {
		v := r.votes[s.Player.ID]
		members = append(members, lobby.Member{Player: s.Player, Client: v.client})
	}
	h.dropRematch(roomID)
	m := h.newMatch(members, r.private)
	h.log.Info("rematch started", zap.String("from", roomID), zap.String("room", m.ID()))
}

func (h *Hub) declineRematch(c *conn, roomID string) {
	r, ok := h.rematch[roomID]
	if !ok {
		return
	}
	if _, ok := r.seat(c.player.ID); !ok {
		return
	}
	for _, o := range h.others(r, c.player.ID) {
		o.client.Send(types.EvtRematchDeclined, types.Empty{})
	}
	h.dropRematch(roomID)
}

func (h *Hub) expireRematch(roomID string) {
	r, ok := h.rematch[roomID]
	if !ok {
		return
	}
	for _, v := range r.votes {
		v.client.Send(types.EvtRematchExpired, types.Empty{})
	}
	h.log.Debug("rematch expired", zap.String("room", roomID))
	h.dropRematch(roomID)
}

func (h *Hub) dropRematch(roomID string) {
	delete(h.rematch, roomID)
	h.timers.CancelPrefix(roomID + "/")
}
