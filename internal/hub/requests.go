package hub

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Suraj-070/worduel/internal/lobby"
	"github.com/Suraj-070/worduel/internal/match"
	"github.com/Suraj-070/worduel/pkg/types"
)

const (
	msgRoomGone      = "Room no longer exists!"
	msgLobbyNotFound = "Lobby not found."
	msgInMatch       = "You are already in a match."
)

func newID() string { return uuid.NewString() }

func guestName(id string) string { return "Player_" + id[:4] }

// distinctName suffixes name with the player id so two seats never share a
// username, which rejoin relies on.
func distinctName(name, id string) string { return name + "_" + id[:4] }

func (h *Hub) fromClient(msg FromClient) {
	c, ok := h.conns[msg.ClientID]
	if !ok {
		h.log.Debug("request from unknown client", zap.String("client", msg.ClientID))
		return
	}

	switch req := msg.Req.(type) {
	case types.FindMatch:
		h.findMatch(c, req)
	case types.CreatePrivateRoom:
		h.createPrivate(c, req)
	case types.JoinPrivateRoom:
		h.joinPrivate(c, req)
	case types.StartPrivateGame:
		h.startPrivate(c, req)
	case types.LeavePrivateRoom:
		h.leavePrivate(c, req)
	case types.RequestRematch:
		h.requestRematch(c, req.RoomID)
	case types.DeclineRematch:
		h.declineRematch(c, req.RoomID)
	case types.RejoinRoom:
		h.rejoinRoom(c, req)
	case types.RoomRequest:
		h.forward(c, req)
	default:
		h.log.Warn("unhandled request", zap.String("event", msg.Req.Event()))
	}
}

func (h *Hub) setName(c *conn, username, display string) {
	if u := types.NormalizeUsername(username); u != "" {
		c.player.Username = u
		c.player.DisplayName = u
	}
	if d := types.NormalizeUsername(display); d != "" {
		c.player.DisplayName = d
	}
}

func (h *Hub) inLiveMatch(c *conn) bool {
	_, ok := h.matches[c.room]
	return ok
}

func (h *Hub) member(c *conn) lobby.Member {
	return lobby.Member{Player: c.player, Client: c.client}
}

func (h *Hub) findMatch(c *conn, req types.FindMatch) {
	if h.inLiveMatch(c) {
		c.client.Send(types.EvtError, types.ErrorMessage{Message: msgInMatch})
		return
	}
	h.setName(c, req.Username, req.DisplayName)

	opp, paired := h.queue.Enqueue(h.member(c))
	if !paired {
		c.client.Send(types.EvtWaitingForOpponent, types.Empty{})
		return
	}
	if opp.Player.Username == c.player.Username {
		c.player.Username = distinctName(c.player.Username, c.player.ID)
	}
	m := h.newMatch([]lobby.Member{opp, h.member(c)}, false)
	h.log.Info("matchmaking paired players",
		zap.String("room", m.ID()),
		zap.String("a", opp.Player.Username),
		zap.String("b", c.player.Username))
}

func (h *Hub) createPrivate(c *conn, req types.CreatePrivateRoom) {
	if h.inLiveMatch(c) {
		c.client.Send(types.EvtError, types.ErrorMessage{Message: msgInMatch})
		return
	}
	h.setName(c, req.Username, req.DisplayName)

	l, err := h.lobbies.Create(h.member(c))
	if err != nil {
		h.log.Error("create private lobby", zap.Error(err))
		c.client.Send(types.EvtJoinRoomError, types.ErrorMessage{Message: lobby.Message(err)})
		return
	}
	c.client.Send(types.EvtPrivateRoomCreated, l.Update())
	h.log.Info("private lobby created", zap.String("code", l.Code), zap.String("host", c.player.Username))
}

func (h *Hub) joinPrivate(c *conn, req types.JoinPrivateRoom) {
	if h.inLiveMatch(c) {
		c.client.Send(types.EvtError, types.ErrorMessage{Message: msgInMatch})
		return
	}
	h.setName(c, req.Username, req.DisplayName)

	l, err := h.lobbies.Join(req.Code, h.member(c))
	if err != nil {
		h.log.Debug("join private lobby rejected", zap.String("code", req.Code), zap.Error(err))
		c.client.Send(types.EvtJoinRoomError, types.ErrorMessage{Message: lobby.Message(err)})
		return
	}
	l.Broadcast()
}

func (h *Hub) startPrivate(c *conn, req types.StartPrivateGame) {
	l, err := h.lobbies.Start(req.Code, c.player.ID)
	if err != nil {
		text := lobby.Message(err)
		if errors.Is(err, lobby.ErrLobbyNotFound) {
			text = msgLobbyNotFound
		}
		c.client.Send(types.EvtJoinRoomError, types.ErrorMessage{Message: text})
		return
	}
	m := h.newMatch(l.Members, true)
	h.log.Info("private game started", zap.String("code", l.Code), zap.String("room", m.ID()), zap.Int("players", len(l.Members)))
}

func (h *Hub) leavePrivate(c *conn, req types.LeavePrivateRoom) {
	l, err := h.lobbies.Leave(req.Code, c.player.ID)
	if err != nil {
		return
	}
	if l == nil {
		h.log.Debug("private lobby disbanded", zap.String("code", lobby.NormalizeCode(req.Code)))
		return
	}
	l.Broadcast()
}

// forward routes an in-match request to its match.
func (h *Hub) forward(c *conn, req types.RoomRequest) {
	m, ok := h.matches[req.Room()]
	if !ok {
		c.client.Send(types.EvtError, types.ErrorMessage{Message: msgRoomGone})
		return
	}
	m.Send(match.FromClient{ClientID: c.client.ID, Req: req})
}

func (h *Hub) rejoinRoom(c *conn, req types.RejoinRoom) {
	m, ok := h.matches[req.RoomID]
	if !ok {
		c.client.Send(types.EvtRejoinFailed, types.ErrorMessage{Message: msgRoomGone})
		return
	}
	// Bind now so a disconnect racing the rebind still reaches the match.
	c.room = req.RoomID
	c.player.Username = types.NormalizeUsername(req.Username)
	m.Send(match.Rejoin{Client: c.client, Username: req.Username})
}
