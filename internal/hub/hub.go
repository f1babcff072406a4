package hub

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Suraj-070/worduel/internal/client"
	"github.com/Suraj-070/worduel/internal/history"
	"github.com/Suraj-070/worduel/internal/lobby"
	"github.com/Suraj-070/worduel/internal/match"
	"github.com/Suraj-070/worduel/internal/sched"
	"github.com/Suraj-070/worduel/pkg/types"
)

type Msg interface{ isHubMsg() }

// Connect registers a new connection and assigns it a player id.
type Connect struct {
	Client *client.Client
}

type FromClient struct {
	ClientID string
	Req      types.Request
}

type DisconnectClient struct {
	ClientID string
}

type GetStats struct {
	Reply chan Stats
}

type ShutdownHub struct{}

type matchEnded struct{ res match.Result }

type rebound struct {
	roomID, playerID, oldClientID, newClientID string
}

// rejoinFailed reports a rejoin the match refused.
type rejoinFailed struct {
	roomID string
	client *client.Client
	reason string
}

type timerFired struct{ sched.Fired }

func (Connect) isHubMsg()          {}
func (FromClient) isHubMsg()       {}
func (DisconnectClient) isHubMsg() {}
func (GetStats) isHubMsg()         {}
func (ShutdownHub) isHubMsg()      {}
func (matchEnded) isHubMsg()       {}
func (rebound) isHubMsg()          {}
func (rejoinFailed) isHubMsg()     {}
func (timerFired) isHubMsg()       {}

type Stats struct {
	Clients int `json:"clients"`
	Matches int `json:"matches"`
	Lobbies int `json:"lobbies"`
	Waiting int `json:"waiting"`
	Rematch int `json:"rematch"`
}

type Config struct {
	Words   match.Words
	Store   history.Store
	Timings match.Timings
	// RematchWindow is how long a lone rematch vote waits for the rest.
	RematchWindow time.Duration
	// Retention is how long a concluded match stays open to rematch votes.
	Retention time.Duration
	Logger    *zap.Logger
}

// conn is one registered connection and the player it currently speaks for.
type conn struct {
	client *client.Client
	player types.Player
	room   string
}

type Hub struct {
	inbox  chan Msg
	ctx    context.Context
	cancel context.CancelFunc

	conns   map[string]*conn
	queue   lobby.Queue
	lobbies *lobby.Registry
	matches map[string]*match.Match
	rematch map[string]*rematch
	timers  *sched.Timers

	cfg Config
	log *zap.Logger
}

func NewHub(parent context.Context, cfg Config) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if cfg.RematchWindow <= 0 {
		cfg.RematchWindow = 30 * time.Second
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	h := &Hub{
		inbox:   make(chan Msg, 256),
		ctx:     ctx,
		cancel:  cancel,
		conns:   make(map[string]*conn),
		lobbies: lobby.NewRegistry(),
		matches: make(map[string]*match.Match),
		rematch: make(map[string]*rematch),
		cfg:     cfg,
		log:     cfg.Logger.Named("hub"),
	}
	h.timers = sched.New(func(f sched.Fired) { h.Send(timerFired{f}) })
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

// Send delivers msg unless the hub has stopped.
func (h *Hub) Send(msg Msg) bool {
	if h.ctx.Err() != nil {
		return false
	}
	select {
	case h.inbox <- msg:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// Stats asks the hub for its counters.
func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	if !h.Send(GetStats{Reply: reply}) {
		return Stats{}, context.Canceled
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.timers.CancelAll()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Connect:
				h.connect(msg.Client)

			case FromClient:
				h.fromClient(msg)

			case DisconnectClient:
				h.disconnect(msg.ClientID)

			case matchEnded:
				h.onMatchEnded(msg.res)

			case rebound:
				h.onRebound(msg)

			case rejoinFailed:
				h.onRejoinFailed(msg)

			case timerFired:
				if h.timers.Take(msg.Fired) {
					h.fire(msg.Key)
				}

			case GetStats:
				msg.Reply <- Stats{
					Clients: len(h.conns),
					Matches: len(h.matches),
					Lobbies: h.lobbies.Len(),
					Waiting: h.queue.Len(),
					Rematch: len(h.rematch),
				}

			case ShutdownHub:
				for _, m := range h.matches {
					m.Send(match.Shutdown{})
				}
				clear(h.matches)
				h.timers.CancelAll()
				h.cancel()
			}
		}
	}
}

func (h *Hub) connect(c *client.Client) {
	if _, ok := h.conns[c.ID]; ok {
		return
	}
	id := newID()
	h.conns[c.ID] = &conn{
		client: c,
		player: types.Player{ID: id, Username: guestName(id), DisplayName: guestName(id)},
	}
	h.log.Debug("client connected", zap.String("client", c.ID), zap.String("player", id))
}

func (h *Hub) disconnect(clientID string) {
	c, ok := h.conns[clientID]
	if !ok {
		return
	}
	delete(h.conns, clientID)
	c.client.Close()

	if h.queue.Remove(c.player.ID) {
		h.log.Debug("left matchmaking", zap.String("player", c.player.ID))
	}
	for _, l := range h.lobbies.LeaveAll(c.player.ID) {
		l.Broadcast()
	}
	if m := h.matches[c.room]; m != nil {
		m.Send(match.Disconnect{ClientID: clientID})
	}
	for _, r := range h.rematch {
		if r.votes[c.player.ID] == c {
			delete(r.votes, c.player.ID)
		}
	}
	h.log.Debug("client disconnected", zap.String("client", clientID), zap.String("room", c.room))
}

func (h *Hub) newMatch(members []lobby.Member, private bool) *match.Match {
	id := newID()
	parts := make([]match.Participant, 0, len(members))
	for _, mem := range members {
		parts = append(parts, match.Participant{Player: mem.Player, Client: mem.Client})
		if c := h.conns[mem.Client.ID]; c != nil {
			c.room = id
		}
		// A seated player no longer waits anywhere else.
		h.queue.Remove(mem.Player.ID)
		for _, l := range h.lobbies.LeaveAll(mem.Player.ID) {
			l.Broadcast()
		}
	}

	m := match.New(h.ctx, match.Config{
		ID:           id,
		Participants: parts,
		Private:      private,
		Words:        h.cfg.Words,
		Timings:      h.cfg.Timings,
		Logger:       h.log.Named("match"),
		Hooks: match.Hooks{
			// Hooks run on the match goroutine; hand off so neither actor
			// ever waits on the other.
			OnEnd: func(res match.Result) { go h.Send(matchEnded{res: res}) },
			OnRebind: func(room, player, oldID, nextID string) {
				go h.Send(rebound{roomID: room, playerID: player, oldClientID: oldID, newClientID: nextID})
			},
			OnRejoinFailed: func(room string, c *client.Client, reason string) {
				go h.Send(rejoinFailed{roomID: room, client: c, reason: reason})
			},
		},
	})
	h.matches[id] = m
	m.Send(match.Start{})
	return m
}

func (h *Hub) onMatchEnded(res match.Result) {
	delete(h.matches, res.RoomID)
	for _, s := range res.Seats {
		if c := h.conns[s.ClientID]; c != nil && c.room == res.RoomID {
			c.room = ""
		}
	}
	h.openRematch(res)

	if h.cfg.Store != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.cfg.Store.Record(ctx, res); err != nil {
				h.log.Warn("failed to record match", zap.String("room", res.RoomID), zap.Error(err))
			}
		}()
	}
}

func (h *Hub) onRebound(msg rebound) {
	if c := h.conns[msg.oldClientID]; c != nil && msg.oldClientID != msg.newClientID && c.room == msg.roomID {
		c.room = ""
	}
	c := h.conns[msg.newClientID]
	if c == nil {
		return
	}
	c.room = msg.roomID
	c.player.ID = msg.playerID
	h.log.Debug("connection rebound", zap.String("room", msg.roomID), zap.String("player", msg.playerID))
}

// onRejoinFailed releases the optimistic room binding made in rejoinRoom
// before the client hears about it.
func (h *Hub) onRejoinFailed(msg rejoinFailed) {
	if c := h.conns[msg.client.ID]; c != nil && c.room == msg.roomID {
		c.room = ""
	}
	msg.client.Send(types.EvtRejoinFailed, types.ErrorMessage{Message: msg.reason})
}

// Hub timers are keyed "<room>/<kind>" so every timer of a rematch record
// can be dropped together.
const (
	kindRematch = "rematch"
	kindRetain  = "retain"
)

func roomKey(roomID, kind string) string { return roomID + "/" + kind }

func (h *Hub) fire(key string) {
	i := strings.LastIndexByte(key, '/')
	if i < 0 {
		return
	}
	roomID, kind := key[:i], key[i+1:]
	switch kind {
	case kindRematch:
		h.expireRematch(roomID)
	case kindRetain:
		h.dropRematch(roomID)
	}
}
