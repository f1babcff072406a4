// Package lobby holds the pre-match state: the public matchmaking slot and
// private lobbies joined by code. Nothing here is safe for concurrent use;
// the hub goroutine owns both structures.
package lobby

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/Suraj-070/worduel/internal/client"
	"github.com/Suraj-070/worduel/pkg/types"
)

const (
	MaxPlayers     = 6
	MinPlayers     = 2
	maxCodeRetries = 32
)

var (
	ErrLobbyNotFound    = errors.New("lobby not found")
	ErrLobbyFull        = errors.New("lobby is full")
	ErrAlreadyInLobby   = errors.New("player already in lobby")
	ErrNameTaken        = errors.New("username taken in lobby")
	ErrNotHost          = errors.New("only the host can start")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrCodeExhausted    = errors.New("could not allocate a free lobby code")
)

// Message renders err the way players see it.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrLobbyFull):
		return fmt.Sprintf("Room is full (max %d players).", MaxPlayers)
	case errors.Is(err, ErrAlreadyInLobby):
		return "You are already in this room."
	case errors.Is(err, ErrNameTaken):
		return "That name is already taken in this room."
	case errors.Is(err, ErrNotHost):
		return "Only the host can start the game."
	case errors.Is(err, ErrNotEnoughPlayers):
		return fmt.Sprintf("Need at least %d players to start.", MinPlayers)
	case errors.Is(err, ErrLobbyNotFound):
		return "Room not found. Check the code and try again."
	default:
		return "Something went wrong. Please try again."
	}
}

// Member is a player waiting somewhere before a match, with the connection
// it is waiting on.
type Member struct {
	Player types.Player
	Client *client.Client
}

type Lobby struct {
	Code    string
	Host    string
	Members []Member
}

func (l *Lobby) Players() []types.Player {
	return lo.Map(l.Members, func(m Member, _ int) types.Player { return m.Player })
}

func (l *Lobby) Has(playerID string) bool {
	return lo.ContainsBy(l.Members, func(m Member) bool { return m.Player.ID == playerID })
}

// HasName reports whether a member already plays under username.
func (l *Lobby) HasName(username string) bool {
	username = types.NormalizeUsername(username)
	return lo.ContainsBy(l.Members, func(m Member) bool { return m.Player.Username == username })
}

func (l *Lobby) Update() types.LobbyUpdate {
	return types.LobbyUpdate{Code: l.Code, Players: l.Players(), Host: l.Host}
}

// Broadcast pushes a lobby_update to every member.
func (l *Lobby) Broadcast() {
	u := l.Update()
	for _, m := range l.Members {
		m.Client.Send(types.EvtLobbyUpdate, u)
	}
}

type Registry struct {
	lobbies map[string]*Lobby
	gen     func() (string, error)
}

func NewRegistry() *Registry {
	return &Registry{lobbies: make(map[string]*Lobby), gen: GenerateCode}
}

// Create opens a lobby with host as its first member under a fresh code.
func (r *Registry) Create(host Member) (*Lobby, error) {
	for i := 0; i < maxCodeRetries; i++ {
		code, err := r.gen()
		if err != nil {
			return nil, fmt.Errorf("generate lobby code: %w", err)
		}
		if _, taken := r.lobbies[code]; taken {
			continue
		}
		l := &Lobby{Code: code, Host: host.Player.ID, Members: []Member{host}}
		r.lobbies[code] = l
		return l, nil
	}
	return nil, ErrCodeExhausted
}

func (r *Registry) Get(code string) (*Lobby, bool) {
	l, ok := r.lobbies[NormalizeCode(code)]
	return l, ok
}

func (r *Registry) Join(code string, m Member) (*Lobby, error) {
	l, ok := r.Get(code)
	switch {
	case !ok:
		return nil, ErrLobbyNotFound
	case l.Has(m.Player.ID):
		return nil, ErrAlreadyInLobby
	case len(l.Members) >= MaxPlayers:
		return nil, ErrLobbyFull
	case l.HasName(m.Player.Username):
		return nil, ErrNameTaken
	}
	l.Members = append(l.Members, m)
	return l, nil
}

// Start removes the lobby and hands back its roster for a match.
func (r *Registry) Start(code, playerID string) (*Lobby, error) {
	l, ok := r.Get(code)
	switch {
	case !ok:
		return nil, ErrLobbyNotFound
	case l.Host != playerID:
		return nil, ErrNotHost
	case len(l.Members) < MinPlayers:
		return nil, ErrNotEnoughPlayers
	}
	delete(r.lobbies, l.Code)
	return l, nil
}

// Leave drops playerID from the lobby. Host passes to the next member in
// join order; an empty lobby is discarded and reported as nil.
func (r *Registry) Leave(code, playerID string) (*Lobby, error) {
	l, ok := r.Get(code)
	if !ok {
		return nil, ErrLobbyNotFound
	}
	return r.remove(l, playerID), nil
}

// LeaveAll drops playerID from every lobby it is in and returns the lobbies
// that still exist afterwards.
func (r *Registry) LeaveAll(playerID string) []*Lobby {
	var changed []*Lobby
	for _, l := range r.lobbies {
		if !l.Has(playerID) {
			continue
		}
		if rest := r.remove(l, playerID); rest != nil {
			changed = append(changed, rest)
		}
	}
	return changed
}

func (r *Registry) Len() int { return len(r.lobbies) }

func (r *Registry) remove(l *Lobby, playerID string) *Lobby {
	l.Members = lo.Reject(l.Members, func(m Member, _ int) bool { return m.Player.ID == playerID })
	if len(l.Members) == 0 {
		delete(r.lobbies, l.Code)
		return nil
	}
	if l.Host == playerID {
		l.Host = l.Members[0].Player.ID
	}
	return l
}
