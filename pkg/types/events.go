package types

import "github.com/Suraj-070/worduel/internal/engine"

// Server -> Client
//
// Every push is {"event": <name>, "data": <payload>}. Scores are keyed by
// the logical player id, which survives reconnects.

const (
	EvtWaitingForOpponent   = "waiting_for_opponent"
	EvtMatchFound           = "match_found"
	EvtPrivateRoomCreated   = "private_room_created"
	EvtLobbyUpdate          = "lobby_update"
	EvtJoinRoomError        = "join_room_error"
	EvtRoundStart           = "round_start"
	EvtInvalidWord          = "invalid_word"
	EvtGuessResult          = "guess_result"
	EvtOpponentGuessed      = "opponent_guessed"
	EvtHintRevealed         = "hint_revealed"
	EvtHintAlreadyUsed      = "hint_already_used"
	EvtRoundEnd             = "round_end"
	EvtSessionEnd           = "session_end"
	EvtSuddenDeathCountdown = "sudden_death_countdown"
	EvtSuddenDeathStart     = "sudden_death_start"
	EvtSuddenDeathEnd       = "sudden_death_end"
	EvtOpponentDisconnected = "opponent_disconnected_temp"
	EvtReconnectCountdown   = "reconnect_countdown"
	EvtOpponentReconnected  = "opponent_reconnected"
	EvtOpponentForfeited    = "opponent_forfeited"
	EvtOpponentWantsRematch = "opponent_wants_rematch"
	EvtRematchDeclined      = "rematch_declined"
	EvtRematchExpired       = "rematch_expired"
	EvtRejoinSuccess        = "rejoin_success"
	EvtRejoinFailed         = "rejoin_failed"
	EvtTauntReceived        = "taunt_received"
	EvtTauntBroadcast       = "taunt_broadcast"
	EvtError                = "error"
)

// Message is one outbound push before it is encoded onto the wire.
type Message struct {
	Event string
	Data  any
}

type Player struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

type Scores map[string]int

type MatchFound struct {
	RoomID      string   `json:"roomId"`
	Players     []Player `json:"players"`
	TotalRounds int      `json:"totalRounds"`
	IsPrivate   bool     `json:"isPrivate"`
	YouID       string   `json:"youId"`
}

type LobbyUpdate struct {
	Code    string   `json:"code"`
	Players []Player `json:"players"`
	Host    string   `json:"host"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

type RoundStart struct {
	Round           int      `json:"round"`
	ShuffledLetters []string `json:"shuffledLetters"`
	WordLength      int      `json:"wordLength"`
	TimeLimit       int      `json:"timeLimit"`
	HasHint         bool     `json:"hasHint"`
}

type InvalidWord struct {
	Guess  string `json:"guess"`
	Reason string `json:"reason"`
}

type GuessResult struct {
	Guess        string                `json:"guess"`
	Result       []engine.LetterResult `json:"result"`
	GuessNumber  int                   `json:"guessNumber"`
	IsCorrect    bool                  `json:"isCorrect"`
	PointsEarned int                   `json:"pointsEarned"`
	Bonuses      []string              `json:"bonuses"`
	TotalScore   int                   `json:"totalScore"`
	AttemptsLeft int                   `json:"attemptsLeft"`
}

type OpponentGuessed struct {
	PlayerID    string `json:"playerId"`
	Username    string `json:"username"`
	GuessNumber int    `json:"guessNumber"`
	IsCorrect   bool   `json:"isCorrect"`
	Scores      Scores `json:"scores"`
}

type HintRevealed struct {
	Hint       string `json:"hint"`
	Penalty    int    `json:"penalty"`
	TotalScore int    `json:"totalScore"`
}

type RoundEnd struct {
	Round   int      `json:"round"`
	Word    string   `json:"word"`
	Scores  Scores   `json:"scores"`
	Streaks Scores   `json:"streaks"`
	Players []Player `json:"players"`
}

type SessionEnd struct {
	Scores  Scores   `json:"scores"`
	Players []Player `json:"players"`
	Winner  *Player  `json:"winner"`
}

type SuddenDeathCountdown struct {
	Seconds     int      `json:"seconds"`
	TiedPlayers []Player `json:"tiedPlayers"`
}

type SuddenDeathStart struct {
	ShuffledLetters []string `json:"shuffledLetters"`
	WordLength      int      `json:"wordLength"`
	HasHint         bool     `json:"hasHint"`
	TiedPlayers     []Player `json:"tiedPlayers"`
}

type SuddenDeathEnd struct {
	Word    string   `json:"word"`
	Winner  *Player  `json:"winner"`
	Scores  Scores   `json:"scores"`
	Players []Player `json:"players"`
}

type OpponentDisconnected struct {
	Player  Player `json:"player"`
	Message string `json:"message"`
	Grace   int    `json:"grace"`
}

type ReconnectCountdown struct {
	PlayerID string `json:"playerId"`
	Seconds  int    `json:"seconds"`
}

type OpponentReconnected struct {
	Player  Player `json:"player"`
	Message string `json:"message"`
}

type OpponentForfeited struct {
	Winner    *Player  `json:"winner"`
	Winners   []Player `json:"winners"`
	Forfeited Player   `json:"forfeited"`
	Message   string   `json:"message"`
}

type OpponentWantsRematch struct {
	Player Player `json:"player"`
}

type TauntMessage struct {
	TauntID      string `json:"tauntId"`
	FromUsername string `json:"fromUsername"`
	ToID         string `json:"toId,omitempty"`
}

type Empty struct{}
