package types

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Client -> Server
//
// Every request arrives as {"event": <name>, "data": <payload>}. The set of
// requests is closed: NewRequest knows every event name a client may send.
//
//   find_match          {username, displayName?}
//   create_private_room {username, displayName?}
//   join_private_room   {username, displayName?, code}
//   start_private_game  {code}
//   leave_private_room  {code}
//   submit_guess        {roomId, guess}
//   request_hint        {roomId}
//   time_up             {roomId}
//   send_taunt          {roomId, tauntId, toId?}
//   request_rematch     {roomId}
//   decline_rematch     {roomId}
//   rejoin_room         {roomId, username}

const (
	ReqFindMatch         = "find_match"
	ReqCreatePrivateRoom = "create_private_room"
	ReqJoinPrivateRoom   = "join_private_room"
	ReqStartPrivateGame  = "start_private_game"
	ReqLeavePrivateRoom  = "leave_private_room"
	ReqSubmitGuess       = "submit_guess"
	ReqRequestHint       = "request_hint"
	ReqTimeUp            = "time_up"
	ReqSendTaunt         = "send_taunt"
	ReqRequestRematch    = "request_rematch"
	ReqDeclineRematch    = "decline_rematch"
	ReqRejoinRoom        = "rejoin_room"
)

const (
	MaxUsernameRunes = 20
	MaxGuessLength   = 16
)

var ErrMissingField = errors.New("missing required field")
var ErrFieldTooLong = errors.New("field too long")

type Request interface {
	Event() string
	Validate() error
	isRequest()
}

// RoomRequest is implemented by requests addressed to a live match.
type RoomRequest interface {
	Request
	Room() string
}

type FindMatch struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
}

type CreatePrivateRoom struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
}

type JoinPrivateRoom struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	Code        string `json:"code"`
}

type StartPrivateGame struct {
	Code string `json:"code"`
}

type LeavePrivateRoom struct {
	Code string `json:"code"`
}

type SubmitGuess struct {
	RoomID string `json:"roomId"`
	Guess  string `json:"guess"`
}

type RequestHint struct {
	RoomID string `json:"roomId"`
}

type TimeUp struct {
	RoomID string `json:"roomId"`
}

type SendTaunt struct {
	RoomID  string `json:"roomId"`
	TauntID string `json:"tauntId"`
	ToID    string `json:"toId,omitempty"`
}

type RequestRematch struct {
	RoomID string `json:"roomId"`
}

type DeclineRematch struct {
	RoomID string `json:"roomId"`
}

type RejoinRoom struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

func (FindMatch) isRequest()         {}
func (CreatePrivateRoom) isRequest() {}
func (JoinPrivateRoom) isRequest()   {}
func (StartPrivateGame) isRequest()  {}
func (LeavePrivateRoom) isRequest()  {}
func (SubmitGuess) isRequest()       {}
func (RequestHint) isRequest()       {}
func (TimeUp) isRequest()            {}
func (SendTaunt) isRequest()         {}
func (RequestRematch) isRequest()    {}
func (DeclineRematch) isRequest()    {}
func (RejoinRoom) isRequest()        {}

func (FindMatch) Event() string         { return ReqFindMatch }
func (CreatePrivateRoom) Event() string { return ReqCreatePrivateRoom }
func (JoinPrivateRoom) Event() string   { return ReqJoinPrivateRoom }
func (StartPrivateGame) Event() string  { return ReqStartPrivateGame }
func (LeavePrivateRoom) Event() string  { return ReqLeavePrivateRoom }
func (SubmitGuess) Event() string       { return ReqSubmitGuess }
func (RequestHint) Event() string       { return ReqRequestHint }
func (TimeUp) Event() string            { return ReqTimeUp }
func (SendTaunt) Event() string         { return ReqSendTaunt }
func (RequestRematch) Event() string    { return ReqRequestRematch }
func (DeclineRematch) Event() string    { return ReqDeclineRematch }
func (RejoinRoom) Event() string        { return ReqRejoinRoom }

func (m SubmitGuess) Room() string { return m.RoomID }
func (m RequestHint) Room() string { return m.RoomID }
func (m TimeUp) Room() string      { return m.RoomID }
func (m SendTaunt) Room() string   { return m.RoomID }

func (m FindMatch) Validate() error         { return checkName(m.Username, m.DisplayName) }
func (m CreatePrivateRoom) Validate() error { return checkName(m.Username, m.DisplayName) }

func (m JoinPrivateRoom) Validate() error {
	if strings.TrimSpace(m.Code) == "" {
		return fieldErr("code", ErrMissingField)
	}
	return checkName(m.Username, m.DisplayName)
}

func (m StartPrivateGame) Validate() error { return required("code", m.Code) }
func (m LeavePrivateRoom) Validate() error { return required("code", m.Code) }

func (m SubmitGuess) Validate() error {
	if err := required("roomId", m.RoomID); err != nil {
		return err
	}
	if err := required("guess", m.Guess); err != nil {
		return err
	}
	if len(m.Guess) > MaxGuessLength {
		return fieldErr("guess", ErrFieldTooLong)
	}
	return nil
}

func (m RequestHint) Validate() error    { return required("roomId", m.RoomID) }
func (m TimeUp) Validate() error         { return required("roomId", m.RoomID) }
func (m RequestRematch) Validate() error { return required("roomId", m.RoomID) }
func (m DeclineRematch) Validate() error { return required("roomId", m.RoomID) }

func (m SendTaunt) Validate() error {
	if err := required("roomId", m.RoomID); err != nil {
		return err
	}
	return required("tauntId", m.TauntID)
}

func (m RejoinRoom) Validate() error {
	if err := required("roomId", m.RoomID); err != nil {
		return err
	}
	return required("username", m.Username)
}

// NewRequest returns a zero request for an event name, ready to be decoded
// into. Unknown names report false.
func NewRequest(event string) (Request, bool) {
	switch event {
	case ReqFindMatch:
		return &FindMatch{}, true
	case ReqCreatePrivateRoom:
		return &CreatePrivateRoom{}, true
	case ReqJoinPrivateRoom:
		return &JoinPrivateRoom{}, true
	case ReqStartPrivateGame:
		return &StartPrivateGame{}, true
	case ReqLeavePrivateRoom:
		return &LeavePrivateRoom{}, true
	case ReqSubmitGuess:
		return &SubmitGuess{}, true
	case ReqRequestHint:
		return &RequestHint{}, true
	case ReqTimeUp:
		return &TimeUp{}, true
	case ReqSendTaunt:
		return &SendTaunt{}, true
	case ReqRequestRematch:
		return &RequestRematch{}, true
	case ReqDeclineRematch:
		return &DeclineRematch{}, true
	case ReqRejoinRoom:
		return &RejoinRoom{}, true
	}
	return nil, false
}

// NormalizeUsername trims and NFC-normalizes a username so the same name
// typed on different clients compares equal on rejoin.
func NormalizeUsername(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(field string, err error) error { return &FieldError{Field: field, Err: err} }

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fieldErr(field, ErrMissingField)
	}
	return nil
}

func checkName(username, display string) error {
	if utf8.RuneCountInString(NormalizeUsername(username)) > MaxUsernameRunes {
		return fieldErr("username", ErrFieldTooLong)
	}
	if utf8.RuneCountInString(NormalizeUsername(display)) > MaxUsernameRunes {
		return fieldErr("displayName", ErrFieldTooLong)
	}
	return nil
}
