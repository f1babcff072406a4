package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/Suraj-070/worduel/pkg/types"
)

var ErrBadJSON = errors.New("bad json")
var ErrUnknownEvent = errors.New("unknown event")

type ClientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type ServerMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Decode parses one inbound frame into its typed request and validates it.
// The returned request is a value, never a pointer.
func Decode(frame []byte) (types.Request, error) {
	var cm ClientMessage
	if err := json.Unmarshal(frame, &cm); err != nil {
		return nil, ErrBadJSON
	}

	req, ok := types.NewRequest(cm.Event)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, cm.Event)
	}
	if len(cm.Data) > 0 && string(cm.Data) != "null" {
		if err := json.Unmarshal(cm.Data, req); err != nil {
			return nil, fmt.Errorf("%w: %s payload", ErrBadJSON, cm.Event)
		}
	}

	req = reflect.ValueOf(req).Elem().Interface().(types.Request)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", cm.Event, err)
	}
	return req, nil
}

func Encode(msg types.Message) ([]byte, error) {
	return json.Marshal(ServerMessage{Event: msg.Event, Data: msg.Data})
}
