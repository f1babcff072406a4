package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Suraj-070/worduel/pkg/types"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name    string
		frame   string
		want    types.Request
		wantErr error
	}{
		{
			name:  "find match",
			frame: `{"event":"find_match","data":{"username":"ana"}}`,
			want:  types.FindMatch{Username: "ana"},
		},
		{
			name:  "guess",
			frame: `{"event":"submit_guess","data":{"roomId":"room_1","guess":"cat"}}`,
			want:  types.SubmitGuess{RoomID: "room_1", Guess: "cat"},
		},
		{
			name:  "join with code",
			frame: `{"event":"join_private_room","data":{"username":"bo","code":"abc-123"}}`,
			want:  types.JoinPrivateRoom{Username: "bo", Code: "abc-123"},
		},
		{
			name:  "find match without payload",
			frame: `{"event":"find_match"}`,
			want:  types.FindMatch{},
		},
		{
			name:    "not json",
			frame:   `{"event":`,
			wantErr: ErrBadJSON,
		},
		{
			name:    "unknown event",
			frame:   `{"event":"fly","data":{}}`,
			wantErr: ErrUnknownEvent,
		},
		{
			name:    "wrong payload shape",
			frame:   `{"event":"submit_guess","data":{"roomId":7}}`,
			wantErr: ErrBadJSON,
		},
		{
			name:    "missing room",
			frame:   `{"event":"request_hint","data":{}}`,
			wantErr: types.ErrMissingField,
		},
		{
			name:    "guess too long",
			frame:   `{"event":"submit_guess","data":{"roomId":"r","guess":"abcdefghijklmnopq"}}`,
			wantErr: types.ErrFieldTooLong,
		},
		{
			name:    "rejoin without username",
			frame:   `{"event":"rejoin_room","data":{"roomId":"r"}}`,
			wantErr: types.ErrMissingField,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode([]byte(tc.frame))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecode_RoomRequests(t *testing.T) {
	req, err := Decode([]byte(`{"event":"time_up","data":{"roomId":"room_9"}}`))
	require.NoError(t, err)
	rr, ok := req.(types.RoomRequest)
	require.True(t, ok)
	assert.Equal(t, "room_9", rr.Room())

	req, err = Decode([]byte(`{"event":"find_match","data":{"username":"x"}}`))
	require.NoError(t, err)
	_, ok = req.(types.RoomRequest)
	assert.False(t, ok)
}

func TestEncode(t *testing.T) {
	b, err := Encode(types.Message{Event: types.EvtJoinRoomError, Data: types.ErrorMessage{Message: "Room is full (max 6 players)."}})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "join_room_error", got["event"])
	assert.Equal(t, "Room is full (max 6 players).", got["data"].(map[string]any)["message"])
}

func TestNormalizeUsername(t *testing.T) {
	// "é" as e + combining acute vs the precomposed rune.
	assert.Equal(t, types.NormalizeUsername("Jos\u00e9"), types.NormalizeUsername("  Jose\u0301 "))
}
