package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Suraj-070/worduel/internal/history"
	"github.com/Suraj-070/worduel/internal/hub"
	"github.com/Suraj-070/worduel/internal/match"
	"github.com/Suraj-070/worduel/internal/words"
	"github.com/Suraj-070/worduel/pkg/types"
)

func newServer(t *testing.T) (*httptest.Server, *history.Memory) {
	t.Helper()
	log := zaptest.NewLogger(t)
	repo, err := words.New([]words.Entry{{Word: "cat"}, {Word: "bead"}}, nil, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	store := history.NewMemory(10)
	h := hub.NewHub(ctx, hub.Config{Words: repo, Store: store, Logger: log})

	srv := httptest.NewServer(SetupRoutes(Deps{Hub: h, Words: repo, History: store, Logger: log}))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestHealthz(t *testing.T) {
	srv, _ := newServer(t)

	res, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var body health
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 2, body.Words)
	assert.Zero(t, body.Matches)
}

func TestRecentMatches(t *testing.T) {
	srv, store := newServer(t)
	winner := types.Player{ID: "p1", Username: "alice"}
	for _, room := range []string{"r1", "r2"} {
		require.NoError(t, store.Record(context.Background(), match.Result{
			RoomID:  room,
			Outcome: match.OutcomeWinner,
			Winner:  &winner,
			Seats:   []match.SeatResult{{Player: winner, Score: 9, Online: true}},
			EndedAt: time.Now(),
		}))
	}

	t.Run("limit", func(t *testing.T) {
		res, err := http.Get(srv.URL + "/matches/recent?limit=1")
		require.NoError(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)

		var body struct {
			Matches []history.Summary `json:"matches"`
		}
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		require.Len(t, body.Matches, 1)
		assert.Equal(t, "r2", body.Matches[0].RoomID)
		assert.Equal(t, "p1", body.Matches[0].WinnerID)
	})

	t.Run("bad limit", func(t *testing.T) {
		res, err := http.Get(srv.URL + "/matches/recent?limit=lots")
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func readEvent(t *testing.T, ctx context.Context, c *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	_, data, err := c.Read(ctx)
	require.NoError(t, err)
	var msg struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg.Event, msg.Data
}

func TestWebsocket_RoundTrip(t *testing.T) {
	srv, _ := newServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	c, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")

	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(`{"event":"find_match","data":{"username":"alice"}}`)))
	event, _ := readEvent(t, ctx, c)
	assert.Equal(t, types.EvtWaitingForOpponent, event)

	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(`{"event":"dance"}`)))
	event, data := readEvent(t, ctx, c)
	assert.Equal(t, types.EvtError, event)
	assert.Contains(t, string(data), "unknown event")

	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(`not json`)))
	event, _ = readEvent(t, ctx, c)
	assert.Equal(t, types.EvtError, event)
}
