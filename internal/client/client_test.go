package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Suraj-070/worduel/pkg/types"
)

func TestClient_SendIsNonBlocking(t *testing.T) {
	c := New("c1", 1)

	require.True(t, c.Send(types.EvtWaitingForOpponent, types.Empty{}))
	assert.False(t, c.Send(types.EvtWaitingForOpponent, types.Empty{}), "full outbox drops")

	msg := <-c.Outbox()
	assert.Equal(t, types.EvtWaitingForOpponent, msg.Event)

	c.Close()
	assert.True(t, c.Closed())
	assert.False(t, c.Send(types.EvtError, types.ErrorMessage{}))
}

func TestClient_GeneratesID(t *testing.T) {
	a, b := New("", 0), New("", 0)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)

	var nilClient *Client
	assert.False(t, nilClient.Send(types.EvtError, nil))
}
