package client

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Suraj-070/worduel/pkg/types"
)

const DefaultOutboxSize = 64

// Client is one live connection. The hub and every match it belongs to may
// push to it; only the transport reads its outbox. The outbox is never
// closed, so a late push to a dead connection is just dropped.
type Client struct {
	ID     string
	out    chan types.Message
	closed atomic.Bool
}

func New(id string, size int) *Client {
	if id == "" {
		id = uuid.NewString()
	}
	if size <= 0 {
		size = DefaultOutboxSize
	}
	return &Client{ID: id, out: make(chan types.Message, size)}
}

// Send queues a push without blocking. It reports false when the client is
// gone or its outbox is full.
func (c *Client) Send(event string, data any) bool {
	if c == nil || c.closed.Load() {
		return false
	}
	select {
	case c.out <- types.Message{Event: event, Data: data}:
		return true
	default:
		return false
	}
}

func (c *Client) Outbox() <-chan types.Message { return c.out }

// Close marks the connection gone. Further sends are dropped.
func (c *Client) Close() { c.closed.Store(true) }

func (c *Client) Closed() bool { return c.closed.Load() }
