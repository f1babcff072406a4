package history

import (
	"context"
	"slices"
	"sync"

	"github.com/Suraj-070/worduel/internal/match"
)

// Memory keeps the newest summaries in a bounded slice.
type Memory struct {
	mu    sync.RWMutex
	items []Summary
	cap   int
}

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = MaxLimit
	}
	return &Memory{cap: capacity}
}

func (m *Memory) Record(_ context.Context, res match.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, Summarize(res))
	if over := len(m.items) - m.cap; over > 0 {
		m.items = slices.Delete(m.items, 0, over)
	}
	return nil
}

func (m *Memory) Recent(_ context.Context, limit int) ([]Summary, error) {
	limit = ClampLimit(limit)
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Summary, 0, min(limit, len(m.items)))
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.items[i])
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
