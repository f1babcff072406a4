// Package sched provides cancellable delayed tasks for actor goroutines.
//
// A Timers value belongs to exactly one actor and must only be used from
// that actor's goroutine. When a task comes due, the timer goroutine does
// nothing but post a Fired message back to the actor; the actor then calls
// Take to learn whether the firing is still current. Re-arming or
// cancelling a key bumps its generation, so a timer that already fired and
// is sitting in the inbox is recognised as stale and dropped.
package sched

import (
	"strings"
	"time"
)

type Fired struct {
	Key string
	Gen uint64
}

type Timers struct {
	post   func(Fired)
	gen    map[string]uint64
	timers map[string]*time.Timer
}

// New returns Timers that deliver firings through post. post is called from
// timer goroutines and must be safe for that.
func New(post func(Fired)) *Timers {
	return &Timers{
		post:   post,
		gen:    make(map[string]uint64),
		timers: make(map[string]*time.Timer),
	}
}

// After arms key to fire once after d, replacing any pending task under the
// same key.
func (t *Timers) After(key string, d time.Duration) {
	t.stop(key)
	t.gen[key]++
	f := Fired{Key: key, Gen: t.gen[key]}
	t.timers[key] = time.AfterFunc(d, func() { t.post(f) })
}

func (t *Timers) Cancel(key string) {
	if _, ok := t.timers[key]; ok {
		t.stop(key)
		t.gen[key]++
	}
}

func (t *Timers) CancelPrefix(prefix string) {
	for key := range t.timers {
		if strings.HasPrefix(key, prefix) {
			t.Cancel(key)
		}
	}
}

func (t *Timers) CancelAll() {
	for key := range t.timers {
		t.Cancel(key)
	}
}

// Take reports whether f is the live firing for its key and, if so, retires
// the key.
func (t *Timers) Take(f Fired) bool {
	if _, ok := t.timers[f.Key]; !ok || t.gen[f.Key] != f.Gen {
		return false
	}
	delete(t.timers, f.Key)
	return true
}

func (t *Timers) Pending(key string) bool {
	_, ok := t.timers[key]
	return ok
}

func (t *Timers) Len() int { return len(t.timers) }

func (t *Timers) stop(key string) {
	if tm, ok := t.timers[key]; ok {
		tm.Stop()
		delete(t.timers, key)
	}
}
