// Package reveal drives the character-by-character display of a composed
// reply in the terminal shell. The reply is computed in full before the
// reveal starts; a Task only walks a cursor across it and can be stopped
// between any two characters.
package reveal

import (
	"context"
	"sync/atomic"
	"time"
)

// StoppedMarker is appended to a reveal that was cancelled before completing.
const StoppedMarker = " [dihentikan]"

// DefaultInterval is the pause between revealed characters.
const DefaultInterval = 30 * time.Millisecond

// Task reveals a precomputed string one rune per tick. A Task is not safe for
// concurrent Advance calls; Stop may be called from any goroutine.
type Task struct {
	text     []rune
	interval time.Duration
	cursor   int
	stopped  atomic.Bool
}

func NewTask(text string, interval time.Duration) *Task {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Task{text: []rune(text), interval: interval}
}

// Advance reveals one more rune and reports whether it did. The stop flag is
// checked before the cursor moves, so a stopped task never reveals past the
// prefix already shown.
func (t *Task) Advance() bool {
	if t.stopped.Load() || t.cursor >= len(t.text) {
		return false
	}
	t.cursor++
	return true
}

// Stop requests cancellation before the next advance.
func (t *Task) Stop() {
	t.stopped.Store(true)
}

// Stopped reports whether Stop was called.
func (t *Task) Stopped() bool {
	return t.stopped.Load()
}

// Done reports whether the whole string has been revealed.
func (t *Task) Done() bool {
	return t.cursor >= len(t.text)
}

// Revealed returns the prefix revealed so far.
func (t *Task) Revealed() string {
	return string(t.text[:t.cursor])
}

// Run advances the task on a fixed tick until it completes, Stop is called,
// or the context is cancelled. sink, when non-nil, receives each newly
// revealed rune. The returned string is the revealed prefix, with the stopped
// marker appended when the reveal did not complete.
func (t *Task) Run(ctx context.Context, sink func(chunk string)) string {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for !t.Done() {
		select {
		case <-ctx.Done():
			t.Stop()
		case <-ticker.C:
		}
		if !t.Advance() {
			break
		}
		if sink != nil {
			sink(string(t.text[t.cursor-1 : t.cursor]))
		}
	}

	if t.Stopped() && !t.Done() {
		return t.Revealed() + StoppedMarker
	}
	return t.Revealed()
}
