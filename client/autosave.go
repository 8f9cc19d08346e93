package client

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before an edit is persisted.
const DefaultDebounce = 500 * time.Millisecond

// SaveFunc persists one content snapshot.
type SaveFunc func(ctx context.Context, content string) error

// Autosaver coalesces rapid edits into one write per quiet period. Each
// Edit replaces the pending snapshot and resets the timer, so only the
// latest state is ever persisted. Saves are fire-and-forget: a failure is
// logged and the snapshot dropped, never retried. Close flushes any pending
// snapshot synchronously before returning, so teardown does not lose the
// last edit.
type Autosaver struct {
	save   SaveFunc
	delay  time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	dirty   bool
	closed  bool
}

// NewAutosaver creates an autosaver around the given save function. A zero
// delay selects DefaultDebounce.
func NewAutosaver(save SaveFunc, delay time.Duration, logger *slog.Logger) *Autosaver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Autosaver{save: save, delay: delay, logger: logger}
}

// Autosave creates an autosaver bound to one document using the default
// debounce.
func (c *Client) Autosave(docID int64, logger *slog.Logger) *Autosaver {
	return NewAutosaver(func(ctx context.Context, content string) error {
		return c.SaveContent(ctx, docID, content)
	}, DefaultDebounce, logger)
}

// Edit records the latest content and restarts the quiet-period timer.
// Edits after Close are ignored.
func (a *Autosaver) Edit(content string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	a.pending = content
	a.dirty = true

	if a.timer == nil {
		a.timer = time.AfterFunc(a.delay, a.flush)
	} else {
		a.timer.Reset(a.delay)
	}
}

// Flush persists the pending snapshot immediately, if there is one.
func (a *Autosaver) Flush() {
	a.flush()
}

// flush takes the pending snapshot and writes it. The snapshot is claimed
// under the lock but written outside it, so a save in flight never blocks
// new edits.
func (a *Autosaver) flush() {
	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return
	}
	content := a.pending
	a.dirty = false
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := a.save(ctx, content); err != nil {
		a.logger.Error("autosave failed", "error", err)
	}
}

// Close stops the timer and flushes any pending snapshot synchronously.
// The autosaver accepts no edits afterward.
func (a *Autosaver) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()

	a.flush()
}
