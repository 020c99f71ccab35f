package editor

import (
	"context"
	"sync"
	"time"

	"github.com/schedge-app/schedge/internal/domain"
)

// SyncState is the editor's position in the Synced ⇄ Dirty → Flushing
// cycle.
type SyncState int

const (
	StateSynced SyncState = iota
	StateDirty
	StateFlushing
)

func (s SyncState) String() string {
	switch s {
	case StateSynced:
		return "synced"
	case StateDirty:
		return "dirty"
	case StateFlushing:
		return "flushing"
	}
	return "unknown"
}

// DefaultDebounce matches the original client's sync timeout.
const DefaultDebounce = time.Second

const flushTimeout = 15 * time.Second

// Flusher pushes one task update to the server and returns the stored
// task, including the server-assigned nonce.
type Flusher interface {
	UpdateTask(ctx context.Context, userID int64, t domain.Task) (domain.Task, error)
}

// Editor owns the edit buffer for one task. Mutations bump the nonce and
// restart a debounce timer; when it fires, only the newest snapshot is
// flushed. At most one flush is in flight at a time.
type Editor struct {
	userID  int64
	flusher Flusher
	delay   time.Duration

	// onAdopt, when set, receives every server task adopted after a
	// successful flush. Called without the lock held.
	onAdopt func(domain.Task)

	mu        sync.Mutex
	draft     Draft
	confirmed int64 // last server-confirmed nonce
	state     SyncState
	timer     *time.Timer
	closed    bool
}

// New creates an editor for t. delay <= 0 selects DefaultDebounce.
func New(userID int64, t domain.Task, flusher Flusher, delay time.Duration) *Editor {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Editor{
		userID:    userID,
		flusher:   flusher,
		delay:     delay,
		draft:     DraftFromTask(t),
		confirmed: t.Base().Nonce,
		state:     StateSynced,
	}
}

// OnAdopt registers a callback for server tasks adopted after a flush.
func (e *Editor) OnAdopt(fn func(domain.Task)) {
	e.mu.Lock()
	e.onAdopt = fn
	e.mu.Unlock()
}

// Apply runs one local mutation against the draft, increments the nonce
// by exactly 1 and (re)starts the debounce timer.
func (e *Editor) Apply(mutate func(*Draft)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	mutate(&e.draft)
	e.draft.Nonce++
	if e.state != StateFlushing {
		e.state = StateDirty
	}
	e.armLocked()
}

// Draft returns a copy of the current edit buffer.
func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Nonce returns the draft's current nonce.
func (e *Editor) Nonce() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Nonce
}

// Confirmed returns the last server-confirmed nonce.
func (e *Editor) Confirmed() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.confirmed
}

// State reports the current sync state.
func (e *Editor) State() SyncState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Synced reports whether the local nonce equals the server-confirmed one.
func (e *Editor) Synced() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateSynced
}

// Adopt replaces the draft with a fresh server task. Ignored while local
// edits are pending: the newest local snapshot always wins until it has
// been flushed.
func (e *Editor) Adopt(t domain.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state != StateSynced {
		return
	}
	e.draft = DraftFromTask(t)
	e.confirmed = t.Base().Nonce
}

// Flush pushes the current draft immediately, bypassing the debounce.
// Used by one-shot CLI edits.
func (e *Editor) Flush(ctx context.Context) error {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()
	return e.flushOnce(ctx)
}

// Close cancels the pending debounce timer. A flush already in flight is
// not interrupted; its result is discarded.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// armLocked restarts the debounce timer. Caller holds e.mu.
func (e *Editor) armLocked() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		_ = e.flushOnce(ctx) // failures re-arm and retry
	})
}

// flushOnce sends the newest snapshot unless a flush is already in
// flight. On success the server's task is adopted wholesale, unless
// newer local edits arrived mid-flight; those keep the editor dirty and
// re-arm the timer. On failure the editor stays dirty and re-arms.
func (e *Editor) flushOnce(ctx context.Context) error {
	e.mu.Lock()
	if e.closed || e.state == StateFlushing || e.state == StateSynced {
		e.mu.Unlock()
		return nil
	}
	task, err := e.draft.Task()
	if err != nil {
		e.mu.Unlock()
		return err
	}
	sent := e.draft.Nonce
	e.state = StateFlushing
	e.mu.Unlock()

	got, err := e.flusher.UpdateTask(ctx, e.userID, task)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return err
	}
	if err != nil {
		e.state = StateDirty
		e.armLocked()
		e.mu.Unlock()
		return err
	}
	e.confirmed = got.Base().Nonce
	if e.draft.Nonce != sent {
		// Superseded mid-flight; flush the newer snapshot next cycle.
		e.state = StateDirty
		e.armLocked()
		e.mu.Unlock()
		return nil
	}
	e.draft = DraftFromTask(got)
	e.state = StateSynced
	onAdopt := e.onAdopt
	e.mu.Unlock()

	if onAdopt != nil {
		onAdopt(got)
	}
	return nil
}
