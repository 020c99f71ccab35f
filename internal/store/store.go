// Package store holds the client's view of the scheduling state. The server
// owns the truth; the store only mirrors whole snapshots and notifies
// subscribers when the view changes.
package store

import (
	"sync"

	"github.com/schedge-app/schedge/internal/domain"
)

// Store is a whole-snapshot state container. Replace swaps the entire
// snapshot; last write wins, with no merging across snapshots.
type Store struct {
	mu    sync.RWMutex
	state domain.State
	subs  []func(domain.State)
}

func New() *Store {
	return &Store{}
}

// Replace installs a new snapshot wholesale and notifies subscribers.
func (s *Store) Replace(st domain.State) {
	s.mu.Lock()
	s.state = st
	subs := make([]func(domain.State), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// ReplaceTask swaps a single task in place after a confirmed edit. The
// surrounding snapshot is otherwise untouched. No-op if the id is absent,
// which happens when a fresh snapshot already dropped the task.
func (s *Store) ReplaceTask(t domain.Task) {
	s.mu.Lock()
	replaced := false
	for i, existing := range s.state.Tasks {
		if existing.Base().ID == t.Base().ID {
			s.state.Tasks[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		s.mu.Unlock()
		return
	}
	st := s.state
	subs := make([]func(domain.State), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// Snapshot returns the current state. Tasks and Slots share backing arrays
// with the store; callers treat snapshots as read-only.
func (s *Store) Snapshot() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Task looks up a task in the current snapshot by id.
func (s *Store) Task(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := domain.TaskByID(s.state.Tasks, id)
	return t, t != nil
}

// Subscribe registers fn to run after every snapshot change. Callbacks run
// on the caller of Replace; keep them short or hand off to a channel.
func (s *Store) Subscribe(fn func(domain.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
