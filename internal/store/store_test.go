package store

import (
	"testing"

	"github.com/schedge-app/schedge/internal/domain"
)

func fixed(id, name string, nonce int64) *domain.FixedTask {
	return &domain.FixedTask{
		TaskBase: domain.TaskBase{ID: id, Name: name, Color: "#3498DB", Nonce: nonce},
	}
}

func TestStore_ReplaceLastWriteWins(t *testing.T) {
	s := New()
	s.Replace(domain.State{UserID: 7, Tasks: []domain.Task{fixed("1", "first", 1)}})
	s.Replace(domain.State{UserID: 7, Tasks: []domain.Task{fixed("2", "second", 1)}})

	st := s.Snapshot()
	if len(st.Tasks) != 1 || st.Tasks[0].Base().ID != "2" {
		t.Fatalf("snapshot tasks = %+v, want only task 2", st.Tasks)
	}
}

func TestStore_Subscribe(t *testing.T) {
	s := New()
	var seen []int
	s.Subscribe(func(st domain.State) { seen = append(seen, len(st.Tasks)) })

	s.Replace(domain.State{Tasks: []domain.Task{fixed("1", "a", 1)}})
	s.Replace(domain.State{Tasks: []domain.Task{fixed("1", "a", 1), fixed("2", "b", 1)}})

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("notifications = %v, want [1 2]", seen)
	}
}

func TestStore_ReplaceTask(t *testing.T) {
	s := New()
	s.Replace(domain.State{Tasks: []domain.Task{fixed("1", "before", 1), fixed("2", "other", 1)}})

	notified := 0
	s.Subscribe(func(domain.State) { notified++ })

	s.ReplaceTask(fixed("1", "after", 2))

	got, ok := s.Task("1")
	if !ok {
		t.Fatal("task 1 missing after ReplaceTask")
	}
	if got.Base().Name != "after" || got.Base().Nonce != 2 {
		t.Errorf("task 1 = %+v, want name=after nonce=2", got.Base())
	}
	if other, _ := s.Task("2"); other.Base().Name != "other" {
		t.Error("unrelated task was modified")
	}
	if notified != 1 {
		t.Errorf("notified = %d, want 1", notified)
	}
}

func TestStore_ReplaceTaskMissingIDIsNoop(t *testing.T) {
	s := New()
	s.Replace(domain.State{Tasks: []domain.Task{fixed("1", "a", 1)}})

	notified := 0
	s.Subscribe(func(domain.State) { notified++ })
	s.ReplaceTask(fixed("gone", "x", 1))

	if notified != 0 {
		t.Errorf("notified = %d for missing id, want 0", notified)
	}
}

func TestStore_TaskLookup(t *testing.T) {
	s := New()
	if _, ok := s.Task("1"); ok {
		t.Error("empty store reported a task")
	}
	s.Replace(domain.State{Tasks: []domain.Task{fixed("1", "a", 1)}})
	if _, ok := s.Task("1"); !ok {
		t.Error("task 1 not found")
	}
}
