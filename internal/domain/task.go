// Package domain holds the schedge task model.
// A Task is one of three variants: fixed (pinned to an interval),
// continuous (a duration to place between kickoff and deadline), or
// project (continuous plus work/break session timings). The server
// computes slots from tasks; the client renders and edits.
package domain

import "time"

// TaskType discriminates the three task variants.
type TaskType string

const (
	TaskFixed      TaskType = "fixed"
	TaskContinuous TaskType = "continuous"
	TaskProject    TaskType = "project"
)

// TaskBase carries the fields common to every variant.
type TaskBase struct {
	ID           string
	Name         string
	Description  *string // nil when the task has no description
	Color        string
	Leisure      bool
	Dependencies []string
	Nonce        int64
}

// Task is the sealed union of the three variants. Only the variant's own
// temporal fields exist on each concrete type; the editor keeps a separate
// superset draft for live variant switching.
type Task interface {
	Base() *TaskBase
	Type() TaskType
}

// FixedTask occupies exactly [Start, End).
type FixedTask struct {
	TaskBase
	Start time.Time
	End   time.Time
}

func (t *FixedTask) Base() *TaskBase { return &t.TaskBase }
func (t *FixedTask) Type() TaskType  { return TaskFixed }

// ContinuousTask asks the server to place Duration of work somewhere
// between Kickoff and Deadline.
type ContinuousTask struct {
	TaskBase
	Duration time.Duration
	Kickoff  time.Time
	Deadline time.Time
}

func (t *ContinuousTask) Base() *TaskBase { return &t.TaskBase }
func (t *ContinuousTask) Type() TaskType  { return TaskContinuous }

// ProjectTimings parameterize how the server subdivides a project's
// duration into work and break sessions.
type ProjectTimings struct {
	Work                time.Duration
	SmallBreak          time.Duration
	BigBreak            time.Duration
	NumberOfSmallBreaks int
}

// ProjectTask is a continuous task scheduled as work/break sessions.
type ProjectTask struct {
	TaskBase
	Duration time.Duration
	Kickoff  time.Time
	Deadline time.Time
	Timings  ProjectTimings
}

func (t *ProjectTask) Base() *TaskBase { return &t.TaskBase }
func (t *ProjectTask) Type() TaskType  { return TaskProject }

// Slot is a server-computed occupation of time. The wire format embeds a
// denormalized task copy; identity resolution goes by Task.Base().ID.
// Slots are read-only derived data on the client.
type Slot struct {
	Task  Task
	Start time.Time
	End   time.Time
}

// State is the full client snapshot. It is replaced wholesale on every
// fetch or push message, never patched field by field.
type State struct {
	UserID int64
	Tasks  []Task
	Slots  []Slot
}

// TaskByID resolves a task id against a task sequence. Returns nil when
// the id is unknown (a slot may outlive its task for one snapshot).
func TaskByID(tasks []Task, id string) Task {
	for _, t := range tasks {
		if t.Base().ID == id {
			return t
		}
	}
	return nil
}
