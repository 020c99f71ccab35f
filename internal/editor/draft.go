// Package editor tracks in-progress local edits to a single task and
// flushes them to the server, debounced, last write wins.
package editor

import (
	"fmt"
	"time"

	"github.com/schedge-app/schedge/internal/domain"
)

// Draft default values for fields the source task's variant does not
// carry, so the editor has sane starting points after a variant switch.
const (
	defaultDuration   = time.Hour
	defaultWork       = 25 * time.Minute
	defaultSmallBreak = 5 * time.Minute
	defaultBigBreak   = 20 * time.Minute
	defaultSmallCount = 4
)

// Draft is the flattened editing superset: it holds every variant's
// fields simultaneously so switching Type in the editor does not lose
// previously entered values. Drafts exist only at the editor boundary —
// storage and the wire format see the variant projection from Task().
type Draft struct {
	ID           string
	Type         domain.TaskType
	Name         string
	Description  *string
	Color        string
	Leisure      bool
	Dependencies []string
	Nonce        int64

	Start time.Time
	End   time.Time

	Duration time.Duration
	Kickoff  time.Time
	Deadline time.Time

	Timings domain.ProjectTimings
}

// DraftFromTask populates the active variant's real fields and fills the
// inactive variants' fields with stable defaults.
func DraftFromTask(t domain.Task) Draft {
	now := time.Now()
	base := t.Base()
	d := Draft{
		ID:           base.ID,
		Type:         t.Type(),
		Name:         base.Name,
		Description:  base.Description,
		Color:        base.Color,
		Leisure:      base.Leisure,
		Dependencies: base.Dependencies,
		Nonce:        base.Nonce,
		Start:        now,
		End:          now,
		Duration:     defaultDuration,
		Kickoff:      now,
		Deadline:     now,
		Timings: domain.ProjectTimings{
			Work:                defaultWork,
			SmallBreak:          defaultSmallBreak,
			BigBreak:            defaultBigBreak,
			NumberOfSmallBreaks: defaultSmallCount,
		},
	}

	switch task := t.(type) {
	case *domain.FixedTask:
		d.Start = task.Start
		d.End = task.End
	case *domain.ContinuousTask:
		d.Duration = task.Duration
		d.Kickoff = task.Kickoff
		d.Deadline = task.Deadline
	case *domain.ProjectTask:
		d.Duration = task.Duration
		d.Kickoff = task.Kickoff
		d.Deadline = task.Deadline
		d.Timings = task.Timings
	}
	return d
}

// Task projects the draft onto its current variant, dropping the fields
// that belong to other variants.
func (d *Draft) Task() (domain.Task, error) {
	base := domain.TaskBase{
		ID:           d.ID,
		Name:         d.Name,
		Description:  d.Description,
		Color:        d.Color,
		Leisure:      d.Leisure,
		Dependencies: d.Dependencies,
		Nonce:        d.Nonce,
	}
	switch d.Type {
	case domain.TaskFixed:
		return &domain.FixedTask{TaskBase: base, Start: d.Start, End: d.End}, nil
	case domain.TaskContinuous:
		return &domain.ContinuousTask{TaskBase: base, Duration: d.Duration, Kickoff: d.Kickoff, Deadline: d.Deadline}, nil
	case domain.TaskProject:
		return &domain.ProjectTask{TaskBase: base, Duration: d.Duration, Kickoff: d.Kickoff, Deadline: d.Deadline, Timings: d.Timings}, nil
	default:
		return nil, fmt.Errorf("draft %s: %w: %q", d.ID, domain.ErrUnknownTaskType, d.Type)
	}
}
