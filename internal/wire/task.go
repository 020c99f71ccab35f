package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/schedge-app/schedge/internal/domain"
)

// Task is the wire form of a task: every temporal field is a string and
// only the fields of the tagged variant are populated.
type Task struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	Color        string   `json:"color"`
	Leisure      bool     `json:"leisure"`
	Dependencies []string `json:"dependencies"`
	Nonce        int64    `json:"nonce"`

	// fixed
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`

	// continuous and project
	Duration string `json:"duration,omitempty"`
	Kickoff  string `json:"kickoff,omitempty"`
	Deadline string `json:"deadline,omitempty"`

	// project
	Timings *Timings `json:"timings,omitempty"`
}

// Timings is the wire form of project session parameters.
type Timings struct {
	Work                string `json:"work"`
	SmallBreak          string `json:"smallBreak"`
	BigBreak            string `json:"bigBreak"`
	NumberOfSmallBreaks int    `json:"numberOfSmallBreaks"`
}

// Slot is the wire form of a computed slot. The task is embedded as a
// denormalized copy.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Task  Task   `json:"task"`
}

// State is the wire form of the full client snapshot.
type State struct {
	UserID int64  `json:"userId"`
	Tasks  []Task `json:"tasks"`
	Slots  []Slot `json:"slots"`
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// DecodeTask converts a wire task to its domain variant. An unrecognized
// tag or a malformed temporal field fails the whole record.
func DecodeTask(wt Task) (domain.Task, error) {
	base := domain.TaskBase{
		ID:           wt.ID,
		Name:         wt.Name,
		Description:  wt.Description,
		Color:        wt.Color,
		Leisure:      wt.Leisure,
		Dependencies: wt.Dependencies,
		Nonce:        wt.Nonce,
	}

	switch domain.TaskType(wt.Type) {
	case domain.TaskFixed:
		start, err := ParseInstant(wt.Start)
		if err != nil {
			return nil, fmt.Errorf("task %s start: %w", wt.ID, err)
		}
		end, err := ParseInstant(wt.End)
		if err != nil {
			return nil, fmt.Errorf("task %s end: %w", wt.ID, err)
		}
		return &domain.FixedTask{TaskBase: base, Start: start, End: end}, nil

	case domain.TaskContinuous:
		dur, kickoff, deadline, err := decodeContinuousFields(wt)
		if err != nil {
			return nil, err
		}
		return &domain.ContinuousTask{TaskBase: base, Duration: dur, Kickoff: kickoff, Deadline: deadline}, nil

	case domain.TaskProject:
		dur, kickoff, deadline, err := decodeContinuousFields(wt)
		if err != nil {
			return nil, err
		}
		if wt.Timings == nil {
			return nil, fmt.Errorf("task %s: %w: project without timings", wt.ID, domain.ErrBadFormat)
		}
		timings, err := decodeTimings(wt.ID, *wt.Timings)
		if err != nil {
			return nil, err
		}
		return &domain.ProjectTask{TaskBase: base, Duration: dur, Kickoff: kickoff, Deadline: deadline, Timings: timings}, nil

	default:
		return nil, fmt.Errorf("task %s: %w: %q", wt.ID, domain.ErrUnknownTaskType, wt.Type)
	}
}

func decodeContinuousFields(wt Task) (dur time.Duration, kickoff, deadline time.Time, err error) {
	dur, err = ParseSpan(wt.Duration)
	if err != nil {
		err = fmt.Errorf("task %s duration: %w", wt.ID, err)
		return
	}
	kickoff, err = ParseInstant(wt.Kickoff)
	if err != nil {
		err = fmt.Errorf("task %s kickoff: %w", wt.ID, err)
		return
	}
	deadline, err = ParseInstant(wt.Deadline)
	if err != nil {
		err = fmt.Errorf("task %s deadline: %w", wt.ID, err)
	}
	return
}

func decodeTimings(taskID string, wt Timings) (domain.ProjectTimings, error) {
	work, err := ParseSpan(wt.Work)
	if err != nil {
		return domain.ProjectTimings{}, fmt.Errorf("task %s timings.work: %w", taskID, err)
	}
	small, err := ParseSpan(wt.SmallBreak)
	if err != nil {
		return domain.ProjectTimings{}, fmt.Errorf("task %s timings.smallBreak: %w", taskID, err)
	}
	big, err := ParseSpan(wt.BigBreak)
	if err != nil {
		return domain.ProjectTimings{}, fmt.Errorf("task %s timings.bigBreak: %w", taskID, err)
	}
	return domain.ProjectTimings{
		Work:                work,
		SmallBreak:          small,
		BigBreak:            big,
		NumberOfSmallBreaks: wt.NumberOfSmallBreaks,
	}, nil
}

// EncodeTask converts a domain task to its wire form, emitting only the
// fields of the task's variant.
func EncodeTask(t domain.Task) (Task, error) {
	base := t.Base()
	wt := Task{
		ID:           base.ID,
		Type:         string(t.Type()),
		Name:         base.Name,
		Description:  base.Description,
		Color:        base.Color,
		Leisure:      base.Leisure,
		Dependencies: base.Dependencies,
		Nonce:        base.Nonce,
	}

	var err error
	switch task := t.(type) {
	case *domain.FixedTask:
		if wt.Start, err = FormatInstant(task.Start); err != nil {
			return Task{}, fmt.Errorf("task %s start: %w", base.ID, err)
		}
		if wt.End, err = FormatInstant(task.End); err != nil {
			return Task{}, fmt.Errorf("task %s end: %w", base.ID, err)
		}

	case *domain.ContinuousTask:
		if err = encodeContinuousFields(&wt, task.Duration, task.Kickoff, task.Deadline); err != nil {
			return Task{}, err
		}

	case *domain.ProjectTask:
		if err = encodeContinuousFields(&wt, task.Duration, task.Kickoff, task.Deadline); err != nil {
			return Task{}, err
		}
		timings, err := encodeTimings(base.ID, task.Timings)
		if err != nil {
			return Task{}, err
		}
		wt.Timings = &timings

	default:
		return Task{}, fmt.Errorf("task %s: %w: %T", base.ID, domain.ErrUnknownTaskType, t)
	}
	return wt, nil
}

func encodeContinuousFields(wt *Task, dur time.Duration, kickoff, deadline time.Time) error {
	var err error
	if wt.Duration, err = FormatSpan(dur); err != nil {
		return fmt.Errorf("task %s duration: %w", wt.ID, err)
	}
	if wt.Kickoff, err = FormatInstant(kickoff); err != nil {
		return fmt.Errorf("task %s kickoff: %w", wt.ID, err)
	}
	if wt.Deadline, err = FormatInstant(deadline); err != nil {
		return fmt.Errorf("task %s deadline: %w", wt.ID, err)
	}
	return nil
}

func encodeTimings(taskID string, t domain.ProjectTimings) (Timings, error) {
	work, err := FormatSpan(t.Work)
	if err != nil {
		return Timings{}, fmt.Errorf("task %s timings.work: %w", taskID, err)
	}
	small, err := FormatSpan(t.SmallBreak)
	if err != nil {
		return Timings{}, fmt.Errorf("task %s timings.smallBreak: %w", taskID, err)
	}
	big, err := FormatSpan(t.BigBreak)
	if err != nil {
		return Timings{}, fmt.Errorf("task %s timings.bigBreak: %w", taskID, err)
	}
	return Timings{
		Work:                work,
		SmallBreak:          small,
		BigBreak:            big,
		NumberOfSmallBreaks: t.NumberOfSmallBreaks,
	}, nil
}

// DecodeSlot converts a wire slot, decoding the embedded task copy.
func DecodeSlot(ws Slot) (domain.Slot, error) {
	task, err := DecodeTask(ws.Task)
	if err != nil {
		return domain.Slot{}, err
	}
	start, err := ParseInstant(ws.Start)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("slot start: %w", err)
	}
	end, err := ParseInstant(ws.End)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("slot end: %w", err)
	}
	return domain.Slot{Task: task, Start: start, End: end}, nil
}

// EncodeSlot is the inverse of DecodeSlot, used by the mock server.
func EncodeSlot(s domain.Slot) (Slot, error) {
	task, err := EncodeTask(s.Task)
	if err != nil {
		return Slot{}, err
	}
	start, err := FormatInstant(s.Start)
	if err != nil {
		return Slot{}, fmt.Errorf("slot start: %w", err)
	}
	end, err := FormatInstant(s.End)
	if err != nil {
		return Slot{}, fmt.Errorf("slot end: %w", err)
	}
	return Slot{Start: start, End: end, Task: task}, nil
}

// DecodeState converts a full wire snapshot. One malformed record fails
// the whole snapshot; the caller surfaces the load as a unit.
func DecodeState(ws State) (domain.State, error) {
	st := domain.State{
		UserID: ws.UserID,
		Tasks:  make([]domain.Task, 0, len(ws.Tasks)),
		Slots:  make([]domain.Slot, 0, len(ws.Slots)),
	}
	for _, wt := range ws.Tasks {
		t, err := DecodeTask(wt)
		if err != nil {
			return domain.State{}, err
		}
		st.Tasks = append(st.Tasks, t)
	}
	for _, s := range ws.Slots {
		slot, err := DecodeSlot(s)
		if err != nil {
			return domain.State{}, err
		}
		st.Slots = append(st.Slots, slot)
	}
	return st, nil
}

// EncodeState is the inverse of DecodeState.
func EncodeState(st domain.State) (State, error) {
	ws := State{
		UserID: st.UserID,
		Tasks:  make([]Task, 0, len(st.Tasks)),
		Slots:  make([]Slot, 0, len(st.Slots)),
	}
	for _, t := range st.Tasks {
		wt, err := EncodeTask(t)
		if err != nil {
			return State{}, err
		}
		ws.Tasks = append(ws.Tasks, wt)
	}
	for _, s := range st.Slots {
		wslot, err := EncodeSlot(s)
		if err != nil {
			return State{}, err
		}
		ws.Slots = append(ws.Slots, wslot)
	}
	return ws, nil
}
