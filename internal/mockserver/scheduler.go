package mockserver

import (
	"fmt"
	"sort"
	"time"

	"github.com/schedge-app/schedge/internal/domain"
	"github.com/schedge-app/schedge/internal/wire"
)

// ComputeSlots runs the naive scheduler over a task set. Fixed tasks keep
// their interval. Continuous tasks are placed first-fit after their kickoff,
// skipping intervals already occupied by fixed tasks. Project tasks are
// broken into work sessions separated by small breaks, with a big break
// after every NumberOfSmallBreaks small ones. Breaks occupy time but do
// not produce slots.
func ComputeSlots(tasks []wire.Task) ([]wire.Slot, error) {
	decoded := make([]domain.Task, 0, len(tasks))
	byID := make(map[string]domain.Task, len(tasks))
	for _, wt := range tasks {
		t, err := wire.DecodeTask(wt)
		if err != nil {
			return nil, fmt.Errorf("schedule: %w", err)
		}
		decoded = append(decoded, t)
		byID[wt.ID] = t
	}

	var busy []interval
	var out []scheduledSlot
	for _, t := range decoded {
		if ft, ok := t.(*domain.FixedTask); ok {
			busy = append(busy, interval{ft.Start, ft.End})
			out = append(out, scheduledSlot{t.Base().ID, ft.Start, ft.End})
		}
	}
	sortIntervals(busy)

	for _, t := range decoded {
		switch v := t.(type) {
		case *domain.ContinuousTask:
			start := firstFit(busy, v.Kickoff, v.Duration)
			end := start.Add(v.Duration)
			busy = insertInterval(busy, interval{start, end})
			out = append(out, scheduledSlot{t.Base().ID, start, end})
		case *domain.ProjectTask:
			sessions := projectSessions(v)
			cursor := v.Kickoff
			for _, s := range sessions {
				start := firstFit(busy, cursor, s.length)
				end := start.Add(s.length)
				busy = insertInterval(busy, interval{start, end})
				if s.work {
					out = append(out, scheduledSlot{t.Base().ID, start, end})
				}
				cursor = end
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].start.Before(out[j].start) })

	slots := make([]wire.Slot, len(out))
	for i, s := range out {
		ws, err := wire.EncodeSlot(domain.Slot{
			Task:  byID[s.taskID],
			Start: s.start,
			End:   s.end,
		})
		if err != nil {
			return nil, fmt.Errorf("schedule: %w", err)
		}
		slots[i] = ws
	}
	return slots, nil
}

type interval struct {
	start, end time.Time
}

type scheduledSlot struct {
	taskID     string
	start, end time.Time
}

type session struct {
	length time.Duration
	work   bool
}

// projectSessions expands a project's duration into alternating work and
// break sessions. The final session is always work and may be short.
func projectSessions(p *domain.ProjectTask) []session {
	var out []session
	remaining := p.Duration
	smallSince := 0
	for remaining > 0 {
		work := p.Timings.Work
		if work <= 0 || work > remaining {
			work = remaining
		}
		out = append(out, session{work, true})
		remaining -= work
		if remaining <= 0 {
			break
		}
		if smallSince < p.Timings.NumberOfSmallBreaks {
			out = append(out, session{p.Timings.SmallBreak, false})
			smallSince++
		} else {
			out = append(out, session{p.Timings.BigBreak, false})
			smallSince = 0
		}
	}
	return out
}

// firstFit finds the earliest start at or after from where length fits
// before the next busy interval.
func firstFit(busy []interval, from time.Time, length time.Duration) time.Time {
	cursor := from
	for _, iv := range busy {
		if !iv.end.After(cursor) {
			continue
		}
		if iv.start.Sub(cursor) >= length {
			return cursor
		}
		cursor = iv.end
	}
	return cursor
}

func insertInterval(busy []interval, iv interval) []interval {
	busy = append(busy, iv)
	sortIntervals(busy)
	return busy
}

func sortIntervals(ivs []interval) {
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].start.Before(ivs[j].start) })
}
