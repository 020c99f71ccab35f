package tui

import (
	"fmt"
	"strings"

	"github.com/schedge-app/schedge/internal/calendar"
	"github.com/schedge-app/schedge/internal/domain"
)

const taskPaneWidth = 34

func (m *Model) viewTasks() string {
	var b strings.Builder
	b.WriteString(m.styles.DayHeader.Render("Tasks"))
	b.WriteString("\n")

	if len(m.snapshot.Tasks) == 0 {
		b.WriteString(m.styles.Dim.Render("no tasks yet"))
	}
	for i, t := range m.snapshot.Tasks {
		line := taskLine(t)
		style := m.styles.ListItem
		if i == m.cursor && m.focus == paneTasks {
			style = m.styles.ListSelected
		}
		if m.renaming && t.Base().ID == m.renameID {
			b.WriteString(m.renameInput.View())
		} else {
			b.WriteString(style.Render(line))
		}
		b.WriteString("\n")
	}

	pane := m.styles.Pane
	if m.focus == paneTasks {
		pane = m.styles.PaneFocused
	}
	return pane.Width(taskPaneWidth).Render(strings.TrimRight(b.String(), "\n"))
}

func taskLine(t domain.Task) string {
	marker := " "
	if t.Base().Leisure {
		marker = "~"
	}
	var when string
	switch v := t.(type) {
	case *domain.FixedTask:
		when = v.Start.Format("Mon 15:04")
	case *domain.ContinuousTask:
		when = "by " + v.Deadline.Format("Jan 2")
	case *domain.ProjectTask:
		when = "by " + v.Deadline.Format("Jan 2")
	}
	return fmt.Sprintf("%s %-20.20s %s", marker, t.Base().Name, when)
}

func (m *Model) viewWeek() string {
	day := m.week[m.weekDay]
	var b strings.Builder
	b.WriteString(m.styles.DayHeader.Render(day.Format("Monday, Jan 2")))
	b.WriteString("\n")

	chunks := calendar.SlotsForDay(m.snapshot.Slots, day)
	if len(chunks) == 0 {
		b.WriteString(m.styles.Dim.Render("nothing scheduled"))
	}
	for _, c := range chunks {
		name := "(deleted task)"
		if t := domain.TaskByID(m.snapshot.Tasks, c.Task.Base().ID); t != nil {
			name = t.Base().Name
		}
		line := fmt.Sprintf("%s – %s  %s",
			c.ChunkStart.Format("15:04"),
			c.ChunkEnd.Format("15:04"),
			name)
		b.WriteString(m.styles.SlotLine.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.weekRibbon())

	pane := m.styles.Pane
	if m.focus == paneWeek {
		pane = m.styles.PaneFocused
	}
	return pane.Render(strings.TrimRight(b.String(), "\n"))
}

// weekRibbon shows the seven days with slot counts, current day highlighted.
func (m *Model) weekRibbon() string {
	cells := make([]string, 7)
	for i, day := range m.week {
		n := len(calendar.SlotsForDay(m.snapshot.Slots, day))
		cell := fmt.Sprintf("%s %d", day.Format("Mon")[:2], n)
		if i == m.weekDay {
			cells[i] = m.styles.ListSelected.Render(cell)
		} else {
			cells[i] = m.styles.Dim.Render(cell)
		}
	}
	return strings.Join(cells, " ")
}
