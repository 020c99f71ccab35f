// Package tui renders the schedge client as a terminal application: a task
// list pane beside a week calendar, live-updated from the push channel.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/schedge-app/schedge/internal/api"
	"github.com/schedge-app/schedge/internal/app"
	"github.com/schedge-app/schedge/internal/calendar"
	"github.com/schedge-app/schedge/internal/domain"
	"github.com/schedge-app/schedge/internal/editor"
)

// Focused pane
type pane int

const (
	paneTasks pane = iota
	paneWeek
)

type stateMsg domain.State

type statusMsg api.ConnStatus

type errMsg struct{ err error }

// Model is the root bubbletea model.
type Model struct {
	app    *app.App
	styles *Styles

	states   chan domain.State
	statuses chan api.ConnStatus

	snapshot domain.State
	status   api.ConnStatus
	focus    pane
	cursor   int
	weekDay  int // 0..6, Monday-first
	week     [7]time.Time

	renaming    bool
	renameInput textinput.Model
	renameID    string

	lastErr error
	width   int
	height  int
}

// New builds the TUI model around a loaded runtime. The push channel must
// already be started; snapshots and status changes arrive as messages.
func New(a *app.App) *Model {
	input := textinput.New()
	input.Placeholder = "Task name"
	input.CharLimit = 120

	m := &Model{
		app:         a,
		styles:      NewStyles(),
		states:      make(chan domain.State, 1),
		statuses:    make(chan api.ConnStatus, 4),
		snapshot:    a.Store.Snapshot(),
		status:      a.ConnStatus(),
		week:        calendar.WeekOf(time.Now()),
		renameInput: input,
	}

	a.Store.Subscribe(func(st domain.State) {
		select {
		case m.states <- st:
		default:
			// a newer snapshot supersedes the queued one
			select {
			case <-m.states:
			default:
			}
			select {
			case m.states <- st:
			default:
			}
		}
	})
	a.OnConnStatus(func(s api.ConnStatus) {
		select {
		case m.statuses <- s:
		default:
		}
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitState(), m.waitStatus())
}

func (m *Model) waitState() tea.Cmd {
	return func() tea.Msg { return stateMsg(<-m.states) }
}

func (m *Model) waitStatus() tea.Cmd {
	return func() tea.Msg { return statusMsg(<-m.statuses) }
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		m.snapshot = domain.State(msg)
		if n := len(m.snapshot.Tasks); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		return m, m.waitState()

	case statusMsg:
		m.status = api.ConnStatus(msg)
		return m, m.waitStatus()

	case errMsg:
		m.lastErr = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.renaming {
			return m.updateRename(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.focus == paneTasks {
			m.focus = paneWeek
		} else {
			m.focus = paneTasks
		}

	case "up", "k":
		if m.focus == paneTasks && m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.focus == paneTasks && m.cursor < len(m.snapshot.Tasks)-1 {
			m.cursor++
		}

	case "left", "h":
		if m.focus == paneWeek {
			if m.weekDay > 0 {
				m.weekDay--
			} else {
				m.week = calendar.WeekOf(m.week[0].AddDate(0, 0, -7))
				m.weekDay = 6
			}
		}

	case "right", "l":
		if m.focus == paneWeek {
			if m.weekDay < 6 {
				m.weekDay++
			} else {
				m.week = calendar.WeekOf(m.week[0].AddDate(0, 0, 7))
				m.weekDay = 0
			}
		}

	case "enter", "r":
		if m.focus == paneTasks {
			if t := m.selectedTask(); t != nil {
				m.renaming = true
				m.renameID = t.Base().ID
				m.renameInput.SetValue(t.Base().Name)
				m.renameInput.Focus()
				return m, textinput.Blink
			}
		}

	case "d":
		if m.focus == paneTasks {
			if t := m.selectedTask(); t != nil {
				return m, m.deleteTask(t.Base().ID)
			}
		}

	case "s":
		return m, m.requestSchedule()
	}
	return m, nil
}

func (m *Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.renaming = false
		m.renameInput.Blur()
		return m, nil
	case "enter":
		name := m.renameInput.Value()
		id := m.renameID
		m.renaming = false
		m.renameInput.Blur()
		return m, m.renameTask(id, name)
	}
	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m *Model) selectedTask() domain.Task {
	if m.cursor < 0 || m.cursor >= len(m.snapshot.Tasks) {
		return nil
	}
	return m.snapshot.Tasks[m.cursor]
}

// renameTask routes the edit through the task's edit buffer so the change
// debounces and flushes like any other edit.
func (m *Model) renameTask(id, name string) tea.Cmd {
	return func() tea.Msg {
		ed, err := m.app.Editor(id)
		if err != nil {
			return errMsg{err}
		}
		ed.Apply(func(d *editor.Draft) { d.Name = name })
		return nil
	}
}

func (m *Model) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.app.Client.DeleteTask(ctx, m.app.UserID(), id); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m *Model) requestSchedule() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.app.Client.EnqueueScheduling(ctx, m.app.UserID()); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// Run starts the program and blocks until quit.
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) statusLine() string {
	var conn string
	switch m.status {
	case api.StatusConnected:
		conn = m.styles.StatusOK.Render("● connected")
	case api.StatusConnecting:
		conn = m.styles.StatusWarn.Render("◌ connecting")
	default:
		conn = m.styles.StatusError.Render("○ disconnected — retrying")
	}
	if m.lastErr != nil {
		conn += "  " + m.styles.StatusError.Render(fmt.Sprintf("error: %v", m.lastErr))
	}
	return conn
}

func (m *Model) View() string {
	title := m.styles.Title.Render("schedge") + "  " + m.statusLine()
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewTasks(), m.viewWeek())
	help := m.styles.Help.Render("tab: pane  ↑/↓: task  ←/→: day  enter: rename  d: delete  s: schedule  q: quit")
	if m.renaming {
		help = m.styles.Help.Render("enter: save  esc: cancel")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body, help)
}
