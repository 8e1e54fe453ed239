package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/filippoints/filippoints-cli/internal/logger"
	"github.com/filippoints/filippoints-cli/internal/screen"
	pkgsync "github.com/filippoints/filippoints-cli/internal/sync"
)

const (
	noConnectionNotice = "No internet connection"
	refreshingNotice   = "Refreshing..."
)

// Selection is the handoff to the points-reason flow
type Selection struct {
	PersonID int
	Name     string
	Points   int
}

// completionMsg carries a background completion onto the program loop
type completionMsg struct {
	fn func()
}

// Model is the bubbletea model for the choose-person screen. It also acts as
// the screen's View and Navigator, so it must be used as a pointer.
type Model struct {
	ctx    context.Context
	screen *screen.Screen

	cursor     int
	refreshing bool
	notice     string
	fetchErr   *pkgsync.Error
	lastErr    error
	selection  *Selection
	quitting   bool
}

// New builds the model and its screen controller. Completions are posted
// through dispatcher, which must deliver them to the program as messages
// (see Run).
func New(
	ctx context.Context,
	mode screen.Mode,
	manager pkgsync.Manager,
	dispatcher screen.Dispatcher,
	opts ...screen.Option,
) (*Model, error) {
	m := &Model{ctx: ctx}
	opts = append(opts,
		screen.WithView(m),
		screen.WithNavigator(m),
		screen.WithDispatcher(dispatcher),
		screen.WithFetchObserver(m.onFetch),
	)
	s, err := screen.New(mode, manager, opts...)
	if err != nil {
		return nil, err
	}
	m.screen = s
	return m, nil
}

// Screen returns the underlying controller
func (m *Model) Screen() *screen.Screen {
	return m.screen
}

// Selection returns the person chosen in admin mode, if any
func (m *Model) Selection() (Selection, bool) {
	if m.selection == nil {
		return Selection{}, false
	}
	return *m.selection, true
}

// Init opens the screen: cached list first, then a background fetch.
func (m *Model) Init() tea.Cmd {
	if err := m.screen.Open(m.ctx); err != nil {
		m.lastErr = err
	}
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case completionMsg:
		msg.fn()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.screen.List().Len()-1 {
			m.cursor++
		}
	case "enter":
		m.lastErr = m.screen.Select(m.cursor)
		if m.selection != nil {
			m.quitting = true
			return m, tea.Quit
		}
	case "r":
		m.notice = ""
		m.lastErr = m.screen.Refresh()
	case "f":
		m.fetchErr = nil
		m.lastErr = m.screen.Fetch()
	case "w":
		m.lastErr = m.screen.OpenWebApp()
	}
	return m, nil
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := "Choose person"
	if mode := m.screen.Mode(); mode.IsAdmin() {
		title = fmt.Sprintf("Choose person to receive %d points", mode.Points())
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	rows := m.screen.List().Rows()
	if len(rows) == 0 {
		b.WriteString(rowStyle.Render("No people yet"))
		b.WriteString("\n")
	}
	for i, row := range rows {
		name := lipgloss.NewStyle().Width(nameWidth).Render(row.Label)
		line := name + pointsStyle.Render(row.Points)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if status := m.statusLine(); status != "" {
		b.WriteString("\n")
		b.WriteString(status)
		b.WriteString("\n")
	}

	help := "↑/↓ move • r refresh • f fetch • w web app • q quit"
	if m.screen.Mode().IsAdmin() {
		help = "↑/↓ move • enter assign • r refresh • f fetch • w web app • q quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) statusLine() string {
	switch {
	case m.lastErr != nil:
		return errorStyle.Render(m.lastErr.Error())
	case m.refreshing:
		return noticeStyle.Render(refreshingNotice)
	case m.notice != "":
		return noticeStyle.Render(m.notice)
	case m.fetchErr != nil:
		return errorStyle.Render(fmt.Sprintf("%s (press f to retry)", m.fetchErr.Message))
	}
	return ""
}

// ShowNoConnection implements screen.View
func (m *Model) ShowNoConnection() {
	m.notice = noConnectionNotice
}

// SetRefreshing implements screen.View
func (m *Model) SetRefreshing(refreshing bool) {
	m.refreshing = refreshing
}

// Invalidate implements screen.View
func (m *Model) Invalidate() {
	n := m.screen.List().Len()
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// StartPointsReason implements screen.Navigator
func (m *Model) StartPointsReason(personID, points int) error {
	sel := Selection{PersonID: personID, Points: points}
	if row, ok := m.screen.List().Row(m.cursor); ok {
		sel.Name = row.Label
	}
	logger.Infow("Person selected for points assignment", "person_id", personID, "points", points)
	m.selection = &sel
	return nil
}

func (m *Model) onFetch(result *pkgsync.Result, syncErr *pkgsync.Error) {
	m.fetchErr = syncErr
	if syncErr != nil {
		logger.Warnw("Background fetch failed", "reason", syncErr.Reason, "error", syncErr.Message)
		return
	}
	logger.Debugw("Background fetch complete", "count", result.Count)
}
