// Package tui provides an interactive terminal browser over the recorded
// activity log: filter sessions, tag them with categories, delete them,
// and copy session info to the clipboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/wkallhof/activity-tracker/internal/core/db"
	"github.com/wkallhof/activity-tracker/internal/core/models"
)

type viewMode int

const (
	listView viewMode = iota
	filterView
	tagView
	helpView
)

type Model struct {
	db     *db.DB
	mode   viewMode
	width  int
	height int
	err    error

	sessions []models.Session
	cursor   int
	status   string

	filterInput textinput.Model
	tagInput    textinput.Model
}

type sessionsLoadedMsg struct {
	sessions []models.Session
}

type sessionTaggedMsg struct {
	category string
}

type sessionsDeletedMsg struct{}

type yankedMsg struct{}

type errMsg struct {
	err error
}

func New(database *db.DB) Model {
	filter := textinput.New()
	filter.Placeholder = "filter by title..."
	filter.CharLimit = 100

	tag := textinput.New()
	tag.Placeholder = "category title..."
	tag.CharLimit = 100

	return Model{
		db:          database,
		mode:        listView,
		filterInput: filter,
		tagInput:    tag,
	}
}

func (m Model) Init() tea.Cmd {
	return loadSessions(m.db, "")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case listView:
			return m.updateList(msg)
		case filterView:
			return m.updateFilter(msg)
		case tagView:
			return m.updateTag(msg)
		case helpView:
			m.mode = listView
			return m, nil
		}

	case sessionsLoadedMsg:
		m.sessions = msg.sessions
		if m.cursor >= len(m.sessions) {
			m.cursor = max(0, len(m.sessions)-1)
		}
		return m, nil

	case sessionTaggedMsg:
		m.status = fmt.Sprintf("Tagged with %s", msg.category)
		return m, loadSessions(m.db, m.filterInput.Value())

	case sessionsDeletedMsg:
		m.status = "Session deleted"
		return m, loadSessions(m.db, m.filterInput.Value())

	case yankedMsg:
		m.status = "Copied to clipboard"
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		m.mode = helpView
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
		return m, nil

	case "g":
		m.cursor = 0
		return m, nil

	case "G":
		m.cursor = max(0, len(m.sessions)-1)
		return m, nil

	case "/":
		m.mode = filterView
		m.filterInput.Focus()
		return m, textinput.Blink

	case "t":
		if len(m.sessions) == 0 {
			return m, nil
		}
		m.mode = tagView
		m.tagInput.SetValue("")
		m.tagInput.Focus()
		return m, textinput.Blink

	case "d":
		if len(m.sessions) == 0 {
			return m, nil
		}
		return m, deleteSession(m.db, m.sessions[m.cursor].ID)

	case "y":
		if len(m.sessions) == 0 {
			return m, nil
		}
		return m, yankSession(m.sessions[m.cursor])

	case "r":
		m.status = ""
		return m, loadSessions(m.db, m.filterInput.Value())
	}

	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = listView
		m.filterInput.Blur()
		m.cursor = 0
		return m, loadSessions(m.db, m.filterInput.Value())

	case "esc":
		m.mode = listView
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		return m, loadSessions(m.db, "")
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m Model) updateTag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = listView
		m.tagInput.Blur()
		title := strings.TrimSpace(m.tagInput.Value())
		if title == "" {
			return m, nil
		}
		return m, tagSession(m.db, m.sessions[m.cursor].ID, title)

	case "esc":
		m.mode = listView
		m.tagInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.tagInput, cmd = m.tagInput.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit"
	}

	if m.mode == helpView {
		return m.viewHelp()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Activity Sessions"))
	b.WriteString(fmt.Sprintf("  %d session(s)\n\n", len(m.sessions)))

	switch m.mode {
	case filterView:
		b.WriteString("Filter: " + m.filterInput.View() + "\n\n")
	case tagView:
		b.WriteString("Tag with: " + m.tagInput.View() + "\n\n")
	default:
		if m.filterInput.Value() != "" {
			b.WriteString(timestampStyle.Render("Filter: "+m.filterInput.Value()) + "\n\n")
		}
	}

	if len(m.sessions) == 0 {
		b.WriteString(itemStyle.Render("No sessions recorded yet.") + "\n")
	} else {
		b.WriteString(m.viewSessions())
	}

	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("j/k: move  /: filter  t: tag  y: yank  d: delete  r: reload  ?: help  q: quit"))

	return b.String()
}

func (m Model) viewSessions() string {
	// Leave room for header, status, and footer
	visible := m.height - 8
	if visible < 5 {
		visible = 5
	}

	// Derive the scroll window from the cursor each frame
	offset := 0
	if m.cursor >= visible {
		offset = m.cursor - visible + 1
	}

	var b strings.Builder
	for i := offset; i < len(m.sessions) && i < offset+visible; i++ {
		s := m.sessions[i]

		title := s.ApplicationTitle
		if s.WindowTitle != "" {
			title += " - " + s.WindowTitle
		}
		line := fmt.Sprintf("[%d] %s", s.ID, title)

		when := humanize.Time(s.StartTime)
		dur := s.Duration().Round(time.Second).String()
		if s.Open() {
			dur += " (open)"
		}
		meta := fmt.Sprintf("%s, %s", when, dur)
		if len(s.Categories) > 0 {
			meta += "  " + categoryStyle.Render(strings.Join(s.Categories, ", "))
		}

		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> "+line) + "\n")
		} else if s.Open() {
			b.WriteString(itemStyle.Render(openSessionStyle.Render(line)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(line) + "\n")
		}
		b.WriteString(itemStyle.Render("  "+timestampStyle.Render(meta)) + "\n")
	}

	return b.String()
}

func (m Model) viewHelp() string {
	help := `Activity Tracker TUI

  j / down    move down
  k / up      move up
  g / G       jump to top / bottom
  /           filter sessions by title
  t           tag selected session with a category
  y           copy selected session info to clipboard
  d           delete selected session
  r           reload
  q           quit

Press any key to return.`
	return helpStyle.Render(help)
}

func loadSessions(database *db.DB, filter string) tea.Cmd {
	return func() tea.Msg {
		sessions, err := database.SearchSessions(models.SearchRequest{Text: filter})
		if err != nil {
			return errMsg{err}
		}
		// Most recent first
		for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
			sessions[i], sessions[j] = sessions[j], sessions[i]
		}
		return sessionsLoadedMsg{sessions}
	}
}

func tagSession(database *db.DB, sessionID int64, title string) tea.Cmd {
	return func() tea.Msg {
		categories, err := database.ListCategories()
		if err != nil {
			return errMsg{err}
		}

		var category *models.Category
		for _, c := range categories {
			if strings.EqualFold(c.Title, title) {
				category = &c
				break
			}
		}
		if category == nil {
			created, err := database.CreateCategory(title)
			if err != nil {
				return errMsg{err}
			}
			category = created
		}

		if err := database.TagSession(sessionID, category.ID); err != nil {
			return errMsg{err}
		}
		return sessionTaggedMsg{category: category.Title}
	}
}

func deleteSession(database *db.DB, sessionID int64) tea.Cmd {
	return func() tea.Msg {
		if err := database.DeleteSessions([]int64{sessionID}); err != nil {
			return errMsg{err}
		}
		return sessionsDeletedMsg{}
	}
}

func yankSession(s models.Session) tea.Cmd {
	return func() tea.Msg {
		var b strings.Builder
		fmt.Fprintf(&b, "[%d] %s", s.ID, s.ApplicationTitle)
		if s.WindowTitle != "" {
			fmt.Fprintf(&b, " - %s", s.WindowTitle)
		}
		fmt.Fprintf(&b, "\nStarted: %s\nDuration: %s\n",
			s.StartTime.Format(time.RFC3339), s.Duration().Round(time.Second))
		if len(s.Categories) > 0 {
			fmt.Fprintf(&b, "Categories: %s\n", strings.Join(s.Categories, ", "))
		}

		if err := clipboard.WriteAll(b.String()); err != nil {
			return errMsg{err}
		}
		return yankedMsg{}
	}
}
