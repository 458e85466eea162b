// Package tui is the interactive terminal viewer.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kilupskalvis/commitview/internal/fetch"
	"github.com/kilupskalvis/commitview/internal/models"
	"github.com/kilupskalvis/commitview/internal/render"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	shaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	fileStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	selectedStyle = fileStyle.Reverse(true)
	addStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	numberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// footerHeight is the number of rows below the viewport.
const footerHeight = 1

// stateMsg carries a settled fetch state into the event loop.
type stateMsg fetch.State

// Model is the bubbletea model. All toggles happen in Update, which
// bubbletea runs one message at a time.
type Model struct {
	ctrl      *fetch.Controller
	id        models.CommitIdentity
	numbering render.Numbering

	state fetch.State
	diff  *models.DiffPayload

	cursor      int
	fileOffsets []int

	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	width    int
	height   int
}

// New creates the viewer for id. The controller is started by Init.
func New(ctrl *fetch.Controller, id models.CommitIdentity, numbering render.Numbering) Model {
	return Model{
		ctrl:      ctrl,
		id:        id,
		numbering: numbering,
		state:     fetch.State{Identity: id, Status: fetch.Pending},
		help:      help.New(),
		keys:      defaultKeyMap(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	m.ctrl.SetIdentity(m.id)
	return m.waitCmd()
}

func (m Model) waitCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		st, err := ctrl.Wait(context.Background())
		if err != nil {
			return nil
		}
		return stateMsg(st)
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := msg.Height - footerHeight
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.viewport.KeyMap = viewport.KeyMap{
				PageDown:     key.NewBinding(key.WithKeys("pgdown", "f")),
				PageUp:       key.NewBinding(key.WithKeys("pgup", "b")),
				HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
				HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
			}
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = h
		}
		m.help.Width = msg.Width
		m.refreshContent()
		return m, nil

	case stateMsg:
		st := fetch.State(msg)
		if st.Seq < m.state.Seq {
			return m, nil
		}
		m.state = st
		m.diff = st.Diff
		if m.diff == nil || m.cursor >= len(m.diff.Files) {
			m.cursor = 0
		}
		m.refreshContent()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			m.diff = render.Toggle(m.diff, m.cursor)
			m.refreshContent()
			return m, nil
		case key.Matches(msg, m.keys.Collapse):
			m.diff = render.SetAll(m.diff, true)
			m.refreshContent()
			return m, nil
		case key.Matches(msg, m.keys.Expand):
			m.diff = render.SetAll(m.diff, false)
			m.refreshContent()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if !m.ctrl.Refresh() {
				return m, nil
			}
			m.state = m.ctrl.State()
			m.refreshContent()
			return m, m.waitCmd()
		}
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *Model) moveCursor(delta int) {
	if m.diff == nil || len(m.diff.Files) == 0 {
		return
	}
	next := m.cursor + delta
	if next < 0 || next >= len(m.diff.Files) {
		return
	}
	m.cursor = next
	m.refreshContent()

	if !m.ready || m.cursor >= len(m.fileOffsets) {
		return
	}
	off := m.fileOffsets[m.cursor]
	if off < m.viewport.YOffset || off >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(off)
	}
}

func (m *Model) refreshContent() {
	content, offsets := m.renderContent()
	m.fileOffsets = offsets
	if m.ready {
		m.viewport.SetContent(content)
	}
}

// renderContent draws the whole scrollable document and returns the line
// offset of each file header.
func (m Model) renderContent() (string, []int) {
	var b strings.Builder
	rows := 0
	writeln := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
		rows += strings.Count(s, "\n") + 1
	}

	switch m.state.Status {
	case fetch.Pending:
		writeln("Loading...")
	case fetch.Failure:
		writeln(errorStyle.Render("Error: " + m.state.Err))
	}

	if m.state.Commit != nil {
		h := render.Header(m.state.Commit)
		writeln(titleStyle.Render(h.Title))
		writeln(metaStyle.Render(fmt.Sprintf("Authored by %s %s", h.AuthorName, h.AuthoredAt)))
		if body := strings.TrimSpace(h.Body); body != "" {
			writeln("")
			writeln(body)
		}
		writeln("")
		writeln(metaStyle.Render("Committed by: ") + h.CommitterName)
		writeln(metaStyle.Render("Commit: ") + shaStyle.Render(h.SHA))
		writeln(metaStyle.Render("Parent: ") + h.Parents)
		writeln("")
	}

	if m.state.Status == fetch.Pending {
		return b.String(), nil
	}

	view := render.Build(m.diff, m.numbering)
	if !view.Available {
		writeln(render.NoDiffMessage)
		return b.String(), nil
	}

	offsets := make([]int, 0, len(view.Files))
	for _, fv := range view.Files {
		offsets = append(offsets, rows)
		style := fileStyle
		marker := "  "
		if fv.Index == m.cursor {
			style = selectedStyle
			marker = "> "
		}
		writeln(marker + style.Render(fv.Filename) + metaStyle.Render(fmt.Sprintf(" [%s] +%d -%d", fv.ToggleLabel, fv.Added, fv.Removed)))
		if fv.Collapsed {
			continue
		}
		for _, l := range fv.Lines {
			writeln(m.renderLine(l))
		}
		writeln("")
	}
	return b.String(), offsets
}

func (m Model) renderLine(l render.Line) string {
	var num string
	if m.numbering == render.Hunk {
		num = numberStyle.Render(fmt.Sprintf("%4s %4s ", optNum(l.OldNumber), optNum(l.NewNumber)))
	} else if l.Numbered {
		num = numberStyle.Render(fmt.Sprintf("%4d ", l.Number))
	} else {
		num = "     "
	}

	switch {
	case render.IsHunkHeader(l.Text):
		return num + hunkStyle.Render(l.Text)
	case l.Kind == render.Added:
		return num + addStyle.Render(l.Text)
	case l.Kind == render.Removed:
		return num + removeStyle.Render(l.Text)
	default:
		return num + l.Text
	}
}

func optNum(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprint(n)
}

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.help.View(m.keys)
}
