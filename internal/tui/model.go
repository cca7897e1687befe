// Package tui is the terminal front end. It maps keys onto controller
// actions and renders the controller's state with lipgloss.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"logviewer/internal/config"
	"logviewer/internal/highlight"
	"logviewer/internal/viewer"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputGoto
	inputSchema
	inputDirectory
)

type pane int

const (
	paneTree pane = iota
	paneText
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

// Model is the bubbletea model wrapping a viewer.Controller.
type Model struct {
	ctrl   *viewer.Controller
	keys   KeyMap
	help   help.Model
	text   viewport.Model
	input  textinput.Model
	styles Styles

	mode      inputMode
	focus     pane
	width     int
	height    int
	offset    int
	listening bool
}

// New creates the model. cfg supplies the theme; nil means defaults.
func New(ctrl *viewer.Controller, cfg *config.Config) *Model {
	if cfg == nil {
		cfg = config.New()
	}
	input := textinput.New()
	input.CharLimit = 4096

	m := &Model{
		ctrl:   ctrl,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		input:  input,
		styles: NewStyles(cfg),
		text:   viewport.New(0, 0),
	}
	m.resize(defaultWidth, defaultHeight)
	m.syncText()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.listenCmd()
}

// listenCmd starts listening once the controller has a watcher.
func (m *Model) listenCmd() tea.Cmd {
	if m.listening {
		return nil
	}
	ch := m.ctrl.Changes()
	if ch == nil {
		return nil
	}
	m.listening = true
	return listen(ch)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.syncText()
		return m, nil

	case ChangeMsg:
		m.ctrl.HandleChange(msg.Change)
		if ch := m.ctrl.Changes(); ch != nil {
			return m, listen(ch)
		}
		m.listening = false
		return m, nil

	case watchClosedMsg:
		m.listening = false
		return m, nil

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.handleInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		_ = m.ctrl.Dispatch(viewer.ActionQuit, "")
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if m.focus == paneTree {
			m.focus = paneText
		} else {
			m.focus = paneTree
		}
		return m, nil

	case key.Matches(msg, m.keys.Directory):
		return m, m.prompt(inputDirectory, "Directory: ", m.ctrl.State().Directory)

	case key.Matches(msg, m.keys.GotoLine):
		return m, m.prompt(inputGoto, "Line: ", "")

	case key.Matches(msg, m.keys.Validate):
		return m, m.prompt(inputSchema, "XSD: ", m.ctrl.State().Schema)

	case key.Matches(msg, m.keys.Highlight):
		_ = m.ctrl.Dispatch(viewer.ActionToggleHighlight, "")
		m.syncText()
		return m, nil

	case key.Matches(msg, m.keys.Backup):
		_ = m.ctrl.Dispatch(viewer.ActionBackup, "")
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		_ = m.ctrl.Dispatch(viewer.ActionReload, "")
		m.clampOffset()
		return m, m.listenCmd()
	}

	if m.focus == paneText {
		var cmd tea.Cmd
		m.text, cmd = m.text.Update(msg)
		return m, cmd
	}
	return m.handleTreeKey(msg)
}

func (m *Model) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.ctrl.Tree()
	if t == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		t.MoveUp()
	case key.Matches(msg, m.keys.Down):
		t.MoveDown()
	case key.Matches(msg, m.keys.Parent):
		t.MoveToParent()
	case key.Matches(msg, m.keys.Open):
		node := t.Current()
		if node == nil {
			break
		}
		if node.IsDir {
			t.Toggle()
			break
		}
		_ = m.ctrl.Dispatch(viewer.ActionSelectFile, node.Path)
		m.syncText()
		m.text.GotoTop()
	case key.Matches(msg, m.keys.Activate):
		if node := t.Current(); node != nil {
			_ = m.ctrl.Dispatch(viewer.ActionActivate, node.Path)
		}
	}
	m.clampOffset()
	return m, nil
}

func (m *Model) prompt(mode inputMode, label, value string) tea.Cmd {
	m.mode = mode
	m.input.Prompt = label
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.closePrompt()
		return m, m.submit(mode, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.mode = inputNone
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) submit(mode inputMode, value string) tea.Cmd {
	switch mode {
	case inputGoto:
		if err := m.ctrl.Dispatch(viewer.ActionGotoLine, value); err == nil {
			m.syncText()
			if marked := m.ctrl.Document().MarkedBlock(); marked >= 0 {
				m.text.SetYOffset(marked)
			}
		}
	case inputSchema:
		_ = m.ctrl.Dispatch(viewer.ActionValidate, value)
	case inputDirectory:
		if err := m.ctrl.Dispatch(viewer.ActionSelectDirectory, value); err == nil {
			m.offset = 0
		}
		return m.listenCmd()
	}
	return nil
}

// resize lays the panes out for a terminal of the given size.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	bodyHeight := height - m.chromeHeight()
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	textWidth := width - m.treeWidth() - 4
	if textWidth < 10 {
		textWidth = 10
	}
	m.text.Width = textWidth
	m.text.Height = bodyHeight
	m.help.Width = width
	m.clampOffset()
}

// chromeHeight is the number of lines outside the two panes: header,
// file line, pane borders, status, prompt and help.
func (m *Model) chromeHeight() int {
	h := 6
	if m.help.ShowAll {
		h += 4
	}
	return h
}

func (m *Model) treeWidth() int {
	return m.width / 3
}

// clampOffset keeps the tree cursor inside the scrolled window.
func (m *Model) clampOffset() {
	t := m.ctrl.Tree()
	if t == nil {
		m.offset = 0
		return
	}
	rows := m.text.Height
	if t.Cursor < m.offset {
		m.offset = t.Cursor
	}
	if t.Cursor >= m.offset+rows {
		m.offset = t.Cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// syncText renders the document into the viewport.
func (m *Model) syncText() {
	blocks := m.ctrl.Document().Blocks()
	lines := make([]string, len(blocks))
	for i, b := range blocks {
		lines[i] = m.renderBlock(b)
	}
	m.text.SetContent(strings.Join(lines, "\n"))
}

// renderBlock draws one line with its spans. A marked line gets the
// emphasis background under every segment.
func (m *Model) renderBlock(b highlight.Block) string {
	var sb strings.Builder
	paint := func(st lipgloss.Style, s string) {
		if s == "" {
			return
		}
		if b.Marked {
			st = st.Background(m.styles.Marked)
		}
		sb.WriteString(st.Render(s))
	}

	pos := 0
	for _, sp := range b.Spans {
		start, end := sp.Start, sp.End
		if start < pos {
			start = pos
		}
		if end > len(b.Text) {
			end = len(b.Text)
		}
		if start >= end {
			continue
		}
		paint(lipgloss.NewStyle(), b.Text[pos:start])
		paint(m.styles.span(sp), b.Text[start:end])
		pos = end
	}
	paint(lipgloss.NewStyle(), b.Text[pos:])

	if b.Marked && b.Text == "" {
		sb.WriteString(lipgloss.NewStyle().Background(m.styles.Marked).Render(" "))
	}
	return sb.String()
}

func (m *Model) View() string {
	state := m.ctrl.State()

	header := m.styles.Title.Render("logviewer") + " " +
		m.styles.Label.Render("Directory: ") + orNone(state.Directory)
	fileLine := m.styles.Label.Render("File: ") + orNone(filepath.Base(state.FileName))
	if state.MarkedLine > 0 {
		fileLine += m.styles.Status.Render(fmt.Sprintf("  line %d", state.MarkedLine))
	}
	if state.Highlighted {
		fileLine += m.styles.Status.Render("  [highlight]")
	}

	treeStyle, textStyle := m.styles.Focused, m.styles.Pane
	if m.focus == paneText {
		treeStyle, textStyle = m.styles.Pane, m.styles.Focused
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		treeStyle.Width(m.treeWidth()).Height(m.text.Height).Render(m.treeView()),
		textStyle.Render(m.text.View()),
	)

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(fileLine + "\n")
	b.WriteString(body + "\n")
	b.WriteString(m.statusView(state) + "\n")
	if m.mode != inputNone {
		b.WriteString(m.styles.Prompt.Render(m.input.View()) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func orNone(s string) string {
	if s == "" || s == "." {
		return "(none)"
	}
	return s
}

func (m *Model) statusView(state viewer.State) string {
	if len(state.Status) == 0 {
		return m.styles.Status.Render("Ready")
	}
	style := m.styles.Error
	if state.StatusOK {
		style = m.styles.Success
	}
	lines := make([]string, len(state.Status))
	for i, s := range state.Status {
		lines[i] = style.Render(s)
	}
	return strings.Join(lines, "\n")
}

// treeView draws the visible tree rows in the scrolled window.
func (m *Model) treeView() string {
	t := m.ctrl.Tree()
	if t == nil || len(t.VisibleRows) == 0 {
		return m.styles.Empty.Render("No directory selected (d)")
	}

	end := m.offset + m.text.Height
	if end > len(t.VisibleRows) {
		end = len(t.VisibleRows)
	}

	var b strings.Builder
	for i := m.offset; i < end; i++ {
		node := t.VisibleRows[i]

		indent := strings.Repeat("  ", node.Level)
		if node.Level > 0 {
			if i == len(t.VisibleRows)-1 || node.Parent != t.VisibleRows[i+1].Parent {
				indent = strings.Repeat("  ", node.Level-1) + "└─ "
			} else {
				indent = strings.Repeat("  ", node.Level-1) + "├─ "
			}
		}

		icon := "📄 "
		if node.IsDir {
			icon = "📁 "
			if node.IsOpen {
				icon = "📂 "
			}
		}
		name := indent + icon + node.Name

		switch {
		case i == t.Cursor:
			name = m.styles.Cursor.Render(name)
		case node.IsDir:
			name = m.styles.Directory.Render(name)
		default:
			name = m.styles.File.Render(name)
		}
		b.WriteString(name)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
