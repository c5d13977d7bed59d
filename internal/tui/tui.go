// Package tui provides a terminal user interface for a todo.txt file.
package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todotxt/internal/controller"
	"todotxt/internal/filter"
	"todotxt/internal/notification"
	"todotxt/internal/task"
	"todotxt/internal/utils"
)

// Focus indicates which pane has focus
type Focus int

const (
	FocusFilters Focus = iota
	FocusTasks
)

// Mode indicates the current input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdd
	ModeEdit
	ModeSearch
	ModePriority
	ModeOpen
	ModeSaveAs
	ModeHelp
	ModeConfirmDelete
	ModeConfirmArchive
	ModeConfirmQuit
	ModeExternalChange
)

// ExternalChangeMsg reports that another program modified the open file.
type ExternalChangeMsg struct {
	Path string
}

// Model represents the TUI state
type Model struct {
	ctrl        *controller.Controller
	unsubscribe []func()

	// Data mirrored from the controller
	tasks    []*task.Task
	nodes    []filter.FlatNode
	title    string
	modified bool

	// Selection
	filterCursor int
	taskCursor   int
	activeFilter filter.Filter
	focus        Focus

	// Mode and input
	mode        Mode
	textInput   textinput.Model
	editing     *task.Task
	status      string
	statusIsErr bool
	shownTitle  string

	keys keyMap
	help help.Model

	// UI dimensions
	width  int
	height int

	// Styles
	filterPaneStyle lipgloss.Style
	taskPaneStyle   lipgloss.Style
	selectedStyle   lipgloss.Style
	activeStyle     lipgloss.Style
	completedStyle  lipgloss.Style
	priorityStyles  map[rune]lipgloss.Style
	countStyle      lipgloss.Style
	helpStyle       lipgloss.Style
	dialogStyle     lipgloss.Style
	statusBarStyle  lipgloss.Style
	errorStyle      lipgloss.Style
}

// New creates a new TUI model over ctrl. Close releases its subscriptions.
func New(ctrl *controller.Controller) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter text..."
	ti.CharLimit = 1024

	m := &Model{
		ctrl:      ctrl,
		tasks:     ctrl.FilteredTasks(),
		nodes:     filter.Flatten(ctrl.FilterTree()),
		title:     ctrl.Title(),
		modified:  ctrl.Modified(),
		textInput: ti,
		focus:     FocusTasks,
		mode:      ModeNormal,
		keys:      defaultKeyMap(),
		help:      help.New(),
		filterPaneStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		taskPaneStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		activeStyle: lipgloss.NewStyle().
			Underline(true),
		completedStyle: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("240")),
		priorityStyles: map[rune]lipgloss.Style{
			'A': lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			'B': lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			'C': lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		},
		countStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		dialogStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
		statusBarStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}

	// These events are published from inside Update, on the program
	// goroutine, so they are applied to the model directly.
	bus := ctrl.Bus()
	m.unsubscribe = []func(){
		bus.Subscribe(notification.FilteredTasksChanged, func(ev notification.Event) {
			m.tasks, _ = ev.Value.([]*task.Task)
			m.clampCursors()
		}),
		bus.Subscribe(notification.FiltersChanged, func(ev notification.Event) {
			nodes, _ := ev.Value.([]filter.Node)
			m.nodes = filter.Flatten(nodes)
			m.clampCursors()
		}),
		bus.Subscribe(notification.TitleChanged, func(ev notification.Event) {
			m.title, _ = ev.Value.(string)
		}),
		bus.Subscribe(notification.ModifiedChanged, func(ev notification.Event) {
			m.modified, _ = ev.Value.(bool)
		}),
		bus.Subscribe(notification.Error, func(ev notification.Event) {
			if err, ok := ev.Value.(error); ok {
				m.setError(err)
			}
		}),
	}
	return m
}

// Close removes the model's bus subscriptions.
func (m *Model) Close() {
	for _, unsubscribe := range m.unsubscribe {
		unsubscribe()
	}
	m.unsubscribe = nil
}

// Run starts the terminal UI and blocks until the user quits.
func Run(ctrl *controller.Controller, opts ...tea.ProgramOption) error {
	m := New(ctrl)
	defer m.Close()

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)

	// The file watch publishes from its own goroutine.
	unsubscribe := ctrl.Bus().Subscribe(notification.FileExternallyModified, func(ev notification.Event) {
		path, _ := ev.Value.(string)
		go p.Send(ExternalChangeMsg{Path: path})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	m.shownTitle = m.title
	return tea.SetWindowTitle(m.title)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.update(msg)
	if m.title != m.shownTitle {
		m.shownTitle = m.title
		cmd = tea.Batch(cmd, tea.SetWindowTitle(m.title))
	}
	return model, cmd
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ExternalChangeMsg:
		utils.Debugf("external change of %s", msg.Path)
		if m.mode == ModeNormal {
			m.mode = ModeExternalChange
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAdd, ModeEdit:
			return m.handleTaskInputMode(msg)
		case ModeSearch:
			return m.handleSearchMode(msg)
		case ModePriority:
			return m.handlePriorityMode(msg)
		case ModeOpen, ModeSaveAs:
			return m.handlePathMode(msg)
		case ModeHelp:
			return m.handleHelpMode(msg)
		case ModeConfirmDelete, ModeConfirmArchive, ModeConfirmQuit, ModeExternalChange:
			return m.handleConfirmMode(msg)
		}
		return m.handleNormalMode(msg)
	}

	if m.usesTextInput() {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.clearStatus()

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.ctrl.CanExit() {
			return m, tea.Quit
		}
		m.mode = ModeConfirmQuit
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if m.focus == FocusFilters {
			m.focus = FocusTasks
		} else {
			m.focus = FocusFilters
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.focus == FocusFilters {
			if m.filterCursor > 0 {
				m.filterCursor--
			}
		} else if m.taskCursor > 0 {
			m.taskCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.focus == FocusFilters {
			if m.filterCursor < len(m.nodes)-1 {
				m.filterCursor++
			}
		} else if m.taskCursor < len(m.tasks)-1 {
			m.taskCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.focus == FocusFilters && m.filterCursor < len(m.nodes) {
			node := m.nodes[m.filterCursor].Node
			m.activeFilter = node.Filter
			m.ctrl.FilterRequest(node)
			m.taskCursor = 0
			m.focus = FocusTasks
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.editing = nil
		return m, m.openInput(ModeAdd, "New task...", "")

	case key.Matches(msg, m.keys.Edit):
		if t := m.selectedTask(); t != nil {
			m.editing = t
			return m, m.openInput(ModeEdit, "Task text...", t.Text())
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if t := m.selectedTask(); t != nil {
			m.report(m.ctrl.ToggleComplete(t))
		}
		return m, nil

	case key.Matches(msg, m.keys.Priority):
		if m.selectedTask() != nil {
			m.mode = ModePriority
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.selectedTask() != nil {
			m.mode = ModeConfirmDelete
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		return m, m.openInput(ModeSearch, "Search...", m.ctrl.SearchText())

	case key.Matches(msg, m.keys.ShowCompleted):
		m.ctrl.SetShowCompleted(!m.ctrl.ShowCompleted())
		return m, nil

	case key.Matches(msg, m.keys.ShowFuture):
		m.ctrl.SetShowFuture(!m.ctrl.ShowFuture())
		return m, nil

	case key.Matches(msg, m.keys.Archive):
		m.mode = ModeConfirmArchive
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if m.ctrl.Filename() == "" {
			return m, m.openInput(ModeSaveAs, "Save as...", "")
		}
		if m.ctrl.Save() == nil {
			m.setInfo("Saved " + filepath.Base(m.ctrl.Filename()))
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.ctrl.Reload() == nil {
			m.setInfo("Reloaded " + filepath.Base(m.ctrl.Filename()))
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		value := ""
		if recent := m.ctrl.RecentFiles(); len(recent) > 0 {
			value = recent[0]
		}
		return m, m.openInput(ModeOpen, "Path to todo.txt...", value)

	case key.Matches(msg, m.keys.New):
		if !m.ctrl.New() {
			m.setError(errors.New("unsaved changes; save before starting a new file"))
		}
		m.activeFilter = nil
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil
	}

	return m, nil
}

func (m *Model) handleTaskInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.textInput.Value())
		mode := m.mode
		m.closeInput()
		if mode == ModeAdd && value != "" {
			m.taskCursor = m.ctrl.NewTask(value, m.taskCursor)
			m.focus = FocusTasks
		}
		if mode == ModeEdit && m.editing != nil {
			m.report(m.ctrl.EditTask(m.editing, value))
		}
		m.editing = nil
		return m, nil

	case tea.KeyEsc:
		m.closeInput()
		m.editing = nil
		return m, nil

	case tea.KeyTab:
		m.completeWord()
		return m, nil
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		m.closeInput()
		return m, nil

	case tea.KeyEsc:
		m.ctrl.SetSearchText("")
		m.closeInput()
		return m, nil
	}

	m.textInput, cmd = m.textInput.Update(msg)
	m.ctrl.SetSearchText(m.textInput.Value())
	return m, cmd
}

func (m *Model) handlePriorityMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	t := m.selectedTask()
	if t == nil || msg.Type == tea.KeyEsc {
		return m, nil
	}

	s := msg.String()
	switch {
	case s == "-" || s == " " || msg.Type == tea.KeyBackspace:
		m.report(m.ctrl.SetTaskPriority(t, 0))
	case len(msg.Runes) == 1 && unicode.IsLetter(msg.Runes[0]):
		m.report(m.ctrl.SetTaskPriority(t, unicode.ToUpper(msg.Runes[0])))
	default:
		m.setError(utils.ErrInvalidPriority(s))
	}
	return m, nil
}

func (m *Model) handlePathMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		path := strings.TrimSpace(m.textInput.Value())
		mode := m.mode
		m.closeInput()
		if path == "" {
			return m, nil
		}
		if mode == ModeSaveAs {
			if m.ctrl.SaveAs(path) == nil {
				m.setInfo("Saved " + filepath.Base(path))
			}
			return m, nil
		}
		if !m.ctrl.CanExit() {
			m.setError(errors.New("unsaved changes; save before opening another file"))
			return m, nil
		}
		if m.ctrl.Open(path) == nil {
			m.activeFilter = nil
			m.ctrl.SetFilters()
		}
		return m, nil

	case tea.KeyEsc:
		m.closeInput()
		return m, nil

	case tea.KeyTab:
		m.cycleRecentFile()
		return m, nil
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	return m, nil
}

func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := m.mode
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch mode {
		case ModeConfirmDelete:
			if t := m.selectedTask(); t != nil {
				m.report(m.ctrl.DeleteByReference(t))
			}
		case ModeConfirmArchive:
			if n, err := m.ctrl.ArchiveCompletedTasks(); err == nil {
				m.setInfo(pluralize(n, "task") + " archived")
			}
		case ModeConfirmQuit:
			return m, tea.Quit
		case ModeExternalChange:
			if m.ctrl.Reload() == nil {
				m.setInfo("Reloaded " + filepath.Base(m.ctrl.Filename()))
			}
		}
		return m, nil

	case "n", "N", "esc":
		m.mode = ModeNormal
		return m, nil
	}

	return m, nil
}

// openInput switches to a text input mode.
func (m *Model) openInput(mode Mode, placeholder, value string) tea.Cmd {
	m.mode = mode
	m.textInput.Reset()
	m.textInput.Placeholder = placeholder
	m.textInput.SetValue(value)
	m.textInput.CursorEnd()
	m.textInput.Focus()
	return textinput.Blink
}

func (m *Model) closeInput() {
	m.mode = ModeNormal
	m.textInput.Blur()
}

func (m *Model) usesTextInput() bool {
	switch m.mode {
	case ModeAdd, ModeEdit, ModeSearch, ModeOpen, ModeSaveAs:
		return true
	}
	return false
}

// completeWord replaces the word before the cursor with the first completion
// string it is a prefix of.
func (m *Model) completeWord() {
	value := m.textInput.Value()
	start := strings.LastIndex(value, " ") + 1
	word := value[start:]
	matches := completionsFor(word, m.ctrl.CompletionStrings())
	if len(matches) == 0 {
		return
	}
	m.textInput.SetValue(value[:start] + matches[0] + " ")
	m.textInput.CursorEnd()
}

// completionsFor returns the candidates that extend word.
func completionsFor(word string, candidates []string) []string {
	if word == "" {
		return nil
	}
	var out []string
	lower := strings.ToLower(word)
	for _, c := range candidates {
		if c != word && strings.HasPrefix(strings.ToLower(c), lower) {
			out = append(out, c)
		}
	}
	return out
}

// cycleRecentFile replaces the path input with the next recent file.
func (m *Model) cycleRecentFile() {
	recent := m.ctrl.RecentFiles()
	if len(recent) == 0 {
		return
	}
	next := recent[0]
	for i, f := range recent {
		if f == m.textInput.Value() {
			next = recent[(i+1)%len(recent)]
			break
		}
	}
	m.textInput.SetValue(next)
	m.textInput.CursorEnd()
}

func (m *Model) selectedTask() *task.Task {
	if m.focus != FocusTasks || m.taskCursor < 0 || m.taskCursor >= len(m.tasks) {
		return nil
	}
	return m.tasks[m.taskCursor]
}

func (m *Model) clampCursors() {
	if m.taskCursor >= len(m.tasks) {
		m.taskCursor = len(m.tasks) - 1
	}
	if m.taskCursor < 0 {
		m.taskCursor = 0
	}
	if m.filterCursor >= len(m.nodes) {
		m.filterCursor = len(m.nodes) - 1
	}
	if m.filterCursor < 0 {
		m.filterCursor = 0
	}
}

// report shows err in the status bar. Controller I/O errors arrive through
// the bus; this covers the ones it only returns.
func (m *Model) report(err error) {
	if err != nil {
		m.setError(err)
	}
}

func (m *Model) setError(err error) {
	msg := err.Error()
	var ews *utils.ErrorWithSuggestion
	if errors.As(err, &ews) {
		msg = ews.Err.Error()
	}
	m.status = msg
	m.statusIsErr = true
}

func (m *Model) setInfo(msg string) {
	m.status = msg
	m.statusIsErr = false
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusIsErr = false
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
