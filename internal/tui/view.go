package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todotxt/internal/task"
)

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		m.width = 80
		m.height = 24
	}

	switch m.mode {
	case ModeAdd:
		return m.renderInputDialog("Add New Task", "Enter: add  Tab: complete  Esc: cancel")
	case ModeEdit:
		title := "Edit Task"
		if m.editing != nil {
			title = "Edit: " + m.editing.Text()
		}
		return m.renderInputDialog(title, "Enter: save  Tab: complete  Esc: cancel")
	case ModeOpen:
		return m.renderInputDialog("Open File", "Enter: open  Tab: recent files  Esc: cancel")
	case ModeSaveAs:
		return m.renderInputDialog("Save As", "Enter: save  Esc: cancel")
	case ModeHelp:
		return m.renderHelpDialog()
	case ModePriority:
		return m.renderConfirmDialog("Set priority", "A-Z: set  -: clear  Esc: cancel")
	case ModeConfirmDelete:
		return m.renderConfirmDialog("Delete selected task?", "y: yes  n: no")
	case ModeConfirmArchive:
		return m.renderConfirmDialog("Move completed tasks to done.txt?", "y: yes  n: no")
	case ModeConfirmQuit:
		return m.renderConfirmDialog("Quit without saving changes?", "y: yes  n: no")
	case ModeExternalChange:
		return m.renderConfirmDialog("The file was changed by another program. Reload?", "y: reload  n: keep mine")
	}

	var b strings.Builder

	// Calculate pane widths
	filterWidth := m.width / 4
	taskWidth := m.width - filterWidth - 4

	filterContent := m.renderFilterPane(filterWidth - 4)
	filterPane := m.filterPaneStyle.Width(filterWidth).Height(m.height - 4).Render(filterContent)

	taskContent := m.renderTaskPane(taskWidth - 4)
	taskPane := m.taskPaneStyle.Width(taskWidth).Height(m.height - 4).Render(taskContent)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, filterPane, taskPane))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	if m.mode == ModeSearch {
		b.WriteString("\n")
		b.WriteString("/ " + m.textInput.View())
	}

	return b.String()
}

func (m *Model) renderFilterPane(width int) string {
	var b strings.Builder
	b.WriteString("Filters\n")
	b.WriteString(strings.Repeat("─", max(width, 0)))
	b.WriteString("\n")

	for i, flat := range m.nodes {
		selected := i == m.filterCursor && m.focus == FocusFilters
		cursor := " "
		if selected {
			cursor = ">"
		}

		label := flat.Node.Label
		switch {
		case selected:
			label = m.selectedStyle.Render(label)
		case m.activeFilter != nil && flat.Node.Filter == m.activeFilter:
			label = m.activeStyle.Render(label)
		}
		if flat.Node.Count >= 0 {
			label += " " + m.countStyle.Render(fmt.Sprintf("(%d)", flat.Node.Count))
		}

		b.WriteString(cursor + " " + strings.Repeat("  ", flat.Depth) + label + "\n")
	}

	return b.String()
}

func (m *Model) renderTaskPane(width int) string {
	var b strings.Builder
	b.WriteString("Tasks\n")
	b.WriteString(strings.Repeat("─", max(width, 0)))
	b.WriteString("\n")

	if len(m.tasks) == 0 {
		b.WriteString("No tasks\n")
		return b.String()
	}

	for i, t := range m.tasks {
		m.renderTask(&b, t, i)
	}

	return b.String()
}

func (m *Model) renderTask(b *strings.Builder, t *task.Task, idx int) {
	selected := idx == m.taskCursor && m.focus == FocusTasks

	cursor := " "
	if selected {
		cursor = ">"
	}

	status := "[ ]"
	if t.IsComplete() {
		status = "[x]"
	}

	text := t.Text()
	switch {
	case t.IsComplete():
		text = m.completedStyle.Render(text)
	case selected:
		text = m.selectedStyle.Render(text)
	default:
		if style, ok := m.priorityStyles[t.Priority()]; ok {
			text = style.Render(text)
		}
	}

	b.WriteString(cursor + " " + status + " " + text)
	if due := t.DueDate(); due != nil && !t.IsComplete() && due.Before(task.Today()) {
		b.WriteString(" " + m.errorStyle.Render("overdue"))
	}
	b.WriteString("\n")
}

func (m *Model) renderStatusBar() string {
	left := m.title
	if m.status != "" {
		status := m.status
		if m.statusIsErr {
			status = m.errorStyle.Render(status)
		}
		left += "  " + status
	}

	right := m.help.ShortHelpView(m.keys.ShortHelp())
	if search := m.ctrl.SearchText(); search != "" && m.mode != ModeSearch {
		right = "Search: " + search + "  " + right
	}

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return m.statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m *Model) renderInputDialog(title, hint string) string {
	body := title + "\n\n" + m.textInput.View()
	if m.mode == ModeAdd || m.mode == ModeEdit {
		value := m.textInput.Value()
		word := value[strings.LastIndex(value, " ")+1:]
		if matches := completionsFor(word, m.ctrl.CompletionStrings()); len(matches) > 0 {
			if len(matches) > 5 {
				matches = matches[:5]
			}
			body += "\n" + m.helpStyle.Render(strings.Join(matches, "  "))
		}
	}
	dialog := m.dialogStyle.Render(body + "\n\n" + m.helpStyle.Render(hint))
	return m.centerDialog(dialog)
}

func (m *Model) renderHelpDialog() string {
	body := "Help - Key Bindings\n\n" +
		m.help.FullHelpView(m.keys.FullHelp()) + "\n\n" +
		m.helpStyle.Render("Press any key to close")
	return m.centerDialog(m.dialogStyle.Render(body))
}

func (m *Model) renderConfirmDialog(question, hint string) string {
	dialog := m.dialogStyle.Render(question + "\n\n" + m.helpStyle.Render(hint))
	return m.centerDialog(dialog)
}

func (m *Model) centerDialog(dialog string) string {
	lines := strings.Split(dialog, "\n")
	dialogHeight := len(lines)
	dialogWidth := lipgloss.Width(dialog)

	topPad := max((m.height-dialogHeight)/2, 0)
	leftPad := max((m.width-dialogWidth)/2, 0)

	var b strings.Builder
	for i := 0; i < topPad; i++ {
		b.WriteString("\n")
	}
	for _, line := range lines {
		b.WriteString(strings.Repeat(" ", leftPad))
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
