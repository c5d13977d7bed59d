package tui_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"todotxt/internal/controller"
	"todotxt/internal/settings"
	"todotxt/internal/tui"
	"todotxt/internal/utils"
)

func TestMain(m *testing.M) {
	utils.GetLogger().SetOutput(io.Discard)
	os.Exit(m.Run())
}

// sendKeyAndWait sends a key message and waits briefly for processing.
func sendKeyAndWait(tm *teatest.TestModel, key tea.KeyMsg) {
	tm.Send(key)
	time.Sleep(20 * time.Millisecond)
}

// sendRunesAndWait sends a rune key message and waits briefly for processing.
func sendRunesAndWait(tm *teatest.TestModel, runes []rune) {
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyRunes, Runes: runes})
}

// typeText sends s one rune at a time.
func typeText(tm *teatest.TestModel, s string) {
	for _, r := range s {
		if r == ' ' {
			sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		sendRunesAndWait(tm, []rune{r})
	}
}

// readAll reads all output from a reader and returns as bytes
func readAll(t *testing.T, r io.Reader) []byte {
	t.Helper()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return out
}

// newController opens a todo.txt holding lines.
func newController(t *testing.T, lines ...string) (*controller.Controller, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo.txt")
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write todo file: %v", err)
	}
	ctrl := controller.New(controller.Options{
		Settings: settings.NewMemory(),
		Args:     controller.Args{File: path},
	})
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = ctrl.Close() })
	return ctrl, path
}

func startTUI(t *testing.T, ctrl *controller.Controller) (*tui.Model, *teatest.TestModel) {
	t.Helper()
	model := tui.New(ctrl)
	t.Cleanup(model.Close)
	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(100, 30))
	time.Sleep(100 * time.Millisecond)
	return model, tm
}

func quit(t *testing.T, tm *teatest.TestModel) []byte {
	t.Helper()
	sendRunesAndWait(tm, []rune{'q'})
	return readAll(t, tm.FinalOutput(t, teatest.WithFinalTimeout(time.Second)))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestTUILaunch(t *testing.T) {
	ctrl, _ := newController(t, "(A) Call mom @phone", "Buy milk +groceries")
	_, tm := startTUI(t, ctrl)

	out := quit(t, tm)
	for _, want := range []string{"Filters", "Tasks", "Call mom @phone", "Buy milk +groceries", "@phone", "+groceries"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestTUIEmptyFile(t *testing.T) {
	ctrl, _ := newController(t)
	_, tm := startTUI(t, ctrl)

	out := quit(t, tm)
	if !bytes.Contains(out, []byte("No tasks")) {
		t.Error("expected 'No tasks' for an empty file")
	}
}

func TestTUIAddTask(t *testing.T) {
	ctrl, path := newController(t, "Existing task")
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'a'})
	typeText(tm, "Walk dog")
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyEnter})

	quit(t, tm)

	if got := readFile(t, path); got != "Existing task\nWalk dog\n" {
		t.Errorf("file = %q", got)
	}
	if n := len(ctrl.FilteredTasks()); n != 2 {
		t.Errorf("got %d tasks shown, want 2", n)
	}
}

func TestTUIAddTaskEscCancels(t *testing.T) {
	ctrl, path := newController(t, "Existing task")
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'a'})
	typeText(tm, "Never")
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyEsc})

	quit(t, tm)

	if got := readFile(t, path); got != "Existing task\n" {
		t.Errorf("file = %q", got)
	}
}

func TestTUITabCompletion(t *testing.T) {
	ctrl, path := newController(t, "Call mom @phone")
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'a'})
	typeText(tm, "Order pizza @ph")
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyTab})
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyEnter})

	quit(t, tm)

	if got := readFile(t, path); !strings.Contains(got, "Order pizza @phone\n") {
		t.Errorf("file = %q, want the completed context", got)
	}
}

func TestTUIToggleComplete(t *testing.T) {
	ctrl, path := newController(t, "Buy milk", "Walk dog")
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'x'})

	quit(t, tm)

	lines := strings.Split(strings.TrimSpace(readFile(t, path)), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "x ") {
		t.Errorf("file lines = %q, want first task completed", lines)
	}
	shown := ctrl.FilteredTasks()
	if len(shown) != 1 || shown[0].Text() != "Walk dog" {
		t.Errorf("shown tasks = %v, want only the open task", shown)
	}
}

func TestTUIDeleteConfirm(t *testing.T) {
	ctrl, path := newController(t, "Buy milk", "Walk dog")
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'j'})
	sendRunesAndWait(tm, []rune{'d'})
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Delete selected task?"))
	}, teatest.WithDuration(time.Second))
	sendRunesAndWait(tm, []rune{'y'})

	quit(t, tm)

	if got := readFile(t, path); got != "Buy milk\n" {
		t.Errorf("file = %q", got)
	}
}

func TestTUIDeleteDeclined(t *testing.T) {
	ctrl, path := newController(t, "Buy milk")
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'d'})
	sendRunesAndWait(tm, []rune{'n'})

	quit(t, tm)

	if got := readFile(t, path); got != "Buy milk\n" {
		t.Errorf("file = %q", got)
	}
}

func TestTUIEditTask(t *testing.T) {
	ctrl, path := newController(t, "Buy milk")
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'e'})
	typeText(tm, " +groceries")
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyEnter})

	quit(t, tm)

	if got := readFile(t, path); got != "Buy milk +groceries\n" {
		t.Errorf("file = %q", got)
	}
}

func TestTUISetPriority(t *testing.T) {
	ctrl, path := newController(t, "Buy milk")
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'p'})
	sendRunesAndWait(tm, []rune{'b'})

	quit(t, tm)

	if got := readFile(t, path); got != "(B) Buy milk\n" {
		t.Errorf("file = %q", got)
	}
}

func TestTUISearch(t *testing.T) {
	ctrl, _ := newController(t, "Buy milk", "Walk dog")
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'/'})
	typeText(tm, "dog")
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyEnter})

	quit(t, tm)

	if got := ctrl.SearchText(); got != "dog" {
		t.Errorf("SearchText() = %q, want dog", got)
	}
	shown := ctrl.FilteredTasks()
	if len(shown) != 1 || shown[0].Text() != "Walk dog" {
		t.Errorf("shown tasks = %v", shown)
	}
}

func TestTUISearchEscClears(t *testing.T) {
	ctrl, _ := newController(t, "Buy milk", "Walk dog")
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'/'})
	typeText(tm, "dog")
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyEsc})

	quit(t, tm)

	if got := ctrl.SearchText(); got != "" {
		t.Errorf("SearchText() = %q, want empty", got)
	}
	if n := len(ctrl.FilteredTasks()); n != 2 {
		t.Errorf("got %d tasks shown, want 2", n)
	}
}

func TestTUIShowCompletedToggle(t *testing.T) {
	ctrl, _ := newController(t, "x Done already", "Open task")
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'c'})

	quit(t, tm)

	if !ctrl.ShowCompleted() {
		t.Error("ShowCompleted() = false after pressing c")
	}
	if n := len(ctrl.FilteredTasks()); n != 2 {
		t.Errorf("got %d tasks shown, want 2", n)
	}
}

func TestTUISidebarFilter(t *testing.T) {
	ctrl, _ := newController(t, "Call mom @phone", "Buy milk +groceries")
	_, tm := startTUI(t, ctrl)

	// All, Uncategorized, Due, Overdue, Today, Future, Contexts, @phone
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyTab})
	for i := 0; i < 7; i++ {
		sendRunesAndWait(tm, []rune{'j'})
	}
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyEnter})

	quit(t, tm)

	shown := ctrl.FilteredTasks()
	if len(shown) != 1 || shown[0].Text() != "Call mom @phone" {
		t.Errorf("shown tasks = %v, want only the @phone task", shown)
	}
}

func TestTUIArchive(t *testing.T) {
	ctrl, path := newController(t, "x 2026-01-01 Done already", "Open task")
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'A'})
	sendRunesAndWait(tm, []rune{'y'})

	quit(t, tm)

	if got := readFile(t, path); got != "Open task\n" {
		t.Errorf("todo.txt = %q", got)
	}
	done := readFile(t, filepath.Join(filepath.Dir(path), "done.txt"))
	if !strings.Contains(done, "Done already") {
		t.Errorf("done.txt = %q", done)
	}
}

func TestTUIExternalChangeReload(t *testing.T) {
	ctrl, path := newController(t, "Buy milk")
	_, tm := startTUI(t, ctrl)

	if err := os.WriteFile(path, []byte("Changed elsewhere\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}
	tm.Send(tui.ExternalChangeMsg{Path: path})
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Reload?"))
	}, teatest.WithDuration(time.Second))
	sendRunesAndWait(tm, []rune{'y'})

	quit(t, tm)

	shown := ctrl.FilteredTasks()
	if len(shown) != 1 || shown[0].Text() != "Changed elsewhere" {
		t.Errorf("shown tasks = %v, want the reloaded task", shown)
	}
}

func TestTUIHelp(t *testing.T) {
	ctrl, _ := newController(t, "Buy milk")
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'?'})
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Help - Key Bindings"))
	}, teatest.WithDuration(time.Second))

	// Any key closes the help dialog before quitting.
	sendRunesAndWait(tm, []rune{'z'})
	quit(t, tm)
}

func TestTUIQuitAsksWhenUnsaved(t *testing.T) {
	ctrl := controller.New(controller.Options{Settings: settings.NewMemory()})
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	_, tm := startTUI(t, ctrl)

	sendRunesAndWait(tm, []rune{'a'})
	typeText(tm, "Unsaved")
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyEnter})

	sendRunesAndWait(tm, []rune{'q'})
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Quit without saving changes?"))
	}, teatest.WithDuration(time.Second))
	sendRunesAndWait(tm, []rune{'y'})

	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))
	if !ctrl.Modified() {
		t.Error("untitled file should still be modified")
	}
}
