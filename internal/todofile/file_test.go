package todofile

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"todotxt/internal/task"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestLoadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.txt")
	writeFile(t, path, "\ufeff(A) first @home\n\n   \nsecond +p\r\nsecond +p\n")

	f := New()
	if err := f.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if f.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", f.Len())
	}
	if got := f.Tasks()[0].Text(); got != "(A) first @home" {
		t.Errorf("first task = %q", got)
	}
	if f.Tasks()[1] == f.Tasks()[2] {
		t.Error("duplicate lines should be distinct task instances")
	}
	if f.Tasks()[1].Text() != "second +p" {
		t.Errorf("CRLF not stripped: %q", f.Tasks()[1].Text())
	}
	abs, _ := filepath.Abs(path)
	if f.Filename() != abs {
		t.Errorf("Filename() = %q, want %q", f.Filename(), abs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	f := New()
	if err := f.Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if f.Filename() != "" {
		t.Errorf("Filename() = %q after failed load", f.Filename())
	}
}

func TestLoadReplacesTasks(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	writeFile(t, a, "one\ntwo\n")
	writeFile(t, b, "three\n")

	f := New()
	if err := f.Load(a); err != nil {
		t.Fatalf("Load(a) error = %v", err)
	}
	if err := f.Load(b); err != nil {
		t.Fatalf("Load(b) error = %v", err)
	}
	if f.Len() != 1 || f.Tasks()[0].Text() != "three" {
		t.Errorf("tasks after reload = %v", f.Tasks())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todo.txt")

	f := New()
	f.Append(task.New("(B) write tests +todotxt"))
	f.Append(task.New("x 2024-01-01 ship"))
	if err := f.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	want := "(B) write tests +todotxt\nx 2024-01-01 ship\n"
	if got := readFile(t, path); got != want {
		t.Errorf("file content = %q, want %q", got, want)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}

	g := New()
	if err := g.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if g.Len() != 2 || g.Tasks()[1].Text() != "x 2024-01-01 ship" {
		t.Errorf("reloaded tasks = %v", g.Tasks())
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(""); err == nil {
		t.Error("expected error saving untitled file without a path")
	}
}

func TestRemoveByInstance(t *testing.T) {
	f := New()
	a, b := task.New("same"), task.New("same")
	f.Append(a)
	f.Append(b)

	if !f.Remove(b) {
		t.Fatal("Remove(b) = false")
	}
	if f.Len() != 1 || f.Tasks()[0] != a {
		t.Error("wrong instance removed")
	}
	if f.Remove(b) {
		t.Error("Remove of absent task returned true")
	}
	if f.IndexOf(a) != 0 {
		t.Errorf("IndexOf(a) = %d", f.IndexOf(a))
	}
}

func TestSaveDoneTask(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.txt")
	writeFile(t, path, "x 2024-01-01 a\nb\n")
	writeFile(t, filepath.Join(dir, DoneFileName), "x 2023-12-31 old\n")

	f := New()
	if err := f.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := f.SaveDoneTask(f.Tasks()[0]); err != nil {
		t.Fatalf("SaveDoneTask() error = %v", err)
	}

	got := readFile(t, filepath.Join(dir, DoneFileName))
	if got != "x 2023-12-31 old\nx 2024-01-01 a\n" {
		t.Errorf("done file = %q", got)
	}
	if f.Len() != 2 {
		t.Errorf("SaveDoneTask must not remove the task, Len() = %d", f.Len())
	}
}

func TestSaveDoneTaskUntitled(t *testing.T) {
	if err := New().SaveDoneTask(task.New("x a")); err == nil {
		t.Error("expected error for untitled file")
	}
}

func TestAllContextsAndProjects(t *testing.T) {
	f := New()
	for _, line := range []string{
		"a @work +beta",
		"b @home +alpha @work",
		"x 2024-01-01 c @garage +zeta",
	} {
		f.Append(task.New(line))
	}

	if got := f.AllContexts(false); !slices.Equal(got, []string{"home", "work"}) {
		t.Errorf("AllContexts(false) = %v", got)
	}
	if got := f.AllContexts(true); !slices.Equal(got, []string{"garage", "home", "work"}) {
		t.Errorf("AllContexts(true) = %v", got)
	}
	if got := f.AllProjects(false); !slices.Equal(got, []string{"alpha", "beta"}) {
		t.Errorf("AllProjects(false) = %v", got)
	}
	if got := f.ContextCounts(false)["work"]; got != 2 {
		t.Errorf("ContextCounts[work] = %d, want 2", got)
	}
}

func TestWatchReportsExternalChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.txt")
	writeFile(t, path, "a\n")

	f := New()
	if err := f.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var changes atomic.Int32
	if err := f.Watch(50*time.Millisecond, func(string) { changes.Add(1) }); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer f.StopWatching()

	f.Append(task.New("b"))
	if err := f.Save(f.Filename()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	time.Sleep(300 * time.Millisecond)
	if n := changes.Load(); n != 0 {
		t.Errorf("own save reported as external change %d times", n)
	}

	writeFile(t, path, strings.Repeat("external\n", 3))
	time.Sleep(300 * time.Millisecond)
	if n := changes.Load(); n == 0 {
		t.Error("external write not reported")
	}
}

func TestWatchUntitledDefersUntilSave(t *testing.T) {
	f := New()
	if err := f.Watch(50*time.Millisecond, func(string) {}); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer f.StopWatching()
	if f.Watching() {
		t.Error("untitled file should not be watched yet")
	}

	f.Append(task.New("a"))
	if err := f.Save(filepath.Join(t.TempDir(), "todo.txt")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !f.Watching() {
		t.Error("watch should start once the file has a path")
	}
}
