// Package todofile holds the ordered task list of one todo.txt file and
// persists it to disk.
package todofile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"todotxt/internal/task"
	"todotxt/internal/utils"
	"todotxt/internal/watcher"
)

// DoneFileName is the archive file written next to the todo file.
const DoneFileName = "done.txt"

// maxLineSize bounds a single task line when reading.
const maxLineSize = 1024 * 1024

// File is an ordered, mutable task collection backed by a text file.
// Duplicate lines are kept as distinct tasks.
type File struct {
	filename string
	tasks    []*task.Task

	mu    sync.Mutex
	stamp fileStamp

	watcher  *watcher.Watcher
	debounce time.Duration
	onChange func(path string)
}

// fileStamp identifies the on-disk state produced by our own load or save.
type fileStamp struct {
	modTime time.Time
	size    int64
}

// New returns an empty, untitled file.
func New() *File {
	return &File{}
}

// Filename returns the path of the file, or "" for an untitled file.
func (f *File) Filename() string {
	return f.filename
}

// Tasks returns the tasks in file order. The slice is owned by the File.
func (f *File) Tasks() []*task.Task {
	return f.tasks
}

// Len returns the number of tasks.
func (f *File) Len() int {
	return len(f.tasks)
}

// Append adds a task at the end.
func (f *File) Append(t *task.Task) {
	f.tasks = append(f.tasks, t)
}

// Remove deletes the given task instance. It reports whether it was present.
func (f *File) Remove(t *task.Task) bool {
	i := f.IndexOf(t)
	if i < 0 {
		return false
	}
	f.tasks = slices.Delete(f.tasks, i, i+1)
	return true
}

// IndexOf returns the position of the task instance, or -1.
func (f *File) IndexOf(t *task.Task) int {
	return slices.Index(f.tasks, t)
}

// Load replaces all tasks with the lines of path. Blank lines are skipped.
func (f *File) Load(path string) error {
	utils.Debugf("loading %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	var tasks []*task.Task
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tasks = append(tasks, task.New(line))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	f.tasks = tasks
	f.setFilename(path)
	f.recordStamp()
	utils.Debugf("loaded %d tasks from %s", len(tasks), path)
	return nil
}

// Save writes every non-empty task to path, one per line. The write goes to a
// temporary file in the same directory which then replaces path.
func (f *File) Save(path string) error {
	if path == "" {
		return utils.ErrNoFileOpen()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var sb strings.Builder
	for _, t := range f.tasks {
		if t.Text() == "" {
			continue
		}
		sb.WriteString(t.Text())
		sb.WriteString("\n")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(sb.String()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	f.setFilename(path)
	f.recordStamp()
	utils.Debugf("saved %d tasks to %s", len(f.tasks), path)
	return nil
}

// DoneFilename returns the archive path next to the todo file.
func (f *File) DoneFilename() string {
	if f.filename == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(f.filename), DoneFileName)
}

// SaveDoneTask appends the task line to the archive file. It does not remove
// the task from the list.
func (f *File) SaveDoneTask(t *task.Task) error {
	path := f.DoneFilename()
	if path == "" {
		return utils.ErrNoFileOpen()
	}

	out, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if _, err := out.WriteString(t.Text() + "\n"); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return out.Close()
}

// AllContexts returns the distinct contexts in use, sorted. Completed tasks
// are only considered when includeCompleted is set.
func (f *File) AllContexts(includeCompleted bool) []string {
	return sortedKeys(f.ContextCounts(includeCompleted))
}

// AllProjects returns the distinct projects in use, sorted.
func (f *File) AllProjects(includeCompleted bool) []string {
	return sortedKeys(f.ProjectCounts(includeCompleted))
}

// ContextCounts maps each context to the number of tasks carrying it.
func (f *File) ContextCounts(includeCompleted bool) map[string]int {
	counts := make(map[string]int)
	for _, t := range f.tasks {
		if t.IsComplete() && !includeCompleted {
			continue
		}
		for _, c := range t.Contexts() {
			counts[c]++
		}
	}
	return counts
}

// ProjectCounts maps each project to the number of tasks carrying it.
func (f *File) ProjectCounts(includeCompleted bool) map[string]int {
	counts := make(map[string]int)
	for _, t := range f.tasks {
		if t.IsComplete() && !includeCompleted {
			continue
		}
		for _, p := range t.Projects() {
			counts[p]++
		}
	}
	return counts
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (f *File) setFilename(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	changed := path != f.filename
	f.filename = path
	if changed && f.onChange != nil {
		if err := f.startWatcher(); err != nil {
			utils.Warnf("cannot watch %s: %v", path, err)
		}
	}
}

func (f *File) recordStamp() {
	info, err := os.Stat(f.filename)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.stamp = fileStamp{}
		return
	}
	f.stamp = fileStamp{modTime: info.ModTime(), size: info.Size()}
}

// changedOnDisk reports whether the file differs from what we last loaded or
// saved.
func (f *File) changedOnDisk(path string) bool {
	info, err := os.Stat(path)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		return f.stamp != fileStamp{}
	}
	return !info.ModTime().Equal(f.stamp.modTime) || info.Size() != f.stamp.size
}
