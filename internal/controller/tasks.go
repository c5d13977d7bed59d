package controller

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"todotxt/internal/notification"
	"todotxt/internal/task"
	"todotxt/internal/utils"
)

// NewTask appends a task to the file and inserts it into the shown list right
// after position after, even if the current filters would hide it. A
// negative or out of range after puts it at the end. It returns the position
// of the new task in FilteredTasks.
func (c *Controller) NewTask(text string, after int) int {
	t := task.New(text)
	t.OnModified(c.taskModified)

	if after < 0 || after >= len(c.filtered) {
		after = len(c.filtered) - 1
	}
	c.file.Append(t)
	c.filtered = slices.Insert(c.filtered, after+1, t)
	c.logger.Debug("added task %q at %d", t.Text(), after+1)

	c.setModified(true)
	c.AutoSave()
	c.rebuildTree()
	c.bus.Publish(notification.FilteredTasksChanged, c.FilteredTasks())
	return after + 1
}

// DeleteByIndex removes the task at position i of FilteredTasks.
func (c *Controller) DeleteByIndex(i int) error {
	if i < 0 || i >= len(c.filtered) {
		return utils.ErrTaskIndexOutOfRange(i, len(c.filtered))
	}
	return c.DeleteByReference(c.filtered[i])
}

// DeleteByReference removes t from the file.
func (c *Controller) DeleteByReference(t *task.Task) error {
	if !c.file.Remove(t) {
		return utils.ErrTaskNotFound(t.Text())
	}
	t.OnModified(nil)
	c.logger.Debug("deleted task %q", t.Text())

	c.setModified(true)
	c.applyFilters()
	c.AutoSave()
	return nil
}

// TaskAt returns the task at position i of FilteredTasks.
func (c *Controller) TaskAt(i int) (*task.Task, error) {
	if i < 0 || i >= len(c.filtered) {
		return nil, utils.ErrTaskIndexOutOfRange(i, len(c.filtered))
	}
	return c.filtered[i], nil
}

// EditTask replaces the text of t. An empty text deletes the task.
func (c *Controller) EditTask(t *task.Task, text string) error {
	if c.file.IndexOf(t) < 0 {
		return utils.ErrTaskNotFound(t.Text())
	}
	if strings.TrimSpace(text) == "" {
		return c.DeleteByReference(t)
	}
	t.SetText(text)
	return nil
}

// ToggleComplete completes or reopens t.
func (c *Controller) ToggleComplete(t *task.Task) error {
	if c.file.IndexOf(t) < 0 {
		return utils.ErrTaskNotFound(t.Text())
	}
	t.ToggleComplete()
	return nil
}

// SetTaskPriority sets the priority of t. A zero rune clears it.
func (c *Controller) SetTaskPriority(t *task.Task, p rune) error {
	if c.file.IndexOf(t) < 0 {
		return utils.ErrTaskNotFound(t.Text())
	}
	if p != 0 && (p < 'A' || p > 'Z') {
		return utils.ErrInvalidPriority(string(p))
	}
	t.SetPriority(p)
	return nil
}

// SetTaskDueDate sets or, with nil, removes the due date of t.
func (c *Controller) SetTaskDueDate(t *task.Task, due *time.Time) error {
	if c.file.IndexOf(t) < 0 {
		return utils.ErrTaskNotFound(t.Text())
	}
	t.SetDueDate(due)
	return nil
}

// ArchiveCompletedTasks moves every completed task to the done file. It
// returns the number of tasks moved. On a write error the tasks archived so
// far stay archived and the rest stay in the list.
func (c *Controller) ArchiveCompletedTasks() (int, error) {
	if c.file.Filename() == "" {
		err := utils.ErrNoFileOpen()
		c.showError(err)
		return 0, err
	}

	var done []*task.Task
	for _, t := range c.file.Tasks() {
		if t.IsComplete() {
			done = append(done, t)
		}
	}

	var archiveErr error
	moved := 0
	for _, t := range done {
		if err := c.file.SaveDoneTask(t); err != nil {
			archiveErr = utils.ErrSaveFile(c.file.DoneFilename(), err)
			c.showError(archiveErr)
			break
		}
		c.file.Remove(t)
		t.OnModified(nil)
		moved++
	}

	if moved > 0 {
		c.logger.Info("archived %d tasks to %s", moved, c.file.DoneFilename())
		c.setModified(true)
		c.applyFilters()
		c.AutoSave()
	}
	if archiveErr != nil {
		return moved, fmt.Errorf("archived %d of %d tasks: %w", moved, len(done), archiveErr)
	}
	return moved, nil
}

// taskModified is the hook installed on every task of the open file.
func (c *Controller) taskModified(t *task.Task) {
	c.logger.Debug("task modified: %q", t.Text())
	c.setModified(true)
	c.applyFilters()
	c.AutoSave()
}
