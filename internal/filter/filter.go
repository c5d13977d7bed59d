// Package filter provides task predicates and the evaluator that combines
// them: within a Group any predicate may match, and a task must satisfy every
// Group to be kept.
package filter

import (
	"strings"

	"todotxt/internal/task"
)

// Filter is a stateless predicate over a task.
type Filter interface {
	Match(t *task.Task) bool
	Name() string
}

// Group is a set of filters combined with OR.
type Group []Filter

// Match reports whether the task matches any filter in the group. An empty
// group matches every task.
func (g Group) Match(t *task.Task) bool {
	if len(g) == 0 {
		return true
	}
	for _, f := range g {
		if f.Match(t) {
			return true
		}
	}
	return false
}

// Contains reports whether an equal filter is part of the group.
func (g Group) Contains(f Filter) bool {
	for _, x := range g {
		if x == f {
			return true
		}
	}
	return false
}

// Apply returns the tasks that satisfy every group, in input order. No groups
// means no filtering.
func Apply(groups []Group, tasks []*task.Task) []*task.Task {
	if len(groups) == 0 {
		return tasks
	}

	result := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesAllGroups(t, groups) {
			result = append(result, t)
		}
	}
	return result
}

// matchesAllGroups checks if a task matches all groups (AND logic)
func matchesAllGroups(t *task.Task, groups []Group) bool {
	for _, g := range groups {
		if !g.Match(t) {
			return false
		}
	}
	return true
}

// AnyContains reports whether any of the groups holds f.
func AnyContains(groups []Group, f Filter) bool {
	for _, g := range groups {
		if g.Contains(f) {
			return true
		}
	}
	return false
}

// AllFilter matches every task.
type AllFilter struct{}

func (AllFilter) Match(*task.Task) bool { return true }
func (AllFilter) Name() string          { return "All" }

// TextFilter matches tasks whose line contains Text, ignoring case.
type TextFilter struct {
	Text string
}

func (f TextFilter) Match(t *task.Task) bool {
	return strings.Contains(strings.ToLower(t.Text()), strings.ToLower(f.Text))
}

func (f TextFilter) Name() string { return "Text: " + f.Text }

// FutureFilter matches tasks that are not actionable yet: a due date or a
// t: threshold strictly after today.
type FutureFilter struct{}

func (FutureFilter) Match(t *task.Task) bool {
	today := task.Today()
	if d := t.DueDate(); d != nil && d.After(today) {
		return true
	}
	if th := t.Threshold(); th != nil && th.After(today) {
		return true
	}
	return false
}

func (FutureFilter) Name() string { return "Future" }

// CompleteFilter matches completed tasks.
type CompleteFilter struct{}

func (CompleteFilter) Match(t *task.Task) bool { return t.IsComplete() }
func (CompleteFilter) Name() string            { return "Complete" }

// IncompleteFilter matches tasks that are still open.
type IncompleteFilter struct{}

func (IncompleteFilter) Match(t *task.Task) bool { return !t.IsComplete() }
func (IncompleteFilter) Name() string            { return "Incomplete" }

// ContextFilter matches tasks tagged @Context.
type ContextFilter struct {
	Context string
}

func (f ContextFilter) Match(t *task.Task) bool { return t.HasContext(f.Context) }
func (f ContextFilter) Name() string            { return "@" + f.Context }

// ProjectFilter matches tasks tagged +Project.
type ProjectFilter struct {
	Project string
}

func (f ProjectFilter) Match(t *task.Task) bool { return t.HasProject(f.Project) }
func (f ProjectFilter) Name() string            { return "+" + f.Project }

// PriorityFilter matches tasks with the given priority letter.
type PriorityFilter struct {
	Priority rune
}

func (f PriorityFilter) Match(t *task.Task) bool { return t.Priority() == f.Priority }
func (f PriorityFilter) Name() string            { return "(" + string(f.Priority) + ")" }

// UncategorizedFilter matches tasks with neither contexts nor projects.
type UncategorizedFilter struct{}

func (UncategorizedFilter) Match(t *task.Task) bool {
	return len(t.Contexts()) == 0 && len(t.Projects()) == 0
}

func (UncategorizedFilter) Name() string { return "Uncategorized" }

// HasDueDateFilter matches tasks with a valid due date.
type HasDueDateFilter struct{}

func (HasDueDateFilter) Match(t *task.Task) bool { return t.DueDate() != nil }
func (HasDueDateFilter) Name() string            { return "Due" }

// DueTodayFilter matches tasks due today.
type DueTodayFilter struct{}

func (DueTodayFilter) Match(t *task.Task) bool {
	d := t.DueDate()
	return d != nil && d.Equal(task.Today())
}

func (DueTodayFilter) Name() string { return "Today" }

// OverdueFilter matches tasks due before today.
type OverdueFilter struct{}

func (OverdueFilter) Match(t *task.Task) bool {
	d := t.DueDate()
	return d != nil && d.Before(task.Today())
}

func (OverdueFilter) Name() string { return "Overdue" }

// NotFilter inverts another filter.
type NotFilter struct {
	Filter Filter
}

// Not wraps f so it matches exactly the tasks f rejects.
func Not(f Filter) NotFilter {
	return NotFilter{Filter: f}
}

func (f NotFilter) Match(t *task.Task) bool { return !f.Filter.Match(t) }
func (f NotFilter) Name() string            { return "Not " + f.Filter.Name() }
