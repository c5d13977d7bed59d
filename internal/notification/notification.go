// Package notification carries controller state changes to the views.
package notification

import (
	"time"
)

// Type identifies the kind of change an Event reports.
type Type string

const (
	FilteredTasksChanged   Type = "filtered_tasks_changed"
	TitleChanged           Type = "title_changed"
	ModifiedChanged        Type = "modified_changed"
	Error                  Type = "error"
	FileExternallyModified Type = "file_externally_modified"
	CompletionChanged      Type = "completion_changed"
	SearchTextChanged      Type = "search_text_changed"
	ShowCompletedChanged   Type = "show_completed_changed"
	ShowFutureChanged      Type = "show_future_changed"
	RecentFilesChanged     Type = "recent_files_changed"
	FiltersChanged         Type = "filters_changed"
)

// Event is a single notification. Value holds the new state: []*task.Task
// for FilteredTasksChanged, string for TitleChanged, bool for the toggles,
// error for Error, []string for CompletionChanged and RecentFilesChanged.
type Event struct {
	Type      Type
	Value     any
	Timestamp time.Time
}

// Handler receives events. Handlers run synchronously on the publishing
// goroutine.
type Handler func(Event)

// Publisher is the sending side of a Bus.
type Publisher interface {
	Publish(t Type, value any)
}
