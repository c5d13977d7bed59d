package utils

import (
	"errors"
	"fmt"
	"os"
)

// ErrorWithSuggestion wraps an error with a user-friendly suggestion.
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface.
func (e *ErrorWithSuggestion) Error() string {
	return fmt.Sprintf("%s\n\nSuggestion: %s", e.Err.Error(), e.Suggestion)
}

// GetSuggestion returns the suggestion text.
func (e *ErrorWithSuggestion) GetSuggestion() string {
	return e.Suggestion
}

// Unwrap returns the underlying error for error chain support.
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// WrapWithSuggestion wraps an existing error with a suggestion.
func WrapWithSuggestion(err error, suggestion string) error {
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// ErrOpenFile returns an error for a todo file that could not be read.
func ErrOpenFile(path string, err error) error {
	suggestion := "Check that the file is readable"
	if errors.Is(err, os.ErrNotExist) {
		suggestion = fmt.Sprintf("Create %s or pass another file with --file", path)
	}
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("error opening file %s: %w", path, err),
		Suggestion: suggestion,
	}
}

// ErrSaveFile returns an error for a todo file that could not be written.
func ErrSaveFile(path string, err error) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("error saving file %s: %w", path, err),
		Suggestion: "Check the permissions of the file and its directory",
	}
}

// ErrNoFileOpen returns an error when an operation needs a file path.
func ErrNoFileOpen() error {
	return &ErrorWithSuggestion{
		Err:        errors.New("no file is open"),
		Suggestion: "Open a file with --file or save the list under a name first",
	}
}

// ErrTaskIndexOutOfRange returns an error for a position outside the list.
func ErrTaskIndexOutOfRange(index, length int) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("task index %d out of range (%d tasks shown)", index, length),
		Suggestion: "Use 'todotxt list' to see task numbers",
	}
}

// ErrTaskNotFound returns an error for a task that is not in the open file.
func ErrTaskNotFound(text string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("task not found: %s", text),
		Suggestion: "The file may have been reloaded; refresh the list and try again",
	}
}

// ErrInvalidPriority returns an error for an invalid priority value.
func ErrInvalidPriority(priority string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid priority: %s", priority),
		Suggestion: "Priority must be a single letter from A to Z",
	}
}

// ErrInvalidDate returns an error for an invalid date string.
func ErrInvalidDate(dateStr string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid date: %s", dateStr),
		Suggestion: "Use date format YYYY-MM-DD (e.g., 2026-01-15) or today, tomorrow, +3d, +2w",
	}
}
