package utils

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestErrorWithSuggestionFormat(t *testing.T) {
	err := WrapWithSuggestion(errors.New("boom"), "try again")

	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() should contain base message, got: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "Suggestion: try again") {
		t.Errorf("Error() should contain suggestion, got: %s", err.Error())
	}

	var ews *ErrorWithSuggestion
	if !errors.As(err, &ews) {
		t.Fatal("errors.As should find ErrorWithSuggestion")
	}
	if ews.GetSuggestion() != "try again" {
		t.Errorf("GetSuggestion() = %q", ews.GetSuggestion())
	}
}

func TestErrOpenFileUnwrapsCause(t *testing.T) {
	err := ErrOpenFile("/tmp/todo.txt", os.ErrNotExist)

	if !errors.Is(err, os.ErrNotExist) {
		t.Error("ErrOpenFile should wrap the underlying error")
	}
	var ews *ErrorWithSuggestion
	if !errors.As(err, &ews) {
		t.Fatal("expected ErrorWithSuggestion")
	}
	if !strings.Contains(ews.GetSuggestion(), "/tmp/todo.txt") {
		t.Errorf("missing-file suggestion should name the path, got %q", ews.GetSuggestion())
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"ErrSaveFile", ErrSaveFile("a.txt", os.ErrPermission), "error saving file a.txt"},
		{"ErrNoFileOpen", ErrNoFileOpen(), "no file is open"},
		{"ErrTaskIndexOutOfRange", ErrTaskIndexOutOfRange(7, 3), "task index 7 out of range (3 tasks shown)"},
		{"ErrTaskNotFound", ErrTaskNotFound("buy milk"), "task not found: buy milk"},
		{"ErrInvalidPriority", ErrInvalidPriority("7"), "invalid priority: 7"},
		{"ErrInvalidDate", ErrInvalidDate("soon"), "invalid date: soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.err.Error(), tt.message) {
				t.Errorf("Error() = %q, want it to contain %q", tt.err.Error(), tt.message)
			}
			var ews *ErrorWithSuggestion
			if !errors.As(tt.err, &ews) || ews.GetSuggestion() == "" {
				t.Error("expected a non-empty suggestion")
			}
		})
	}
}
