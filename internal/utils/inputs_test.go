package utils

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestPromptYesNoYes(t *testing.T) {
	for _, input := range []string{"y\n", "Y\n", "yes\n", "YES\n", "  y  \n"} {
		t.Run(strings.TrimSpace(input), func(t *testing.T) {
			if !PromptYesNoWithReader("Archive?", strings.NewReader(input), io.Discard) {
				t.Errorf("PromptYesNo with input %q = false, want true", input)
			}
		})
	}
}

func TestPromptYesNoNo(t *testing.T) {
	for _, input := range []string{"n\n", "N\n", "no\n", "No\n"} {
		t.Run(strings.TrimSpace(input), func(t *testing.T) {
			if PromptYesNoWithReader("Archive?", strings.NewReader(input), io.Discard) {
				t.Errorf("PromptYesNo with input %q = true, want false", input)
			}
		})
	}
}

func TestPromptYesNoRetryOnInvalid(t *testing.T) {
	var output bytes.Buffer
	if !PromptYesNoWithReader("Archive?", strings.NewReader("maybe\n\ny\n"), &output) {
		t.Error("PromptYesNo should return true after valid 'y' input")
	}
	if n := strings.Count(output.String(), "Archive? (y/n): "); n != 3 {
		t.Errorf("prompted %d times, want 3", n)
	}
}

func TestPromptYesNoEOF(t *testing.T) {
	if PromptYesNoWithReader("Archive?", strings.NewReader(""), io.Discard) {
		t.Error("EOF should count as no")
	}
}
