package todofile_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todotxt/internal/testutil"
)

// =============================================================================
// Archive CLI Tests
// =============================================================================

func TestArchiveCLI(t *testing.T) {
	cli := testutil.NewCLITest(t)
	path := cli.WriteTodo("x 2026-01-01 Done one", "Open task", "x 2026-01-02 Done two")

	stdout := cli.MustExecute("archive", "--file", path)

	testutil.AssertContains(t, stdout, "Archived 2 tasks")
	testutil.AssertResultCode(t, stdout, testutil.ResultActionCompleted)
	if got := cli.ReadFile("todo.txt"); got != "Open task\n" {
		t.Errorf("todo.txt = %q", got)
	}
	if got := cli.ReadFile("done.txt"); got != "x 2026-01-01 Done one\nx 2026-01-02 Done two\n" {
		t.Errorf("done.txt = %q", got)
	}
}

func TestArchiveCLIAppendsToDoneFile(t *testing.T) {
	cli := testutil.NewCLITest(t)
	path := cli.WriteTodo("x 2026-01-03 Newer")
	if err := os.WriteFile(filepath.Join(cli.TmpDir(), "done.txt"), []byte("x 2025-12-31 Older\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cli.MustExecute("archive", "--file", path)

	if got := cli.ReadFile("done.txt"); got != "x 2025-12-31 Older\nx 2026-01-03 Newer\n" {
		t.Errorf("done.txt = %q", got)
	}
	if got := cli.ReadFile("todo.txt"); got != "" {
		t.Errorf("todo.txt = %q, want empty", got)
	}
}

func TestArchiveCLINothingToDo(t *testing.T) {
	cli := testutil.NewCLITest(t)
	path := cli.WriteTodo("Open task")

	stdout := cli.MustExecute("archive", "--json", "--file", path)

	var resp struct {
		Action string `json:"action"`
		Count  int    `json:"count"`
	}
	if err := json.Unmarshal([]byte(stdout), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if resp.Action != "archive" || resp.Count != 0 {
		t.Errorf("response = %+v", resp)
	}
	if _, err := os.Stat(filepath.Join(cli.TmpDir(), "done.txt")); !os.IsNotExist(err) {
		t.Error("done.txt should not be created")
	}
}

func TestArchiveCLIDeclined(t *testing.T) {
	cli := testutil.NewCLITest(t)
	path := cli.WriteTodo("x 2026-01-01 Done one")
	cli.Config().NoPrompt = false
	cli.Config().Stdin = strings.NewReader("n\n")

	stdout := cli.MustExecute("archive", "--file", path)

	testutil.AssertContains(t, stdout, "Cancelled")
	if got := cli.ReadFile("todo.txt"); got != "x 2026-01-01 Done one\n" {
		t.Errorf("todo.txt = %q", got)
	}
}

func TestArchiveCLIHidesArchivedTasks(t *testing.T) {
	cli := testutil.NewCLITest(t)
	path := cli.WriteTodo("x 2026-01-01 Done one", "Open task")

	cli.MustExecute("archive", "--file", path)
	stdout := cli.MustExecute("list", "--all", "--file", path)

	testutil.AssertContains(t, stdout, "Open task")
	testutil.AssertNotContains(t, stdout, "Done one")
}

func TestArchiveCLIWithoutFile(t *testing.T) {
	cli := testutil.NewCLITest(t)

	stdout, stderr, exitCode := cli.Execute("archive")

	testutil.AssertExitCode(t, exitCode, 1)
	testutil.AssertContains(t, stderr, "no file is open")
	testutil.AssertResultCode(t, stdout, testutil.ResultError)
}
