// Package testutil provides shared test utilities for CLI testing across packages.
// This enables co-located CLI tests while maintaining consistent test infrastructure.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todotxt/cmd/todotxt/cmd"
	"todotxt/internal/settings"
)

// CLITest provides a test helper for running CLI commands in isolation.
type CLITest struct {
	t      *testing.T
	cfg    *cmd.Config
	tmpDir string
}

// NewCLITest creates a CLI test helper with its own config file, settings
// database and XDG directories.
func NewCLITest(t *testing.T) *CLITest {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "cache"))

	cfg := &cmd.Config{
		NoPrompt:     true,
		ConfigPath:   filepath.Join(tmpDir, "config.yaml"),
		SettingsPath: filepath.Join(tmpDir, "settings.db"),
	}

	return &CLITest{
		t:      t,
		cfg:    cfg,
		tmpDir: tmpDir,
	}
}

// Config returns the test configuration.
func (c *CLITest) Config() *cmd.Config {
	return c.cfg
}

// TmpDir returns the temporary directory for the test.
func (c *CLITest) TmpDir() string {
	return c.tmpDir
}

// ConfigPath returns the path to the config file.
func (c *CLITest) ConfigPath() string {
	return c.cfg.ConfigPath
}

// SetFullConfig replaces the entire config file with the given YAML content.
func (c *CLITest) SetFullConfig(yamlContent string) {
	c.t.Helper()

	if err := os.WriteFile(c.cfg.ConfigPath, []byte(yamlContent), 0644); err != nil {
		c.t.Fatalf("failed to write config file: %v", err)
	}
}

// WriteTodo creates todo.txt in the test directory and returns its path.
func (c *CLITest) WriteTodo(lines ...string) string {
	c.t.Helper()

	path := filepath.Join(c.tmpDir, "todo.txt")
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		c.t.Fatalf("failed to write todo file: %v", err)
	}
	return path
}

// ReadFile returns the content of a file in the test directory.
func (c *CLITest) ReadFile(name string) string {
	c.t.Helper()

	data, err := os.ReadFile(filepath.Join(c.tmpDir, name))
	if err != nil {
		c.t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

// Settings opens the test settings database. Close it before the next
// Execute so the CLI sees the changes.
func (c *CLITest) Settings() *settings.Settings {
	c.t.Helper()

	store, err := settings.OpenSQLite(c.cfg.SettingsPath)
	if err != nil {
		c.t.Fatalf("failed to open settings: %v", err)
	}
	s, err := settings.New(store)
	if err != nil {
		_ = store.Close()
		c.t.Fatalf("failed to load settings: %v", err)
	}
	return s
}

// Execute runs a CLI command with the given arguments and returns stdout, stderr, and exit code.
func (c *CLITest) Execute(args ...string) (stdout, stderr string, exitCode int) {
	c.t.Helper()

	var stdoutBuf, stderrBuf bytes.Buffer
	exitCode = cmd.Execute(args, &stdoutBuf, &stderrBuf, c.cfg)
	return stdoutBuf.String(), stderrBuf.String(), exitCode
}

// MustExecute runs a CLI command and fails the test if exit code is non-zero.
func (c *CLITest) MustExecute(args ...string) string {
	c.t.Helper()

	stdout, stderr, exitCode := c.Execute(args...)
	if exitCode != 0 {
		c.t.Fatalf("expected exit code 0, got %d: stdout=%s stderr=%s", exitCode, stdout, stderr)
	}
	return stdout
}

// ExecuteAndFail runs a CLI command and fails the test if exit code is zero.
func (c *CLITest) ExecuteAndFail(args ...string) (stdout, stderr string) {
	c.t.Helper()

	stdout, stderr, exitCode := c.Execute(args...)
	if exitCode == 0 {
		c.t.Fatalf("expected non-zero exit code, got 0: stdout=%s", stdout)
	}
	return stdout, stderr
}

// AssertContains fails the test if output doesn't contain expected string.
func AssertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

// AssertNotContains fails the test if output contains unexpected string.
func AssertNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	if strings.Contains(output, unexpected) {
		t.Errorf("expected output NOT to contain %q, got:\n%s", unexpected, output)
	}
}

// AssertExitCode fails the test if exit code doesn't match expected.
func AssertExitCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}

// AssertResultCode verifies that the output ends with the expected result code.
func AssertResultCode(t *testing.T, output, expectedCode string) {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	lastLine := strings.TrimSpace(lines[len(lines)-1])
	if lastLine != expectedCode {
		t.Errorf("expected result code %q, got %q\nFull output:\n%s", expectedCode, lastLine, output)
	}
}

// Result code constants for convenience.
const (
	ResultActionCompleted = cmd.ResultActionCompleted
	ResultInfoOnly        = cmd.ResultInfoOnly
	ResultError           = cmd.ResultError
)
