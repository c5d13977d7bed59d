package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// resetLogger swaps in a fresh singleton writing to a buffer.
func resetLogger(t *testing.T) *syncBuffer {
	t.Helper()
	once = sync.Once{}
	loggerInstance = nil
	buf := &syncBuffer{}
	GetLogger().SetOutput(buf)
	t.Cleanup(func() {
		once = sync.Once{}
		loggerInstance = nil
	})
	return buf
}

func TestGetLoggerSingleton(t *testing.T) {
	resetLogger(t)
	if GetLogger() != GetLogger() {
		t.Error("GetLogger should return the same instance")
	}
}

func TestDebugOnlyWhenVerbose(t *testing.T) {
	buf := resetLogger(t)

	Debugf("hidden %d", 1)
	if buf.String() != "" {
		t.Errorf("Debug output with verbose off: %q", buf.String())
	}

	SetVerboseMode(true)
	if !GetLogger().IsVerbose() {
		t.Fatal("IsVerbose() = false after SetVerboseMode(true)")
	}
	Debugf("shown %d", 2)
	if !strings.Contains(buf.String(), "[DEBUG] shown 2") {
		t.Errorf("Debug output missing: %q", buf.String())
	}
}

func TestLogLevelPrefixes(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(string, ...interface{})
		prefix  string
	}{
		{"Debugf", Debugf, "[DEBUG]"},
		{"Infof", Infof, "[INFO]"},
		{"Warnf", Warnf, "[WARN]"},
		{"Errorf", Errorf, "[ERROR]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := resetLogger(t)
			SetVerboseMode(true)

			tt.logFunc("formatted %s", "value")

			if !strings.Contains(buf.String(), tt.prefix+" formatted value") {
				t.Errorf("%s output = %q, want prefix %s", tt.name, buf.String(), tt.prefix)
			}
		})
	}
}

func TestMessageWithoutArgsIsNotFormatted(t *testing.T) {
	format := formatMessage
	if got := format("100% done"); got != "100% done" {
		t.Errorf("formatMessage() = %q, want %q", got, "100% done")
	}

	buf := resetLogger(t)
	logf := Infof
	logf("50% left")
	if !strings.Contains(buf.String(), "[INFO] 50% left") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSetOutputNilDiscards(t *testing.T) {
	resetLogger(t)
	GetLogger().SetOutput(nil)
	Errorf("dropped")
}

func TestOpenLogFile(t *testing.T) {
	resetLogger(t)
	path := filepath.Join(t.TempDir(), "logs", "todotxt.log")

	if err := GetLogger().OpenLogFile(path); err != nil {
		t.Fatalf("OpenLogFile() error = %v", err)
	}
	Warnf("to file")
	GetLogger().Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "[WARN] to file") {
		t.Errorf("log file = %q", string(data))
	}
}

func TestLoggerThreadSafety(t *testing.T) {
	buf := resetLogger(t)
	logger := GetLogger()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.SetVerbose(n%2 == 0)
			logger.Info("message %d", n)
			_ = logger.IsVerbose()
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "[INFO]"); got != 50 {
		t.Errorf("got %d info lines, want 50", got)
	}
}
