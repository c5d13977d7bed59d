package settings

import (
	"encoding/json"
	"maps"
	"strconv"
	"sync"

	"todotxt/internal/utils"
)

// Setting keys.
const (
	KeyShowCompleted  = "show_completed"
	KeyShowFuture     = "show_future"
	KeyLowestPriority = "lowest_priority"
	KeyRecentFiles    = "recent_files"
	KeyMaxRecentFiles = "max_recent_files"
	KeyLastOpenFile   = "last_open_file"
	KeyAutoSave       = "auto_save"
)

// Defaults.
const (
	DefaultShowCompleted       = false
	DefaultShowFuture          = true
	DefaultLowestPriority rune = 'D'
	DefaultMaxRecentFiles      = 6
	DefaultAutoSave            = true
)

// Settings is a typed view over a Store. Values are read once when the
// Settings is created and written through on every change.
type Settings struct {
	store  Store
	mu     sync.RWMutex
	values map[string]string
}

// New loads all values from store.
func New(store Store) (*Settings, error) {
	values, err := store.All()
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = make(map[string]string)
	}
	return &Settings{store: store, values: values}, nil
}

// NewMemory returns Settings backed by a fresh MemoryStore.
func NewMemory() *Settings {
	s, _ := New(NewMemoryStore())
	return s
}

// Snapshot returns a copy of s over a MemoryStore. Changes made through the
// copy are not written back to s or its store.
func (s *Settings) Snapshot() *Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	store := NewMemoryStore()
	for k, v := range s.values {
		store.values[k] = v
	}
	return &Settings{store: store, values: maps.Clone(s.values)}
}

// Close closes the underlying store.
func (s *Settings) Close() error {
	return s.store.Close()
}

// GetString returns the value for key, or def when unset.
func (s *Settings) GetString(key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// GetBool returns the boolean value for key, or def when unset or unparsable.
func (s *Settings) GetBool(key string, def bool) bool {
	v := s.GetString(key, "")
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// GetInt returns the integer value for key, or def when unset or unparsable.
func (s *Settings) GetInt(key string, def int) int {
	v := s.GetString(key, "")
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Set stores value under key. The cached value is only updated when the
// store accepted the write.
func (s *Settings) Set(key, value string) error {
	if err := s.store.Set(key, value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// SetBool stores a boolean value.
func (s *Settings) SetBool(key string, value bool) error {
	return s.Set(key, strconv.FormatBool(value))
}

// SetInt stores an integer value.
func (s *Settings) SetInt(key string, value int) error {
	return s.Set(key, strconv.Itoa(value))
}

func (s *Settings) ShowCompleted() bool { return s.GetBool(KeyShowCompleted, DefaultShowCompleted) }
func (s *Settings) ShowFuture() bool    { return s.GetBool(KeyShowFuture, DefaultShowFuture) }
func (s *Settings) AutoSave() bool      { return s.GetBool(KeyAutoSave, DefaultAutoSave) }
func (s *Settings) LastOpenFile() string {
	return s.GetString(KeyLastOpenFile, "")
}

func (s *Settings) SetShowCompleted(v bool) error  { return s.SetBool(KeyShowCompleted, v) }
func (s *Settings) SetShowFuture(v bool) error     { return s.SetBool(KeyShowFuture, v) }
func (s *Settings) SetAutoSave(v bool) error       { return s.SetBool(KeyAutoSave, v) }
func (s *Settings) SetLastOpenFile(p string) error { return s.Set(KeyLastOpenFile, p) }

// LowestPriority returns the lowest priority letter offered for completion.
// Invalid stored values fall back to the default.
func (s *Settings) LowestPriority() rune {
	v := s.GetString(KeyLowestPriority, "")
	p, err := utils.ParsePriority(v)
	if err != nil || p == 0 {
		return DefaultLowestPriority
	}
	return p
}

// SetLowestPriority stores the lowest priority letter.
func (s *Settings) SetLowestPriority(p rune) error {
	if err := utils.ValidateLowestPriority(string(p)); err != nil {
		return err
	}
	return s.Set(KeyLowestPriority, string(p))
}

// MaxRecentFiles returns the recent files cap. Values below one fall back
// to the default.
func (s *Settings) MaxRecentFiles() int {
	n := s.GetInt(KeyMaxRecentFiles, DefaultMaxRecentFiles)
	if n < 1 {
		return DefaultMaxRecentFiles
	}
	return n
}

// SetMaxRecentFiles stores the recent files cap.
func (s *Settings) SetMaxRecentFiles(n int) error {
	return s.SetInt(KeyMaxRecentFiles, n)
}

// RecentFiles returns the recently opened files, most recent first.
func (s *Settings) RecentFiles() []string {
	v := s.GetString(KeyRecentFiles, "")
	if v == "" {
		return nil
	}
	var files []string
	if err := json.Unmarshal([]byte(v), &files); err != nil {
		utils.Warnf("ignoring malformed %s setting: %v", KeyRecentFiles, err)
		return nil
	}
	return files
}

// SetRecentFiles stores the recent files list.
func (s *Settings) SetRecentFiles(files []string) error {
	if files == nil {
		files = []string{}
	}
	data, err := json.Marshal(files)
	if err != nil {
		return err
	}
	return s.Set(KeyRecentFiles, string(data))
}
