// Package shutdown runs registered cleanups when the program exits, either
// normally or on SIGINT/SIGTERM.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"todotxt/internal/utils"
)

// CleanupFunc is a function that performs cleanup on shutdown.
// It receives a context that will be cancelled when the shutdown times out.
type CleanupFunc func(ctx context.Context) error

// cleanupEntry holds a registered cleanup function with its name.
type cleanupEntry struct {
	name string
	fn   CleanupFunc
}

// Manager handles graceful shutdown coordination.
type Manager struct {
	mu         sync.Mutex
	cleanups   []cleanupEntry
	shutdown   bool
	shutdownCh chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	once       sync.Once
	cleanOnce  sync.Once
	cleanErr   error
	stopSignal func()
}

// NewManager creates a new shutdown manager.
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		shutdownCh: make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// RegisterCleanup registers a cleanup function to be called during shutdown.
// Cleanup functions are called in LIFO order (last registered, first called).
func (m *Manager) RegisterCleanup(name string, fn CleanupFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanups = append(m.cleanups, cleanupEntry{name: name, fn: fn})
}

// HandleSignals calls Shutdown when the process receives SIGINT or SIGTERM,
// or one of sigs when given.
func (m *Manager) HandleSignals(sigs ...os.Signal) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	stop := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			utils.Debugf("received %s, shutting down", sig)
			m.Shutdown()
		case <-stop:
		}
	}()

	m.mu.Lock()
	m.stopSignal = func() {
		signal.Stop(ch)
		close(stop)
	}
	m.mu.Unlock()
}

// Shutdown initiates a graceful shutdown.
// Safe to call multiple times; only the first call has effect.
func (m *Manager) Shutdown() {
	m.once.Do(func() {
		m.mu.Lock()
		m.shutdown = true
		m.mu.Unlock()

		m.cancel()
		close(m.shutdownCh)
	})
}

// Done returns a channel closed when shutdown is initiated.
func (m *Manager) Done() <-chan struct{} {
	return m.shutdownCh
}

// runCleanups executes all cleanup functions in LIFO order. A failing
// cleanup does not stop the ones after it.
func (m *Manager) runCleanups(ctx context.Context) error {
	m.mu.Lock()
	cleanups := make([]cleanupEntry, len(m.cleanups))
	copy(cleanups, m.cleanups)
	stopSignal := m.stopSignal
	m.stopSignal = nil
	m.mu.Unlock()

	if stopSignal != nil {
		stopSignal()
	}

	var errs []error
	for i := len(cleanups) - 1; i >= 0; i-- {
		utils.Debugf("cleanup: %s", cleanups[i].name)
		if err := cleanups[i].fn(ctx); err != nil {
			utils.Warnf("cleanup %s failed: %v", cleanups[i].name, err)
			errs = append(errs, fmt.Errorf("%s: %w", cleanups[i].name, err))
		}
	}
	return errors.Join(errs...)
}

// Wait runs the cleanups once and waits for them to finish.
// Returns an error if cleanup times out or fails.
func (m *Manager) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.cleanOnce.Do(func() {
			m.cleanErr = m.runCleanups(ctx)
		})
		close(done)
	}()

	select {
	case <-done:
		return m.cleanErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsShutdown returns true if shutdown has been initiated.
func (m *Manager) IsShutdown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdown
}

// Context returns a context that is cancelled when shutdown is initiated.
// Use this to make operations interruptible.
func (m *Manager) Context() context.Context {
	return m.ctx
}
