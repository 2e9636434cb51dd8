package registry

import (
	"log/slog"
	"sort"
	"sync"
)

// Preprocessor is a named, request-time text transformation published by a
// plugin. The dispatcher hands it the remainder of the request path and sends
// its output back as the response body.
type Preprocessor func(input string) (string, error)

// CleanupFunc is a zero-argument shutdown action. It may block (closing a
// database, flushing a socket) and it may fail; a failure never stops the
// actions registered before it from running.
type CleanupFunc func() error

// cleanupEntry pairs an action with the exit condition that triggers it.
type cleanupEntry struct {
	cond ExitCondition
	fn   CleanupFunc
}

// Handle is the sharable reference to the registry state. One Handle exists
// per process lifetime; plugin init code and request-handling goroutines all
// mutate the inner state through it concurrently. Exactly one owner (the
// lifecycle wrapper) performs the shutdown drain.
type Handle struct {
	mu            sync.RWMutex
	preprocessors map[string]Preprocessor
	// cleanups is a LIFO stack: the most recently registered action runs
	// first, mirroring acquire/release nesting.
	cleanups []cleanupEntry
	drained  bool
}

// New returns a Handle wrapping an empty registry state.
func New() *Handle {
	return &Handle{
		preprocessors: make(map[string]Preprocessor),
	}
}

// AddPreprocessor publishes fn under the given name, overwriting any previous
// entry for that name. The update is visible to all subsequent lookups.
func (h *Handle) AddPreprocessor(name string, fn Preprocessor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.preprocessors[name]; exists {
		slog.Debug("Overwriting preprocessor registration.", "name", name)
	}
	h.preprocessors[name] = fn
}

// AddCleanup pushes an action onto the shutdown stack. Actions are drained in
// reverse registration order, filtered by exit condition, exactly once per
// Handle lifetime.
func (h *Handle) AddCleanup(cond ExitCondition, fn CleanupFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleanups = append(h.cleanups, cleanupEntry{cond: cond, fn: fn})
}

// LookupPreprocessor returns the preprocessor registered under name, if any.
func (h *Handle) LookupPreprocessor(name string) (Preprocessor, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn, ok := h.preprocessors[name]
	return fn, ok
}

// PreprocessorNames returns the currently registered route names, sorted.
func (h *Handle) PreprocessorNames() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.preprocessors))
	for name := range h.preprocessors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
