package turn

import "sync"

// Registry tracks the current turn per session. The orchestrator looks
// turns up here when a barge-in arrives for a session it did not start.
type Registry struct {
	mu   sync.RWMutex
	data map[string]*Turn
}

func NewRegistry() *Registry {
	return &Registry{data: make(map[string]*Turn)}
}

// Begin creates and installs a new turn for the session. Any still-active
// previous turn is interrupted first: a new exchange supersedes the old one.
func (r *Registry) Begin(sessionID string) *Turn {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.data[sessionID]; ok {
		prev.Interrupt()
	}
	t := New(sessionID)
	r.data[sessionID] = t
	return t
}

// Active returns the session's current turn if it has not finished.
func (r *Registry) Active(sessionID string) (*Turn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.data[sessionID]
	if !ok || !t.Active() {
		return nil, false
	}
	return t, true
}

// Interrupt transits the session's active turn to AVBRUTEN. Reports false
// when the session has no active turn; that is a normal race with turn
// completion, not an error.
func (r *Registry) Interrupt(sessionID string) bool {
	r.mu.RLock()
	t, ok := r.data[sessionID]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	return t.Interrupt()
}

// Get returns the session's current turn regardless of state.
func (r *Registry) Get(sessionID string) (*Turn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.data[sessionID]
	return t, ok
}
