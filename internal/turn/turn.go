package turn

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TransitionError reports a transition request the state machine refused.
// It indicates a bug in the orchestration logic, not a user-input condition.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal turn transition %s -> %s", e.From, e.To)
}

// Event records when a turn entered a state.
type Event struct {
	State State     `json:"state"`
	At    time.Time `json:"at"`
}

// Record is an immutable snapshot of a turn, used for persistence and
// status responses.
type Record struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	State     State     `json:"state"`
	Input     string    `json:"input,omitempty"`
	Reply     string    `json:"reply,omitempty"`
	Tool      string    `json:"tool,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Events    []Event   `json:"events,omitempty"`
}

// Turn is one conversational exchange. Exactly one driver advances it
// through the forward sequence; a concurrent barge-in path may interrupt it
// at any point. All state access goes through the mutex so the interrupt
// always wins a race against a forward transition.
type Turn struct {
	ID        string
	SessionID string
	CreatedAt time.Time

	mu        sync.Mutex
	state     State
	input     string
	reply     string
	tool      string
	updatedAt time.Time
	events    []Event
}

func New(sessionID string) *Turn {
	now := time.Now().UTC()
	return &Turn{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		CreatedAt: now,
		state:     StateIdle,
		updatedAt: now,
		events:    []Event{{State: StateIdle, At: now}},
	}
}

// Transit requests a state change. It fails with a TransitionError when the
// transition is not allowed, including any transition out of a terminal
// state: once a turn is KLAR or AVBRUTEN it stays that way.
func (t *Turn) Transit(next State) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !transitionAllowed(t.state, next) {
		return &TransitionError{From: t.state, To: next}
	}
	t.setStateLocked(next)
	return nil
}

// Interrupt is the barge-in entry point. It reports whether the turn was
// actually interrupted; interrupting an already-terminal turn is a no-op.
func (t *Turn) Interrupt() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Terminal() {
		return false
	}
	t.setStateLocked(StateAvbruten)
	return true
}

func (t *Turn) setStateLocked(next State) {
	now := time.Now().UTC()
	t.state = next
	t.updatedAt = now
	t.events = append(t.events, Event{State: next, At: now})
}

func (t *Turn) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Active reports whether the turn has not yet reached a terminal state.
func (t *Turn) Active() bool {
	return !t.State().Terminal()
}

func (t *Turn) SetInput(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = text
}

func (t *Turn) SetReply(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reply = text
}

func (t *Turn) SetTool(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tool = name
}

// Snapshot returns a defensive copy of the turn's current contents.
func (t *Turn) Snapshot() Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	events := make([]Event, len(t.events))
	copy(events, t.events)
	return Record{
		ID:        t.ID,
		SessionID: t.SessionID,
		State:     t.state,
		Input:     t.input,
		Reply:     t.reply,
		Tool:      t.tool,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.updatedAt,
		Events:    events,
	}
}
