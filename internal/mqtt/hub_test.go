package mqtt

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"alice/internal/devices"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

type countingInterrupter struct {
	mu       sync.Mutex
	sessions []string
}

func (c *countingInterrupter) Interrupt(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = append(c.sessions, sessionID)
	return true
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	return NewHub(HubConfig{TopicPrefix: "alice"}, devices.NewRegistry(0), nil, discardLogger())
}

func TestHandleBargeInWithoutInterrupter(t *testing.T) {
	h := newTestHub(t)
	// Must not panic before the receiver is wired.
	h.handleBargeIn(nil, &fakeMessage{topic: "alice/session/s1/bargein"})
}

func TestHandleBargeInReachesInterrupter(t *testing.T) {
	h := newTestHub(t)
	ci := &countingInterrupter{}
	h.SetInterrupter(ci)

	h.handleBargeIn(nil, &fakeMessage{topic: "alice/session/s1/bargein"})
	h.handleBargeIn(nil, &fakeMessage{
		topic:   "alice/session/ignored/bargein",
		payload: []byte(`{"session_id":"s2","source":"vad"}`),
	})

	ci.mu.Lock()
	defer ci.mu.Unlock()
	if len(ci.sessions) != 2 || ci.sessions[0] != "s1" || ci.sessions[1] != "s2" {
		t.Fatalf("interrupted sessions=%v, want [s1 s2]", ci.sessions)
	}
}

func TestSetInterrupterConcurrentWithBargeIn(t *testing.T) {
	h := newTestHub(t)
	msg := &fakeMessage{topic: "alice/session/s1/bargein"}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			h.SetInterrupter(&countingInterrupter{})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			h.handleBargeIn(nil, msg)
		}
	}()
	wg.Wait()
}
