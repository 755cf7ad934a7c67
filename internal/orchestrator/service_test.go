package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"alice/internal/domain"
	"alice/internal/llm"
	"alice/internal/nlu"
	"alice/internal/turn"
)

type fakeExecutor struct {
	mu      sync.Mutex
	calls   []domain.RoutedCall
	devices []string
	result  domain.ExecResult
	err     error
	block   chan struct{} // when set, Execute waits until closed
}

func (f *fakeExecutor) Execute(ctx context.Context, device string, call domain.RoutedCall) (domain.ExecResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.devices = append(f.devices, device)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return domain.ExecResult{}, ctx.Err()
		}
	}
	return f.result, f.err
}

func (f *fakeExecutor) lastDevice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.devices) == 0 {
		return ""
	}
	return f.devices[len(f.devices)-1]
}

type fakeSpeaker struct {
	mu     sync.Mutex
	spoken []string
}

func (f *fakeSpeaker) Speak(_ context.Context, _ string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
	return nil
}

type fakeStore struct {
	mu     sync.Mutex
	turns  []turn.Record
	events []domain.RoutingEvent
}

func (f *fakeStore) SaveTurn(_ context.Context, rec turn.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.turns = append(f.turns, rec)
	return nil
}

func (f *fakeStore) SaveRoutingEvent(_ context.Context, ev domain.RoutingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

type fakeInterpreter struct {
	result llm.Interpretation
	err    error
}

func (f *fakeInterpreter) Interpret(context.Context, string) (llm.Interpretation, error) {
	return f.result, f.err
}

func newService(exec *fakeExecutor, speaker *fakeSpeaker, fallback llm.Interpreter, store TurnStore) (*Service, *turn.Registry) {
	turns := turn.NewRegistry()
	svc := New(Config{DefaultDevice: "speaker-default"}, nlu.NewRouter(nil, nil), turns, exec, speaker, fallback, store, nil)
	return svc, turns
}

func TestHandleUtteranceRoutedCommand(t *testing.T) {
	exec := &fakeExecutor{result: domain.ExecResult{OK: true, Output: "Volymen är nu 80."}}
	speaker := &fakeSpeaker{}
	store := &fakeStore{}
	svc, turns := newService(exec, speaker, nil, store)

	resp, err := svc.HandleUtterance(context.Background(), "s1", "höj volymen till 80 procent")
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}
	if resp.State != string(turn.StateKlar) {
		t.Fatalf("state=%s, want KLAR", resp.State)
	}
	if resp.Call == nil || resp.Call.Name != domain.ToolSetVolume {
		t.Fatalf("call=%+v, want SET_VOLUME", resp.Call)
	}
	if resp.Reply != "Volymen är nu 80." {
		t.Fatalf("reply=%q", resp.Reply)
	}
	if exec.lastDevice() != "speaker-default" {
		t.Fatalf("device=%q, want speaker-default", exec.lastDevice())
	}
	if len(speaker.spoken) != 1 || speaker.spoken[0] != "Volymen är nu 80." {
		t.Fatalf("spoken=%v", speaker.spoken)
	}

	if len(store.turns) != 1 || len(store.events) != 1 {
		t.Fatalf("persisted turns=%d events=%d", len(store.turns), len(store.events))
	}
	ev := store.events[0]
	if ev.Stage != "lexicon" || ev.Tool != domain.ToolSetVolume || ev.Intent != string(domain.IntentVolUp) {
		t.Fatalf("routing event=%+v", ev)
	}

	if _, ok := turns.Active("s1"); ok {
		t.Fatal("turn still active after completion")
	}
}

func TestHandleUtteranceTransferTargetsNamedDevice(t *testing.T) {
	exec := &fakeExecutor{result: domain.ExecResult{OK: true}}
	store := &fakeStore{}
	svc, _ := newService(exec, &fakeSpeaker{}, nil, store)

	resp, err := svc.HandleUtterance(context.Background(), "s1", "spela på köket")
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}
	if resp.Call == nil || resp.Call.Name != domain.ToolTransfer {
		t.Fatalf("call=%+v, want TRANSFER", resp.Call)
	}
	if exec.lastDevice() != "köket" {
		t.Fatalf("device=%q, want köket", exec.lastDevice())
	}
	if store.events[0].Stage != "transfer" {
		t.Fatalf("stage=%q, want transfer", store.events[0].Stage)
	}
}

func TestHandleUtteranceExecutorFailure(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("device offline")}
	svc, _ := newService(exec, &fakeSpeaker{}, nil, nil)

	resp, err := svc.HandleUtterance(context.Background(), "s1", "pausa musiken")
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}
	if resp.State != string(turn.StateKlar) {
		t.Fatalf("state=%s, want KLAR", resp.State)
	}
	if resp.Reply != "Det gick tyvärr inte att utföra kommandot." {
		t.Fatalf("reply=%q", resp.Reply)
	}
}

func TestHandleUtteranceFallbackInterpreter(t *testing.T) {
	fallback := &fakeInterpreter{result: llm.Interpretation{Reply: "Det vet jag inte."}}
	store := &fakeStore{}
	svc, _ := newService(&fakeExecutor{}, &fakeSpeaker{}, fallback, store)

	resp, err := svc.HandleUtterance(context.Background(), "s1", "vad blir vädret imorgon")
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}
	if resp.Call != nil {
		t.Fatalf("call=%+v, want nil", resp.Call)
	}
	if resp.Reply != "Det vet jag inte." {
		t.Fatalf("reply=%q", resp.Reply)
	}
	if store.events[0].Stage != "fallback" {
		t.Fatalf("stage=%q, want fallback", store.events[0].Stage)
	}
}

func TestHandleUtteranceNoInterpretationAtAll(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newService(&fakeExecutor{}, &fakeSpeaker{}, nil, store)

	resp, err := svc.HandleUtterance(context.Background(), "s1", "blaha gibberish text")
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}
	if resp.Reply != "Jag förstod tyvärr inte." {
		t.Fatalf("reply=%q", resp.Reply)
	}
	if store.events[0].Stage != "none" {
		t.Fatalf("stage=%q, want none", store.events[0].Stage)
	}
}

func TestHandleUtteranceRepliesArePrivacyFiltered(t *testing.T) {
	exec := &fakeExecutor{result: domain.ExecResult{OK: true, Output: "Delat med anna@example.se."}}
	speaker := &fakeSpeaker{}
	svc, _ := newService(exec, speaker, nil, nil)

	resp, err := svc.HandleUtterance(context.Background(), "s1", "gilla låten")
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}
	if resp.Reply != "Delat med [e-postadress]." {
		t.Fatalf("reply=%q", resp.Reply)
	}
}

func TestInterruptMidExecutionEndsTurnAvbruten(t *testing.T) {
	block := make(chan struct{})
	exec := &fakeExecutor{block: block, result: domain.ExecResult{OK: true}}
	speaker := &fakeSpeaker{}
	svc, turns := newService(exec, speaker, nil, nil)

	respCh := make(chan domain.TurnResponse, 1)
	go func() {
		resp, _ := svc.HandleUtterance(context.Background(), "s1", "pausa musiken")
		respCh <- resp
	}()

	// Wait for the executor to be reached, then barge in.
	for {
		exec.mu.Lock()
		started := len(exec.calls) > 0
		exec.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !svc.Interrupt("s1") {
		t.Fatal("Interrupt found no active turn")
	}
	close(block)

	resp := <-respCh
	if resp.State != string(turn.StateAvbruten) {
		t.Fatalf("state=%s, want AVBRUTEN", resp.State)
	}
	if len(speaker.spoken) != 0 {
		t.Fatalf("interrupted turn still spoke: %v", speaker.spoken)
	}
	if _, ok := turns.Active("s1"); ok {
		t.Fatal("interrupted turn still active")
	}
}

func TestInterruptWithoutActiveTurn(t *testing.T) {
	svc, _ := newService(&fakeExecutor{}, &fakeSpeaker{}, nil, nil)
	if svc.Interrupt("nope") {
		t.Fatal("Interrupt reported true for unknown session")
	}
}
