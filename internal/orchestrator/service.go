package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"alice/internal/domain"
	"alice/internal/llm"
	"alice/internal/nlu"
	"alice/internal/privacy"
	"alice/internal/turn"
)

// ToolExecutor performs a routed call against a playback device.
type ToolExecutor interface {
	Execute(ctx context.Context, device string, call domain.RoutedCall) (domain.ExecResult, error)
}

// Speaker hands the final reply to the TTS collaborator.
type Speaker interface {
	Speak(ctx context.Context, sessionID, text string) error
}

// TurnStore persists finished turns and routing telemetry. Optional; a nil
// store means no persistence.
type TurnStore interface {
	SaveTurn(ctx context.Context, rec turn.Record) error
	SaveRoutingEvent(ctx context.Context, ev domain.RoutingEvent) error
}

type Config struct {
	DefaultDevice string
	ToolTimeout   time.Duration
}

// Service drives one turn at a time per session through the pipeline:
// LYSSNAR -> TOLKAR -> PLANNER -> KOR_VERKTYG -> PRIVACY -> TAL -> KLAR.
// A barge-in may interrupt the turn between (or during) any of these; the
// driver checks for AVBRUTEN after every stage and stops quietly.
type Service struct {
	cfg      Config
	router   *nlu.Router
	turns    *turn.Registry
	executor ToolExecutor
	speaker  Speaker
	fallback llm.Interpreter
	store    TurnStore
	logger   *slog.Logger
}

func New(cfg Config, router *nlu.Router, turns *turn.Registry, executor ToolExecutor, speaker Speaker, fallback llm.Interpreter, store TurnStore, logger *slog.Logger) *Service {
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = 8 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:      cfg,
		router:   router,
		turns:    turns,
		executor: executor,
		speaker:  speaker,
		fallback: fallback,
		store:    store,
		logger:   logger,
	}
}

// Interrupt handles barge-in: the session's active turn transits to
// AVBRUTEN. Idempotent; a finished turn stays finished.
func (s *Service) Interrupt(sessionID string) bool {
	interrupted := s.turns.Interrupt(sessionID)
	if interrupted {
		s.logger.Info("turn interrupted", "session_id", sessionID)
	}
	return interrupted
}

// HandleUtterance drives a full turn for a final transcript.
func (s *Service) HandleUtterance(ctx context.Context, sessionID, text string) (domain.TurnResponse, error) {
	t := s.turns.Begin(sessionID)
	t.SetInput(text)

	var routedCall *domain.RoutedCall
	reply := ""
	stage := "none"
	match := (*domain.Match)(nil)

	done := func() domain.TurnResponse {
		s.persist(ctx, t, text, stage, match, routedCall)
		snap := t.Snapshot()
		return domain.TurnResponse{
			TurnID:    snap.ID,
			SessionID: snap.SessionID,
			State:     string(snap.State),
			Reply:     snap.Reply,
			Call:      routedCall,
		}
	}

	if !s.advance(t, turn.StateLyssnar) {
		return done(), nil
	}

	if !s.advance(t, turn.StateTolkar) {
		return done(), nil
	}
	match = nlu.Classify(text)
	routedCall = s.router.Route(text)
	if routedCall != nil {
		stage = "lexicon"
		if routedCall.Name == domain.ToolTransfer {
			stage = "transfer"
		}
	}

	if routedCall == nil && s.fallback != nil {
		if !s.advance(t, turn.StatePlanner) {
			return done(), nil
		}
		interpretation, err := s.fallback.Interpret(ctx, text)
		if err != nil {
			s.logger.Warn("fallback interpretation failed", "session_id", sessionID, "error", err)
		} else {
			routedCall = interpretation.Call
			reply = interpretation.Reply
			if routedCall != nil || reply != "" {
				stage = "fallback"
			}
		}
	}

	if routedCall != nil {
		if !s.advance(t, turn.StateKorVerktyg) {
			return done(), nil
		}
		t.SetTool(routedCall.Name)
		reply = s.executeCall(ctx, sessionID, *routedCall)
	}

	if reply == "" && routedCall == nil {
		reply = "Jag förstod tyvärr inte."
	}

	if !s.advance(t, turn.StatePrivacy) {
		return done(), nil
	}
	reply = privacy.Clean(reply)
	t.SetReply(reply)

	if !s.advance(t, turn.StateTal) {
		return done(), nil
	}
	if s.speaker != nil && reply != "" {
		if err := s.speaker.Speak(ctx, sessionID, reply); err != nil {
			s.logger.Warn("speech output failed", "session_id", sessionID, "error", err)
		}
	}

	s.advance(t, turn.StateKlar)
	return done(), nil
}

// advance requests the next forward transition. A false return means the
// turn cannot continue; when that is because a barge-in already moved it to
// AVBRUTEN the driver stops quietly, anything else is an orchestration bug
// and gets logged.
func (s *Service) advance(t *turn.Turn, next turn.State) bool {
	if err := t.Transit(next); err != nil {
		if t.State() == turn.StateAvbruten {
			s.logger.Debug("turn interrupted mid-pipeline", "turn_id", t.ID, "stage", next)
		} else {
			s.logger.Error("turn transition refused", "turn_id", t.ID, "error", err)
		}
		return false
	}
	return true
}

func (s *Service) executeCall(ctx context.Context, sessionID string, call domain.RoutedCall) string {
	if s.executor == nil {
		return "Okej."
	}

	device := s.cfg.DefaultDevice
	if call.Name == domain.ToolTransfer {
		if d, ok := call.Args["device"].(string); ok && d != "" {
			device = d
		}
	}

	execCtx, cancel := context.WithTimeout(ctx, s.cfg.ToolTimeout)
	defer cancel()

	result, err := s.executor.Execute(execCtx, device, call)
	if err != nil {
		s.logger.Warn("tool execution failed", "session_id", sessionID, "tool", call.Name, "error", err)
		return "Det gick tyvärr inte att utföra kommandot."
	}
	if strings.TrimSpace(result.Output) != "" {
		return result.Output
	}
	return "Okej."
}

func (s *Service) persist(ctx context.Context, t *turn.Turn, utterance, stage string, match *domain.Match, call *domain.RoutedCall) {
	if s.store == nil {
		return
	}
	rec := t.Snapshot()
	if err := s.store.SaveTurn(ctx, rec); err != nil {
		s.logger.Warn("persist turn failed", "turn_id", rec.ID, "error", err)
	}

	ev := domain.RoutingEvent{
		SessionID: rec.SessionID,
		Utterance: utterance,
		Stage:     stage,
		At:        time.Now().UTC(),
	}
	if match != nil {
		ev.Intent = string(match.Intent)
		ev.Score = match.Score
		ev.Phrase = match.Phrase
	}
	if call != nil {
		ev.Tool = call.Name
	}
	if err := s.store.SaveRoutingEvent(ctx, ev); err != nil {
		s.logger.Warn("persist routing event failed", "turn_id", rec.ID, "error", err)
	}
}
