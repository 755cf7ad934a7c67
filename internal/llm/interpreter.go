package llm

import (
	"context"
	"net/http"
	"time"

	"alice/internal/domain"
)

// Interpretation is what the fallback produced for an utterance: a tool
// call, a spoken reply, or neither (the model could not make sense of it
// either).
type Interpretation struct {
	Call  *domain.RoutedCall
	Reply string
}

// Interpreter is the general NLU path consulted only when the rule router
// has no confident match.
type Interpreter interface {
	Interpret(ctx context.Context, utterance string) (Interpretation, error)
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// NewInterpreter returns nil when no API key is configured; the fallback is
// optional and the orchestrator treats a nil interpreter as "rules only".
func NewInterpreter(cfg Config) Interpreter {
	if cfg.APIKey == "" {
		return nil
	}
	client := &http.Client{Timeout: 30 * time.Second}
	return newOpenAIInterpreter(client, cfg)
}
