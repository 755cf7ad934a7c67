package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"alice/internal/domain"
)

type openAIInterpreter struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func newOpenAIInterpreter(client *http.Client, cfg Config) *openAIInterpreter {
	return &openAIInterpreter{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

const interpreterSystemPrompt = `Du tolkar svenska röstkommandon för en mediaspelare.
Svara med ETT JSON-objekt och inget annat.
Om kommandot motsvarar ett verktyg: {"tool":"<NAMN>","args":{...}}.
Tillgängliga verktyg: PLAY, PAUSE, STOP, NEXT, PREV,
SEEK {"direction":"FWD"|"BACK","seconds":N} eller {"to":"HH:MM"},
SET_VOLUME {"level":0-100} eller {"delta":±N},
MUTE, UNMUTE, REPEAT, SHUFFLE, LIKE, UNLIKE,
TRANSFER {"device":"<rum eller enhet>"}.
Om inget verktyg passar: {"reply":"<kort svenskt svar>"}.`

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *openAIInterpreter) Interpret(ctx context.Context, utterance string) (Interpretation, error) {
	payload := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: interpreterSystemPrompt},
			{Role: "user", Content: utterance},
		},
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return Interpretation{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(buf))
	if err != nil {
		return Interpretation{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return Interpretation{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Interpretation{}, err
	}
	if resp.StatusCode >= 300 {
		return Interpretation{}, fmt.Errorf("interpreter status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Interpretation{}, err
	}
	if out.Error != nil {
		return Interpretation{}, fmt.Errorf("interpreter error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return Interpretation{}, fmt.Errorf("interpreter returned no choices")
	}

	return parseInterpretation(out.Choices[0].Message.Content)
}

// parseInterpretation decodes the model's JSON answer, tolerating code
// fences around it.
func parseInterpretation(content string) (Interpretation, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var decoded struct {
		Tool  string         `json:"tool"`
		Args  map[string]any `json:"args"`
		Reply string         `json:"reply"`
	}
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		// Not JSON at all: treat the raw content as a spoken reply.
		return Interpretation{Reply: trimmed}, nil
	}
	if decoded.Tool != "" {
		args := decoded.Args
		if args == nil {
			args = map[string]any{}
		}
		return Interpretation{Call: &domain.RoutedCall{Name: decoded.Tool, Args: args}}, nil
	}
	return Interpretation{Reply: strings.TrimSpace(decoded.Reply)}, nil
}
