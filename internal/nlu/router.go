package nlu

import (
	"log/slog"
	"regexp"

	"alice/internal/domain"
)

// Transfer verbs are matched before intent classification: a transfer
// command only means anything when its device/room slot resolves, and
// short-circuiting keeps every room and device name out of the synonym
// lexicon.
var transferVerbRe = regexp.MustCompile(`\b(?:casta|cast|spela (?:upp )?pa|overfor|flytta till|byt till|skicka till)\b`)

// Router is the composition root of the rule-first pipeline: normalizer,
// transfer shortcut, classifier, tool mapper. Stateless apart from the
// injected device registry; safe for concurrent use.
type Router struct {
	devices DeviceResolver
	logger  *slog.Logger
}

func NewRouter(devices DeviceResolver, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{devices: devices, logger: logger}
}

// Route converts a free-form utterance into a tool call, or nil when no
// confident interpretation exists. Callers treat nil as "fall back to the
// general interpreter", not as an error.
func (r *Router) Route(utterance string) *domain.RoutedCall {
	input := Normalize(utterance)
	if input == "" {
		return nil
	}

	if transferVerbRe.MatchString(input) {
		target := ExtractDevice(input, r.devices)
		if target == "" {
			target = ExtractRoom(input)
		}
		if target != "" {
			r.logger.Debug("routed transfer", "device", target)
			return &domain.RoutedCall{Name: domain.ToolTransfer, Args: map[string]any{"device": target}}
		}
	}

	match := Classify(input)
	if match == nil {
		r.logger.Debug("no rule intent", "utterance", input)
		return nil
	}

	call := MapIntentToTool(input, match.Intent)
	if call == nil {
		if _, known := toolForIntent[match.Intent]; !known {
			r.logger.Error("intent has no tool mapping", "intent", match.Intent)
		} else {
			r.logger.Debug("intent without required slots", "intent", match.Intent, "phrase", match.Phrase)
		}
		return nil
	}

	r.logger.Debug("routed intent",
		"intent", match.Intent,
		"score", match.Score,
		"phrase", match.Phrase,
		"tool", call.Name,
	)
	return call
}
