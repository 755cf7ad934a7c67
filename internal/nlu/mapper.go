package nlu

import "alice/internal/domain"

// argsBuilder extracts intent-specific arguments from the utterance.
// A false return means a required slot could not be resolved; the intent is
// classified but there is not enough information to act.
type argsBuilder func(utterance string) (map[string]any, bool)

var argsBuilders = map[domain.Intent]argsBuilder{
	domain.IntentSeekFwd:      seekRelativeArgs("FWD"),
	domain.IntentSeekBack:     seekRelativeArgs("BACK"),
	domain.IntentSeekTo:       seekToArgs,
	domain.IntentVolUp:        volumeUpArgs,
	domain.IntentVolUpShort:   volumeUpArgs,
	domain.IntentVolDown:      volumeDownArgs,
	domain.IntentVolDownShort: volumeDownArgs,
	domain.IntentSetVol:       setVolumeArgs,
	domain.IntentSetVolMax:    fixedLevelArgs(100),
	domain.IntentSetVolMin:    fixedLevelArgs(0),
}

func seekRelativeArgs(direction string) argsBuilder {
	return func(utterance string) (map[string]any, bool) {
		slots := ExtractTimeSlots(utterance)
		seconds := 10
		if slots.Seconds != nil {
			seconds = *slots.Seconds
		}
		return map[string]any{"direction": direction, "seconds": seconds}, true
	}
}

func seekToArgs(utterance string) (map[string]any, bool) {
	slots := ExtractTimeSlots(utterance)
	switch slots.Endpoint {
	case domain.EndpointStart:
		return map[string]any{"position": 0}, true
	case domain.EndpointEnd:
		return map[string]any{"position": 1}, true
	case "":
	default:
		return map[string]any{"endpoint": slots.Endpoint}, true
	}
	if slots.To != "" {
		return map[string]any{"to": slots.To}, true
	}
	// No resolvable seek target.
	return nil, false
}

func volumeUpArgs(utterance string) (map[string]any, bool) {
	slots := ExtractVolumeSlots(utterance)
	if slots.Level != nil {
		return map[string]any{"level": *slots.Level}, true
	}
	delta := defaultVolumeStep
	if slots.Delta != nil {
		delta = *slots.Delta
	}
	return map[string]any{"delta": delta}, true
}

func volumeDownArgs(utterance string) (map[string]any, bool) {
	slots := ExtractVolumeSlots(utterance)
	if slots.Level != nil {
		// A level is an absolute target: "sänk till 20" means level 20,
		// never -20.
		return map[string]any{"level": *slots.Level}, true
	}
	delta := defaultVolumeStep
	if slots.Delta != nil {
		delta = *slots.Delta
	}
	if delta < 0 {
		delta = -delta
	}
	return map[string]any{"delta": -delta}, true
}

func setVolumeArgs(utterance string) (map[string]any, bool) {
	slots := ExtractVolumeSlots(utterance)
	if slots.Level == nil {
		return nil, false
	}
	return map[string]any{"level": *slots.Level}, true
}

func fixedLevelArgs(level int) argsBuilder {
	return func(string) (map[string]any, bool) {
		return map[string]any{"level": level}, true
	}
}

// MapIntentToTool assembles the concrete tool call for a classified intent.
// Returns nil when the intent has no tool mapping (configuration drift, the
// caller logs it) or when a required slot could not be extracted.
func MapIntentToTool(utterance string, intent domain.Intent) *domain.RoutedCall {
	tool, ok := toolForIntent[intent]
	if !ok {
		return nil
	}
	build, ok := argsBuilders[intent]
	if !ok {
		return &domain.RoutedCall{Name: tool, Args: map[string]any{}}
	}
	args, ok := build(utterance)
	if !ok {
		return nil
	}
	return &domain.RoutedCall{Name: tool, Args: args}
}
