package nlu

import (
	"regexp"
	"strconv"

	"alice/internal/domain"
)

// Volume patterns over normalized text (höj -> hoj, sänk -> sank). The
// extraction cascade tries them in numbered order; the first hit returns
// immediately.
var (
	volSetLevelRe   = regexp.MustCompile(`\b(?:satt|stall)\s+volym(?:en)?\s+(?:till|pa)\s+(\d+)`)
	volBareLevelRe  = regexp.MustCompile(`\bvolym(?:en)?\s+(\d+)`)
	volRaiseToRe    = regexp.MustCompile(`\b(?:hoj|oka|skruva upp)\b.*?\b(?:till|pa)\s+(\d+)`)
	volLowerToRe    = regexp.MustCompile(`\b(?:sank|skruva ner|skruva ned|minska|dampa)\b.*?\b(?:till|pa)\s+(\d+)`)
	volRaiseDeltaRe = regexp.MustCompile(`\b(?:hoj|oka|skruva upp)\b(?:[^0-9]*?(\d+))?`)
	volLowerDeltaRe = regexp.MustCompile(`\b(?:sank|skruva ner|skruva ned|minska|dampa)\b(?:[^0-9]*?(\d+))?`)
	volMaxKeywordRe = regexp.MustCompile(`\b(?:max|maximal|maximalt|hogsta|full volym|fullt)\b|100\s*(?:%|procent)|\bhundra procent\b`)
	volMinKeywordRe = regexp.MustCompile(`\b(?:min|minimal|minimalt|lagsta|tyst)\b|(?:^|\s)0\s*(?:%|procent)|\bnoll procent\b`)
)

const defaultVolumeStep = 10

func clampLevel(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func levelSlots(n int) domain.VolumeSlots {
	level := clampLevel(n)
	return domain.VolumeSlots{Level: &level}
}

func deltaSlots(n int) domain.VolumeSlots {
	delta := n
	return domain.VolumeSlots{Delta: &delta}
}

// ExtractVolumeSlots resolves either an absolute level (clamped to 0..100)
// or a signed delta, never both. Raise/lower verbs followed by "till/på N"
// mean an absolute target despite the verb; bare raise/lower verbs mean a
// delta defaulting to 10.
func ExtractVolumeSlots(text string) domain.VolumeSlots {
	input := Normalize(text)

	if m := volSetLevelRe.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		return levelSlots(n)
	}
	if m := volBareLevelRe.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		return levelSlots(n)
	}
	if m := volRaiseToRe.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		return levelSlots(n)
	}
	if m := volLowerToRe.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		return levelSlots(n)
	}
	if m := volRaiseDeltaRe.FindStringSubmatch(input); m != nil {
		n := defaultVolumeStep
		if m[1] != "" {
			n, _ = strconv.Atoi(m[1])
		}
		return deltaSlots(n)
	}
	if m := volLowerDeltaRe.FindStringSubmatch(input); m != nil {
		n := defaultVolumeStep
		if m[1] != "" {
			n, _ = strconv.Atoi(m[1])
		}
		return deltaSlots(-n)
	}
	if volMaxKeywordRe.MatchString(input) {
		return levelSlots(100)
	}
	if volMinKeywordRe.MatchString(input) {
		return levelSlots(0)
	}
	return domain.VolumeSlots{}
}
