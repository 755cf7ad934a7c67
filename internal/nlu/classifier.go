package nlu

import (
	"math"
	"strings"

	"alice/internal/domain"
)

// ConfidenceFloor is the minimum score a candidate needs before the
// classifier reports a match at all. Below it the caller falls back to a
// more general interpreter.
const ConfidenceFloor = 0.85

// Score grades how well a normalized input matches a normalized synonym
// phrase. The tiers are deliberately asymmetric:
//
//	1.0  exact match
//	0.95 the phrase contains the input (user said less than the canonical phrase)
//	0.85 the input contains the phrase (user padded a terser command with filler)
//	else word-coverage ratio, capped at 0.85, rejecting to 0 unless every
//	     token of the shorter side appears in the longer side
func Score(input, phrase string) float64 {
	if input == "" || phrase == "" {
		return 0
	}
	if input == phrase {
		return 1.0
	}
	if strings.Contains(input, phrase) {
		return 0.85
	}
	if strings.Contains(phrase, input) {
		return 0.95
	}

	inputWords := strings.Fields(input)
	phraseWords := strings.Fields(phrase)
	shorter, longer := inputWords, phraseWords
	if len(phraseWords) < len(inputWords) {
		shorter, longer = phraseWords, inputWords
	}
	longerSet := make(map[string]struct{}, len(longer))
	for _, w := range longer {
		longerSet[w] = struct{}{}
	}
	for _, w := range shorter {
		if _, ok := longerSet[w]; !ok {
			return 0
		}
	}
	return math.Min(0.85, float64(len(shorter))/float64(len(longer)))
}

// Classify scores the utterance against every synonym phrase in the lexicon
// and returns the best candidate, or nil when nothing reaches the
// confidence floor. Ties resolve to the earliest lexicon entry.
func Classify(utterance string) *domain.Match {
	input := Normalize(utterance)
	if input == "" {
		return nil
	}

	var best *domain.Match
	for _, c := range candidates {
		s := Score(input, c.phrase)
		if s == 0 {
			continue
		}
		if best == nil || s > best.Score {
			best = &domain.Match{Intent: c.intent, Score: s, Phrase: c.phrase}
		}
	}
	if best == nil || best.Score < ConfidenceFloor {
		return nil
	}
	return best
}
