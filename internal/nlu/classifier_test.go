package nlu

import (
	"testing"

	"alice/internal/domain"
)

func TestScoreTiers(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		phrase string
		want   float64
	}{
		{"exact", "spela", "spela", 1.0},
		{"input contains phrase", "kan du spela musik", "spela musik", 0.85},
		{"phrase contains input", "spela", "spela musik", 0.95},
		{"word coverage reordered", "musik spela", "spela musik", 0.85},
		{"word coverage partial", "igen den spela nu", "spela den igen", 0.75},
		{"unshared token rejects", "spela banan", "pausa musiken", 0},
		{"empty input", "", "spela", 0},
		{"empty phrase", "spela", "", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Score(c.input, c.phrase); got != c.want {
				t.Fatalf("Score(%q, %q)=%v, want %v", c.input, c.phrase, got, c.want)
			}
		})
	}
}

func TestScoreAsymmetry(t *testing.T) {
	// Substring containment scores differently depending on direction.
	if got := Score("spela", "spela musik"); got != 0.95 {
		t.Fatalf("Score(spela, spela musik)=%v, want 0.95", got)
	}
	if got := Score("spela musik", "spela"); got != 0.85 {
		t.Fatalf("Score(spela musik, spela)=%v, want 0.85", got)
	}
}

func TestClassifyExactPhrase(t *testing.T) {
	got := Classify("spela")
	if got == nil {
		t.Fatal("Classify(spela)=nil, want PLAY")
	}
	if got.Intent != domain.IntentPlay || got.Score != 1.0 {
		t.Fatalf("Classify(spela)={%s %v}, want {PLAY 1.0}", got.Intent, got.Score)
	}
}

func TestClassifyEveryLexiconPhraseRoundTrips(t *testing.T) {
	// Any synonym used verbatim as the whole utterance must come back to
	// its owning intent at full confidence.
	for _, entry := range lexicon {
		for _, phrase := range entry.phrases {
			got := Classify(phrase)
			if got == nil {
				t.Fatalf("Classify(%q)=nil, want %s", phrase, entry.intent)
			}
			if got.Intent != entry.intent {
				t.Fatalf("Classify(%q)=%s, want %s", phrase, got.Intent, entry.intent)
			}
			if got.Score != 1.0 {
				t.Fatalf("Classify(%q) score=%v, want 1.0", phrase, got.Score)
			}
		}
	}
}

func TestClassifyNormalizesInput(t *testing.T) {
	got := Classify("HÖJ VOLYMEN")
	if got == nil || got.Intent != domain.IntentVolUp {
		t.Fatalf("Classify(HÖJ VOLYMEN)=%+v, want VOL_UP", got)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	for _, in := range []string{"", "   ", "abrakadabra simsalabim"} {
		if got := Classify(in); got != nil {
			t.Fatalf("Classify(%q)=%+v, want nil", in, got)
		}
	}
}

func TestClassifyTieResolvesToEarliestEntry(t *testing.T) {
	// "hoppa" is a prefix of phrases under NEXT, SEEK_FWD, SEEK_BACK and
	// SEEK_TO; all tie at 0.95 so the earliest lexicon entry must win.
	got := Classify("hoppa")
	if got == nil {
		t.Fatal("Classify(hoppa)=nil")
	}
	if got.Intent != domain.IntentNext {
		t.Fatalf("Classify(hoppa)=%s, want NEXT (earliest tied entry)", got.Intent)
	}
}

func TestClassifyThresholdInvariant(t *testing.T) {
	inputs := []string{
		"spela", "pausa musiken", "höj", "blaha gibberish text",
		"hoppa fram 30 sekunder", "volym", "tystare tack",
	}
	for _, in := range inputs {
		if got := Classify(in); got != nil && got.Score < ConfidenceFloor {
			t.Fatalf("Classify(%q) score=%v below floor %v", in, got.Score, ConfidenceFloor)
		}
	}
}

func TestToolForIntentTotal(t *testing.T) {
	for _, entry := range lexicon {
		if _, ok := ToolForIntent(entry.intent); !ok {
			t.Fatalf("intent %s has no tool mapping", entry.intent)
		}
	}
	if _, ok := ToolForIntent(domain.Intent("NO_SUCH")); ok {
		t.Fatal("unknown intent resolved to a tool")
	}
}
