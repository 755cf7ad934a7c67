package nlu

import (
	"regexp"
	"strconv"
	"strings"

	"alice/internal/domain"
)

var (
	numericSecondsRe = regexp.MustCompile(`(\d+)\s*(?:sekunder|sekund|sek|s)\b`)
	numericMinutesRe = regexp.MustCompile(`(\d+)\s*(?:minuter|minut|min|m)\b`)
	minuteUnitRe     = regexp.MustCompile(`^min(?:ut(?:er)?)?$`)
	secondUnitRe     = regexp.MustCompile(`^sek(?:und(?:er)?)?$`)
	clockTimeRe      = regexp.MustCompile(`(?:till|vid|pa)\s+(\d{1,2}):(\d{2})(?::(\d{2}))?`)
)

// Closed Swedish number-word table, normalized spellings (två -> tva).
// Compounds like tjugofem resolve via tens prefix + unit suffix.
var numberWords = map[string]int{
	"noll": 0, "en": 1, "ett": 1, "tva": 2, "tre": 3, "fyra": 4, "fem": 5,
	"sex": 6, "sju": 7, "atta": 8, "nio": 9, "tio": 10, "elva": 11,
	"tolv": 12, "tretton": 13, "fjorton": 14, "femton": 15, "sexton": 16,
	"sjutton": 17, "arton": 18, "nitton": 19, "tjugo": 20, "trettio": 30,
	"fyrtio": 40, "femtio": 50, "sextio": 60, "sjuttio": 70, "attio": 80,
	"nittio": 90, "hundra": 100,
}

var tensWords = []string{"tjugo", "trettio", "fyrtio", "femtio", "sextio", "sjuttio", "attio", "nittio"}

// Vague-time idioms, checked in this priority order; first match wins.
var vagueTimes = []struct {
	phrase  string
	seconds int
}{
	{"ett par", 120},
	{"en stund", 45},
	{"halv minut", 30},
}

// Endpoint keyword patterns, checked in this fixed order. Each match
// overwrites the previous one, so the last-listed pattern wins when an
// utterance fires more than one.
var endpointPatterns = []struct {
	endpoint string
	re       *regexp.Regexp
}{
	{domain.EndpointStart, regexp.MustCompile(`\b(?:borjan|starten)\b`)},
	{domain.EndpointStart, regexp.MustCompile(`fran borjan`)},
	{domain.EndpointEnd, regexp.MustCompile(`\b(?:slutet|eftertexterna|sluttexterna)\b`)},
	{domain.EndpointIntro, regexp.MustCompile(`\bintrot?\b`)},
	{domain.EndpointRecap, regexp.MustCompile(`\b(?:recap|recapen|sammanfattningen)\b`)},
	{domain.EndpointAds, regexp.MustCompile(`\breklam(?:en)?\b`)},
}

func resolveNumberWord(token string) (int, bool) {
	if n, ok := numberWords[token]; ok {
		return n, true
	}
	for _, tens := range tensWords {
		if !strings.HasPrefix(token, tens) || token == tens {
			continue
		}
		if unit, ok := numberWords[strings.TrimPrefix(token, tens)]; ok && unit >= 1 && unit <= 9 {
			return numberWords[tens] + unit, true
		}
	}
	return 0, false
}

// ExtractTimeSlots pulls a relative duration, an absolute clock position and
// a named endpoint out of an utterance. Best-effort: absent fields mean the
// utterance did not carry them.
func ExtractTimeSlots(text string) domain.TimeSlots {
	input := Normalize(text)
	var slots domain.TimeSlots

	seconds := 0
	found := false
	if m := numericSecondsRe.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		seconds += n
		found = true
	}
	if m := numericMinutesRe.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		seconds += n * 60
		found = true
	}

	if !found {
		tokens := strings.Fields(input)
		for i, tok := range tokens {
			n, ok := resolveNumberWord(tok)
			if !ok || i+1 >= len(tokens) {
				continue
			}
			next := tokens[i+1]
			if minuteUnitRe.MatchString(next) {
				seconds = n * 60
				found = true
				break
			}
			if secondUnitRe.MatchString(next) {
				seconds = n
				found = true
				break
			}
		}
	}

	if !found {
		for _, vt := range vagueTimes {
			if strings.Contains(input, vt.phrase) {
				seconds = vt.seconds
				found = true
				break
			}
		}
	}

	if found {
		s := seconds
		slots.Seconds = &s
	}

	if m := clockTimeRe.FindStringSubmatch(input); m != nil {
		to := m[1] + ":" + m[2]
		if m[3] != "" {
			to += ":" + m[3]
		}
		slots.To = to
	}

	for _, ep := range endpointPatterns {
		if ep.re.MatchString(input) {
			slots.Endpoint = ep.endpoint
		}
	}

	return slots
}
