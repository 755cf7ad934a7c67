package nlu

import (
	"regexp"
	"strings"
)

// Room aliases map normalized surface forms to the canonical room name.
// Ordered so the whole-utterance fallback scan resolves the earliest entry,
// and longer forms shadow their prefixes.
var roomAliases = []struct {
	alias     string
	canonical string
}{
	{"koket", "köket"},
	{"kok", "köket"},
	{"vardagsrummet", "vardagsrummet"},
	{"vardagsrum", "vardagsrummet"},
	{"tv-rummet", "vardagsrummet"},
	{"sovrummet", "sovrummet"},
	{"sovrum", "sovrummet"},
	{"badrummet", "badrummet"},
	{"badrum", "badrummet"},
	{"hallen", "hallen"},
	{"kontoret", "kontoret"},
	{"kontor", "kontoret"},
	{"barnrummet", "barnrummet"},
	{"uterummet", "uterummet"},
}

var roomAliasLookup = buildRoomLookup()

func buildRoomLookup() map[string]string {
	out := make(map[string]string, len(roomAliases))
	for _, ra := range roomAliases {
		out[ra.alias] = ra.canonical
	}
	return out
}

var (
	roomPrepositionRe = regexp.MustCompile(`(?:^|\s)(?:i|pa|till)\s+([a-z0-9-]+)`)
	deviceTrailingRe  = regexp.MustCompile(`\b(?:pa|till)\s+([a-z0-9 -]+)$`)
)

// ExtractRoom resolves a room mention to its canonical name. The
// preposition-anchored pattern ("i/på/till <ord>") is tried first, then the
// whole utterance is scanned for any known alias substring.
func ExtractRoom(text string) string {
	input := Normalize(text)
	if input == "" {
		return ""
	}
	if m := roomPrepositionRe.FindStringSubmatch(input); m != nil {
		if canonical, ok := roomAliasLookup[m[1]]; ok {
			return canonical
		}
	}
	for _, ra := range roomAliases {
		if strings.Contains(input, ra.alias) {
			return ra.canonical
		}
	}
	return ""
}

// DeviceResolver maps a free-form device phrase to a canonical device
// identifier. Supplied by the device registry collaborator.
type DeviceResolver interface {
	Resolve(phrase string) (string, bool)
}

// ExtractDevice resolves a device mention through the injected registry:
// every token is tried first, then the trailing noun phrase after "på/till".
func ExtractDevice(text string, devices DeviceResolver) string {
	if devices == nil {
		return ""
	}
	input := Normalize(text)
	for _, token := range strings.Fields(input) {
		if id, ok := devices.Resolve(token); ok {
			return id
		}
	}
	if m := deviceTrailingRe.FindStringSubmatch(input); m != nil {
		if id, ok := devices.Resolve(strings.TrimSpace(m[1])); ok {
			return id
		}
	}
	return ""
}
