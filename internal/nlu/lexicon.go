package nlu

import "alice/internal/domain"

// The synonym lexicon is an ordered table: on score ties the earliest entry
// wins, so ordering here is the documented determinism contract for the
// classifier. Phrases are written in natural Swedish and normalized once at
// package init.
type lexiconEntry struct {
	intent  domain.Intent
	phrases []string
}

var lexicon = []lexiconEntry{
	{domain.IntentPlay, []string{
		"spela", "spela upp", "spela musik", "spela musiken", "starta musiken",
		"sätt på musiken", "sätt igång musiken", "fortsätt", "fortsätt spela",
		"kör igång", "play",
	}},
	{domain.IntentPause, []string{
		"pausa", "paus", "pausa musiken", "pausa låten", "ta en paus",
	}},
	{domain.IntentStop, []string{
		"stoppa", "stopp", "sluta", "sluta spela", "stoppa musiken",
		"stäng av musiken", "avsluta uppspelningen",
	}},
	{domain.IntentNext, []string{
		"nästa", "nästa låt", "nästa spår", "hoppa över låten", "byt låt",
		"skippa", "skippa låten",
	}},
	{domain.IntentPrev, []string{
		"föregående", "föregående låt", "förra låten", "spela förra låten",
		"backa en låt", "tillbaka en låt",
	}},
	{domain.IntentSeekFwd, []string{
		"spola fram", "spola framåt", "hoppa fram", "hoppa framåt", "gå fram",
	}},
	{domain.IntentSeekBack, []string{
		"spola tillbaka", "spola bakåt", "hoppa tillbaka", "hoppa bakåt",
		"gå tillbaka", "backa",
	}},
	{domain.IntentSeekTo, []string{
		"hoppa till", "spola till", "gå till", "börja om", "börja om från början",
		"ta det från början", "hoppa till slutet", "hoppa över introt",
		"hoppa över sammanfattningen", "hoppa över reklamen",
	}},
	{domain.IntentVolUp, []string{
		"höj volymen", "höj ljudet", "öka volymen", "öka ljudet",
		"skruva upp volymen", "skruva upp ljudet", "högre", "högre volym",
	}},
	{domain.IntentVolDown, []string{
		"sänk volymen", "sänk ljudet", "minska volymen", "minska ljudet",
		"skruva ner volymen", "skruva ner ljudet", "lägre volym", "tystare",
		"dämpa volymen",
	}},
	{domain.IntentSetVol, []string{
		"sätt volymen", "ställ volymen", "sätt volymen till", "ställ volymen på",
		"ändra volymen till", "volym",
	}},
	{domain.IntentSetVolMax, []string{
		"max volym", "full volym", "högsta volym", "maxa volymen", "volym max",
	}},
	{domain.IntentSetVolMin, []string{
		"lägsta volym", "minsta volym", "volym min",
	}},
	{domain.IntentVolUpShort, []string{
		"höj", "upp",
	}},
	{domain.IntentVolDownShort, []string{
		"sänk", "ner", "ned",
	}},
	{domain.IntentMute, []string{
		"tyst", "tysta", "mute", "stäng av ljudet", "ljud av", "ljudet av",
	}},
	{domain.IntentUnmute, []string{
		"unmute", "ljud på", "ljudet på", "sätt på ljudet", "avmuta",
	}},
	{domain.IntentRepeat, []string{
		"repetera", "upprepa", "spela igen", "spela den igen", "en gång till",
		"loopa", "loopa låten",
	}},
	{domain.IntentShuffle, []string{
		"blanda", "blanda låtarna", "shuffle", "slumpa", "spela slumpvis",
	}},
	{domain.IntentLike, []string{
		"gilla", "gilla låten", "spara låten", "lägg till i favoriter",
		"favoritmarkera",
	}},
	{domain.IntentUnlike, []string{
		"ogilla", "ogilla låten", "ta bort gillningen", "ta bort från favoriter",
		"sluta gilla",
	}},
}

// toolForIntent is static and total over the Intent set; the reverse mapping
// is many-to-one (both VOL_UP and VOL_UP_SHORT land on SET_VOLUME).
var toolForIntent = map[domain.Intent]string{
	domain.IntentPlay:         domain.ToolPlay,
	domain.IntentPause:        domain.ToolPause,
	domain.IntentStop:         domain.ToolStop,
	domain.IntentNext:         domain.ToolNext,
	domain.IntentPrev:         domain.ToolPrev,
	domain.IntentSeekFwd:      domain.ToolSeek,
	domain.IntentSeekBack:     domain.ToolSeek,
	domain.IntentSeekTo:       domain.ToolSeek,
	domain.IntentVolUp:        domain.ToolSetVolume,
	domain.IntentVolDown:      domain.ToolSetVolume,
	domain.IntentSetVol:       domain.ToolSetVolume,
	domain.IntentSetVolMax:    domain.ToolSetVolume,
	domain.IntentSetVolMin:    domain.ToolSetVolume,
	domain.IntentVolUpShort:   domain.ToolSetVolume,
	domain.IntentVolDownShort: domain.ToolSetVolume,
	domain.IntentMute:         domain.ToolMute,
	domain.IntentUnmute:       domain.ToolUnmute,
	domain.IntentRepeat:       domain.ToolRepeat,
	domain.IntentShuffle:      domain.ToolShuffle,
	domain.IntentLike:         domain.ToolLike,
	domain.IntentUnlike:       domain.ToolUnlike,
}

// ToolForIntent returns the tool name an intent routes to.
func ToolForIntent(intent domain.Intent) (string, bool) {
	tool, ok := toolForIntent[intent]
	return tool, ok
}

type candidatePhrase struct {
	intent domain.Intent
	phrase string // normalized form
}

var candidates = buildCandidates()

func buildCandidates() []candidatePhrase {
	out := make([]candidatePhrase, 0, 128)
	for _, entry := range lexicon {
		for _, p := range entry.phrases {
			normalized := Normalize(p)
			if normalized == "" {
				continue
			}
			out = append(out, candidatePhrase{intent: entry.intent, phrase: normalized})
		}
	}
	return out
}
