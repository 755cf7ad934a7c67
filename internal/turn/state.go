package turn

// State enumerates the stages of one conversational turn. The Swedish
// labels are domain vocabulary: they appear in logs, status payloads and
// persisted turn records.
type State string

const (
	StateIdle       State = "IDLE"
	StateLyssnar    State = "LYSSNAR"     // listening
	StateTolkar     State = "TOLKAR"      // interpreting
	StatePlanner    State = "PLANNER"     // planning / fallback interpretation
	StateKorVerktyg State = "KOR_VERKTYG" // executing tools
	StatePrivacy    State = "PRIVACY"     // privacy filtering
	StateTal        State = "TAL"         // speaking
	StateKlar       State = "KLAR"        // done
	StateAvbruten   State = "AVBRUTEN"    // interrupted by barge-in
)

// forwardOrder fixes the happy-path sequence. Transitions may skip ahead
// (a turn with nothing to execute goes TOLKAR -> TAL) but never move
// backwards; AVBRUTEN is the only state reachable out of order.
var forwardOrder = map[State]int{
	StateIdle:       0,
	StateLyssnar:    1,
	StateTolkar:     2,
	StatePlanner:    3,
	StateKorVerktyg: 4,
	StatePrivacy:    5,
	StateTal:        6,
	StateKlar:       7,
}

// Terminal reports whether no further transitions are valid from s.
func (s State) Terminal() bool {
	return s == StateKlar || s == StateAvbruten
}

func transitionAllowed(from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == StateAvbruten {
		return true
	}
	fromOrder, ok := forwardOrder[from]
	if !ok {
		return false
	}
	toOrder, ok := forwardOrder[to]
	if !ok {
		return false
	}
	return toOrder > fromOrder
}
