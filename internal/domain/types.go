package domain

import "time"

// Intent is one of the closed set of rule-router tags. Every intent maps to
// exactly one tool name; the reverse mapping is many-to-one.
type Intent string

const (
	IntentPlay         Intent = "PLAY"
	IntentPause        Intent = "PAUSE"
	IntentStop         Intent = "STOP"
	IntentNext         Intent = "NEXT"
	IntentPrev         Intent = "PREV"
	IntentSeekFwd      Intent = "SEEK_FWD"
	IntentSeekBack     Intent = "SEEK_BACK"
	IntentSeekTo       Intent = "SEEK_TO"
	IntentVolUp        Intent = "VOL_UP"
	IntentVolDown      Intent = "VOL_DOWN"
	IntentSetVol       Intent = "SET_VOL"
	IntentSetVolMax    Intent = "SET_VOL_MAX"
	IntentSetVolMin    Intent = "SET_VOL_MIN"
	IntentVolUpShort   Intent = "VOL_UP_SHORT"
	IntentVolDownShort Intent = "VOL_DOWN_SHORT"
	IntentMute         Intent = "MUTE"
	IntentUnmute       Intent = "UNMUTE"
	IntentRepeat       Intent = "REPEAT"
	IntentShuffle      Intent = "SHUFFLE"
	IntentLike         Intent = "LIKE"
	IntentUnlike       Intent = "UNLIKE"
)

// Tool names exposed to the execution collaborator.
const (
	ToolPlay      = "PLAY"
	ToolPause     = "PAUSE"
	ToolStop      = "STOP"
	ToolNext      = "NEXT"
	ToolPrev      = "PREV"
	ToolSeek      = "SEEK"
	ToolSetVolume = "SET_VOLUME"
	ToolMute      = "MUTE"
	ToolUnmute    = "UNMUTE"
	ToolRepeat    = "REPEAT"
	ToolShuffle   = "SHUFFLE"
	ToolLike      = "LIKE"
	ToolUnlike    = "UNLIKE"
	ToolTransfer  = "TRANSFER"
)

// RoutedCall is the sole contract between the router and the tool executor.
// Args shape is intent specific; the executor validates against the tool's
// own schema.
type RoutedCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Match is the classifier's winning candidate. Score is in [0,1]; only
// candidates at or above the confidence floor reach callers.
type Match struct {
	Intent Intent  `json:"intent"`
	Score  float64 `json:"score"`
	Phrase string  `json:"phrase"`
}

// Named seek endpoints recognized by the time extractor.
const (
	EndpointStart = "START"
	EndpointEnd   = "END"
	EndpointIntro = "INTRO"
	EndpointRecap = "RECAP"
	EndpointAds   = "ADS"
)

// TimeSlots holds whatever the time extractor could pull out of an
// utterance. All fields are best-effort; absent means not spoken.
type TimeSlots struct {
	Seconds  *int   `json:"seconds,omitempty"`
	To       string `json:"to,omitempty"`       // absolute clock position, HH:MM[:SS]
	Endpoint string `json:"endpoint,omitempty"` // START|END|INTRO|RECAP|ADS
}

// VolumeSlots holds an absolute level or a signed delta, never both.
type VolumeSlots struct {
	Level *int `json:"level,omitempty"` // 0..100
	Delta *int `json:"delta,omitempty"`
}

// RoutingEvent is the telemetry record emitted for each routing decision.
type RoutingEvent struct {
	SessionID string    `json:"session_id"`
	Utterance string    `json:"utterance"`
	Stage     string    `json:"stage"` // transfer | lexicon | fallback | none
	Intent    string    `json:"intent,omitempty"`
	Score     float64   `json:"score,omitempty"`
	Phrase    string    `json:"phrase,omitempty"`
	Tool      string    `json:"tool,omitempty"`
	At        time.Time `json:"at"`
}

// MQTT payloads

// DeviceReport is published by playback devices to announce themselves and
// the spoken aliases they answer to.
type DeviceReport struct {
	DeviceID string   `json:"device_id"`
	Name     string   `json:"name"`
	Aliases  []string `json:"aliases,omitempty"`
}

type ExecRequest struct {
	RequestID string     `json:"request_id"`
	Call      RoutedCall `json:"call"`
}

type ExecResult struct {
	RequestID string `json:"request_id"`
	OK        bool   `json:"ok"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BargeInEvent signals that the user started speaking while a turn was in
// flight; the active turn for the session is interrupted.
type BargeInEvent struct {
	SessionID string `json:"session_id"`
	Source    string `json:"source,omitempty"`
	TS        string `json:"ts,omitempty"`
}

// HTTP payloads

type RouteRequest struct {
	Text string `json:"text"`
}

type RouteResponse struct {
	Call  *RoutedCall `json:"call"`
	Match *Match      `json:"match,omitempty"`
}

type TurnRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type TurnResponse struct {
	TurnID    string      `json:"turn_id"`
	SessionID string      `json:"session_id"`
	State     string      `json:"state"`
	Reply     string      `json:"reply,omitempty"`
	Call      *RoutedCall `json:"call,omitempty"`
}
