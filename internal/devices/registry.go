package devices

import (
	"strings"
	"sync"
	"time"

	"alice/internal/domain"
	"alice/internal/nlu"
)

// DeviceState is the registry's view of one playback device.
type DeviceState struct {
	DeviceID string
	Name     string
	Aliases  []string
	Online   bool
	LastSeen time.Time
}

// Registry maps spoken aliases to canonical device identifiers. Devices
// announce themselves over MQTT and expire after the TTL unless they
// heartbeat; config-seeded aliases are static and never expire.
type Registry struct {
	mu     sync.RWMutex
	data   map[string]DeviceState
	seeded map[string]string // normalized alias -> canonical id
	ttl    time.Duration
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Registry{
		data:   make(map[string]DeviceState),
		seeded: make(map[string]string),
		ttl:    ttl,
	}
}

// Seed installs static alias mappings from configuration.
func (r *Registry) Seed(aliases map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for alias, canonical := range aliases {
		key := nlu.Normalize(alias)
		if key == "" || strings.TrimSpace(canonical) == "" {
			continue
		}
		r.seeded[key] = canonical
	}
}

// SetDevice records a device announcement.
func (r *Registry) SetDevice(report domain.DeviceReport) {
	if strings.TrimSpace(report.DeviceID) == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[report.DeviceID] = DeviceState{
		DeviceID: report.DeviceID,
		Name:     report.Name,
		Aliases:  append([]string{}, report.Aliases...),
		Online:   true,
		LastSeen: time.Now(),
	}
}

func (r *Registry) SetOnline(deviceID string, online bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.data[deviceID]
	if !ok {
		state = DeviceState{DeviceID: deviceID}
	}
	state.Online = online
	state.LastSeen = time.Now()
	r.data[deviceID] = state
}

// Resolve implements nlu.DeviceResolver. Seeded aliases are checked first,
// then the aliases and names of live devices.
func (r *Registry) Resolve(phrase string) (string, bool) {
	key := nlu.Normalize(phrase)
	if key == "" {
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.seeded[key]; ok {
		return id, true
	}
	for _, state := range r.data {
		if !state.Online || r.isExpired(state) {
			continue
		}
		if nlu.Normalize(state.Name) == key || nlu.Normalize(state.DeviceID) == key {
			return state.DeviceID, true
		}
		for _, alias := range state.Aliases {
			if nlu.Normalize(alias) == key {
				return state.DeviceID, true
			}
		}
	}
	return "", false
}

// ListOnline returns the live devices, defensively copied.
func (r *Registry) ListOnline() []DeviceState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DeviceState, 0, len(r.data))
	for _, state := range r.data {
		if !state.Online || r.isExpired(state) {
			continue
		}
		item := state
		item.Aliases = append([]string{}, state.Aliases...)
		out = append(out, item)
	}
	return out
}

func (r *Registry) isExpired(state DeviceState) bool {
	if r.ttl <= 0 {
		return false
	}
	return time.Since(state.LastSeen) > r.ttl
}
