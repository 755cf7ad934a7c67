package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type AliceServerConfig struct {
	HTTPAddr        string
	DBDSN           string // empty disables persistence
	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string
	LLMBaseURL      string
	LLMAPIKey       string // empty disables the fallback interpreter
	LLMModel        string
	ToolTimeout     time.Duration
	DefaultDevice   string
	DeviceTTL       time.Duration
	DeviceAliases   map[string]string
}

func LoadAliceServerConfig() (AliceServerConfig, error) {
	cfg := AliceServerConfig{
		HTTPAddr:        getenvDefault("ALICE_HTTP_ADDR", ":9020"),
		DBDSN:           os.Getenv("DB_DSN"),
		MQTTBrokerURL:   getenvDefault("MQTT_BROKER_URL", "tcp://localhost:1883"),
		MQTTClientID:    getenvDefault("ALICE_MQTT_CLIENT_ID", "alice-server"),
		MQTTUsername:    os.Getenv("MQTT_USERNAME"),
		MQTTPassword:    os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix: getenvDefault("MQTT_TOPIC_PREFIX", "alice"),
		LLMBaseURL:      getenvDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:       os.Getenv("LLM_API_KEY"),
		LLMModel:        getenvDefault("LLM_MODEL", "gpt-4o-mini"),
		ToolTimeout:     time.Duration(getenvIntDefault("TOOL_TIMEOUT_SECONDS", 8)) * time.Second,
		DefaultDevice:   getenvDefault("ALICE_DEFAULT_DEVICE", ""),
		DeviceTTL:       time.Duration(getenvIntDefault("DEVICE_TTL_SECONDS", 60)) * time.Second,
	}

	aliases, err := parseAliasList(os.Getenv("ALICE_DEVICE_ALIASES"))
	if err != nil {
		return AliceServerConfig{}, err
	}
	cfg.DeviceAliases = aliases

	return cfg, nil
}

type DeviceSimConfig struct {
	DeviceID        string
	DeviceName      string
	Aliases         []string
	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string
}

func LoadDeviceSimConfig() DeviceSimConfig {
	deviceID := getenvDefault("SIM_DEVICE_ID", "sim-speaker-1")
	cfg := DeviceSimConfig{
		DeviceID:        deviceID,
		DeviceName:      getenvDefault("SIM_DEVICE_NAME", "Vardagsrummet"),
		MQTTBrokerURL:   getenvDefault("MQTT_BROKER_URL", "tcp://localhost:1883"),
		MQTTClientID:    getenvDefault("SIM_MQTT_CLIENT_ID", "device-"+deviceID),
		MQTTUsername:    os.Getenv("MQTT_USERNAME"),
		MQTTPassword:    os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix: getenvDefault("MQTT_TOPIC_PREFIX", "alice"),
	}
	if raw := strings.TrimSpace(os.Getenv("SIM_DEVICE_ALIASES")); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.Aliases = append(cfg.Aliases, a)
			}
		}
	}
	return cfg
}

// parseAliasList reads "alias=canonical,alias2=canonical2".
func parseAliasList(raw string) (map[string]string, error) {
	out := make(map[string]string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return nil, fmt.Errorf("invalid device alias entry: %q", pair)
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out, nil
}

func getenvDefault(key, val string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return val
}

func getenvIntDefault(key string, val int) int {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return val
	}
	return n
}
