package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"alice/internal/devices"
	"alice/internal/domain"
)

type HubConfig struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// Interrupter receives barge-in notifications from the audio front end.
type Interrupter interface {
	Interrupt(sessionID string) bool
}

// Hub is the MQTT glue between the core and the playback devices: device
// announcements feed the registry, routed calls go out as exec requests,
// results come back on a correlated reply topic, and barge-in events reach
// the orchestrator.
type Hub struct {
	cfg      HubConfig
	client   paho.Client
	registry *devices.Registry
	logger   *slog.Logger

	interrupterMu sync.RWMutex
	interrupter   Interrupter

	pendingMu sync.Mutex
	pending   map[string]chan domain.ExecResult
}

func NewHub(cfg HubConfig, registry *devices.Registry, interrupter Interrupter, logger *slog.Logger) *Hub {
	return &Hub{
		cfg:         cfg,
		registry:    registry,
		interrupter: interrupter,
		logger:      logger,
		pending:     make(map[string]chan domain.ExecResult),
	}
}

// SetInterrupter installs the barge-in receiver after construction; the
// orchestrator needs the hub as executor, so there is a wiring cycle to
// break at startup. Safe to call concurrently with message handling.
func (h *Hub) SetInterrupter(i Interrupter) {
	h.interrupterMu.Lock()
	defer h.interrupterMu.Unlock()
	h.interrupter = i
}

func (h *Hub) getInterrupter() Interrupter {
	h.interrupterMu.RLock()
	defer h.interrupterMu.RUnlock()
	return h.interrupter
}

func (h *Hub) Start(ctx context.Context) error {
	opts := paho.NewClientOptions().
		AddBroker(h.cfg.BrokerURL).
		SetClientID(h.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	if h.cfg.Username != "" {
		opts.SetUsername(h.cfg.Username)
		opts.SetPassword(h.cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		h.logger.Error("mqtt connection lost", "error", err)
	})

	h.client = paho.NewClient(opts)
	if token := h.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	if err := h.subscribeHandlers(); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		h.client.Disconnect(100)
	}()

	return nil
}

func (h *Hub) subscribeHandlers() error {
	if token := h.client.Subscribe(TopicDeviceAnnounce(h.cfg.TopicPrefix), 1, h.handleAnnounce); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := h.client.Subscribe(TopicDeviceOnline(h.cfg.TopicPrefix), 1, h.handleOnline); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := h.client.Subscribe(TopicDeviceHeartbeat(h.cfg.TopicPrefix), 1, h.handleHeartbeat); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := h.client.Subscribe(TopicDeviceResult(h.cfg.TopicPrefix), 1, h.handleExecResult); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := h.client.Subscribe(TopicSessionBargeIn(h.cfg.TopicPrefix), 1, h.handleBargeIn); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (h *Hub) handleAnnounce(_ paho.Client, msg paho.Message) {
	deviceID, err := ParseDeviceID(msg.Topic(), h.cfg.TopicPrefix)
	if err != nil {
		h.logger.Warn("skip invalid announce topic", "topic", msg.Topic(), "error", err)
		return
	}

	var report domain.DeviceReport
	if err := json.Unmarshal(msg.Payload(), &report); err != nil {
		h.logger.Warn("invalid device report", "device_id", deviceID, "error", err)
		return
	}
	if report.DeviceID == "" {
		report.DeviceID = deviceID
	}
	if report.DeviceID != deviceID {
		h.logger.Warn("device report id mismatch", "topic_device", deviceID, "payload_device", report.DeviceID)
		return
	}

	h.registry.SetDevice(report)
	h.logger.Info("device announced", "device_id", deviceID, "name", report.Name, "alias_count", len(report.Aliases))
}

func (h *Hub) handleOnline(_ paho.Client, msg paho.Message) {
	deviceID, err := ParseDeviceID(msg.Topic(), h.cfg.TopicPrefix)
	if err != nil {
		h.logger.Warn("skip invalid online topic", "topic", msg.Topic(), "error", err)
		return
	}
	payload := strings.TrimSpace(strings.ToLower(string(msg.Payload())))
	online := payload == "1" || payload == "true" || payload == "online"
	h.registry.SetOnline(deviceID, online)
	h.logger.Info("device online status", "device_id", deviceID, "online", online)
}

func (h *Hub) handleHeartbeat(_ paho.Client, msg paho.Message) {
	deviceID, err := ParseDeviceID(msg.Topic(), h.cfg.TopicPrefix)
	if err != nil {
		h.logger.Warn("skip invalid heartbeat topic", "topic", msg.Topic(), "error", err)
		return
	}
	h.registry.SetOnline(deviceID, true)
}

func (h *Hub) handleExecResult(_ paho.Client, msg paho.Message) {
	requestID := ParseRequestID(msg.Topic())
	if requestID == "" {
		return
	}

	var result domain.ExecResult
	if err := json.Unmarshal(msg.Payload(), &result); err != nil {
		h.logger.Warn("invalid exec result", "topic", msg.Topic(), "error", err)
		return
	}
	if result.RequestID == "" {
		result.RequestID = requestID
	}

	h.pendingMu.Lock()
	ch, ok := h.pending[result.RequestID]
	h.pendingMu.Unlock()
	if !ok {
		return
	}

	select {
	case ch <- result:
	default:
	}
}

func (h *Hub) handleBargeIn(_ paho.Client, msg paho.Message) {
	sessionID, err := ParseSessionID(msg.Topic(), h.cfg.TopicPrefix)
	if err != nil {
		h.logger.Warn("skip invalid bargein topic", "topic", msg.Topic(), "error", err)
		return
	}

	var event domain.BargeInEvent
	if len(msg.Payload()) > 0 {
		if err := json.Unmarshal(msg.Payload(), &event); err != nil {
			h.logger.Warn("invalid bargein payload", "session_id", sessionID, "error", err)
		}
	}
	if event.SessionID == "" {
		event.SessionID = sessionID
	}

	interrupter := h.getInterrupter()
	if interrupter == nil {
		return
	}
	interrupted := interrupter.Interrupt(event.SessionID)
	h.logger.Info("bargein received", "session_id", event.SessionID, "source", event.Source, "interrupted", interrupted)
}

// Execute publishes the routed call to the device and waits for the
// correlated result. Implements orchestrator.ToolExecutor.
func (h *Hub) Execute(ctx context.Context, deviceID string, call domain.RoutedCall) (domain.ExecResult, error) {
	if deviceID == "" {
		return domain.ExecResult{}, fmt.Errorf("no target device")
	}

	requestID := uuid.NewString()
	body, err := json.Marshal(domain.ExecRequest{RequestID: requestID, Call: call})
	if err != nil {
		return domain.ExecResult{}, err
	}

	resultCh := make(chan domain.ExecResult, 1)
	h.pendingMu.Lock()
	h.pending[requestID] = resultCh
	h.pendingMu.Unlock()
	defer func() {
		h.pendingMu.Lock()
		delete(h.pending, requestID)
		h.pendingMu.Unlock()
	}()

	topic := TopicExec(h.cfg.TopicPrefix, deviceID, requestID)
	if token := h.client.Publish(topic, 1, false, body); token.Wait() && token.Error() != nil {
		return domain.ExecResult{}, token.Error()
	}

	select {
	case <-ctx.Done():
		return domain.ExecResult{}, ctx.Err()
	case result := <-resultCh:
		if !result.OK {
			if result.Error == "" {
				result.Error = "tool execution failed"
			}
			return result, fmt.Errorf("%s", result.Error)
		}
		return result, nil
	case <-time.After(20 * time.Second):
		return domain.ExecResult{}, fmt.Errorf("tool timeout")
	}
}

// Speak publishes the reply text for the session's terminal to synthesize.
// Implements orchestrator.Speaker.
func (h *Hub) Speak(_ context.Context, sessionID, text string) error {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}
	topic := TopicSay(h.cfg.TopicPrefix, sessionID)
	if token := h.client.Publish(topic, 1, false, payload); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}
