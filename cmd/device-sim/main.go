// device-sim is a stand-in playback device for local development. It
// announces itself over MQTT, keeps a fake player state, and answers exec
// requests the way a real speaker would.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"alice/internal/config"
	"alice/internal/domain"
	"alice/internal/mqtt"
)

type playerState struct {
	mu       sync.Mutex
	playing  bool
	position int
	volume   int
	muted    bool
	shuffle  bool
	repeat   bool
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.LoadDeviceSimConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	player := &playerState{volume: 50}

	client, err := startMQTT(ctx, cfg, player, logger)
	if err != nil {
		logger.Error("start device mqtt failed", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(100)

	logger.Info("device simulator started",
		"device_id", cfg.DeviceID,
		"name", cfg.DeviceName,
		"broker", cfg.MQTTBrokerURL,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-ctx.Done():
	}
}

func startMQTT(ctx context.Context, cfg config.DeviceSimConfig, player *playerState, logger *slog.Logger) (paho.Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.MQTTBrokerURL).
		SetClientID(cfg.MQTTClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}
	opts.SetWill(mqtt.TopicOnline(cfg.MQTTTopicPrefix, cfg.DeviceID), "offline", 1, true)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	report, _ := json.Marshal(domain.DeviceReport{
		DeviceID: cfg.DeviceID,
		Name:     cfg.DeviceName,
		Aliases:  cfg.Aliases,
	})
	if token := client.Publish(mqtt.TopicAnnounce(cfg.MQTTTopicPrefix, cfg.DeviceID), 1, true, report); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	if token := client.Publish(mqtt.TopicOnline(cfg.MQTTTopicPrefix, cfg.DeviceID), 1, true, "online"); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	execTopic := fmt.Sprintf("%s/device/%s/exec/+", cfg.MQTTTopicPrefix, cfg.DeviceID)
	if token := client.Subscribe(execTopic, 1, func(_ paho.Client, msg paho.Message) {
		var req domain.ExecRequest
		if err := json.Unmarshal(msg.Payload(), &req); err != nil {
			logger.Error("invalid exec payload", "error", err)
			return
		}
		result := player.apply(req)
		logger.Info("executed tool", "tool", req.Call.Name, "ok", result.OK, "output", result.Output)

		buf, _ := json.Marshal(result)
		resultTopic := mqtt.TopicResult(cfg.MQTTTopicPrefix, cfg.DeviceID, req.RequestID)
		if tk := client.Publish(resultTopic, 1, false, buf); tk.Wait() && tk.Error() != nil {
			logger.Error("publish result failed", "error", tk.Error())
		}
	}); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	sayTopic := fmt.Sprintf("%s/session/+/say", cfg.MQTTTopicPrefix)
	if token := client.Subscribe(sayTopic, 1, func(_ paho.Client, msg paho.Message) {
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
			return
		}
		logger.Info("tts", "text", payload.Text)
	}); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	heartbeatTopic := mqtt.TopicHeartbeat(cfg.MQTTTopicPrefix, cfg.DeviceID)
	go func() {
		ticker := time.NewTicker(20 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				client.Publish(heartbeatTopic, 0, false, []byte("1"))
			}
		}
	}()

	go func() {
		<-ctx.Done()
		client.Publish(mqtt.TopicOnline(cfg.MQTTTopicPrefix, cfg.DeviceID), 1, true, "offline")
	}()

	return client, nil
}

func (p *playerState) apply(req domain.ExecRequest) domain.ExecResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := domain.ExecResult{RequestID: req.RequestID, OK: true}
	args := req.Call.Args

	switch req.Call.Name {
	case domain.ToolPlay:
		p.playing = true
	case domain.ToolPause, domain.ToolStop:
		p.playing = false
	case domain.ToolNext, domain.ToolPrev:
		p.position = 0
	case domain.ToolSeek:
		if pos, ok := intArg(args, "position"); ok {
			p.position = pos
		} else if sec, ok := intArg(args, "seconds"); ok {
			if dir, _ := args["direction"].(string); dir == "BACK" {
				sec = -sec
			}
			p.position += sec
			if p.position < 0 {
				p.position = 0
			}
		}
		result.Output = fmt.Sprintf("Position %d sekunder.", p.position)
	case domain.ToolSetVolume:
		if level, ok := intArg(args, "level"); ok {
			p.volume = level
		} else if delta, ok := intArg(args, "delta"); ok {
			p.volume += delta
		}
		if p.volume < 0 {
			p.volume = 0
		}
		if p.volume > 100 {
			p.volume = 100
		}
		result.Output = fmt.Sprintf("Volymen är nu %d.", p.volume)
	case domain.ToolMute:
		p.muted = true
	case domain.ToolUnmute:
		p.muted = false
	case domain.ToolRepeat:
		p.repeat = !p.repeat
	case domain.ToolShuffle:
		p.shuffle = !p.shuffle
	case domain.ToolLike, domain.ToolUnlike:
		// no local state to keep
	case domain.ToolTransfer:
		p.playing = true
	default:
		result.OK = false
		result.Error = fmt.Sprintf("unknown tool: %s", req.Call.Name)
	}
	return result
}

// intArg reads a numeric argument; JSON decoding gives float64.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
