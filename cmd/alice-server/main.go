package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"alice/internal/config"
	"alice/internal/db"
	"alice/internal/devices"
	"alice/internal/domain"
	"alice/internal/llm"
	"alice/internal/mqtt"
	"alice/internal/nlu"
	"alice/internal/orchestrator"
	"alice/internal/turn"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadAliceServerConfig()
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store *db.Store
	if cfg.DBDSN != "" {
		store, err = db.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Error("connect db failed", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			logger.Error("migrate db failed", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("no DB_DSN set, turn persistence disabled")
	}

	deviceRegistry := devices.NewRegistry(cfg.DeviceTTL)
	deviceRegistry.Seed(cfg.DeviceAliases)

	mqttHub := mqtt.NewHub(mqtt.HubConfig{
		BrokerURL:   cfg.MQTTBrokerURL,
		ClientID:    cfg.MQTTClientID,
		Username:    cfg.MQTTUsername,
		Password:    cfg.MQTTPassword,
		TopicPrefix: cfg.MQTTTopicPrefix,
	}, deviceRegistry, nil, logger)

	fallback := llm.NewInterpreter(llm.Config{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
	})
	if fallback == nil {
		logger.Info("no LLM_API_KEY set, fallback interpretation disabled")
	}

	router := nlu.NewRouter(deviceRegistry, logger)
	turns := turn.NewRegistry()

	var turnStore orchestrator.TurnStore
	if store != nil {
		turnStore = store
	}
	orch := orchestrator.New(orchestrator.Config{
		DefaultDevice: cfg.DefaultDevice,
		ToolTimeout:   cfg.ToolTimeout,
	}, router, turns, mqttHub, mqttHub, fallback, turnStore, logger)
	mqttHub.SetInterrupter(orch)

	// Connect only after the barge-in receiver is wired, so no message can
	// arrive before the orchestrator is in place.
	if err := mqttHub.Start(ctx); err != nil {
		logger.Error("start mqtt hub failed", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Post("/v1/route", func(w http.ResponseWriter, req *http.Request) {
		var routeReq domain.RouteRequest
		if err := json.NewDecoder(req.Body).Decode(&routeReq); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
			return
		}
		if strings.TrimSpace(routeReq.Text) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "text is required"})
			return
		}

		writeJSON(w, http.StatusOK, domain.RouteResponse{
			Call:  router.Route(routeReq.Text),
			Match: nlu.Classify(routeReq.Text),
		})
	})
	r.Post("/v1/turn", func(w http.ResponseWriter, req *http.Request) {
		var turnReq domain.TurnRequest
		if err := json.NewDecoder(req.Body).Decode(&turnReq); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
			return
		}
		if turnReq.SessionID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "session_id is required"})
			return
		}
		if strings.TrimSpace(turnReq.Text) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "text is required"})
			return
		}

		resp, err := orch.HandleUtterance(req.Context(), turnReq.SessionID, turnReq.Text)
		if err != nil {
			logger.Error("turn failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, resp)
	})
	r.Post("/v1/sessions/{sessionID}/interrupt", func(w http.ResponseWriter, req *http.Request) {
		sessionID := chi.URLParam(req, "sessionID")
		writeJSON(w, http.StatusOK, map[string]any{"interrupted": orch.Interrupt(sessionID)})
	})
	r.Get("/v1/sessions/{sessionID}/turns", func(w http.ResponseWriter, req *http.Request) {
		if store == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "turn persistence is disabled"})
			return
		}
		sessionID := chi.URLParam(req, "sessionID")
		limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
		records, err := store.RecentTurns(req.Context(), sessionID, limit)
		if err != nil {
			logger.Error("list turns failed", "session_id", sessionID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"turns": records})
	})
	r.Get("/v1/devices", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"devices": deviceRegistry.ListOnline()})
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("alice server started", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
