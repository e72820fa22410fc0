package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/qcpilot/qcpilot/internal/api"
	"github.com/qcpilot/qcpilot/internal/config"
	"github.com/qcpilot/qcpilot/internal/events"
	"github.com/qcpilot/qcpilot/internal/gemini"
	"github.com/qcpilot/qcpilot/internal/interpret"
	"github.com/qcpilot/qcpilot/internal/processor"
	"github.com/qcpilot/qcpilot/internal/session"
	"github.com/qcpilot/qcpilot/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("qcpilot starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// Gemini client
	if cfg.GeminiAPIKey == "" {
		slog.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	llm := gemini.NewClient(gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		Generation: gemini.DefaultGenerationConfig(),
		Safety:     gemini.DefaultSafetySettings(),
	})
	slog.Info("gemini client ready", "model", cfg.GeminiModel)

	// Interpretation + analysis
	interp := interpret.New()
	timeout := time.Duration(cfg.ProviderTimeout) * time.Second
	analyzer := session.NewAnalyzer(llm, interp, slog.Default(), timeout)
	sessions := session.NewManager(llm, interp, slog.Default(), timeout)

	// NATS
	eventsClient, err := events.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventsClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	// Processor — automated QC over submitted ratings
	proc := processor.New(db, analyzer, eventsClient, slog.Default())
	if err := eventsClient.Subscribe(events.SubjectRatingSubmitted, proc.HandleRatingSubmitted); err != nil {
		slog.Error("failed to subscribe to rating events", "error", err)
		os.Exit(1)
	}

	// HTTP API
	srv := api.NewServer(api.Deps{
		Port:     cfg.Port,
		APIToken: cfg.APIToken,
		Store:    db,
		Sessions: sessions,
		Analyzer: analyzer,
		Events:   eventsClient,
		Logger:   slog.Default(),
	})
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("qcpilot ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("qcpilot stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
