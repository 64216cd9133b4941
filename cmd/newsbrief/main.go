package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bselic/newsbrief/internal/extractor"
	"github.com/bselic/newsbrief/internal/pipeline"
	"github.com/bselic/newsbrief/internal/router"
	"github.com/bselic/newsbrief/internal/server"
	"github.com/bselic/newsbrief/internal/storage/factory"
	"github.com/bselic/newsbrief/internal/summarizer"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	stores, err := factory.New(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	gemini, err := summarizer.NewGemini(ctx, summarizer.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	if err != nil {
		slog.Error("Failed to create Gemini client", "error", err)
		os.Exit(1)
	}

	orchestrator := pipeline.NewOrchestrator(
		stores.Contents,
		stores.Links,
		stores.Users,
		extractor.NewReadabilityExtractor(),
		gemini,
		cfg.Prompts,
	)

	s := server.NewServer(sCfg).
		SetupHealthChecks("/health", stores.Health)

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "newsbrief API is running")
	})

	router.NewNewsRouter(s.Echo, orchestrator, stores.Contents, stores.Users).Bind()
	router.NewUsersRouter(s.Echo, stores.Users).Bind()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
