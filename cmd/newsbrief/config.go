package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/bselic/newsbrief/internal/storage/factory"
	"github.com/bselic/newsbrief/internal/summarizer"
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type NewsbriefConfig struct {
	GeminiAPIKey string
	GeminiModel  string
	Prompts      summarizer.Prompts
	factory.StorageConfig
}

func (as *AppConfig) Load() (*NewsbriefConfig, error) {
	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		slog.Error("GEMINI_API_KEY environment variable is not set")
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}

	prompts := summarizer.DefaultPrompts()
	if path := os.Getenv("PROMPTS_CONFIG_PATH"); path != "" {
		loaded, err := summarizer.LoadPromptsFile(path)
		if err != nil {
			slog.Error("Failed to load prompts config", "path", path, "error", err)
			return nil, err
		}
		prompts = *loaded
	}

	cfg := &NewsbriefConfig{
		GeminiAPIKey:  apiKey,
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
		Prompts:       prompts,
		StorageConfig: *storageCfg,
	}

	return cfg, nil
}
