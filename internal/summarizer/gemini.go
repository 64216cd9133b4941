package summarizer

import (
	"context"
	"fmt"

	"github.com/bselic/newsbrief/internal/apperr"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-1.5-flash"

type GeminiConfig struct {
	APIKey string
	Model  string
}

// Gemini generates summaries through the Gemini streaming API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) ChunkSeq {
	return func(yield func(string, error) bool) {
		stream := g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), nil)
		for resp, err := range stream {
			if err != nil {
				yield("", fmt.Errorf("%w: %v", apperr.ErrGenerationFailed, err))
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}
