// Package ai generates short texts with the Gemini API.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
	"stock-tracker.backend/internal/config"
)

const defaultTemperature float32 = 0.7

var ErrNotConfigured = errors.New("ai generation is not configured")

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiGenerator wraps a genai client bound to one model.
type GeminiGenerator struct {
	model    string
	timeout  time.Duration
	generate generateFunc
}

// NewGeminiGenerator creates a client for the Gemini API backend.
func NewGeminiGenerator(ctx context.Context, cfg config.AIConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiGenerator{
		model:    cfg.Model,
		timeout:  cfg.Timeout,
		generate: client.Models.GenerateContent,
	}, nil
}

// GenerateText sends a single user prompt and returns the trimmed reply.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.generate(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(defaultTemperature),
		MaxOutputTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil {
		return "", errors.New("GenAI returned no response")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("GenAI returned an empty completion")
	}
	return text, nil
}

// Disabled answers every request with ErrNotConfigured.
type Disabled struct{}

func (Disabled) GenerateText(context.Context, string, int32) (string, error) {
	return "", ErrNotConfigured
}
