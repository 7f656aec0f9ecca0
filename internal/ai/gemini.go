package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"pomelo/internal/config"
)

// geminiBackend 通过 Google GenAI SDK 调用 Gemini
type geminiBackend struct {
	client *genai.Client
	model  string
}

func newGeminiBackend(ctx context.Context, cfg *config.AIConfig) (*geminiBackend, error) {
	clientCfg := &genai.ClientConfig{
		APIKey: cfg.APIKey,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	m := cfg.Model
	if m == "" {
		m = "gemini-1.5-flash"
	}

	return &geminiBackend{client: client, model: m}, nil
}

func (b *geminiBackend) generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	genCfg := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		genCfg.Temperature = genai.Ptr(float32(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(opts.MaxTokens)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	return resp.Text(), nil
}
