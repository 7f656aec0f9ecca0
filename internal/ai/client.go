package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pomelo/internal/config"
)

// ErrEmptyResponse 模型返回了空文本，按调用失败处理
var ErrEmptyResponse = errors.New("empty response from model")

// GenerateOptions 单次调用的生成参数（来自 persona）
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// Generator 生成式模型的统一抽象：提示词进，文本出
// orchestrator 只依赖这个接口，测试时注入桩实现
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	ModelID() string
}

// backend 具体 provider 的薄封装
type backend interface {
	generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Client AI 能力层客户端
// 统一处理调用超时和空响应判定，provider 差异收在 backend 里
type Client struct {
	cfg     *config.AIConfig
	backend backend
}

// NewClient 创建 AI 客户端
func NewClient(ctx context.Context, cfg *config.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		log.Warn().Str("provider", cfg.Provider).Msg("AI API key not configured")
	}

	var (
		b   backend
		err error
	)
	switch cfg.Provider {
	case "gemini", "":
		b, err = newGeminiBackend(ctx, cfg)
	case "openai", "azure", "ark":
		b, err = newEinoBackend(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s backend: %w", cfg.Provider, err)
	}

	return &Client{cfg: cfg, backend: b}, nil
}

// Generate 执行一次模型调用
// 调用带超时；超时与空输出都算 provider 失败，由上层兜底
func (c *Client) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := c.backend.generate(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// ModelID 当前配置的模型标识
func (c *Client) ModelID() string {
	return c.cfg.Model
}
