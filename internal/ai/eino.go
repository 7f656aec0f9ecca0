package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"pomelo/internal/ai/component"
	"pomelo/internal/config"
)

// einoBackend 通过 Eino ChatModel 调用 openai/azure/ark
type einoBackend struct {
	chatModel model.ChatModel
}

func newEinoBackend(ctx context.Context, cfg *config.AIConfig) (*einoBackend, error) {
	cm, err := component.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return &einoBackend{chatModel: cm}, nil
}

func (b *einoBackend) generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	var callOpts []model.Option
	if opts.Temperature > 0 {
		callOpts = append(callOpts, model.WithTemperature(float32(opts.Temperature)))
	}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, model.WithMaxTokens(opts.MaxTokens))
	}

	msg, err := b.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)}, callOpts...)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}
