package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"pomelo/internal/model"
)

// InteractionSink 交互观测落点
// 注入给 orchestrator，实现方不能阻塞请求链路
type InteractionSink interface {
	LogInteraction(ctx context.Context, it model.Interaction)
}

// LogSink 默认实现：写结构化日志
type LogSink struct{}

// LogInteraction 输出一条交互日志
func (LogSink) LogInteraction(_ context.Context, it model.Interaction) {
	log.Info().
		Time("timestamp", it.Timestamp).
		Str("user_id", it.UserID).
		Str("persona", it.Persona).
		Bool("has_context", it.HasContext).
		Str("context_type", it.ContextType).
		Bool("failed", it.Failed).
		Msg("chat interaction")
}

// newInteraction 组装一条交互记录
// context_type 取 subject，其次题目标题，否则 general
func newInteraction(userID, personaID string, ctx *model.ChatContext, failed bool) model.Interaction {
	contextType := "general"
	if ctx != nil {
		switch {
		case ctx.Subject != "":
			contextType = ctx.Subject
		case ctx.Problem != nil && ctx.Problem.Title != "":
			contextType = ctx.Problem.Title
		}
	}

	return model.Interaction{
		Timestamp:   time.Now(),
		UserID:      userID,
		Persona:     personaID,
		HasContext:  ctx != nil,
		ContextType: contextType,
		Failed:      failed,
	}
}
