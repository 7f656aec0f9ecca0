package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pomelo/internal/ai"
	"pomelo/internal/conversation"
	"pomelo/internal/model"
	"pomelo/internal/persona"
	"pomelo/internal/usage"
)

// ChatService 对话编排层
// 流程: 配额检查 -> 组装提示词 -> 调用模型 -> 成功后记账/存history
// 模型调用失败一律转为 persona 的兜底文案，不把底层错误抛给调用方
type ChatService struct {
	registry  *persona.Registry
	tracker   *usage.Tracker
	store     *conversation.Store
	generator ai.Generator
	sink      InteractionSink
}

// NewChatService 创建对话服务
func NewChatService(
	registry *persona.Registry,
	tracker *usage.Tracker,
	store *conversation.Store,
	generator ai.Generator,
	sink InteractionSink,
) *ChatService {
	if sink == nil {
		sink = LogSink{}
	}
	return &ChatService{
		registry:  registry,
		tracker:   tracker,
		store:     store,
		generator: generator,
		sink:      sink,
	}
}

// Chat 处理一次对话请求
// 两类业务失败（配额耗尽、模型失败）都作为正常响应返回，
// Error=true，由前端按助手消息渲染
func (s *ChatService) Chat(ctx context.Context, req *model.ChatRequest) *model.ChatResponse {
	logger := log.With().
		Str("user_id", req.UserID).
		Str("persona", req.Persona).
		Str("conversation_id", req.ConversationID).
		Logger()

	// 1. 解析人格（未知 id 回落默认）
	p := s.registry.Get(req.Persona)

	// 2. 配额检查：拒绝时不调模型、不记账、不写 history
	if s.tracker.Tracks(req.UserID) {
		allowed, resetAt := s.tracker.CheckAllowed(req.UserID)
		if !allowed {
			logger.Info().Time("reset_at", resetAt).Msg("daily limit reached")
			return &model.ChatResponse{
				Response: fmt.Sprintf(
					"You've reached your daily limit of %d messages. Your limit resets at %s.",
					s.tracker.DailyLimit(), resetAt.Format(time.RFC3339)),
				Model: s.generator.ModelID(),
				Error: true,
			}
		}
	}

	// 3. 组装最终提示词
	prompt := persona.Render(p, req.Context) + "\n\nUser Message: " + req.Message

	// 4. 调用模型（超时/空输出/错误统一算失败）
	// 调用期间不持有任何内部锁：配额在前面查过，记账在成功后做
	text, err := s.generator.Generate(ctx, prompt, ai.GenerateOptions{
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = ai.ErrEmptyResponse
	}
	if err != nil {
		logger.Error().Err(err).Msg("model call failed, returning fallback")
		s.sink.LogInteraction(ctx, newInteraction(req.UserID, p.ID, req.Context, true))
		return &model.ChatResponse{
			Response: p.FallbackResponse,
			Model:    s.generator.ModelID(),
			Error:    true,
		}
	}

	// 5. 成功提交：先记账，再写 history
	if s.tracker.Tracks(req.UserID) {
		s.tracker.Record(req.UserID)
	}
	if req.ConversationID != "" {
		s.store.Append(req.ConversationID, req.UserID, req.Message, text, req.Context)
	}

	s.sink.LogInteraction(ctx, newInteraction(req.UserID, p.ID, req.Context, false))

	return &model.ChatResponse{
		Response:       text,
		Model:          s.generator.ModelID(),
		ConversationID: req.ConversationID,
	}
}

// UsageInfo 用户配额查询
func (s *ChatService) UsageInfo(userID string) *model.UsageInfo {
	snap := s.tracker.Info(userID)
	return &model.UsageInfo{
		QuestionsUsed:      snap.Used,
		QuestionsRemaining: snap.Remaining,
		ResetDate:          snap.ResetAt.Format(time.RFC3339),
		Model:              s.generator.ModelID(),
		DailyLimit:         s.tracker.DailyLimit(),
	}
}

// ResetUsage 管理员重置用户配额
func (s *ChatService) ResetUsage(userID string) {
	s.tracker.Reset(userID)
	log.Info().Str("user_id", userID).Msg("usage reset by admin")
}

// Stats 服务统计
func (s *ChatService) Stats() (conversation.Stats, int) {
	return s.store.Stats(), s.tracker.ActiveToday()
}

// Conversations 对话存储访问（handler 用）
func (s *ChatService) Conversations() *conversation.Store {
	return s.store
}

// Personas 人格注册表访问（handler/配置快照用）
func (s *ChatService) Personas() *persona.Registry {
	return s.registry
}

// Tracking 配额统计是否开启
func (s *ChatService) Tracking() bool {
	return s.tracker.Enabled()
}
