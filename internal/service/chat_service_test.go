package service

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pomelo/internal/ai"
	"pomelo/internal/conversation"
	"pomelo/internal/model"
	"pomelo/internal/persona"
	"pomelo/internal/usage"
)

// stubGenerator 可编程的模型桩
type stubGenerator struct {
	reply      string
	err        error
	calls      int
	lastPrompt string
	lastOpts   ai.GenerateOptions
}

func (g *stubGenerator) Generate(_ context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	g.lastOpts = opts
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *stubGenerator) ModelID() string { return "test-model" }

// sinkRecorder 记录交互日志调用
type sinkRecorder struct {
	interactions []model.Interaction
}

func (r *sinkRecorder) LogInteraction(_ context.Context, it model.Interaction) {
	r.interactions = append(r.interactions, it)
}

func newTestService(dailyLimit int, gen ai.Generator, sink InteractionSink) *ChatService {
	registry, err := persona.NewRegistry("assistant", nil)
	if err != nil {
		panic(err)
	}
	tracker := usage.NewTracker(dailyLimit, "anonymous", true)
	store := conversation.NewStore(100)
	return NewChatService(registry, tracker, store, gen, sink)
}

func TestChatService(t *testing.T) {
	Convey("ChatService 编排配额、提示词和模型调用", t, func() {
		ctx := context.Background()

		Convey("成功路径：返回模型输出并记账", func() {
			gen := &stubGenerator{reply: "Sure, here is how."}
			svc := newTestService(5, gen, nil)

			resp := svc.Chat(ctx, &model.ChatRequest{
				Message: "explain slices",
				UserID:  "alice",
			})

			So(resp.Error, ShouldBeFalse)
			So(resp.Response, ShouldEqual, "Sure, here is how.")
			So(resp.Model, ShouldEqual, "test-model")
			So(svc.UsageInfo("alice").QuestionsUsed, ShouldEqual, 1)
		})

		Convey("提示词 = 人格系统提示 + 上下文 + 用户消息", func() {
			gen := &stubGenerator{reply: "ok"}
			svc := newTestService(5, gen, nil)

			svc.Chat(ctx, &model.ChatRequest{
				Message: "help me",
				UserID:  "alice",
				Persona: "tutor",
				Context: &model.ChatContext{Subject: "Go"},
			})

			So(gen.lastPrompt, ShouldContainSubstring, "educational AI tutor")
			So(gen.lastPrompt, ShouldContainSubstring, "- Subject: Go")
			So(gen.lastPrompt, ShouldEndWith, "\n\nUser Message: help me")
			// 生成参数用 tutor 的而不是全局默认
			So(gen.lastOpts.Temperature, ShouldEqual, 0.7)
			So(gen.lastOpts.MaxTokens, ShouldEqual, 300)
		})

		Convey("dailyLimit=2 时 alice 的第三次调用被拒", func() {
			gen := &stubGenerator{reply: "answer"}
			svc := newTestService(2, gen, nil)

			req := &model.ChatRequest{Message: "q", UserID: "alice"}

			r1 := svc.Chat(ctx, req)
			So(r1.Error, ShouldBeFalse)
			So(svc.UsageInfo("alice").QuestionsUsed, ShouldEqual, 1)

			r2 := svc.Chat(ctx, req)
			So(r2.Error, ShouldBeFalse)
			So(svc.UsageInfo("alice").QuestionsUsed, ShouldEqual, 2)

			r3 := svc.Chat(ctx, req)
			So(r3.Error, ShouldBeTrue)
			So(r3.Response, ShouldContainSubstring, "daily limit of 2")
			So(r3.Response, ShouldContainSubstring, "resets at")

			// 被拒的调用不碰模型也不消耗配额
			So(gen.calls, ShouldEqual, 2)
			So(svc.UsageInfo("alice").QuestionsUsed, ShouldEqual, 2)
		})

		Convey("模型失败返回人格兜底文案，状态不变", func() {
			gen := &stubGenerator{err: errors.New("provider exploded")}
			svc := newTestService(5, gen, nil)

			resp := svc.Chat(ctx, &model.ChatRequest{
				Message:        "review this",
				UserID:         "alice",
				ConversationID: "conv-1",
				Persona:        "tutor",
			})

			So(resp.Error, ShouldBeTrue)
			So(resp.Response, ShouldEqual,
				"I'm having trouble right now, but try breaking down the problem into smaller steps. What specific part would you like to explore first?")

			// 失败不消耗配额，也不写对话
			So(svc.UsageInfo("alice").QuestionsUsed, ShouldEqual, 0)
			_, err := svc.Conversations().Get("conv-1")
			So(err, ShouldEqual, conversation.ErrNotFound)
		})

		Convey("空输出算失败", func() {
			gen := &stubGenerator{reply: ""}
			svc := newTestService(5, gen, nil)

			resp := svc.Chat(ctx, &model.ChatRequest{Message: "q", UserID: "alice"})
			So(resp.Error, ShouldBeTrue)
			So(resp.Response, ShouldEqual,
				"I apologize, but I'm experiencing technical difficulties. Please try rephrasing your question or try again in a moment.")
			So(svc.UsageInfo("alice").QuestionsUsed, ShouldEqual, 0)
		})

		Convey("带 conversationId 的成功调用写入对话", func() {
			gen := &stubGenerator{reply: "answer"}
			svc := newTestService(5, gen, nil)

			svc.Chat(ctx, &model.ChatRequest{
				Message:        "q1",
				UserID:         "alice",
				ConversationID: "conv-1",
			})

			conv, err := svc.Conversations().Get("conv-1")
			So(err, ShouldBeNil)
			So(conv.Messages, ShouldHaveLength, 1)
			So(conv.Messages[0].Message, ShouldEqual, "q1")
			So(conv.Messages[0].Response, ShouldEqual, "answer")
		})

		Convey("匿名用户不受配额限制", func() {
			gen := &stubGenerator{reply: "answer"}
			svc := newTestService(1, gen, nil)

			req := &model.ChatRequest{Message: "q", UserID: "anonymous"}
			for i := 0; i < 5; i++ {
				resp := svc.Chat(ctx, req)
				So(resp.Error, ShouldBeFalse)
			}
			So(gen.calls, ShouldEqual, 5)
		})

		Convey("未知人格回落默认人格", func() {
			gen := &stubGenerator{reply: "ok"}
			svc := newTestService(5, gen, nil)

			svc.Chat(ctx, &model.ChatRequest{Message: "q", UserID: "alice", Persona: "ghost"})
			So(gen.lastPrompt, ShouldContainSubstring, "helpful AI assistant")
		})

		Convey("交互日志：成功和失败都记录，含 context 类型", func() {
			sink := &sinkRecorder{}
			gen := &stubGenerator{reply: "ok"}
			svc := newTestService(5, gen, sink)

			svc.Chat(ctx, &model.ChatRequest{
				Message: "q",
				UserID:  "alice",
				Persona: "tutor",
				Context: &model.ChatContext{Subject: "Algorithms"},
			})

			gen.err = errors.New("down")
			svc.Chat(ctx, &model.ChatRequest{Message: "q", UserID: "alice"})

			So(sink.interactions, ShouldHaveLength, 2)
			So(sink.interactions[0].Persona, ShouldEqual, "tutor")
			So(sink.interactions[0].ContextType, ShouldEqual, "Algorithms")
			So(sink.interactions[0].Failed, ShouldBeFalse)
			So(sink.interactions[1].ContextType, ShouldEqual, "general")
			So(sink.interactions[1].Failed, ShouldBeTrue)
		})

		Convey("ResetUsage 清零后可以继续提问", func() {
			gen := &stubGenerator{reply: "ok"}
			svc := newTestService(1, gen, nil)

			req := &model.ChatRequest{Message: "q", UserID: "alice"}
			svc.Chat(ctx, req)
			So(svc.Chat(ctx, req).Error, ShouldBeTrue)

			svc.ResetUsage("alice")
			So(svc.Chat(ctx, req).Error, ShouldBeFalse)
		})
	})
}
