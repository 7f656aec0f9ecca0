package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"pomelo/internal/ai"
	"pomelo/internal/config"
	"pomelo/internal/conversation"
	"pomelo/internal/handler"
	"pomelo/internal/persona"
	"pomelo/internal/pkg/cache"
	"pomelo/internal/pkg/mongodb"
	"pomelo/internal/ratelimit"
	"pomelo/internal/repository"
	"pomelo/internal/server/middleware"
	"pomelo/internal/service"
	"pomelo/internal/usage"
)

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
}

// New 创建服务器实例
// 核心状态（人格/配额/对话）全部显式构造注入，没有进程级全局
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 人格注册表：覆盖项不合法直接失败
	registry, err := persona.NewRegistry(cfg.Chat.DefaultPersona, cfg.Chat.Personas)
	if err != nil {
		return nil, fmt.Errorf("failed to load personas: %w", err)
	}

	// AI 客户端
	aiClient, err := ai.NewClient(context.Background(), &cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	tracker := usage.NewTracker(cfg.Chat.DailyLimit, cfg.Chat.AnonymousUser, cfg.Chat.UsageTracking)
	store := conversation.NewStore(cfg.Chat.MaxConversations)

	// 交互观测落点：配了 MongoDB 就归档，否则写日志
	var sink service.InteractionSink = service.LogSink{}
	var mongoClient *mongodb.Client
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(&cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, interaction archiving disabled")
		} else {
			mongoClient = client
			sink = repository.NewInteractionRepo(client.Database())
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
		}
	}

	// 限流后端：配了 Redis 用 Redis，否则进程内窗口
	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, using in-memory rate limiter")
		} else {
			limiter = ratelimit.NewRedisLimiter(rc, cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	chatSvc := service.NewChatService(registry, tracker, store, aiClient, sink)

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		mongo:  mongoClient,
	}

	// 设置路由
	srv.setupRoutes(chatSvc, limiter)

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(chatSvc *service.ChatService, limiter ratelimit.Limiter) {
	// 全局中间件
	s.engine.Use(middleware.Recovery(s.cfg.Server.Mode == "debug"))
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS(s.cfg.CORS.AllowedOrigins))

	// 健康检查
	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// 公开配置快照
	configHandler := handler.NewConfigHandler(chatSvc, s.cfg)
	s.engine.GET("/config", configHandler.Config)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Chat 接口（仅发消息走限流）
	chatHandler := handler.NewChatHandler(chatSvc, s.cfg.Chat.AnonymousUser)
	s.engine.POST("/chat", middleware.RateLimit(limiter), chatHandler.Chat)
	s.engine.GET("/chat/usage/:userId", chatHandler.Usage)
	s.engine.GET("/chat/conversation/:conversationId", chatHandler.GetConversation)
	s.engine.GET("/chat/conversations/:userId", chatHandler.ListConversations)
	s.engine.DELETE("/chat/conversation/:conversationId", chatHandler.DeleteConversation)

	// 管理接口（共享管理令牌）
	adminHandler := handler.NewAdminHandler(chatSvc, s.cfg)
	admin := s.engine.Group("/admin")
	admin.Use(middleware.AdminAuth(s.cfg.Admin.Token))
	{
		admin.GET("/stats", adminHandler.Stats)
		admin.POST("/reset-usage/:userId", adminHandler.ResetUsage)
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
