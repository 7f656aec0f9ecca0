package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pomelo/internal/config"
	"pomelo/internal/model"
	"pomelo/internal/service"
)

// AdminHandler 管理接口处理器
type AdminHandler struct {
	svc       *service.ChatService
	cfg       *config.Config
	startedAt time.Time
}

// NewAdminHandler 创建管理接口处理器
func NewAdminHandler(svc *service.ChatService, cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		svc:       svc,
		cfg:       cfg,
		startedAt: time.Now(),
	}
}

// Stats 服务统计
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, activeToday := h.svc.Stats()

	c.JSON(http.StatusOK, model.ServiceStats{
		TotalConversations: stats.Conversations,
		TotalUsers:         stats.Users,
		TotalMessages:      stats.Messages,
		ActiveUsersToday:   activeToday,
		UptimeSeconds:      time.Since(h.startedAt).Seconds(),
		Config:             configInfo(h.cfg, h.svc),
	})
}

// ResetUsage 重置用户配额
func (h *AdminHandler) ResetUsage(c *gin.Context) {
	userID := c.Param("userId")
	h.svc.ResetUsage(userID)
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Usage reset successfully for user %s", userID),
	})
}

// configInfo 非敏感配置快照
func configInfo(cfg *config.Config, svc *service.ChatService) model.ConfigInfo {
	return model.ConfigInfo{
		Model:             cfg.AI.Model,
		DefaultPersona:    cfg.Chat.DefaultPersona,
		AvailablePersonas: svc.Personas().IDs(),
		DailyLimit:        cfg.Chat.DailyLimit,
		UsageTracking:     cfg.Chat.UsageTracking,
		Environment:       cfg.Server.Mode,
	}
}
