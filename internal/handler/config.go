package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/config"
	"pomelo/internal/service"
)

// ConfigHandler 公开配置处理器
type ConfigHandler struct {
	svc *service.ChatService
	cfg *config.Config
}

// NewConfigHandler 创建公开配置处理器
func NewConfigHandler(svc *service.ChatService, cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{svc: svc, cfg: cfg}
}

// Config 返回非敏感配置快照
func (h *ConfigHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, configInfo(h.cfg, h.svc))
}
