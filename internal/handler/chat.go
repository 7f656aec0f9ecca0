package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomelo/internal/model"
	"pomelo/internal/service"
)

// ChatHandler 对话处理器
type ChatHandler struct {
	svc       *service.ChatService
	anonymous string
}

// NewChatHandler 创建对话处理器
func NewChatHandler(svc *service.ChatService, anonymous string) *ChatHandler {
	return &ChatHandler{svc: svc, anonymous: anonymous}
}

// Chat 对话接口
// 配额耗尽和模型失败都返回 200 + error 标记，
// 只有请求本身不合法才是 400
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    40001,
			Message: "Message is required and must be a string",
			Detail:  err.Error(),
		})
		return
	}

	// 未带 userId 时用客户端 IP 作为身份，再退到匿名哨兵
	if req.UserID == "" {
		req.UserID = c.ClientIP()
	}
	if req.UserID == "" {
		req.UserID = h.anonymous
	}

	resp := h.svc.Chat(c.Request.Context(), &req)
	c.JSON(http.StatusOK, resp)
}

// Usage 用户配额查询
func (h *ChatHandler) Usage(c *gin.Context) {
	userID := c.Param("userId")
	c.JSON(http.StatusOK, h.svc.UsageInfo(userID))
}

// GetConversation 获取对话详情
func (h *ChatHandler) GetConversation(c *gin.Context) {
	conv, err := h.svc.Conversations().Get(c.Param("conversationId"))
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Code:    40401,
			Message: "Conversation not found",
		})
		return
	}
	c.JSON(http.StatusOK, conv)
}

// ListConversations 获取用户对话列表，按最后消息时间倒序
func (h *ChatHandler) ListConversations(c *gin.Context) {
	convs := h.svc.Conversations().ListByUser(c.Param("userId"))
	c.JSON(http.StatusOK, gin.H{
		"conversations": convs,
	})
}

// DeleteConversation 删除对话
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	if !h.svc.Conversations().Delete(c.Param("conversationId")) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Code:    40401,
			Message: "Conversation not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Conversation deleted successfully",
	})
}
