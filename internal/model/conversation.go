package model

import "time"

// ChatTurn 一轮问答
// 追加后不可变更，不可重排
type ChatTurn struct {
	ID             string    `json:"id"`
	Message        string    `json:"message"`
	Response       string    `json:"response"`
	Timestamp      time.Time `json:"timestamp"`
	UserID         string    `json:"userId"`
	ConversationID string    `json:"conversationId"`
}

// Conversation 对话记录
// 首条消息时创建，按 LastMessageAt 整体淘汰
type Conversation struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	Messages      []ChatTurn   `json:"messages"`
	StartedAt     time.Time    `json:"startedAt"`
	LastMessageAt time.Time    `json:"lastMessageAt"`
	Context       *ChatContext `json:"context,omitempty"`
}
