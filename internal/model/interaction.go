package model

import "time"

// Interaction 一次问答的观测记录（分析用，不含消息正文）
type Interaction struct {
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	UserID      string    `json:"userId" bson:"user_id"`
	Persona     string    `json:"persona" bson:"persona"`
	HasContext  bool      `json:"hasContext" bson:"has_context"`
	ContextType string    `json:"contextType" bson:"context_type"`
	Failed      bool      `json:"failed" bson:"failed"`
}
