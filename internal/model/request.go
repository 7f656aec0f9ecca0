package model

// ChatRequest 对话请求
type ChatRequest struct {
	Message        string       `json:"message" binding:"required"`
	UserID         string       `json:"userId,omitempty"`
	ConversationID string       `json:"conversationId,omitempty"`
	Persona        string       `json:"persona,omitempty"`
	Context        *ChatContext `json:"context,omitempty"`
}

// ChatContext 调用方附带的结构化上下文
// 固定的已知可选字段 + 一个字符串扩展表；对核心只读
type ChatContext struct {
	Subject      string            `json:"subject,omitempty"`
	UserLevel    string            `json:"userLevel,omitempty"`
	CurrentTopic string            `json:"currentTopic,omitempty"`
	Problem      *ProblemContext   `json:"problem,omitempty"`
	UserCode     string            `json:"userCode,omitempty"`
	HintsUsed    int               `json:"hintsUsed,omitempty"`
	CustomData   map[string]string `json:"customData,omitempty"`
}

// ProblemContext 题目上下文（tutor 人格用）
type ProblemContext struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Difficulty     string   `json:"difficulty"`
	ResearchTopics []string `json:"researchTopics,omitempty"`
}
