package model

// ChatResponse 对话响应
// 配额耗尽与模型失败也走这个结构（Error=true），HTTP 状态仍为 200，
// 前端把它当普通助手消息渲染
type ChatResponse struct {
	Response       string `json:"response"`
	Model          string `json:"model"`
	ConversationID string `json:"conversationId,omitempty"`
	Error          bool   `json:"error,omitempty"`
}

// UsageInfo 用户配额快照
type UsageInfo struct {
	QuestionsUsed      int    `json:"questionsUsed"`
	QuestionsRemaining int    `json:"questionsRemaining"`
	ResetDate          string `json:"resetDate"`
	Model              string `json:"model"`
	DailyLimit         int    `json:"dailyLimit"`
}

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// RateLimitResponse 限流响应，附带重试提示
type RateLimitResponse struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"`
}

// ConfigInfo 非敏感配置快照 (GET /config)
type ConfigInfo struct {
	Model             string   `json:"model"`
	DefaultPersona    string   `json:"defaultPersona"`
	AvailablePersonas []string `json:"availablePersonas"`
	DailyLimit        int      `json:"dailyLimit"`
	UsageTracking     bool     `json:"usageTracking"`
	Environment       string   `json:"environment"`
}

// ServiceStats 服务统计 (GET /admin/stats)
type ServiceStats struct {
	TotalConversations int        `json:"totalConversations"`
	TotalUsers         int        `json:"totalUsers"`
	TotalMessages      int        `json:"totalMessages"`
	ActiveUsersToday   int        `json:"activeUsersToday"`
	UptimeSeconds      float64    `json:"serviceUptime"`
	Config             ConfigInfo `json:"config"`
}
