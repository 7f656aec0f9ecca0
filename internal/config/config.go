package config

import (
	"errors"
	"fmt"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	Chat      ChatConfig      `mapstructure:"chat"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Admin     AdminConfig     `mapstructure:"admin"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AIConfig AI 服务配置
type AIConfig struct {
	Provider string          `mapstructure:"provider"`
	APIKey   string          `mapstructure:"api_key"`
	Model    string          `mapstructure:"model"`
	BaseURL  string          `mapstructure:"base_url"`
	Timeout  time.Duration   `mapstructure:"timeout"`
	Options  AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig AI 模型默认参数（persona 可覆盖）
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// ChatConfig 对话业务配置
type ChatConfig struct {
	DefaultPersona   string                   `mapstructure:"default_persona"`
	DailyLimit       int                      `mapstructure:"daily_limit"`
	UsageTracking    bool                     `mapstructure:"usage_tracking"`
	AnonymousUser    string                   `mapstructure:"anonymous_user"`
	MaxConversations int                      `mapstructure:"max_conversations"`
	Personas         map[string]PersonaConfig `mapstructure:"personas"`
}

// PersonaConfig 人格配置覆盖
// 通过配置文件/环境注入，替换或新增内置人格
type PersonaConfig struct {
	Name             string  `mapstructure:"name"`
	SystemPrompt     string  `mapstructure:"system_prompt"`
	Temperature      float64 `mapstructure:"temperature"`
	MaxTokens        int     `mapstructure:"max_tokens"`
	FallbackResponse string  `mapstructure:"fallback_response"`
}

// RateLimitConfig 请求限流配置（固定窗口）
type RateLimitConfig struct {
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int           `mapstructure:"max_requests"`
}

// AdminConfig 管理接口配置
type AdminConfig struct {
	Token string `mapstructure:"token"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置（可选，用于交互日志归档）
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置（可选，用于限流后端）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Validate 验证配置有效性
// 配置错误（含 persona 覆盖缺字段）直接启动失败，不做静默忽略
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if c.Chat.DailyLimit <= 0 {
		return errors.New("chat.daily_limit must be positive")
	}
	if c.Chat.MaxConversations <= 0 {
		return errors.New("chat.max_conversations must be positive")
	}
	if c.Chat.AnonymousUser == "" {
		return errors.New("chat.anonymous_user must not be empty")
	}

	if c.RateLimit.Window <= 0 {
		return errors.New("rate_limit.window must be positive")
	}
	if c.RateLimit.MaxRequests <= 0 {
		return errors.New("rate_limit.max_requests must be positive")
	}

	for id, p := range c.Chat.Personas {
		if err := validatePersonaOverride(id, p); err != nil {
			return err
		}
	}

	return nil
}

func validatePersonaOverride(id string, p PersonaConfig) error {
	if id == "" {
		return errors.New("persona override with empty id")
	}
	if p.SystemPrompt == "" {
		return fmt.Errorf("persona %q: system_prompt is required", id)
	}
	if p.FallbackResponse == "" {
		return fmt.Errorf("persona %q: fallback_response is required", id)
	}
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("persona %q: temperature must be in [0, 2]", id)
	}
	if p.MaxTokens < 0 {
		return fmt.Errorf("persona %q: max_tokens must not be negative", id)
	}
	return nil
}
