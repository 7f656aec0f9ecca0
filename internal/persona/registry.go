package persona

import (
	"fmt"
	"sort"
	"sync"

	"pomelo/internal/config"
)

// Persona 助手人格：系统提示词 + 生成参数 + 兜底回复
type Persona struct {
	ID               string
	Name             string
	SystemPrompt     string
	Temperature      float64
	MaxTokens        int
	FallbackResponse string
}

// Registry 人格注册表
// 内置模板 + 配置覆盖，运行时可整体替换（管理员操作）
type Registry struct {
	mu        sync.RWMutex
	personas  map[string]*Persona
	defaultID string
}

// NewRegistry 创建注册表：内置模板合并配置覆盖
// 覆盖项缺少必填字段或默认人格不存在时返回错误（启动即失败）
func NewRegistry(defaultID string, overrides map[string]config.PersonaConfig) (*Registry, error) {
	personas := make(map[string]*Persona, len(builtinPersonas)+len(overrides))
	for id, p := range builtinPersonas {
		cp := p
		personas[id] = &cp
	}

	for id, o := range overrides {
		if o.SystemPrompt == "" || o.FallbackResponse == "" {
			return nil, fmt.Errorf("persona override %q is missing system_prompt or fallback_response", id)
		}
		name := o.Name
		if name == "" {
			name = id
		}
		personas[id] = &Persona{
			ID:               id,
			Name:             name,
			SystemPrompt:     o.SystemPrompt,
			Temperature:      o.Temperature,
			MaxTokens:        o.MaxTokens,
			FallbackResponse: o.FallbackResponse,
		}
	}

	if _, ok := personas[defaultID]; !ok {
		return nil, fmt.Errorf("default persona %q is not defined", defaultID)
	}

	return &Registry{personas: personas, defaultID: defaultID}, nil
}

// Get 按 id 取人格，未知 id 回落到默认人格
func (r *Registry) Get(id string) *Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.personas[id]; ok {
		return p
	}
	return r.personas[r.defaultID]
}

// Upsert 运行时替换或新增人格（管理员操作）
func (r *Registry) Upsert(id string, p Persona) error {
	if p.SystemPrompt == "" || p.FallbackResponse == "" {
		return fmt.Errorf("persona %q requires a system prompt and a fallback response", id)
	}
	p.ID = id
	if p.Name == "" {
		p.Name = id
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.personas[id] = &p
	return nil
}

// DefaultID 默认人格 id
func (r *Registry) DefaultID() string {
	return r.defaultID
}

// IDs 已注册人格 id 列表（排序，保证输出稳定）
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.personas))
	for id := range r.personas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
