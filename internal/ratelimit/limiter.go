package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter 按客户端身份的固定窗口限流
// Allow 返回是否放行；拒绝时附带建议的重试秒数。
// 与每日配额互相独立：先限流，后查配额
type Limiter interface {
	Allow(ctx context.Context, clientID string) (bool, int)
}

// window 单客户端计数窗口
type window struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// MemoryLimiter 进程内固定窗口限流器
// 窗口过期后的第一个请求把计数直接置 1，所以它总是放行
type MemoryLimiter struct {
	windowLen   time.Duration
	maxRequests int

	mu      sync.Mutex
	windows map[string]*window

	now func() time.Time
}

// NewMemoryLimiter 创建内存限流器
func NewMemoryLimiter(windowLen time.Duration, maxRequests int) *MemoryLimiter {
	return &MemoryLimiter{
		windowLen:   windowLen,
		maxRequests: maxRequests,
		windows:     make(map[string]*window),
		now:         time.Now,
	}
}

// Allow 检查并记账，同一客户端的读改写在窗口锁内完成
func (l *MemoryLimiter) Allow(_ context.Context, clientID string) (bool, int) {
	l.mu.Lock()
	w, ok := l.windows[clientID]
	if !ok {
		w = &window{}
		l.windows[clientID] = w
	}
	l.mu.Unlock()

	now := l.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.resetAt.After(now) {
		w.count = 1
		w.resetAt = now.Add(l.windowLen)
		return true, 0
	}

	if w.count >= l.maxRequests {
		retry := int(w.resetAt.Sub(now).Seconds())
		if retry < 1 {
			retry = 1
		}
		return false, retry
	}

	w.count++
	return true, 0
}
