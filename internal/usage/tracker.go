package usage

import (
	"sync"
	"time"
)

// Snapshot 用户配额快照
type Snapshot struct {
	Used      int
	Remaining int
	ResetAt   time.Time
}

// record 单用户计数，resetAt 为记录最后更新后的下一个本地零点
// 过期判断在每次读取时惰性完成，不需要后台清理任务
type record struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// Tracker 按用户的当日用量计数器
// map 查找/创建用外层锁，计数读改写用记录自身的锁，
// 不同用户之间互不阻塞
type Tracker struct {
	dailyLimit int
	anonymous  string
	enabled    bool

	mu      sync.Mutex
	records map[string]*record

	now func() time.Time
}

// NewTracker 创建计数器
func NewTracker(dailyLimit int, anonymous string, enabled bool) *Tracker {
	return &Tracker{
		dailyLimit: dailyLimit,
		anonymous:  anonymous,
		enabled:    enabled,
		records:    make(map[string]*record),
		now:        time.Now,
	}
}

// Tracks 该用户是否纳入配额统计
// 匿名哨兵用户永远不受配额限制（仍会经过请求限流）
func (t *Tracker) Tracks(userID string) bool {
	return t.enabled && userID != t.anonymous && userID != ""
}

// DailyLimit 每日配额
func (t *Tracker) DailyLimit() int {
	return t.dailyLimit
}

// Enabled 配额统计总开关
func (t *Tracker) Enabled() bool {
	return t.enabled
}

// CheckAllowed 检查用户是否还有配额
// 记录过期等价于计数归零；不在这里写任何状态
func (t *Tracker) CheckAllowed(userID string) (bool, time.Time) {
	t.mu.Lock()
	r, ok := t.records[userID]
	t.mu.Unlock()
	if !ok {
		return true, time.Time{}
	}

	now := t.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.resetAt.After(now) {
		return true, time.Time{}
	}
	if r.count >= t.dailyLimit {
		return false, r.resetAt
	}
	return true, time.Time{}
}

// Record 记录一次成功调用
// 只能在模型调用成功之后调用：失败的请求不消耗配额
func (t *Tracker) Record(userID string) {
	r := t.get(userID)
	now := t.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.resetAt.After(now) {
		r.count = 1
		r.resetAt = nextMidnight(now)
		return
	}
	r.count++
}

// Info 返回用户配额快照
// 未知或已过期的用户按零用量返回
func (t *Tracker) Info(userID string) Snapshot {
	now := t.now()

	t.mu.Lock()
	r, ok := t.records[userID]
	t.mu.Unlock()

	if !ok {
		return Snapshot{Used: 0, Remaining: t.dailyLimit, ResetAt: nextMidnight(now)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.resetAt.After(now) {
		return Snapshot{Used: 0, Remaining: t.dailyLimit, ResetAt: nextMidnight(now)}
	}

	remaining := t.dailyLimit - r.count
	if remaining < 0 {
		remaining = 0
	}
	return Snapshot{Used: r.count, Remaining: remaining, ResetAt: r.resetAt}
}

// Reset 无条件清除用户计数（管理员操作）
func (t *Tracker) Reset(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, userID)
}

// ActiveToday 过去 24 小时内有记录的用户数（统计用）
func (t *Tracker) ActiveToday() int {
	cutoff := t.now().Add(-24 * time.Hour)

	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, r := range t.records {
		if r.resetAt.After(cutoff) {
			n++
		}
	}
	return n
}

func (t *Tracker) get(userID string) *record {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.records[userID]
	if !ok {
		r = &record{}
		t.records[userID] = r
	}
	return r
}

// nextMidnight 下一个本地零点
func nextMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}
