package conversation

import (
	"errors"
	"sort"
	"sync"
	"time"

	"pomelo/internal/model"
	"pomelo/internal/pkg/id"
)

// ErrNotFound 对话不存在
var ErrNotFound = errors.New("conversation not found")

// Stats 存量统计
type Stats struct {
	Conversations int
	Users         int
	Messages      int
}

// bucket 单用户的对话集合
// 同一对话的追加在这把锁上串行，保证到达顺序
type bucket struct {
	mu    sync.Mutex
	convs map[string]*model.Conversation
}

// Store 内存对话存储
// 外层锁只保护归属索引和 bucket 映射，追加和淘汰在用户自己的
// bucket 锁内完成，不同用户互不阻塞。
// 锁序约定：先放外层锁再拿 bucket 锁，两把锁不嵌套
type Store struct {
	cap int

	mu      sync.RWMutex
	owners  map[string]string // conversationId -> userId
	buckets map[string]*bucket

	now func() time.Time
}

// NewStore 创建存储，cap 为单用户对话数上限
func NewStore(cap int) *Store {
	return &Store{
		cap:     cap,
		owners:  make(map[string]string),
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Append 追加一轮问答
// 对话不存在时创建；追加后如该用户对话数超过上限，
// 按 lastMessageAt 整段淘汰最旧的对话，不截断消息
func (s *Store) Append(conversationID, userID, message, response string, ctx *model.ChatContext) {
	now := s.now()

	s.mu.Lock()
	owner, ok := s.owners[conversationID]
	if !ok {
		owner = userID
		s.owners[conversationID] = owner
	}
	b, ok := s.buckets[owner]
	if !ok {
		b = &bucket{convs: make(map[string]*model.Conversation)}
		s.buckets[owner] = b
	}
	s.mu.Unlock()

	turn := model.ChatTurn{
		ID:             "msg_" + id.New(),
		Message:        message,
		Response:       response,
		Timestamp:      now,
		UserID:         userID,
		ConversationID: conversationID,
	}

	var evicted []string

	b.mu.Lock()
	conv, ok := b.convs[conversationID]
	if !ok {
		conv = &model.Conversation{
			ID:        conversationID,
			UserID:    owner,
			StartedAt: now,
			Context:   ctx,
		}
		b.convs[conversationID] = conv
	}
	conv.Messages = append(conv.Messages, turn)
	conv.LastMessageAt = now

	if len(b.convs) > s.cap {
		evicted = b.evictOldest(len(b.convs) - s.cap)
	}
	b.mu.Unlock()

	if len(evicted) > 0 {
		s.mu.Lock()
		for _, cid := range evicted {
			delete(s.owners, cid)
		}
		s.mu.Unlock()
	}
}

// evictOldest 淘汰最旧的 n 个对话，返回被删的对话 id
// 调用方必须持有 bucket 锁
func (b *bucket) evictOldest(n int) []string {
	convs := make([]*model.Conversation, 0, len(b.convs))
	for _, c := range b.convs {
		convs = append(convs, c)
	}
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].LastMessageAt.Before(convs[j].LastMessageAt)
	})

	evicted := make([]string, 0, n)
	for i := 0; i < n && i < len(convs); i++ {
		delete(b.convs, convs[i].ID)
		evicted = append(evicted, convs[i].ID)
	}
	return evicted
}

// Get 按 id 取对话，返回快照副本
func (s *Store) Get(conversationID string) (*model.Conversation, error) {
	s.mu.RLock()
	owner, ok := s.owners[conversationID]
	var b *bucket
	if ok {
		b = s.buckets[owner]
	}
	s.mu.RUnlock()

	if b == nil {
		return nil, ErrNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	conv, ok := b.convs[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshot(conv), nil
}

// ListByUser 某用户全部对话，按 lastMessageAt 倒序
func (s *Store) ListByUser(userID string) []*model.Conversation {
	s.mu.RLock()
	b := s.buckets[userID]
	s.mu.RUnlock()

	if b == nil {
		return []*model.Conversation{}
	}

	b.mu.Lock()
	out := make([]*model.Conversation, 0, len(b.convs))
	for _, c := range b.convs {
		out = append(out, snapshot(c))
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out
}

// Delete 删除整个对话，不存在返回 false
func (s *Store) Delete(conversationID string) bool {
	s.mu.Lock()
	owner, ok := s.owners[conversationID]
	var b *bucket
	if ok {
		delete(s.owners, conversationID)
		b = s.buckets[owner]
	}
	s.mu.Unlock()

	if b == nil {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.convs[conversationID]; !ok {
		return false
	}
	delete(b.convs, conversationID)
	return true
}

// Stats 汇总统计（管理接口用）
func (s *Store) Stats() Stats {
	s.mu.RLock()
	buckets := make([]*bucket, 0, len(s.buckets))
	for _, b := range s.buckets {
		buckets = append(buckets, b)
	}
	s.mu.RUnlock()

	var st Stats
	for _, b := range buckets {
		b.mu.Lock()
		if len(b.convs) > 0 {
			st.Users++
		}
		st.Conversations += len(b.convs)
		for _, c := range b.convs {
			st.Messages += len(c.Messages)
		}
		b.mu.Unlock()
	}
	return st
}

// snapshot 复制对话，消息切片独立，调用方拿不到内部状态
func snapshot(c *model.Conversation) *model.Conversation {
	cp := *c
	cp.Messages = make([]model.ChatTurn, len(c.Messages))
	copy(cp.Messages, c.Messages)
	return &cp
}
