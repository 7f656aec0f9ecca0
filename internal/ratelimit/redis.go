package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisLimiter Redis 固定窗口限流器
// INCR + 首次设置过期时间，窗口语义与内存实现一致；
// 多实例部署时用它替换 MemoryLimiter
type RedisLimiter struct {
	client      *redis.Client
	windowLen   time.Duration
	maxRequests int
	prefix      string
}

// NewRedisLimiter 创建 Redis 限流器
func NewRedisLimiter(client *redis.Client, windowLen time.Duration, maxRequests int) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		windowLen:   windowLen,
		maxRequests: maxRequests,
		prefix:      "ratelimit:",
	}
}

// Allow 检查并记账
// Redis 不可用时放行（限流是粗粒度防滥用，不因基础设施故障拒请求）
func (l *RedisLimiter) Allow(ctx context.Context, clientID string) (bool, int) {
	key := l.prefix + clientID

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		log.Warn().Err(err).Str("client_id", clientID).Msg("rate limit backend unavailable, allowing request")
		return true, 0
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.windowLen).Err(); err != nil {
			log.Warn().Err(err).Str("client_id", clientID).Msg("failed to set rate limit window expiry")
		}
	}

	if count > int64(l.maxRequests) {
		ttl, err := l.client.TTL(ctx, key).Result()
		if err != nil || ttl < time.Second {
			ttl = time.Second
		}
		return false, int(ttl.Seconds())
	}

	return true, 0
}
