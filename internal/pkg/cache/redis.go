package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"pomelo/internal/config"
)

// NewRedisClient 创建 Redis 客户端并验证连通性
// 目前只被限流后端使用
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
