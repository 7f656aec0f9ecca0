package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"pomelo/internal/model"
)

// InteractionRepo 交互记录仓库（MongoDB）
// 异步落库：写失败只记日志，绝不影响请求链路
type InteractionRepo struct {
	collection *mongo.Collection
}

// NewInteractionRepo 创建交互记录仓库
func NewInteractionRepo(db *mongo.Database) *InteractionRepo {
	return &InteractionRepo{
		collection: db.Collection("interactions"),
	}
}

// LogInteraction 异步写入一条交互记录
func (r *InteractionRepo) LogInteraction(_ context.Context, it model.Interaction) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := r.collection.InsertOne(ctx, it); err != nil {
			log.Warn().Err(err).Str("user_id", it.UserID).Msg("failed to archive interaction")
		}
	}()
}
