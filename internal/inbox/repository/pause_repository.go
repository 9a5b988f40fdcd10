package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// PauseRepository definition AI auto-reply pause store.
// 真人客服介入時暫停 AI 回覆，TTL 到期自動恢復。
type PauseRepository interface {
	Pause(ctx context.Context, roomID string, duration time.Duration) error
	Resume(ctx context.Context, roomID string) error
	// IsPaused 回傳是否暫停中與剩餘秒數
	IsPaused(ctx context.Context, roomID string) (bool, int, error)
}

type pauseRepository struct {
	client *redis.Client
}

// NewPauseRepository create a PauseRepository
func NewPauseRepository(client *redis.Client) PauseRepository {
	return &pauseRepository{client: client}
}

func pauseKey(roomID string) string {
	return "ai_pause:" + roomID
}

func (r *pauseRepository) Pause(ctx context.Context, roomID string, duration time.Duration) error {
	return r.client.Set(ctx, pauseKey(roomID), "1", duration).Err()
}

func (r *pauseRepository) Resume(ctx context.Context, roomID string) error {
	return r.client.Del(ctx, pauseKey(roomID)).Err()
}

func (r *pauseRepository) IsPaused(ctx context.Context, roomID string) (bool, int, error) {
	ttl, err := r.client.TTL(ctx, pauseKey(roomID)).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl <= 0 {
		return false, 0, nil
	}
	return true, int(ttl.Seconds()), nil
}
