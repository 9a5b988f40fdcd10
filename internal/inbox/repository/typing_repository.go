package repository

import (
	"context"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// typingTTL 打字狀態存活時間，過期即視為停止打字
const typingTTL = 5 * time.Second

// TypingRepository definition typing indicator store
type TypingRepository interface {
	// SetTyping isTyping 為 true 時寫入帶 TTL 的 key，false 時直接刪除
	SetTyping(ctx context.Context, roomID, userID string, isTyping bool) error
	// ActiveTypers 列出房間內所有尚未過期的打字者
	ActiveTypers(ctx context.Context, roomID string) ([]string, error)
}

type typingRepository struct {
	client *redis.Client
}

// NewTypingRepository create a TypingRepository
func NewTypingRepository(client *redis.Client) TypingRepository {
	return &typingRepository{client: client}
}

func typingKey(roomID, userID string) string {
	return "typing:" + roomID + ":" + userID
}

func (r *typingRepository) SetTyping(ctx context.Context, roomID, userID string, isTyping bool) error {
	if !isTyping {
		return r.client.Del(ctx, typingKey(roomID, userID)).Err()
	}
	return r.client.Set(ctx, typingKey(roomID, userID), "1", typingTTL).Err()
}

func (r *typingRepository) ActiveTypers(ctx context.Context, roomID string) ([]string, error) {
	prefix := "typing:" + roomID + ":"
	var typers []string
	var cursor uint64

	for {
		keys, next, err := r.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			typers = append(typers, strings.TrimPrefix(key, prefix))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return typers, nil
}
