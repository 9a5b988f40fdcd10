package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"chat_admin_service/internal/inbox/domain"
	"chat_admin_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// PushSubscription 一條已建立的變更通知訂閱。
// Events 送出變更、Errs 送出 channel 層錯誤（訂閱隨之失效），
// Close 釋放底層訂閱並關閉兩個 channel。
type PushSubscription interface {
	Events() <-chan domain.PushEvent
	Errs() <-chan error
	Close() error
}

// PushChannel definition 變更通知 push channel
type PushChannel interface {
	Publish(ctx context.Context, roomID string, event domain.PushEvent) error
	// Subscribe 進行 handshake，失敗時回傳 error（呼叫端據此降級輪詢）
	Subscribe(ctx context.Context, roomID string) (PushSubscription, error)
}

// RedisPubSub PushChannel 的 redis 實作
type RedisPubSub struct {
	client *redis.Client
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{client: client}
}

func roomChannel(roomID string) string {
	return "chat:room:" + roomID
}

// Publish 將 event 序列化後，發布到房間 channel
func (r *RedisPubSub) Publish(ctx context.Context, roomID string, event domain.PushEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, roomChannel(roomID), data).Err()
}

// Subscribe 訂閱房間 channel，Receive 確認 handshake 成功後才回傳
func (r *RedisPubSub) Subscribe(ctx context.Context, roomID string) (PushSubscription, error) {
	sub := r.client.Subscribe(ctx, roomChannel(roomID))

	// handshake：等待 redis 回覆訂閱確認
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("push channel handshake: %w", err)
	}

	s := &redisSubscription{
		sub:    sub,
		events: make(chan domain.PushEvent),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go s.pump(roomID)
	return s, nil
}

type redisSubscription struct {
	sub    *redis.PubSub
	events chan domain.PushEvent
	errs   chan error
	done   chan struct{}
}

func (s *redisSubscription) pump(roomID string) {
	defer close(s.events)
	ch := s.sub.Channel()

	for {
		select {
		case m, ok := <-ch:
			if !ok {
				// 底層連線中斷，通知呼叫端降級
				select {
				case s.errs <- fmt.Errorf("push channel closed for room %s", roomID):
				default:
				}
				return
			}

			var event domain.PushEvent
			if err := json.Unmarshal([]byte(m.Payload), &event); err != nil {
				logger.Log.Error("push event unmarshal err :", zap.String("err", err.Error()))
				continue
			}

			select {
			case s.events <- event:
			case <-s.done:
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *redisSubscription) Events() <-chan domain.PushEvent { return s.events }

func (s *redisSubscription) Errs() <-chan error { return s.errs }

func (s *redisSubscription) Close() error {
	close(s.done)
	return s.sub.Close()
}
