package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"chat_admin_service/internal/inbox/domain"
	"chat_admin_service/internal/inbox/repository"
	"chat_admin_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// lineEventSource 讓 kafka reader 可以在測試中被替換
type lineEventSource interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// IngestWorker 消化 LINE webhook gateway 丟進 Kafka 的事件，
// 寫入訊息、更新房間狀態，並透過 push channel 通知在線的客服
type IngestWorker struct {
	source       lineEventSource
	msgRepo      repository.MessageRepository
	roomRepo     repository.RoomRepository
	push         repository.PushChannel
	pauseRepo    repository.PauseRepository
	suggestQueue repository.SuggestionQueue
}

// NewIngestWorker create IngestWorker
func NewIngestWorker(
	source lineEventSource,
	msgRepo repository.MessageRepository,
	roomRepo repository.RoomRepository,
	push repository.PushChannel,
	pauseRepo repository.PauseRepository,
	suggestQueue repository.SuggestionQueue,
) *IngestWorker {
	return &IngestWorker{
		source:       source,
		msgRepo:      msgRepo,
		roomRepo:     roomRepo,
		push:         push,
		pauseRepo:    pauseRepo,
		suggestQueue: suggestQueue,
	}
}

// Run 持續消費事件直到 ctx 取消，單筆失敗記 log 後繼續
func (w *IngestWorker) Run(ctx context.Context) {
	for {
		m, err := w.source.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Log.Error("kafka read err :", zap.String("err", err.Error()))
			continue
		}

		var ev domain.LineEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			logger.Log.Error("line event unmarshal err :", zap.String("err", err.Error()))
			continue
		}

		if err := w.Handle(ctx, ev); err != nil {
			logger.Log.Error("line event handle err :",
				zap.String("type", string(ev.EventType)), zap.String("err", err.Error()))
		}
	}
}

// Handle 處理單筆 LINE 事件
func (w *IngestWorker) Handle(ctx context.Context, ev domain.LineEvent) error {
	switch ev.EventType {
	case domain.LineEventMessage:
		return w.handleMessage(ctx, ev)
	case domain.LineEventDelivery:
		return w.handleReceipt(ctx, ev, domain.StatusDelivered)
	case domain.LineEventRead:
		return w.handleReceipt(ctx, ev, domain.StatusRead)
	default:
		return errors.New("unknown line event type: " + string(ev.EventType))
	}
}

func (w *IngestWorker) handleMessage(ctx context.Context, ev domain.LineEvent) error {
	room, err := w.findOrCreateRoom(ctx, ev)
	if err != nil {
		return err
	}

	messageType := domain.MessageType(ev.MessageType)
	if messageType == "" {
		messageType = domain.MessageText
	}

	msg := domain.Message{
		ID:          ev.MessageID,
		RoomID:      room.ID,
		SenderID:    ev.UserID,
		SenderRole:  domain.SenderCustomer,
		MessageType: messageType,
		Content:     ev.Text,
		MediaURL:    ev.MediaURL,
		StickerID:   ev.StickerID,
		Status:      domain.StatusSent,
		CreatedAt:   time.UnixMilli(ev.Timestamp).UTC(),
	}

	// MessageID 是主鍵，Kafka 重送時這裡擋掉重複
	if err := w.msgRepo.Insert(ctx, &msg); err != nil {
		return err
	}
	if err := w.roomRepo.Touch(ctx, room.ID, msg.CreatedAt, true); err != nil {
		logger.Log.Error("room touch err :", zap.String("room", room.ID), zap.String("err", err.Error()))
	}
	if err := w.push.Publish(ctx, room.ID, domain.PushEvent{Type: domain.PushInsert, Message: msg}); err != nil {
		logger.Log.Error("push publish err :", zap.String("room", room.ID), zap.String("err", err.Error()))
	}

	// AI 開啟且未被真人接手時，送去產生建議回覆
	if room.AIEnabled && messageType == domain.MessageText {
		paused, _, err := w.pauseRepo.IsPaused(ctx, room.ID)
		if err != nil {
			logger.Log.Error("ai pause check err :", zap.String("room", room.ID), zap.String("err", err.Error()))
			return nil
		}
		if !paused {
			if err := w.suggestQueue.Enqueue(domain.SuggestionJob{
				RoomID:       room.ID,
				MessageID:    msg.ID,
				CustomerText: msg.Content,
				RequestedAt:  time.Now().UTC(),
			}); err != nil {
				logger.Log.Error("suggestion enqueue err :", zap.String("room", room.ID), zap.String("err", err.Error()))
			}
		}
	}
	return nil
}

func (w *IngestWorker) handleReceipt(ctx context.Context, ev domain.LineEvent, status domain.MessageStatus) error {
	room, err := w.roomRepo.FindByCustomer(ctx, ev.UserID)
	if err != nil {
		return err
	}

	if err := w.msgRepo.UpdateStatus(ctx, ev.MessageID, status); err != nil {
		return err
	}
	return w.push.Publish(ctx, room.ID, domain.PushEvent{
		Type:    domain.PushUpdate,
		Message: domain.Message{ID: ev.MessageID, RoomID: room.ID, Status: status},
	})
}

func (w *IngestWorker) findOrCreateRoom(ctx context.Context, ev domain.LineEvent) (*domain.Room, error) {
	room, err := w.roomRepo.FindByCustomer(ctx, ev.UserID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, repository.ErrRoomNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	room = &domain.Room{
		ID:             uuid.New().String(),
		CustomerID:     ev.UserID,
		CustomerName:   ev.DisplayName,
		Channel:        "line",
		AIEnabled:      true,
		LastActivityAt: now,
		CreatedAt:      now,
	}
	if err := w.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}
