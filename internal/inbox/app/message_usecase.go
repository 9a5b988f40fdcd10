package app

import (
	"context"
	"fmt"
	"time"

	"chat_admin_service/internal/inbox/domain"
	"chat_admin_service/internal/inbox/repository"
	"chat_admin_service/pkg/config"
	errprocess "chat_admin_service/pkg/err"
	"chat_admin_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// aiPauseDuration 真人客服回覆後 AI 暫停的時間
const aiPauseDuration = 30 * time.Minute

// MessageUseCase 封裝 inbox 對外提供的應用服務
type MessageUseCase struct {
	msgRepo      repository.MessageRepository
	roomRepo     repository.RoomRepository
	push         repository.PushChannel
	typingRepo   repository.TypingRepository
	pauseRepo    repository.PauseRepository
	suggestQueue repository.SuggestionQueue
	feedCfg      config.FeedConfig
}

// NewMessageUseCase 建立一個新的 MessageUseCase
func NewMessageUseCase(
	msgRepo repository.MessageRepository,
	roomRepo repository.RoomRepository,
	push repository.PushChannel,
	typingRepo repository.TypingRepository,
	pauseRepo repository.PauseRepository,
	suggestQueue repository.SuggestionQueue,
	feedCfg config.FeedConfig,
) *MessageUseCase {
	return &MessageUseCase{
		msgRepo:      msgRepo,
		roomRepo:     roomRepo,
		push:         push,
		typingRepo:   typingRepo,
		pauseRepo:    pauseRepo,
		suggestQueue: suggestQueue,
		feedCfg:      feedCfg,
	}
}

// NewFeed 建立房間的訊息同步器，尚未啟動。
// localUserID 是看這個 feed 的人，自己發的訊息不觸發新訊息通知。
func (uc *MessageUseCase) NewFeed(roomID, localUserID string, callbacks domain.FeedCallbacks) *FeedSynchronizer {
	buffer := NewMessageBuffer(uc.msgRepo, roomID, uc.feedCfg.PageSize)
	return NewFeedSynchronizer(buffer, uc.push, roomID, localUserID, uc.feedCfg, callbacks)
}

// SendMessage 客服（真人或 AI）發送訊息
func (uc *MessageUseCase) SendMessage(ctx context.Context, roomID, senderID string, role domain.SenderRole, req domain.WSRequest) (*domain.Message, error) {
	if _, err := uc.roomRepo.FindByID(ctx, roomID); err != nil {
		return nil, err
	}

	messageType := domain.MessageType(req.MessageType)
	if messageType == "" {
		messageType = domain.MessageText
	}
	if messageType == domain.MessageText && req.Content == "" {
		errMsg := fmt.Sprintf("empty message content in room[%s]", roomID)
		return nil, errprocess.Set(errMsg)
	}

	msg := domain.Message{
		ID:          uuid.New().String(),
		RoomID:      roomID,
		SenderID:    senderID,
		SenderRole:  role,
		MessageType: messageType,
		Content:     req.Content,
		MediaURL:    req.MediaURL,
		MediaType:   req.MediaType,
		Status:      domain.StatusSent,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.msgRepo.Insert(ctx, &msg); err != nil {
		return nil, err
	}
	if err := uc.roomRepo.Touch(ctx, roomID, msg.CreatedAt, false); err != nil {
		logger.Log.Error("room touch err :", zap.String("room", roomID), zap.String("err", err.Error()))
	}
	if err := uc.push.Publish(ctx, roomID, domain.PushEvent{Type: domain.PushInsert, Message: msg}); err != nil {
		logger.Log.Error("push publish err :", zap.String("room", roomID), zap.String("err", err.Error()))
	}

	// 真人回覆後暫停 AI，避免 AI 插話
	if role == domain.SenderAgent {
		if err := uc.pauseRepo.Pause(ctx, roomID, aiPauseDuration); err != nil {
			logger.Log.Error("ai pause err :", zap.String("room", roomID), zap.String("err", err.Error()))
		}
	}
	return &msg, nil
}

// MarkAllRead 客服讀取房間，所有對方訊息轉已讀、未讀數歸零
func (uc *MessageUseCase) MarkAllRead(ctx context.Context, roomID, readerID string) error {
	if err := uc.msgRepo.MarkAllRead(ctx, roomID, readerID); err != nil {
		return err
	}
	return uc.roomRepo.ResetUnread(ctx, roomID)
}

// ListRooms 依最後活動時間列出所有對話
func (uc *MessageUseCase) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return uc.roomRepo.List(ctx)
}

// GetRoom 取單一房間
func (uc *MessageUseCase) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	return uc.roomRepo.FindByID(ctx, roomID)
}

// SetTyping 更新打字狀態
func (uc *MessageUseCase) SetTyping(ctx context.Context, roomID, userID string, isTyping bool) error {
	return uc.typingRepo.SetTyping(ctx, roomID, userID, isTyping)
}

// ActiveTypers 列出房間內打字中的人
func (uc *MessageUseCase) ActiveTypers(ctx context.Context, roomID string) ([]string, error) {
	return uc.typingRepo.ActiveTypers(ctx, roomID)
}

// SetAIEnabled 開關房間的 AI 自動回覆
func (uc *MessageUseCase) SetAIEnabled(ctx context.Context, roomID string, enabled bool) error {
	if err := uc.roomRepo.SetAIEnabled(ctx, roomID, enabled); err != nil {
		return err
	}
	// 重新開啟時清掉殘留的暫停
	if enabled {
		return uc.pauseRepo.Resume(ctx, roomID)
	}
	return nil
}

// AIStatus 房間 AI 狀態：是否開啟、是否暫停中、暫停剩餘秒數
func (uc *MessageUseCase) AIStatus(ctx context.Context, roomID string) (bool, bool, int, error) {
	room, err := uc.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return false, false, 0, err
	}
	paused, remaining, err := uc.pauseRepo.IsPaused(ctx, roomID)
	if err != nil {
		return false, false, 0, err
	}
	return room.AIEnabled, paused, remaining, nil
}

// PauseAI 手動暫停 AI
func (uc *MessageUseCase) PauseAI(ctx context.Context, roomID string, duration time.Duration) error {
	if duration <= 0 {
		duration = aiPauseDuration
	}
	return uc.pauseRepo.Pause(ctx, roomID, duration)
}

// ResumeAI 手動恢復 AI
func (uc *MessageUseCase) ResumeAI(ctx context.Context, roomID string) error {
	return uc.pauseRepo.Resume(ctx, roomID)
}

// RequestSuggestion 把客戶訊息丟給 suggestion worker 產生建議回覆
func (uc *MessageUseCase) RequestSuggestion(ctx context.Context, roomID, messageID, customerText string) error {
	return uc.suggestQueue.Enqueue(domain.SuggestionJob{
		RoomID:       roomID,
		MessageID:    messageID,
		CustomerText: customerText,
		RequestedAt:  time.Now().UTC(),
	})
}
