package app

import (
	"context"
	"testing"
	"time"

	"chat_admin_service/internal/inbox/domain"
	"chat_admin_service/internal/inbox/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestIngestWorker() (*IngestWorker, *MockMessageRepository, *MockRoomRepository, *MockPushChannel, *MockPauseRepository, *MockSuggestionQueue) {
	mockMsg := new(MockMessageRepository)
	mockRoom := new(MockRoomRepository)
	mockPush := new(MockPushChannel)
	mockPause := new(MockPauseRepository)
	mockQueue := new(MockSuggestionQueue)
	w := NewIngestWorker(nil, mockMsg, mockRoom, mockPush, mockPause, mockQueue)
	return w, mockMsg, mockRoom, mockPush, mockPause, mockQueue
}

// 測試新客戶首次傳訊：建房、寫入、推播、入列建議工作
func TestIngestWorker_NewCustomerMessage(t *testing.T) {
	ctx := context.Background()
	w, mockMsg, mockRoom, mockPush, mockPause, mockQueue := newTestIngestWorker()

	ev := domain.LineEvent{
		EventType:   domain.LineEventMessage,
		UserID:      "U1234",
		DisplayName: "Somchai",
		MessageID:   "line-msg-1",
		MessageType: "text",
		Text:        "สนใจสินค้าค่ะ",
		Timestamp:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC).UnixMilli(),
	}

	mockRoom.On("FindByCustomer", ctx, "U1234").Return(nil, repository.ErrRoomNotFound)
	mockRoom.On("Create", ctx, mock.MatchedBy(func(room *domain.Room) bool {
		return room.CustomerID == "U1234" && room.CustomerName == "Somchai" &&
			room.Channel == "line" && room.AIEnabled
	})).Return(nil)
	mockMsg.On("Insert", ctx, mock.MatchedBy(func(m *domain.Message) bool {
		return m.ID == "line-msg-1" && m.SenderRole == domain.SenderCustomer &&
			m.Content == "สนใจสินค้าค่ะ"
	})).Return(nil)
	mockRoom.On("Touch", ctx, mock.Anything, mock.Anything, true).Return(nil)
	mockPush.On("Publish", ctx, mock.Anything, mock.MatchedBy(func(evt domain.PushEvent) bool {
		return evt.Type == domain.PushInsert && evt.Message.ID == "line-msg-1"
	})).Return(nil)
	mockPause.On("IsPaused", ctx, mock.Anything).Return(false, 0, nil)
	mockQueue.On("Enqueue", mock.MatchedBy(func(job domain.SuggestionJob) bool {
		return job.MessageID == "line-msg-1" && job.CustomerText == "สนใจสินค้าค่ะ"
	})).Return(nil)

	assert.NoError(t, w.Handle(ctx, ev))
	mockRoom.AssertExpectations(t)
	mockMsg.AssertExpectations(t)
	mockPush.AssertExpectations(t)
	mockQueue.AssertExpectations(t)
}

// 測試 AI 暫停中不入列建議工作
func TestIngestWorker_MessageWhilePaused(t *testing.T) {
	ctx := context.Background()
	w, mockMsg, mockRoom, mockPush, mockPause, mockQueue := newTestIngestWorker()

	room := &domain.Room{ID: "room-1", CustomerID: "U1234", AIEnabled: true}
	mockRoom.On("FindByCustomer", ctx, "U1234").Return(room, nil)
	mockMsg.On("Insert", ctx, mock.Anything).Return(nil)
	mockRoom.On("Touch", ctx, "room-1", mock.Anything, true).Return(nil)
	mockPush.On("Publish", ctx, "room-1", mock.Anything).Return(nil)
	mockPause.On("IsPaused", ctx, "room-1").Return(true, 600, nil)

	ev := domain.LineEvent{
		EventType: domain.LineEventMessage,
		UserID:    "U1234",
		MessageID: "line-msg-2",
		Text:      "hello",
		Timestamp: time.Now().UnixMilli(),
	}
	assert.NoError(t, w.Handle(ctx, ev))
	mockQueue.AssertNotCalled(t, "Enqueue", mock.Anything)
}

// 測試房間關閉 AI 時不入列建議工作
func TestIngestWorker_MessageAIDisabled(t *testing.T) {
	ctx := context.Background()
	w, mockMsg, mockRoom, mockPush, mockPause, mockQueue := newTestIngestWorker()

	room := &domain.Room{ID: "room-1", CustomerID: "U1234", AIEnabled: false}
	mockRoom.On("FindByCustomer", ctx, "U1234").Return(room, nil)
	mockMsg.On("Insert", ctx, mock.Anything).Return(nil)
	mockRoom.On("Touch", ctx, "room-1", mock.Anything, true).Return(nil)
	mockPush.On("Publish", ctx, "room-1", mock.Anything).Return(nil)

	ev := domain.LineEvent{
		EventType: domain.LineEventMessage,
		UserID:    "U1234",
		MessageID: "line-msg-3",
		Text:      "hello",
		Timestamp: time.Now().UnixMilli(),
	}
	assert.NoError(t, w.Handle(ctx, ev))
	mockPause.AssertNotCalled(t, "IsPaused", mock.Anything, mock.Anything)
	mockQueue.AssertNotCalled(t, "Enqueue", mock.Anything)
}

// 測試已讀回執更新狀態並推播
func TestIngestWorker_ReadReceipt(t *testing.T) {
	ctx := context.Background()
	w, mockMsg, mockRoom, mockPush, _, _ := newTestIngestWorker()

	room := &domain.Room{ID: "room-1", CustomerID: "U1234"}
	mockRoom.On("FindByCustomer", ctx, "U1234").Return(room, nil)
	mockMsg.On("UpdateStatus", ctx, "line-msg-1", domain.StatusRead).Return(nil)
	mockPush.On("Publish", ctx, "room-1", mock.MatchedBy(func(evt domain.PushEvent) bool {
		return evt.Type == domain.PushUpdate &&
			evt.Message.ID == "line-msg-1" &&
			evt.Message.Status == domain.StatusRead
	})).Return(nil)

	ev := domain.LineEvent{
		EventType: domain.LineEventRead,
		UserID:    "U1234",
		MessageID: "line-msg-1",
	}
	assert.NoError(t, w.Handle(ctx, ev))
	mockPush.AssertExpectations(t)
}

// 測試未知事件類型回傳錯誤
func TestIngestWorker_UnknownEvent(t *testing.T) {
	w, _, _, _, _, _ := newTestIngestWorker()
	err := w.Handle(context.Background(), domain.LineEvent{EventType: "follow"})
	assert.Error(t, err)
}
