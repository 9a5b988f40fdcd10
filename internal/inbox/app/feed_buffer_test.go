package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"chat_admin_service/internal/inbox/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var bufferBase = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func msgAt(id string, at time.Time) domain.Message {
	return domain.Message{
		ID:         id,
		RoomID:     "room-1",
		SenderID:   "cust-1",
		SenderRole: domain.SenderCustomer,
		Status:     domain.StatusSent,
		CreatedAt:  at,
	}
}

func msgFrom(id, senderID string, at time.Time) domain.Message {
	m := msgAt(id, at)
	m.SenderID = senderID
	m.SenderRole = domain.SenderAgent
	return m
}

func messageIDs(messages []domain.Message) []string {
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	return ids
}

// 測試 Initialize 取最新一頁並轉成由舊到新
func TestMessageBuffer_Initialize(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)

	// store 回傳 newest-first
	page := []domain.Message{
		msgAt("m3", bufferBase.Add(3*time.Minute)),
		msgAt("m2", bufferBase.Add(2*time.Minute)),
		msgAt("m1", bufferBase.Add(1*time.Minute)),
	}
	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 3).Return(page, nil)

	buf := NewMessageBuffer(mockStore, "room-1", 3)
	err := buf.Initialize(ctx)

	assert.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3"}, messageIDs(buf.Messages()))
	// 滿頁表示可能還有更舊的
	assert.True(t, buf.HasMore())
	mockStore.AssertExpectations(t)
}

// 測試 Initialize 不滿頁時 hasMore 為 false
func TestMessageBuffer_Initialize_ShortPage(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)
	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 20).
		Return([]domain.Message{msgAt("m1", bufferBase)}, nil)

	buf := NewMessageBuffer(mockStore, "room-1", 20)
	err := buf.Initialize(ctx)

	assert.NoError(t, err)
	assert.False(t, buf.HasMore())
	assert.Equal(t, 1, buf.Len())
}

// 測試 Initialize 失敗回傳 ErrFetchFailed
func TestMessageBuffer_Initialize_FetchError(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)
	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 20).
		Return(nil, errors.New("connection refused"))

	buf := NewMessageBuffer(mockStore, "room-1", 20)
	err := buf.Initialize(ctx)

	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, 0, buf.Len())
}

// 測試同 ID 重複插入只算一次
func TestMessageBuffer_Insert_Idempotent(t *testing.T) {
	buf := NewMessageBuffer(new(MockMessageRepository), "room-1", 20)
	m := msgAt("m1", bufferBase)

	assert.True(t, buf.Insert(m))
	assert.False(t, buf.Insert(m))
	assert.Equal(t, 1, buf.Len())
}

// 測試亂序插入後仍維持 (CreatedAt, ID) 排序
func TestMessageBuffer_Insert_OutOfOrder(t *testing.T) {
	buf := NewMessageBuffer(new(MockMessageRepository), "room-1", 20)

	assert.True(t, buf.Insert(msgAt("m1", bufferBase.Add(1*time.Minute))))
	assert.True(t, buf.Insert(msgAt("m3", bufferBase.Add(3*time.Minute))))
	// m2 晚到，時間落在 m1 與 m3 之間
	assert.True(t, buf.Insert(msgAt("m2", bufferBase.Add(2*time.Minute))))

	assert.Equal(t, []string{"m1", "m2", "m3"}, messageIDs(buf.Messages()))
}

// 測試 CreatedAt 相同時以 ID 決定先後
func TestMessageBuffer_Insert_TieBreakByID(t *testing.T) {
	buf := NewMessageBuffer(new(MockMessageRepository), "room-1", 20)

	assert.True(t, buf.Insert(msgAt("b", bufferBase)))
	assert.True(t, buf.Insert(msgAt("a", bufferBase)))
	assert.True(t, buf.Insert(msgAt("c", bufferBase)))

	assert.Equal(t, []string{"a", "b", "c"}, messageIDs(buf.Messages()))
}

// 測試關閉後插入被拒絕
func TestMessageBuffer_Insert_AfterClose(t *testing.T) {
	buf := NewMessageBuffer(new(MockMessageRepository), "room-1", 20)
	buf.Close()

	assert.False(t, buf.Insert(msgAt("m1", bufferBase)))
	assert.Equal(t, 0, buf.Len())
}

// 測試 UpdateStatus 更新狀態與時間戳，訊息不存在時為 no-op
func TestMessageBuffer_UpdateStatus(t *testing.T) {
	buf := NewMessageBuffer(new(MockMessageRepository), "room-1", 20)
	buf.Insert(msgAt("m1", bufferBase))

	assert.True(t, buf.UpdateStatus("m1", domain.StatusRead))
	messages := buf.Messages()
	assert.Equal(t, domain.StatusRead, messages[0].Status)
	assert.NotNil(t, messages[0].ReadAt)

	// 不存在的 ID 不動任何東西
	assert.False(t, buf.UpdateStatus("ghost", domain.StatusRead))
	assert.Equal(t, 1, buf.Len())
}

// 測試 LoadMore 以最舊訊息時間向前翻頁並去重
func TestMessageBuffer_LoadMore(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)

	firstPage := []domain.Message{
		msgAt("m4", bufferBase.Add(4*time.Minute)),
		msgAt("m3", bufferBase.Add(3*time.Minute)),
	}
	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 2).Return(firstPage, nil)

	oldest := bufferBase.Add(3 * time.Minute)
	olderPage := []domain.Message{
		msgAt("m2", bufferBase.Add(2*time.Minute)),
		msgAt("m1", bufferBase.Add(1*time.Minute)),
	}
	mockStore.On("FetchPage", ctx, "room-1", &oldest, 2).Return(olderPage, nil)

	buf := NewMessageBuffer(mockStore, "room-1", 2)
	assert.NoError(t, buf.Initialize(ctx))

	hasMore, err := buf.LoadMore(ctx)
	assert.NoError(t, err)
	assert.True(t, hasMore)
	assert.Equal(t, []string{"m1", "m2", "m3", "m4"}, messageIDs(buf.Messages()))
	mockStore.AssertExpectations(t)
}

// 測試翻到不滿頁後 hasMore 轉 false，之後不再打 store
func TestMessageBuffer_LoadMore_Exhausted(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)

	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 2).Return([]domain.Message{
		msgAt("m3", bufferBase.Add(3*time.Minute)),
		msgAt("m2", bufferBase.Add(2*time.Minute)),
	}, nil)

	oldest := bufferBase.Add(2 * time.Minute)
	mockStore.On("FetchPage", ctx, "room-1", &oldest, 2).
		Return([]domain.Message{msgAt("m1", bufferBase.Add(1*time.Minute))}, nil).Once()

	buf := NewMessageBuffer(mockStore, "room-1", 2)
	assert.NoError(t, buf.Initialize(ctx))

	hasMore, err := buf.LoadMore(ctx)
	assert.NoError(t, err)
	assert.False(t, hasMore)

	// 已到底，再翻是 no-op
	hasMore, err = buf.LoadMore(ctx)
	assert.NoError(t, err)
	assert.False(t, hasMore)
	assert.Equal(t, 3, buf.Len())
	mockStore.AssertExpectations(t)
}

// 測試 fetch 途中關閉 buffer，翻頁結果被丟棄
func TestMessageBuffer_LoadMore_ClosedDuringFetch(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)

	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 2).Return([]domain.Message{
		msgAt("m3", bufferBase.Add(3*time.Minute)),
		msgAt("m2", bufferBase.Add(2*time.Minute)),
	}, nil)

	buf := NewMessageBuffer(mockStore, "room-1", 2)
	assert.NoError(t, buf.Initialize(ctx))

	// fetch 回來之前房間被關掉
	oldest := bufferBase.Add(2 * time.Minute)
	mockStore.On("FetchPage", ctx, "room-1", &oldest, 2).
		Run(func(args mock.Arguments) { buf.Close() }).
		Return([]domain.Message{msgAt("m1", bufferBase.Add(1*time.Minute))}, nil)

	_, err := buf.LoadMore(ctx)
	assert.ErrorIs(t, err, ErrBufferClosed)
	// 結果不得寫回
	assert.Equal(t, []string{"m2", "m3"}, messageIDs(buf.Messages()))
}

// 測試 Poll 只回傳緩衝內還沒有的訊息
func TestMessageBuffer_Poll(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)

	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 20).Return([]domain.Message{
		msgAt("m2", bufferBase.Add(2*time.Minute)),
		msgAt("m1", bufferBase.Add(1*time.Minute)),
	}, nil).Once()

	buf := NewMessageBuffer(mockStore, "room-1", 20)
	assert.NoError(t, buf.Initialize(ctx))

	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 20).Return([]domain.Message{
		msgAt("m3", bufferBase.Add(3*time.Minute)),
		msgAt("m2", bufferBase.Add(2*time.Minute)),
		msgAt("m1", bufferBase.Add(1*time.Minute)),
	}, nil).Once()

	fresh, err := buf.Poll(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"m3"}, messageIDs(fresh))
	assert.Equal(t, 3, buf.Len())
	mockStore.AssertExpectations(t)
}
