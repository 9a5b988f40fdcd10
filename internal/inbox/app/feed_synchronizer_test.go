package app

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"chat_admin_service/internal/inbox/domain"
	"chat_admin_service/pkg/config"
	"chat_admin_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

var testFeedConfig = config.FeedConfig{
	PageSize:             20,
	PollInterval:         10 * time.Millisecond,
	ReconnectBaseBackoff: 20 * time.Millisecond,
	ReconnectMaxBackoff:  50 * time.Millisecond,
	ReconnectMaxAttempts: 0,
}

type feedRecorder struct {
	connectivity chan bool
	newMessages  chan domain.Message
	statuses     chan string
}

func newFeedRecorder() *feedRecorder {
	return &feedRecorder{
		connectivity: make(chan bool, 8),
		newMessages:  make(chan domain.Message, 8),
		statuses:     make(chan string, 8),
	}
}

func (r *feedRecorder) callbacks() domain.FeedCallbacks {
	return domain.FeedCallbacks{
		OnNewMessage: func(m domain.Message) { r.newMessages <- m },
		OnStatusChange: func(messageID string, status domain.MessageStatus) {
			r.statuses <- messageID + ":" + string(status)
		},
		OnConnectivityChange: func(isLive bool) { r.connectivity <- isLive },
	}
}

func waitConnectivity(t *testing.T, r *feedRecorder, want bool) {
	t.Helper()
	select {
	case got := <-r.connectivity:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting connectivity=%v", want)
	}
}

func waitNewMessage(t *testing.T, r *feedRecorder) domain.Message {
	t.Helper()
	select {
	case m := <-r.newMessages:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting new message")
		return domain.Message{}
	}
}

// 測試訂閱成功走 live，push insert 通知一次，重複事件不重複通知
func TestFeedSynchronizer_LivePush(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)
	mockPush := new(MockPushChannel)
	rec := newFeedRecorder()

	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 20).
		Return([]domain.Message{}, nil)

	sub := newFakeSubscription()
	mockPush.On("Subscribe", mock.Anything, "room-1").Return(sub, nil)

	buf := NewMessageBuffer(mockStore, "room-1", 20)
	sync := NewFeedSynchronizer(buf, mockPush, "room-1", "agent-1", testFeedConfig, rec.callbacks())
	assert.NoError(t, sync.Start(ctx))
	defer sync.Close()

	waitConnectivity(t, rec, true)
	assert.Equal(t, domain.FeedLive, sync.State())

	m1 := msgAt("m1", bufferBase)
	sub.events <- domain.PushEvent{Type: domain.PushInsert, Message: m1}
	got := waitNewMessage(t, rec)
	assert.Equal(t, "m1", got.ID)

	// 同一筆再推一次，不得再通知
	sub.events <- domain.PushEvent{Type: domain.PushInsert, Message: m1}
	sub.events <- domain.PushEvent{Type: domain.PushInsert, Message: msgAt("m2", bufferBase.Add(time.Minute))}
	got = waitNewMessage(t, rec)
	assert.Equal(t, "m2", got.ID)
	assert.Equal(t, 2, buf.Len())
}

// 測試 push update 事件更新緩衝並回呼狀態變更
func TestFeedSynchronizer_StatusUpdate(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)
	mockPush := new(MockPushChannel)
	rec := newFeedRecorder()

	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 20).
		Return([]domain.Message{msgAt("m1", bufferBase)}, nil)

	sub := newFakeSubscription()
	mockPush.On("Subscribe", mock.Anything, "room-1").Return(sub, nil)

	buf := NewMessageBuffer(mockStore, "room-1", 20)
	sync := NewFeedSynchronizer(buf, mockPush, "room-1", "agent-1", testFeedConfig, rec.callbacks())
	assert.NoError(t, sync.Start(ctx))
	defer sync.Close()
	waitConnectivity(t, rec, true)

	updated := msgAt("m1", bufferBase)
	updated.Status = domain.StatusRead
	sub.events <- domain.PushEvent{Type: domain.PushUpdate, Message: updated}

	select {
	case s := <-rec.statuses:
		assert.Equal(t, "m1:read", s)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting status change")
	}
	assert.Equal(t, domain.StatusRead, buf.Messages()[0].Status)
}

// 測試自己發的訊息進緩衝但不觸發新訊息通知
func TestFeedSynchronizer_OwnMessageNotEchoed(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)
	mockPush := new(MockPushChannel)
	rec := newFeedRecorder()

	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 20).
		Return([]domain.Message{}, nil)

	sub := newFakeSubscription()
	mockPush.On("Subscribe", mock.Anything, "room-1").Return(sub, nil)

	buf := NewMessageBuffer(mockStore, "room-1", 20)
	sync := NewFeedSynchronizer(buf, mockPush, "room-1", "agent-1", testFeedConfig, rec.callbacks())
	assert.NoError(t, sync.Start(ctx))
	defer sync.Close()
	waitConnectivity(t, rec, true)

	// 自己發的訊息經 push channel 回來
	own := msgFrom("own-1", "agent-1", bufferBase)
	sub.events <- domain.PushEvent{Type: domain.PushInsert, Message: own}

	// 客戶訊息照常通知
	sub.events <- domain.PushEvent{Type: domain.PushInsert, Message: msgAt("m2", bufferBase.Add(time.Minute))}
	got := waitNewMessage(t, rec)
	assert.Equal(t, "m2", got.ID)

	// 自己的訊息在緩衝裡，但沒有通知過
	assert.Equal(t, []string{"own-1", "m2"}, messageIDs(buf.Messages()))
	select {
	case m := <-rec.newMessages:
		t.Fatalf("unexpected notification for %s", m.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

// 測試降級輪詢時自己發的訊息也不觸發通知
func TestFeedSynchronizer_PollSkipsOwnMessages(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)
	mockPush := new(MockPushChannel)
	rec := newFeedRecorder()

	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 20).
		Return([]domain.Message{}, nil).Once()
	mockStore.On("FetchPage", mock.Anything, "room-1", (*time.Time)(nil), 20).
		Return([]domain.Message{
			msgAt("m2", bufferBase.Add(2*time.Minute)),
			msgFrom("own-1", "agent-1", bufferBase.Add(1*time.Minute)),
		}, nil).Maybe()

	mockPush.On("Subscribe", mock.Anything, "room-1").
		Return(nil, errors.New("handshake refused"))

	buf := NewMessageBuffer(mockStore, "room-1", 20)
	sync := NewFeedSynchronizer(buf, mockPush, "room-1", "agent-1", testFeedConfig, rec.callbacks())
	assert.NoError(t, sync.Start(ctx))
	defer sync.Close()
	waitConnectivity(t, rec, false)

	got := waitNewMessage(t, rec)
	assert.Equal(t, "m2", got.ID)

	select {
	case m := <-rec.newMessages:
		t.Fatalf("unexpected notification for %s", m.ID)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 2, buf.Len())
}

// 測試 update 的 id 不在緩衝時不回呼狀態變更
func TestFeedSynchronizer_StaleStatusUpdateIgnored(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)
	mockPush := new(MockPushChannel)
	rec := newFeedRecorder()

	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 20).
		Return([]domain.Message{msgAt("m1", bufferBase)}, nil)

	sub := newFakeSubscription()
	mockPush.On("Subscribe", mock.Anything, "room-1").Return(sub, nil)

	buf := NewMessageBuffer(mockStore, "room-1", 20)
	sync := NewFeedSynchronizer(buf, mockPush, "room-1", "agent-1", testFeedConfig, rec.callbacks())
	assert.NoError(t, sync.Start(ctx))
	defer sync.Close()
	waitConnectivity(t, rec, true)

	// 緩衝外的訊息收到狀態更新，整筆略過
	ghost := msgAt("ghost", bufferBase)
	ghost.Status = domain.StatusRead
	sub.events <- domain.PushEvent{Type: domain.PushUpdate, Message: ghost}

	// 緩衝內的照常回呼
	updated := msgAt("m1", bufferBase)
	updated.Status = domain.StatusRead
	sub.events <- domain.PushEvent{Type: domain.PushUpdate, Message: updated}

	select {
	case s := <-rec.statuses:
		assert.Equal(t, "m1:read", s)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting status change")
	}
	select {
	case s := <-rec.statuses:
		t.Fatalf("unexpected status callback %s", s)
	case <-time.After(50 * time.Millisecond):
	}
}

// 測試 handshake 失敗降級輪詢，輪詢補到新訊息也只通知一次
func TestFeedSynchronizer_DegradedPolling(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)
	mockPush := new(MockPushChannel)
	rec := newFeedRecorder()

	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 20).
		Return([]domain.Message{}, nil).Once()
	// 降級後輪詢持續取最新頁
	mockStore.On("FetchPage", mock.Anything, "room-1", (*time.Time)(nil), 20).
		Return([]domain.Message{msgAt("m1", bufferBase)}, nil).Maybe()

	mockPush.On("Subscribe", mock.Anything, "room-1").
		Return(nil, errors.New("handshake refused"))

	buf := NewMessageBuffer(mockStore, "room-1", 20)
	sync := NewFeedSynchronizer(buf, mockPush, "room-1", "agent-1", testFeedConfig, rec.callbacks())
	assert.NoError(t, sync.Start(ctx))
	defer sync.Close()

	waitConnectivity(t, rec, false)
	assert.Equal(t, domain.FeedDegraded, sync.State())

	got := waitNewMessage(t, rec)
	assert.Equal(t, "m1", got.ID)

	// 之後的輪詢都是同一筆，不得重複通知
	select {
	case m := <-rec.newMessages:
		t.Fatalf("unexpected duplicate notification for %s", m.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

// 測試 push channel 中斷後降級，backoff 重連成功回到 live
func TestFeedSynchronizer_ReconnectAfterLoss(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)
	mockPush := new(MockPushChannel)
	rec := newFeedRecorder()

	mockStore.On("FetchPage", mock.Anything, "room-1", (*time.Time)(nil), 20).
		Return([]domain.Message{}, nil)

	sub1 := newFakeSubscription()
	sub2 := newFakeSubscription()
	mockPush.On("Subscribe", mock.Anything, "room-1").Return(sub1, nil).Once()
	mockPush.On("Subscribe", mock.Anything, "room-1").Return(sub2, nil).Once()

	buf := NewMessageBuffer(mockStore, "room-1", 20)
	sync := NewFeedSynchronizer(buf, mockPush, "room-1", "agent-1", testFeedConfig, rec.callbacks())
	assert.NoError(t, sync.Start(ctx))
	defer sync.Close()
	waitConnectivity(t, rec, true)

	// 模擬底層連線中斷
	sub1.errs <- errors.New("connection reset")

	waitConnectivity(t, rec, false)
	waitConnectivity(t, rec, true)
	assert.Equal(t, domain.FeedLive, sync.State())
	assert.True(t, sub1.isClosed())
	mockPush.AssertExpectations(t)
}

// 測試關閉後狀態為 closed，翻頁被拒絕，訂閱釋放
func TestFeedSynchronizer_Close(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)
	mockPush := new(MockPushChannel)
	rec := newFeedRecorder()

	mockStore.On("FetchPage", ctx, "room-1", (*time.Time)(nil), 20).
		Return([]domain.Message{}, nil)

	sub := newFakeSubscription()
	mockPush.On("Subscribe", mock.Anything, "room-1").Return(sub, nil)

	buf := NewMessageBuffer(mockStore, "room-1", 20)
	sync := NewFeedSynchronizer(buf, mockPush, "room-1", "agent-1", testFeedConfig, rec.callbacks())
	assert.NoError(t, sync.Start(ctx))
	waitConnectivity(t, rec, true)

	sync.Close()
	sync.Close()

	assert.Equal(t, domain.FeedClosed, sync.State())
	assert.True(t, sub.isClosed())

	_, err := sync.LoadMore(ctx)
	assert.ErrorIs(t, err, ErrSynchronizerClosed)
}

// 測試達到重連上限後停止重試，輪詢維持
func TestFeedSynchronizer_ReconnectGivesUp(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockMessageRepository)
	mockPush := new(MockPushChannel)
	rec := newFeedRecorder()

	mockStore.On("FetchPage", mock.Anything, "room-1", (*time.Time)(nil), 20).
		Return([]domain.Message{}, nil)

	var attempts int32
	mockPush.On("Subscribe", mock.Anything, "room-1").
		Run(func(args mock.Arguments) { atomic.AddInt32(&attempts, 1) }).
		Return(nil, errors.New("handshake refused")).Times(3)

	cfg := testFeedConfig
	cfg.ReconnectBaseBackoff = 5 * time.Millisecond
	cfg.ReconnectMaxAttempts = 2

	buf := NewMessageBuffer(mockStore, "room-1", 20)
	sync := NewFeedSynchronizer(buf, mockPush, "room-1", "agent-1", cfg, rec.callbacks())
	assert.NoError(t, sync.Start(ctx))
	defer sync.Close()

	waitConnectivity(t, rec, false)

	// 首次訂閱 + 兩次重連後放棄
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&attempts) == 3
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	assert.Equal(t, domain.FeedDegraded, sync.State())
}
