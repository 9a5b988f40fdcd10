package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"chat_admin_service/internal/inbox/domain"
	"chat_admin_service/internal/inbox/repository"
	"chat_admin_service/pkg/config"
	"chat_admin_service/pkg/logger"

	"go.uber.org/zap"
)

// ErrSynchronizerClosed 同步器已關閉
var ErrSynchronizerClosed = errors.New("feed synchronizer closed")

// FeedSynchronizer 單一房間的即時訊息同步器。
// 優先走 push channel，訂閱失敗或中斷時降級為固定間隔輪詢，
// 並以 exponential backoff 重試訂閱。
type FeedSynchronizer struct {
	buffer      *MessageBuffer
	push        repository.PushChannel
	roomID      string
	localUserID string
	cfg         config.FeedConfig
	callbacks   domain.FeedCallbacks

	mu       sync.Mutex
	state    domain.FeedState
	lastLive bool
	notified bool

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// NewFeedSynchronizer create a FeedSynchronizer，尚未啟動
func NewFeedSynchronizer(
	buffer *MessageBuffer,
	push repository.PushChannel,
	roomID string,
	localUserID string,
	cfg config.FeedConfig,
	callbacks domain.FeedCallbacks,
) *FeedSynchronizer {
	return &FeedSynchronizer{
		buffer:      buffer,
		push:        push,
		roomID:      roomID,
		localUserID: localUserID,
		cfg:         cfg,
		callbacks:   callbacks,
		state:       domain.FeedConnecting,
		done:        make(chan struct{}),
	}
}

// Start 載入初始歷史頁後啟動同步迴圈。
// 初始載入失敗直接回傳錯誤，不進入任何連線狀態。
func (s *FeedSynchronizer) Start(ctx context.Context) error {
	if err := s.buffer.Initialize(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.run(runCtx)
	return nil
}

// State 目前狀態
func (s *FeedSynchronizer) State() domain.FeedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages 緩衝內容 snapshot，由舊到新
func (s *FeedSynchronizer) Messages() []domain.Message {
	return s.buffer.Messages()
}

// LoadMore 向前翻一頁歷史訊息
func (s *FeedSynchronizer) LoadMore(ctx context.Context) (bool, error) {
	if s.State() == domain.FeedClosed {
		return false, ErrSynchronizerClosed
	}
	return s.buffer.LoadMore(ctx)
}

// Close 終止同步迴圈並關閉緩衝，可重複呼叫
func (s *FeedSynchronizer) Close() {
	s.closeOnce.Do(func() {
		s.buffer.Close()
		if s.cancel != nil {
			s.cancel()
			<-s.done
		}
		s.setState(domain.FeedClosed)
	})
}

func (s *FeedSynchronizer) run(ctx context.Context) {
	defer close(s.done)

	poll := time.NewTicker(s.cfg.PollInterval)
	poll.Stop()

	var (
		sub       repository.PushSubscription
		events    <-chan domain.PushEvent
		errs      <-chan error
		reconnect <-chan time.Time
		attempt   int
	)

	degrade := func() {
		if sub != nil {
			sub.Close()
			sub, events, errs = nil, nil, nil
		}
		s.setState(domain.FeedDegraded)
		poll.Reset(s.cfg.PollInterval)

		if s.cfg.ReconnectMaxAttempts > 0 && attempt >= s.cfg.ReconnectMaxAttempts {
			// 放棄重連，維持輪詢到關閉為止
			reconnect = nil
			return
		}
		attempt++
		reconnect = time.After(s.backoffDelay(attempt))
	}

	connect := func() {
		reconnect = nil
		newSub, err := s.push.Subscribe(ctx, s.roomID)
		if err != nil {
			logger.Log.Warn("push channel subscribe err :",
				zap.String("room", s.roomID), zap.String("err", err.Error()))
			degrade()
			return
		}
		sub = newSub
		events, errs = sub.Events(), sub.Errs()
		attempt = 0
		poll.Stop()
		s.setState(domain.FeedLive)
	}

	connect()

	for {
		select {
		case <-ctx.Done():
			if sub != nil {
				sub.Close()
			}
			poll.Stop()
			return

		case ev, ok := <-events:
			if !ok {
				// 訂閱中斷，等 errs 觸發降級
				events = nil
				continue
			}
			s.apply(ev)

		case err := <-errs:
			logger.Log.Warn("push channel lost :",
				zap.String("room", s.roomID), zap.String("err", err.Error()))
			degrade()

		case <-poll.C:
			fresh, err := s.buffer.Poll(ctx)
			if err != nil {
				if !errors.Is(err, ErrBufferClosed) {
					logger.Log.Error("feed poll err :",
						zap.String("room", s.roomID), zap.String("err", err.Error()))
				}
				continue
			}
			for _, m := range fresh {
				if m.SenderID == s.localUserID {
					continue
				}
				if s.callbacks.OnNewMessage != nil {
					s.callbacks.OnNewMessage(m)
				}
			}

		case <-reconnect:
			connect()
		}
	}
}

// apply 套用一筆 push 事件。
// insert 只在訊息確實是新的時候通知，輪詢與 push 重疊也只會通知一次；
// 自己發的訊息進緩衝但不通知，發送方已經拿到回應了。
// update 的 id 不在緩衝時整筆略過。
func (s *FeedSynchronizer) apply(ev domain.PushEvent) {
	switch ev.Type {
	case domain.PushInsert:
		if !s.buffer.Insert(ev.Message) {
			return
		}
		if ev.Message.SenderID == s.localUserID {
			return
		}
		if s.callbacks.OnNewMessage != nil {
			s.callbacks.OnNewMessage(ev.Message)
		}
	case domain.PushUpdate:
		if s.buffer.UpdateStatus(ev.Message.ID, ev.Message.Status) && s.callbacks.OnStatusChange != nil {
			s.callbacks.OnStatusChange(ev.Message.ID, ev.Message.Status)
		}
	}
}

func (s *FeedSynchronizer) setState(state domain.FeedState) {
	s.mu.Lock()
	if s.state == domain.FeedClosed {
		s.mu.Unlock()
		return
	}
	s.state = state

	isLive := state == domain.FeedLive
	fire := false
	// connecting 期間不通知，首次進入 live 或 degraded 才算定調
	if state == domain.FeedLive || state == domain.FeedDegraded {
		fire = !s.notified || s.lastLive != isLive
		s.notified = true
		s.lastLive = isLive
	}
	cb := s.callbacks.OnConnectivityChange
	s.mu.Unlock()

	if fire && cb != nil {
		cb(isLive)
	}
}

func (s *FeedSynchronizer) backoffDelay(attempt int) time.Duration {
	delay := s.cfg.ReconnectBaseBackoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= s.cfg.ReconnectMaxBackoff {
			return s.cfg.ReconnectMaxBackoff
		}
	}
	if delay > s.cfg.ReconnectMaxBackoff {
		return s.cfg.ReconnectMaxBackoff
	}
	return delay
}
