package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chat_admin_service/internal/inbox/domain"
	"chat_admin_service/internal/inbox/repository"
	"chat_admin_service/pkg"
)

var (
	// ErrBufferClosed buffer 已關閉，所有變更操作拒絕
	ErrBufferClosed = errors.New("feed buffer closed")
	// ErrFetchFailed 向 message store 取頁失敗
	ErrFetchFailed = errors.New("message fetch failed")
)

// MessageBuffer 單一房間的有序訊息緩衝。
// 訊息依 (CreatedAt, ID) 由舊到新排列，同 ID 的重複寫入為 no-op。
// 所有方法皆 goroutine-safe。
type MessageBuffer struct {
	store    repository.MessageRepository
	roomID   string
	pageSize int

	mu       sync.Mutex
	messages []domain.Message
	seen     map[string]bool
	hasMore  bool
	closed   bool
}

// NewMessageBuffer create a MessageBuffer
func NewMessageBuffer(store repository.MessageRepository, roomID string, pageSize int) *MessageBuffer {
	return &MessageBuffer{
		store:    store,
		roomID:   roomID,
		pageSize: pageSize,
		seen:     make(map[string]bool),
	}
}

// Initialize 載入最新一頁歷史訊息
func (b *MessageBuffer) Initialize(ctx context.Context) error {
	page, err := b.store.FetchPage(ctx, b.roomID, nil, b.pageSize)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	// store 回傳 newest-first，緩衝內維持 oldest-first
	pkg.ReverseInPlace(page)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBufferClosed
	}

	b.messages = b.messages[:0]
	b.seen = make(map[string]bool, len(page))
	for _, m := range page {
		b.seen[m.ID] = true
		b.messages = append(b.messages, m)
	}
	b.hasMore = len(page) == b.pageSize
	return nil
}

// Insert 依時序插入一筆訊息。
// 回傳 true 表示這是新訊息；重複 ID 或已關閉時回傳 false。
func (b *MessageBuffer) Insert(msg domain.Message) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.seen[msg.ID] {
		return false
	}

	// 絕大多數訊息比現有的都新，從尾端找插入點
	pos := len(b.messages)
	for pos > 0 && msg.Before(b.messages[pos-1]) {
		pos--
	}

	b.messages = append(b.messages, domain.Message{})
	copy(b.messages[pos+1:], b.messages[pos:])
	b.messages[pos] = msg
	b.seen[msg.ID] = true
	return true
}

// UpdateStatus 更新緩衝內訊息的狀態。
// 回傳是否有更新到，訊息不在緩衝時為 no-op 回傳 false。
func (b *MessageBuffer) UpdateStatus(messageID string, status domain.MessageStatus) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}

	for i := range b.messages {
		if b.messages[i].ID == messageID {
			b.messages[i].Status = status
			now := time.Now()
			switch status {
			case domain.StatusDelivered:
				b.messages[i].DeliveredAt = &now
			case domain.StatusRead:
				b.messages[i].ReadAt = &now
			}
			return true
		}
	}
	return false
}

// LoadMore 向前翻一頁，取比目前最舊訊息更早的訊息。
// 回傳是否還有更舊的頁。fetch 期間 buffer 被關閉時結果直接丟棄。
func (b *MessageBuffer) LoadMore(ctx context.Context) (bool, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false, ErrBufferClosed
	}
	if !b.hasMore {
		b.mu.Unlock()
		return false, nil
	}

	var before *time.Time
	if len(b.messages) > 0 {
		t := b.messages[0].CreatedAt
		before = &t
	}
	b.mu.Unlock()

	// fetch 不持鎖，避免卡住即時寫入
	page, err := b.store.FetchPage(ctx, b.roomID, before, b.pageSize)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	pkg.ReverseInPlace(page)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false, ErrBufferClosed
	}

	fresh := make([]domain.Message, 0, len(page))
	for _, m := range page {
		if b.seen[m.ID] {
			continue
		}
		b.seen[m.ID] = true
		fresh = append(fresh, m)
	}
	b.messages = append(fresh, b.messages...)
	b.hasMore = len(page) == b.pageSize
	return b.hasMore, nil
}

// Poll 重新抓最新一頁並補進緩衝，回傳新出現的訊息（由舊到新）。
// push channel 降級時由輪詢呼叫。
func (b *MessageBuffer) Poll(ctx context.Context) ([]domain.Message, error) {
	page, err := b.store.FetchPage(ctx, b.roomID, nil, b.pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	pkg.ReverseInPlace(page)

	var fresh []domain.Message
	for _, m := range page {
		if b.Insert(m) {
			fresh = append(fresh, m)
		}
	}

	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, ErrBufferClosed
	}
	return fresh, nil
}

// Messages 回傳目前緩衝內容的 snapshot，由舊到新
func (b *MessageBuffer) Messages() []domain.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// HasMore 是否還有更舊的歷史頁可翻
func (b *MessageBuffer) HasMore() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasMore
}

// Len 目前緩衝內訊息數
func (b *MessageBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages)
}

// Close 關閉緩衝，之後的變更與進行中的 fetch 結果一律丟棄
func (b *MessageBuffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}
