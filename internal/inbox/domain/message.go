package domain

import "time"

// SenderRole 訊息發送者角色
type SenderRole string

const (
	//SenderCustomer message from the LINE customer
	SenderCustomer SenderRole = "customer"
	//SenderAgent message from a human agent
	SenderAgent SenderRole = "agent"
	//SenderAI message from the auto-reply AI
	SenderAI SenderRole = "ai"
)

// MessageType 訊息內容類型
type MessageType string

const (
	//MessageText text message
	MessageText MessageType = "text"
	//MessageImage image message
	MessageImage MessageType = "image"
	//MessageVideo video message
	MessageVideo MessageType = "video"
	//MessageAudio audio message
	MessageAudio MessageType = "audio"
	//MessageFile file message
	MessageFile MessageType = "file"
	//MessageSticker LINE sticker message
	MessageSticker MessageType = "sticker"
)

// MessageStatus 訊息傳遞狀態
type MessageStatus string

const (
	//StatusSent message written to the store
	StatusSent MessageStatus = "sent"
	//StatusDelivered delivery receipt received
	StatusDelivered MessageStatus = "delivered"
	//StatusRead read receipt received
	StatusRead MessageStatus = "read"
	//StatusFailed delivery failed
	StatusFailed MessageStatus = "failed"
)

// Message 表示一則聊天訊息
type Message struct {
	ID           string        `json:"id"`
	RoomID       string        `json:"room_id"`
	SenderID     string        `json:"sender_id"`
	SenderRole   SenderRole    `json:"sender_role"`
	MessageType  MessageType   `json:"message_type"`
	Content      string        `json:"content,omitempty"`
	MediaURL     string        `json:"media_url,omitempty"`
	MediaType    string        `json:"media_type,omitempty"`
	MediaSize    int64         `json:"media_size,omitempty"`
	ThumbnailURL string        `json:"thumbnail_url,omitempty"`
	StickerID    string        `json:"sticker_id,omitempty"`
	Status       MessageStatus `json:"status"`
	DeliveredAt  *time.Time    `json:"delivered_at,omitempty"`
	ReadAt       *time.Time    `json:"read_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Before 依 (CreatedAt, ID) 排序，ID 決定同一時間戳的順序
func (m Message) Before(other Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return m.ID < other.ID
}
