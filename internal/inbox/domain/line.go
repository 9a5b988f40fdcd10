package domain

// LineEventType LINE webhook 事件類型
type LineEventType string

const (
	//LineEventMessage incoming customer message
	LineEventMessage LineEventType = "message"
	//LineEventDelivery delivery receipt
	LineEventDelivery LineEventType = "delivery"
	//LineEventRead read receipt
	LineEventRead LineEventType = "read"
)

// LineEvent Kafka `line-events` topic 上的一筆 webhook 事件
type LineEvent struct {
	EventType   LineEventType `json:"event_type"`
	UserID      string        `json:"user_id"`
	DisplayName string        `json:"display_name,omitempty"`
	MessageID   string        `json:"message_id,omitempty"`
	MessageType string        `json:"message_type,omitempty"`
	Text        string        `json:"text,omitempty"`
	MediaURL    string        `json:"media_url,omitempty"`
	StickerID   string        `json:"sticker_id,omitempty"`
	Timestamp   int64         `json:"timestamp"`
}
