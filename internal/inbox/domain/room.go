package domain

import "time"

// Channel 客戶來源渠道
type Channel string

const (
	//ChannelLine LINE official account channel
	ChannelLine Channel = "line"
)

// Room 表示一位客戶的對話串
type Room struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customer_id"`
	CustomerName   string    `json:"customer_name,omitempty"`
	Channel        Channel   `json:"channel"`
	AIEnabled      bool      `json:"ai_enabled"`
	UnreadCount    int       `json:"unread_count"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
}
