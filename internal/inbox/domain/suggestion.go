package domain

import "time"

// SuggestionJob 發往 suggestion worker 的 AI 建議回覆工作
type SuggestionJob struct {
	RoomID       string    `json:"room_id"`
	MessageID    string    `json:"message_id"`
	CustomerText string    `json:"customer_text"`
	RequestedAt  time.Time `json:"requested_at"`
}
