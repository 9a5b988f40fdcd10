package domain

import "time"

// SuggestionJob queue 上的建議回覆工作，與 inbox 端的 JSON 格式一致
type SuggestionJob struct {
	RoomID       string    `json:"room_id"`
	MessageID    string    `json:"message_id"`
	CustomerText string    `json:"customer_text"`
	RequestedAt  time.Time `json:"requested_at"`
}

// Suggestion 一筆 AI 產生的回覆記錄
type Suggestion struct {
	ID           string    `bson:"_id" json:"id"`
	RoomID       string    `bson:"room_id" json:"room_id"`
	MessageID    string    `bson:"message_id" json:"message_id"`
	CustomerText string    `bson:"customer_text" json:"customer_text"`
	Reply        string    `bson:"reply" json:"reply"`
	Model        string    `bson:"model" json:"model"`
	Fallback     bool      `bson:"fallback" json:"fallback"`
	LatencyMs    int64     `bson:"latency_ms" json:"latency_ms"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// AIConfig settings service 維護的 AI 行為設定，worker 只讀
type AIConfig struct {
	BotName       string
	Personality   string
	Guidelines    []string
	FallbackReply string
	Model         string
	Temperature   float32
	MaxTokens     int
	ContextLimit  int
}
