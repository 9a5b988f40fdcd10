package domain

import "time"

// DailyVolume 單日訊息量，依發送者角色拆開
type DailyVolume struct {
	Date     string `json:"date"`
	Customer int    `json:"customer"`
	Agent    int    `json:"agent"`
	AI       int    `json:"ai"`
}

// KeywordCount 關鍵字出現次數
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Sentiment 粗分類的情緒
type Sentiment string

const (
	//SentimentPositive positive tone
	SentimentPositive Sentiment = "positive"
	//SentimentNeutral neutral tone
	SentimentNeutral Sentiment = "neutral"
	//SentimentNegative negative tone
	SentimentNegative Sentiment = "negative"
)

// SentimentBreakdown 訊息情緒分布
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Intent 客戶意圖分類
type Intent string

const (
	//IntentPrice asking about price
	IntentPrice Intent = "price"
	//IntentStock asking about stock or availability
	IntentStock Intent = "stock"
	//IntentShipping asking about delivery
	IntentShipping Intent = "shipping"
	//IntentComplaint complaint or problem report
	IntentComplaint Intent = "complaint"
	//IntentGreeting greeting or small talk
	IntentGreeting Intent = "greeting"
	//IntentOther everything else
	IntentOther Intent = "other"
)

// IntentCount 意圖出現次數
type IntentCount struct {
	Intent Intent `json:"intent"`
	Count  int    `json:"count"`
}

// DailyRevenue 單日已驗證的付款金額
type DailyRevenue struct {
	Date   string  `json:"date"`
	Slips  int     `json:"slips"`
	Amount float64 `json:"amount"`
}

// BankCount 各銀行的付款單分布
type BankCount struct {
	Bank   string  `json:"bank"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// SalesOverview 期間內付款單彙整，slip 驗證流程寫入 payment_slips 表
type SalesOverview struct {
	TotalSlips    int            `json:"total_slips"`
	VerifiedSlips int            `json:"verified_slips"`
	Revenue       float64        `json:"revenue"`
	Daily         []DailyRevenue `json:"daily"`
	Banks         []BankCount    `json:"banks"`
}

// TopCustomer 期間內訊息量最高的客戶
type TopCustomer struct {
	RoomID       string `json:"room_id"`
	CustomerName string `json:"customer_name"`
	Messages     int    `json:"messages"`
}

// CustomerSegments 新舊客分布與活躍客戶
type CustomerSegments struct {
	NewCustomers       int           `json:"new_customers"`
	ReturningCustomers int           `json:"returning_customers"`
	Top                []TopCustomer `json:"top"`
}

// Summary 期間總覽
type Summary struct {
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	TotalMessages int       `json:"total_messages"`
	TotalRooms    int       `json:"total_rooms"`
	ActiveRooms   int       `json:"active_rooms"`
	AIMessages    int       `json:"ai_messages"`
	AgentMessages int       `json:"agent_messages"`
	AIReplyRate   float64   `json:"ai_reply_rate"`
}

// Report 儀表板一次拉全部的彙整結果
type Report struct {
	Summary   Summary            `json:"summary"`
	Daily     []DailyVolume      `json:"daily"`
	Keywords  []KeywordCount     `json:"keywords"`
	Sentiment SentimentBreakdown `json:"sentiment"`
	Intents   []IntentCount      `json:"intents"`
}
