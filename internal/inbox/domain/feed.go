package domain

// FeedState 同步器狀態機
type FeedState string

const (
	//FeedConnecting push channel handshake in progress
	FeedConnecting FeedState = "connecting"
	//FeedLive push channel active
	FeedLive FeedState = "live"
	//FeedDegraded push channel unavailable, interval polling active
	FeedDegraded FeedState = "degraded"
	//FeedClosed terminal, all timers and listeners released
	FeedClosed FeedState = "closed"
)

// PushEventType push channel 事件類型
type PushEventType string

const (
	//PushInsert a new message row
	PushInsert PushEventType = "insert"
	//PushUpdate a status mutation on an existing row
	PushUpdate PushEventType = "update"
)

// PushEvent 單一變更通知
type PushEvent struct {
	Type    PushEventType `json:"type"`
	Message Message       `json:"message"`
}

// FeedCallbacks UI consumer 的回呼介面
// 同步器不碰渲染，所有畫面副作用都經由這三個回呼
type FeedCallbacks struct {
	OnNewMessage         func(Message)
	OnStatusChange       func(messageID string, status MessageStatus)
	OnConnectivityChange func(isLive bool)
}
