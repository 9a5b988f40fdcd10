package domain

// Action websocket request action
type Action string

const (
	// EnterRoom websocket action enter_room
	EnterRoom Action = "enter_room"
	// LeaveRoom websocket action leave_room
	LeaveRoom Action = "leave_room"

	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// ReadAll websocket action read_all
	ReadAll Action = "read_all"
	// LoadMore websocket action load_more
	LoadMore Action = "load_more"

	// Typing websocket action typing
	Typing Action = "typing"
	// SetAI websocket action set_ai
	SetAI Action = "set_ai"
	// ListRooms websocket action list_rooms
	ListRooms Action = "list_rooms"

	// NotifyMessage websocket action notify_message
	NotifyMessage Action = "notify_message"
	// NotifyStatus websocket action notify_status
	NotifyStatus Action = "notify_status"
	// NotifyTyping websocket action notify_typing
	NotifyTyping Action = "notify_typing"
	// NotifyConnectivity websocket action notify_connectivity
	NotifyConnectivity Action = "notify_connectivity"
)

// WSRequest websocket Request
type WSRequest struct {
	Action      string `json:"action"`
	RoomID      string `json:"room_id"`
	MessageType string `json:"message_type"`
	Content     string `json:"content"`
	MediaURL    string `json:"media_url"`
	MediaType   string `json:"media_type"`
	IsTyping    bool   `json:"is_typing"`
	AIEnabled   bool   `json:"ai_enabled"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
