package domain

// Action websocket request action
type Action string

const (
	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// ReadMessage websocket action read_message
	ReadMessage Action = "read_message"
	// NotifyMessage websocket action notify_message (server push)
	NotifyMessage Action = "notify_message"
)

// WSRequest websocket Request. The room id always comes from the
// connection path, never from the payload.
type WSRequest struct {
	Action  string   `json:"action"`
	Message *Message `json:"message,omitempty"`
	ItemID  *int64   `json:"itemId,omitempty"`
	UserID  int64    `json:"userId,omitempty"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
