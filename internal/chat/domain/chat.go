package domain

import (
	"strings"
	"time"
)

// MessageType definition chat message type
type MessageType string

const (
	// MessageTypeTalk persisted chat message
	MessageTypeTalk MessageType = "TALK"
	// MessageTypeJoin transient presence event, never persisted
	MessageTypeJoin MessageType = "JOIN"
	// MessageTypeLeave transient presence event, never persisted
	MessageTypeLeave MessageType = "LEAVE"
)

// Transient reports whether messages of this type bypass the store.
func (t MessageType) Transient() bool {
	return t == MessageTypeJoin || t == MessageTypeLeave
}

// Role definition room membership role
type Role string

const (
	// RoleBuyer the non-seller participant
	RoleBuyer Role = "BUYER"
	// RoleSeller the item owner
	RoleSeller Role = "SELLER"
)

// RoomIDNone is the placeholder clients send before a room exists.
const RoomIDNone = "null"

// ValidRoomID rejects empty and placeholder room ids.
func ValidRoomID(id string) bool {
	trimmed := strings.TrimSpace(id)
	return trimmed != "" && trimmed != RoomIDNone
}

// Room is a conversation scoped to one item and one buyer.
// LastMessage fields are derived at query time for the room list.
type Room struct {
	RoomID    string    `json:"roomId"`
	ItemID    int64     `json:"itemId"`
	BuyerID   int64     `json:"buyerId"`
	CreatedAt time.Time `json:"createdAt"`

	LastMessage     string     `json:"lastMessage,omitempty"`
	LastMessageTime *time.Time `json:"lastMessageTime,omitempty"`
}

// RoomMember is the role-tagged association between a user and a room.
type RoomMember struct {
	RoomID string `json:"roomId"`
	UserID int64  `json:"userId"`
	Role   Role   `json:"userType"`
}

// Message is one chat message. The id is assigned by the store on insert;
// transient JOIN/LEAVE messages keep a zero id.
type Message struct {
	MessageID int64       `json:"messageId"`
	RoomID    string      `json:"roomId"`
	SenderID  int64       `json:"senderId"`
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
	SentTime  time.Time   `json:"sentTime"`
	Read      bool        `json:"read"`
}
