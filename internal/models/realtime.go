package models

import "time"

// Inbound event types, one per client-initiated action.
const (
	EventJoinChat    = "join-chat"
	EventSendMessage = "send-message"
	EventTyping      = "typing"
	EventLeaveChat   = "leave-chat"
)

// Outbound event types.
const (
	EventRoomJoined  = "room-joined"
	EventUserJoined  = "user-joined"
	EventUserLeft    = "user-left"
	EventNewMessage  = "new-message"
	EventUserTyping  = "user-typing"
	EventOnlineUsers = "online-users"
	EventError       = "error"
)

// ClientEvent is the tagged envelope for everything a client can send over the
// socket. Type selects the variant; the remaining fields carry its payload.
// The hub dispatches on Type in a single switch, so adding an event means one
// new constant and one new case, not a second handler registration path.
type ClientEvent struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	Content  string `json:"content,omitempty"`
	IsTyping bool   `json:"isTyping,omitempty"`
}

// ServerEvent is the envelope for everything the server pushes to a client.
// Payload is one of the *Payload structs below, a ChatMessage, a bool
// (user-typing), or an int (online-users).
type ServerEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// RoomJoinedPayload answers the joining user's own join-chat.
type RoomJoinedPayload struct {
	RoomID    string `json:"roomId"`
	UserCount int    `json:"userCount"`
}

// UserCountPayload notifies a room occupant that their peer joined or left.
type UserCountPayload struct {
	UserCount int `json:"userCount"`
}

// ErrorPayload carries a user-input validation failure back to the sender.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ChatMessage is a relayed chat message. The server assigns ID and Timestamp
// so both participants render the same authoritative values. Messages live
// only in the room's in-memory buffer and are never persisted.
type ChatMessage struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
