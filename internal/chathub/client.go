package chathub

import "whisperwall/backend/internal/models"

// Client is the interface for one live connection. It abstracts the
// underlying transport so the hub can manage connections uniformly.
type Client interface {
	// GetUserID returns the pseudonymous user id bound to this connection
	// for its whole lifetime.
	GetUserID() string
	// GetRoomID returns the id of the room the client is subscribed to, or
	// "" before pairing.
	GetRoomID() string
	// SetRoomID subscribes the client to a room's broadcasts. Called by the
	// hub after pairing and on leave.
	SetRoomID(string)

	// GetSendChannel returns the channel the hub pushes outbound events
	// into for this connection.
	GetSendChannel() chan<- models.ServerEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's connection and channels. Safe to call
	// more than once.
	Close()
}
