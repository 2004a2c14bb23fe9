package chathub_test

import (
	"github.com/stretchr/testify/mock"

	"whisperwall/backend/internal/models"
)

// mockClient is a test double for the chathub.Client interface with a
// buffered send channel so hub handlers never block in tests.
type mockClient struct {
	userID string
	roomID string
	send   chan models.ServerEvent
	closed bool
}

func newMockClient(id string) *mockClient {
	return &mockClient{
		userID: id,
		send:   make(chan models.ServerEvent, 32),
	}
}

func (c *mockClient) GetUserID() string                         { return c.userID }
func (c *mockClient) GetRoomID() string                         { return c.roomID }
func (c *mockClient) SetRoomID(id string)                       { c.roomID = id }
func (c *mockClient) GetSendChannel() chan<- models.ServerEvent { return c.send }
func (c *mockClient) Run()                                      {}
func (c *mockClient) Close()                                    { c.closed = true }

// DrainEvents empties the client's send channel and returns what was queued.
func (c *mockClient) DrainEvents() []models.ServerEvent {
	var events []models.ServerEvent
	for {
		select {
		case ev := <-c.send:
			events = append(events, ev)
		default:
			return events
		}
	}
}

// eventsOfType filters a drained event slice by event type.
func eventsOfType(events []models.ServerEvent, eventType string) []models.ServerEvent {
	var out []models.ServerEvent
	for _, ev := range events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// mockSessionStore records the chat-session rows the hub writes when rooms
// close.
type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) SaveChatSession(session *models.ChatSession) error {
	args := m.Called(session)
	return args.Error(0)
}
