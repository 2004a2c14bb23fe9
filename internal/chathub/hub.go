// Package chathub is the realtime core: it pairs anonymous users into
// two-person rooms and relays messages, typing signals and presence between
// them. One hub goroutine owns the connection table and serializes every
// inbound event; room state itself lives in the registry.
package chathub

import (
	"errors"
	"log"

	"whisperwall/backend/internal/models"
	"whisperwall/backend/internal/registry"
)

// SessionStore receives the closed-room records the hub emits when a room is
// destroyed. Persistence is best-effort and never affects the relay.
type SessionStore interface {
	SaveChatSession(session *models.ChatSession) error
}

// Hub is the session gateway. It translates inbound client events into
// registry operations and fans resulting events back out to the affected
// connections.
//
// Register, Unregister and Dispatch are not safe for concurrent use; live
// traffic reaches them only through the Run loop. Tests drive them directly.
type Hub struct {
	Registry *registry.Registry

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventCh      chan models.ClientEvent

	clients  map[string]Client
	matcher  *Matcher
	presence *Presence
	sessions SessionStore
}

// NewHub creates a hub over the given registry. sessions may be nil, in
// which case closed rooms are not recorded.
func NewHub(reg *registry.Registry, presence *Presence, sessions SessionStore) *Hub {
	if presence == nil {
		presence = NewPresence(nil)
	}
	return &Hub{
		Registry:     reg,
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventCh:      make(chan models.ClientEvent, 64),
		clients:      make(map[string]Client),
		matcher:      NewMatcher(reg),
		presence:     presence,
		sessions:     sessions,
	}
}

// Run is the hub's main loop. It must run in its own goroutine and is the
// only goroutine that touches the connection table.
func (h *Hub) Run() {
	log.Println("chat hub started")
	for {
		select {
		case client := <-h.RegisterCh:
			h.Register(client)
		case client := <-h.UnregisterCh:
			h.Unregister(client)
		case ev := <-h.EventCh:
			h.Dispatch(ev)
		}
	}
}

// Register adds a connection to the hub. A second connection for the same
// user id replaces the first.
func (h *Hub) Register(client Client) {
	userID := client.GetUserID()
	if old, ok := h.clients[userID]; ok && old != client {
		old.Close()
	}
	h.clients[userID] = client
	log.Printf("client connected: %s (%d online)", userID, len(h.clients))

	// The newcomer sees the current presence figure right away.
	h.sendTo(userID, models.ServerEvent{
		Type:    models.EventOnlineUsers,
		Payload: h.presence.Display(h.Registry.Users()),
	})
}

// Unregister removes a connection and treats the drop as a leave for
// whatever room the user was in. Safe to call for an already-removed client.
func (h *Hub) Unregister(client Client) {
	userID := client.GetUserID()
	if current, ok := h.clients[userID]; !ok || current != client {
		client.Close()
		return
	}
	delete(h.clients, userID)
	client.Close()
	log.Printf("client disconnected: %s (%d online)", userID, len(h.clients))

	dep, err := h.Registry.Leave(userID)
	if err != nil {
		// Not in any room; nothing to tear down.
		return
	}
	h.finishDeparture(dep)
	h.broadcastPresence()
}

// Dispatch routes one inbound event to its handler.
func (h *Hub) Dispatch(ev models.ClientEvent) {
	switch ev.Type {
	case models.EventJoinChat:
		h.handleJoin(ev.UserID)
	case models.EventSendMessage:
		h.handleSend(ev.UserID, ev.Content)
	case models.EventTyping:
		h.handleTyping(ev.UserID, ev.IsTyping)
	case models.EventLeaveChat:
		h.handleLeave(ev.UserID)
	default:
		log.Printf("unknown event type %q from %s", ev.Type, ev.UserID)
	}
}

func (h *Hub) handleJoin(userID string) {
	res := h.matcher.Pair(userID)
	if res.Departed != nil {
		h.finishDeparture(*res.Departed)
	}

	if client, ok := h.clients[userID]; ok {
		client.SetRoomID(res.RoomID)
	}

	h.sendTo(userID, models.ServerEvent{
		Type:    models.EventRoomJoined,
		Payload: models.RoomJoinedPayload{RoomID: res.RoomID, UserCount: res.UserCount},
	})
	if res.UserCount == 2 {
		h.sendTo(res.PeerID, models.ServerEvent{
			Type:    models.EventUserJoined,
			Payload: models.UserCountPayload{UserCount: res.UserCount},
		})
	}
	h.broadcastPresence()
}

func (h *Hub) handleSend(userID, content string) {
	if err := models.ValidateContent(content); err != nil {
		h.sendTo(userID, models.ServerEvent{
			Type:    models.EventError,
			Payload: models.ErrorPayload{Message: err.Error()},
		})
		return
	}

	roomID, ok := h.Registry.RoomForUser(userID)
	if !ok {
		// Sender has no room; expected after the peer ended the chat.
		return
	}
	msg, participants, err := h.Registry.AppendMessage(roomID, userID, content)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownUser) {
			log.Printf("send from %s rejected: not a participant of %s", userID, roomID)
		}
		// Room gone or peer missing: an expected race, dropped silently.
		return
	}

	ev := models.ServerEvent{Type: models.EventNewMessage, Payload: msg}
	for _, id := range participants {
		h.sendTo(id, ev)
	}
}

func (h *Hub) handleTyping(userID string, isTyping bool) {
	peer, err := h.Registry.PeerOf(userID)
	if err != nil {
		return
	}
	h.sendTo(peer, models.ServerEvent{Type: models.EventUserTyping, Payload: isTyping})
}

func (h *Hub) handleLeave(userID string) {
	dep, err := h.Registry.Leave(userID)
	if err != nil {
		// Leaving twice is a no-op.
		return
	}
	if client, ok := h.clients[userID]; ok {
		client.SetRoomID("")
	}
	h.finishDeparture(dep)
	h.broadcastPresence()
}

// finishDeparture notifies a left-behind peer and records the session when
// the room was destroyed.
func (h *Hub) finishDeparture(dep registry.Departure) {
	if dep.Remaining == 1 {
		h.sendTo(dep.PeerID, models.ServerEvent{
			Type:    models.EventUserLeft,
			Payload: models.UserCountPayload{UserCount: dep.Remaining},
		})
	}
	if dep.Session != nil && h.sessions != nil {
		if err := h.sessions.SaveChatSession(dep.Session); err != nil {
			log.Printf("failed to record chat session %s: %v", dep.Session.RoomID, err)
		}
	}
}

func (h *Hub) broadcastPresence() {
	ev := models.ServerEvent{
		Type:    models.EventOnlineUsers,
		Payload: h.presence.Display(h.Registry.Users()),
	}
	for userID := range h.clients {
		h.sendTo(userID, ev)
	}
}

// sendTo delivers an event to a user's connection without blocking the hub;
// a full send buffer means the event is dropped for that client.
func (h *Hub) sendTo(userID string, ev models.ServerEvent) {
	client, ok := h.clients[userID]
	if !ok {
		return
	}
	select {
	case client.GetSendChannel() <- ev:
	default:
		log.Printf("send buffer full for %s, dropping %s", userID, ev.Type)
	}
}
