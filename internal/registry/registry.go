// Package registry owns the room table and the user-to-room index for the
// pairing relay. It is the single source of truth for who is paired with
// whom: every mutation runs under one mutex, so concurrent joins, leaves and
// sends can never observe a room and the index disagreeing.
package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"whisperwall/backend/internal/models"
)

var (
	// ErrRoomNotFound signals an operation against a room that no longer
	// exists. This is an expected race (peer left first), not a bug.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomFull signals an attempt to add a third participant. It should
	// never happen under matchmaker discipline and is logged as an
	// internal inconsistency by callers.
	ErrRoomFull = errors.New("room already has two participants")
	// ErrUnknownUser signals an operation for a user with no registry entry.
	ErrUnknownUser = errors.New("user is not in any room")
	// ErrAlreadyPaired signals a direct AddParticipant for a user who is
	// already indexed. Pair tears the old pairing down instead.
	ErrAlreadyPaired = errors.New("user is already in a room")
	// ErrNoPeer signals a send or typing relay in a room that is missing
	// its second participant.
	ErrNoPeer = errors.New("room has no second participant")
)

type room struct {
	id           string
	participants []string // ordered, len 0..2
	messages     []models.ChatMessage
	createdAt    time.Time
}

// RoomInfo is an immutable snapshot of a room's state.
type RoomInfo struct {
	ID           string
	Participants []string
	CreatedAt    time.Time
	Messages     int
}

// Departure describes the outcome of a user leaving their room.
type Departure struct {
	RoomID string
	// Remaining is the participant count after the leave; 0 means the room
	// was destroyed.
	Remaining int
	// PeerID is the remaining occupant, set when Remaining == 1.
	PeerID string
	// Session is the closed-room record, set when Remaining == 0.
	Session *models.ChatSession
}

// PairResult describes the outcome of pairing a user.
type PairResult struct {
	RoomID string
	// UserCount is the room's participant count after the join: 1 means the
	// user is waiting for a stranger, 2 means the room is full.
	UserCount int
	// PeerID is the user already in the room, set when UserCount == 2.
	PeerID string
	// Departed is non-nil when the user was already paired or waiting and
	// the prior pairing was torn down first.
	Departed *Departure
}

// Registry is the shared room table. All exported methods are safe for
// concurrent use; compound operations (Pair, Leave) hold the lock for their
// whole duration so the room table and the user index move together.
type Registry struct {
	mu        sync.Mutex
	rooms     map[string]*room
	userRooms map[string]string
}

func New() *Registry {
	return &Registry{
		rooms:     make(map[string]*room),
		userRooms: make(map[string]string),
	}
}

// CreateRoom allocates a new empty room and returns its id.
func (r *Registry) CreateRoom() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createRoomLocked()
}

// FindWaitingRoom returns any room that currently has exactly one
// participant. No ordering is guaranteed between waiting rooms.
func (r *Registry) FindWaitingRoom() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findWaitingLocked()
}

// AddParticipant puts userID into the given room and indexes the pairing.
func (r *Registry) AddParticipant(roomID, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addParticipantLocked(roomID, userID)
}

// Pair finds or creates a room for userID and joins them to it, as one
// atomic step: two concurrent calls can never both grab the same waiting
// slot, nor both open fresh rooms while a waiting room exists. If the user is
// already paired or waiting, the old pairing is torn down first under the
// same lock, so a rejoining user is never absent from the index and never
// present in two rooms at once.
func (r *Registry) Pair(userID string) PairResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res PairResult
	if _, ok := r.userRooms[userID]; ok {
		dep := r.leaveLocked(userID)
		res.Departed = &dep
	}

	roomID, ok := r.findWaitingLocked()
	if !ok {
		roomID = r.createRoomLocked()
	}

	rm := r.rooms[roomID]
	if len(rm.participants) == 1 {
		res.PeerID = rm.participants[0]
	}
	rm.participants = append(rm.participants, userID)
	r.userRooms[userID] = roomID

	res.RoomID = roomID
	res.UserCount = len(rm.participants)
	return res
}

// Leave removes userID from their room and drops the index entry. The room
// is destroyed the instant its participant count reaches zero.
func (r *Registry) Leave(userID string) (Departure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.userRooms[userID]; !ok {
		return Departure{}, ErrUnknownUser
	}
	return r.leaveLocked(userID), nil
}

// AppendMessage appends a server-stamped message to the room's buffer and
// returns it along with the room's participants for broadcast. The sender
// must be one of the room's two occupants.
func (r *Registry) AppendMessage(roomID, userID, content string) (models.ChatMessage, []string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return models.ChatMessage{}, nil, ErrRoomNotFound
	}
	if !contains(rm.participants, userID) {
		return models.ChatMessage{}, nil, ErrUnknownUser
	}
	if len(rm.participants) < 2 {
		return models.ChatMessage{}, nil, ErrNoPeer
	}

	msg := models.ChatMessage{
		ID:        uuid.New().String(),
		RoomID:    roomID,
		UserID:    userID,
		Content:   content,
		Timestamp: time.Now(),
	}
	rm.messages = append(rm.messages, msg)
	return msg, append([]string(nil), rm.participants...), nil
}

// PeerOf returns the other occupant of the user's room.
func (r *Registry) PeerOf(userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok := r.userRooms[userID]
	if !ok {
		return "", ErrUnknownUser
	}
	rm := r.rooms[roomID]
	for _, id := range rm.participants {
		if id != userID {
			return id, nil
		}
	}
	return "", ErrNoPeer
}

// RoomForUser returns the id of the room the user is currently in.
func (r *Registry) RoomForUser(userID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roomID, ok := r.userRooms[userID]
	return roomID, ok
}

// GetRoom returns a snapshot of a room.
func (r *Registry) GetRoom(roomID string) (RoomInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.rooms[roomID]
	if !ok {
		return RoomInfo{}, false
	}
	return snapshot(rm), true
}

// Rooms returns a snapshot of every live room.
func (r *Registry) Rooms() []RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	infos := make([]RoomInfo, 0, len(r.rooms))
	for _, rm := range r.rooms {
		infos = append(infos, snapshot(rm))
	}
	return infos
}

// Users returns the number of currently tracked users, waiting and paired.
func (r *Registry) Users() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.userRooms)
}

func (r *Registry) createRoomLocked() string {
	id := uuid.New().String()
	r.rooms[id] = &room{id: id, createdAt: time.Now()}
	return id
}

func (r *Registry) findWaitingLocked() (string, bool) {
	for id, rm := range r.rooms {
		if len(rm.participants) == 1 {
			return id, true
		}
	}
	return "", false
}

func (r *Registry) addParticipantLocked(roomID, userID string) (int, error) {
	rm, ok := r.rooms[roomID]
	if !ok {
		return 0, ErrRoomNotFound
	}
	if len(rm.participants) >= 2 {
		return len(rm.participants), ErrRoomFull
	}
	if _, ok := r.userRooms[userID]; ok {
		return len(rm.participants), ErrAlreadyPaired
	}
	rm.participants = append(rm.participants, userID)
	r.userRooms[userID] = roomID
	return len(rm.participants), nil
}

func (r *Registry) leaveLocked(userID string) Departure {
	roomID := r.userRooms[userID]
	delete(r.userRooms, userID)

	rm := r.rooms[roomID]
	remaining := rm.participants[:0]
	for _, id := range rm.participants {
		if id != userID {
			remaining = append(remaining, id)
		}
	}
	rm.participants = remaining

	dep := Departure{RoomID: roomID, Remaining: len(rm.participants)}
	switch len(rm.participants) {
	case 0:
		dep.Session = &models.ChatSession{
			RoomID:    roomID,
			StartedAt: rm.createdAt,
			EndedAt:   time.Now(),
			Messages:  len(rm.messages),
		}
		delete(r.rooms, roomID)
	case 1:
		dep.PeerID = rm.participants[0]
	}
	return dep
}

func snapshot(rm *room) RoomInfo {
	return RoomInfo{
		ID:           rm.id,
		Participants: append([]string(nil), rm.participants...),
		CreatedAt:    rm.createdAt,
		Messages:     len(rm.messages),
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
