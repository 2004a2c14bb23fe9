// Package identity produces the pseudonymous identity a client chats under:
// an opaque anonymous id and a generated display name. The id is
// self-asserted, never verified; it only has to be stable for the client's
// lifetime and unique enough to key the room index.
package identity

import (
	"math/rand"
	"strconv"

	"github.com/google/uuid"
)

var adjectives = []string{
	"Silent", "Mysterious", "Curious", "Brave", "Wise", "Swift", "Bold", "Calm",
	"Clever", "Daring", "Eager", "Fierce", "Gentle", "Happy", "Jolly", "Kind",
	"Lively", "Mighty", "Noble", "Proud", "Quick", "Quiet", "Rapid", "Sharp",
}

var nouns = []string{
	"Panda", "Tiger", "Eagle", "Wolf", "Fox", "Bear", "Lion", "Hawk",
	"Owl", "Raven", "Phoenix", "Dragon", "Falcon", "Leopard", "Panther",
	"Jaguar", "Cheetah", "Lynx", "Otter", "Dolphin", "Whale", "Shark",
}

// Identity is a client's pseudonymous identity.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// New mints a fresh identity with a random anonymous id and display name.
func New() Identity {
	return Identity{
		ID:   NewAnonID(),
		Name: DisplayName(),
	}
}

// NewAnonID returns a fresh opaque user id.
func NewAnonID() string {
	return uuid.New().String()
}

// DisplayName generates a name like "SilentPanda42".
func DisplayName() string {
	adjective := adjectives[rand.Intn(len(adjectives))]
	noun := nouns[rand.Intn(len(nouns))]
	return adjective + noun + strconv.Itoa(rand.Intn(999))
}
