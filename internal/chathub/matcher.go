package chathub

import "whisperwall/backend/internal/registry"

// Matcher pairs arriving users into rooms. The find-or-create step runs as a
// single atomic operation inside the registry, so two users joining at the
// same instant end up paired with each other instead of both waiting.
type Matcher struct {
	registry *registry.Registry
}

func NewMatcher(reg *registry.Registry) *Matcher {
	return &Matcher{registry: reg}
}

// Pair finds or creates a room for the user. A user who is already paired or
// waiting is moved synchronously: the old pairing is torn down and the new
// one formed under one lock, with no gap during which the user is absent.
func (m *Matcher) Pair(userID string) registry.PairResult {
	return m.registry.Pair(userID)
}
