// Package handler wires the HTTP surface: anonymous token issuance, the
// websocket upgrade into the chat hub, and the confession feed REST API.
package handler

import (
	"whisperwall/backend/internal/chathub"
	"whisperwall/backend/internal/confessions"
)

// Handler holds the services the HTTP layer fronts.
type Handler struct {
	Hub         *chathub.Hub
	Confessions *confessions.Service

	jwtSecret []byte
}

func NewHandler(hub *chathub.Hub, feed *confessions.Service, jwtSecret string) *Handler {
	return &Handler{
		Hub:         hub,
		Confessions: feed,
		jwtSecret:   []byte(jwtSecret),
	}
}
