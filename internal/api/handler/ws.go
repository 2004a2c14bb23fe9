package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"whisperwall/backend/internal/chathub"
	"whisperwall/backend/internal/identity"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the HTTP connection and registers it with the hub.
// Identity is self-asserted: a token from GetToken is honored if presented,
// a bare userId query parameter works too, and a client with neither gets a
// fresh anonymous id.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	var userID string
	if tok := c.Query("token"); tok != "" {
		if anonID, err := h.anonIDFromToken(tok); err == nil {
			userID = anonID
		}
	}
	if userID == "" {
		userID = c.Query("userId")
	}
	if userID == "" {
		userID = identity.NewAnonID()
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, conn, userID)
	h.Hub.RegisterCh <- client
	client.Run()
}
