package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"

	"whisperwall/backend/internal/identity"
)

const tokenTTL = 72 * time.Hour

// GetToken mints a fresh pseudonymous identity and returns it with a signed
// token. The token only lets a client carry the same identity across
// reconnects; it proves nothing about who they are.
func (h *Handler) GetToken(c *gin.Context) {
	id := identity.New()

	claims := jwt.MapClaims{
		"anon_id": id.ID,
		"name":    id.Name,
		"exp":     time.Now().Add(tokenTTL).Unix(),
		"iss":     "whisperwall-service",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "anon_id": id.ID, "name": id.Name})
}

// anonIDFromToken extracts the anonymous id from a token issued by GetToken.
func (h *Handler) anonIDFromToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	anonID, ok := claims["anon_id"].(string)
	if !ok || anonID == "" {
		return "", errors.New("token carries no anon_id")
	}
	return anonID, nil
}
