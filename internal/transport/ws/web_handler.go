package ws

import (
	"context"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"edumeet/internal/domain"
	"edumeet/internal/logger"
)

// TokenVerifier matches the auth service's session-token verification.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*domain.Claims, error)
}

type WebHandler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	verifier TokenVerifier
	log      logger.Logger
}

func NewWebHandler(hub *Hub, verifier TokenVerifier, log logger.Logger, allowedOrigins []string) *WebHandler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			allowed := slices.Contains(allowedOrigins, origin)
			if !allowed {
				log.Warn("ws auth: origin rejected", "origin", origin)
			}

			return allowed
		},
	}

	return &WebHandler{
		hub:      hub,
		upgrader: upgrader,
		verifier: verifier,
		log:      log,
	}
}

func (h *WebHandler) Serve(w http.ResponseWriter, r *http.Request) {
	var clientID string

	cookie, err := r.Cookie("access_token")
	if err == nil {
		claims, err := h.verifier.Verify(r.Context(), cookie.Value)
		if err == nil {
			clientID = claims.UserID.String()
		}
	}

	if clientID == "" {
		h.log.Warn("ws auth: no valid credentials")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws auth: upgrade failed", "error", err)
		return
	}

	c := NewClient(h.hub, conn, h.log, clientID)
	c.hub.register <- c

	go c.writePump()
	go c.readPump()
}
