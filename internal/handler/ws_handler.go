package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/zuqon/content-backend/internal/common"
	"github.com/zuqon/content-backend/internal/domain"
	"github.com/zuqon/content-backend/internal/service"
	"github.com/zuqon/content-backend/internal/ws"
)

// WSHandler upgrades connections that watch one content item's publishing
// state. Each open socket holds a status poller subscription, so the store
// is polled exactly while someone is watching.
type WSHandler struct {
	hub            *ws.Hub
	poller         *service.StatusPoller
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *ws.Hub, poller *service.StatusPoller, allowedOrigins string) *WSHandler {
	h := &WSHandler{
		hub:            hub,
		poller:         poller,
		allowedOrigins: parseOrigins(allowedOrigins),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// parseOrigins parses comma-separated origins string
func parseOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// checkOrigin validates the request origin against allowed origins
func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // Same-origin requests don't have Origin header
	}

	// If no allowed origins configured, allow all (development mode)
	if len(h.allowedOrigins) == 0 {
		return true
	}

	// Check against allowed origins
	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}

	return false
}

// Watch handles GET /ws/contents/:id — WebSocket upgrade
func (h *WSHandler) Watch(c *gin.Context) {
	contentID, err := ws.ParseContentID(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid content ID", err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, contentID)
	h.hub.Register(client)

	// snapshots reach the client through the hub broadcast
	unsubscribe := h.poller.Subscribe(contentID, func(domain.PublishingSnapshot) {})

	go client.WritePump()
	go func() {
		defer unsubscribe()
		client.ReadPump()
	}()
}
