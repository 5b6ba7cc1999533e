package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quorumdesk/quorumdesk-backend/internal/logger"
	"github.com/quorumdesk/quorumdesk-backend/internal/requestdata"
	"github.com/quorumdesk/quorumdesk-backend/internal/sse"
)

type SSEHandler struct {
	Log *logger.Logger
	Hub *sse.SSEHub

	mu      sync.RWMutex
	clients map[uuid.UUID]*sse.SSEClient // key: UserID
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{
		Log:     log,
		Hub:     hub,
		clients: make(map[uuid.UUID]*sse.SSEClient),
	}
}

func (h *SSEHandler) SSEStream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	userID := rd.UserID
	h.Log.Info("SSEStream open", "user_id", userID.String())

	h.mu.Lock()
	// One stream per user; a new connection replaces the old one.
	if existing, ok := h.clients[userID]; ok {
		h.Hub.CloseClient(existing)
		delete(h.clients, userID)
	}
	client := h.Hub.NewSSEClient(userID)
	h.clients[userID] = client
	h.mu.Unlock()

	h.Hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	// A reconnect may already have replaced this client; only drop the
	// registration if it is still ours.
	if h.clients[userID] == client {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	h.Hub.CloseClient(client)
}

func (h *SSEHandler) SSESubscribe(c *gin.Context) {
	client, ok := h.activeClient(c)
	if !ok {
		return
	}
	var req struct {
		Channel string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel"})
		return
	}
	h.Hub.AddChannel(client, req.Channel)
	c.JSON(http.StatusOK, gin.H{"message": "subscribed", "channel": req.Channel})
}

func (h *SSEHandler) SSEUnsubscribe(c *gin.Context) {
	client, ok := h.activeClient(c)
	if !ok {
		return
	}
	var req struct {
		Channel string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel"})
		return
	}
	h.Hub.RemoveChannel(client, req.Channel)
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed", "channel": req.Channel})
}

func (h *SSEHandler) activeClient(c *gin.Context) (*sse.SSEClient, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return nil, false
	}
	h.mu.RLock()
	client, exists := h.clients[rd.UserID]
	h.mu.RUnlock()
	if !exists {
		c.JSON(http.StatusConflict, gin.H{"error": "no active SSE connection for this user"})
		return nil, false
	}
	return client, true
}
