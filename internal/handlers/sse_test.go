package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quorumdesk/quorumdesk-backend/internal/logger"
	"github.com/quorumdesk/quorumdesk-backend/internal/requestdata"
	"github.com/quorumdesk/quorumdesk-backend/internal/sse"
)

func sseTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func streamContext(t *testing.T, ctx context.Context, userID uuid.UUID) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/sse/stream", nil)
	c.Request = req.WithContext(requestdata.WithRequestData(ctx, &requestdata.RequestData{UserID: userID}))
	return c
}

func (h *SSEHandler) registeredClient(userID uuid.UUID) *sse.SSEClient {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[userID]
}

func waitForRegistration(t *testing.T, h *SSEHandler, userID uuid.UUID) *sse.SSEClient {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if client := h.registeredClient(userID); client != nil {
			return client
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for stream registration")
	return nil
}

// A second stream for the same user replaces the first. The first
// handler's cleanup must not panic and must not unregister the
// replacement.
func TestSSEStreamReconnectKeepsReplacementRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := sseTestLogger(t)
	h := NewSSEHandler(log, sse.NewSSEHub(log))
	userID := uuid.New()

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	defer cancelFirst()
	firstDone := make(chan any, 1)
	firstGin := streamContext(t, firstCtx, userID)
	go func() {
		defer func() { firstDone <- recover() }()
		h.SSEStream(firstGin)
	}()
	first := waitForRegistration(t, h, userID)

	secondCtx, cancelSecond := context.WithCancel(context.Background())
	secondDone := make(chan any, 1)
	secondGin := streamContext(t, secondCtx, userID)
	go func() {
		defer func() { secondDone <- recover() }()
		h.SSEStream(secondGin)
	}()

	select {
	case p := <-firstDone:
		if p != nil {
			t.Fatalf("replaced stream handler panicked: %v", p)
		}
	case <-time.After(time.Second):
		t.Fatalf("replaced stream did not stop")
	}

	replacement := h.registeredClient(userID)
	if replacement == nil {
		t.Fatalf("reconnect should leave a client registered")
	}
	if replacement == first {
		t.Fatalf("reconnect should register a new client")
	}

	cancelSecond()
	select {
	case p := <-secondDone:
		if p != nil {
			t.Fatalf("second stream handler panicked: %v", p)
		}
	case <-time.After(time.Second):
		t.Fatalf("second stream did not stop on disconnect")
	}
	if h.registeredClient(userID) != nil {
		t.Fatalf("registration should be cleared once the active stream ends")
	}
}
