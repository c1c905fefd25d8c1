package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Asker answers a free-text question about the shop.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

type AIHandler struct {
	assistant Asker
	timeout   time.Duration
	log       *zap.Logger
}

// NewAIHandler takes a nil assistant when no API key is configured.
// A zero timeout leaves the request context as is.
func NewAIHandler(assistant Asker, timeout time.Duration, log *zap.Logger) *AIHandler {
	return &AIHandler{assistant: assistant, timeout: timeout, log: log}
}

func (h *AIHandler) Register(api *gin.RouterGroup) {
	api.POST("/assistant/ask", h.Ask)
}

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// --- POST: Ask the shop assistant ---
func (h *AIHandler) Ask(c *gin.Context) {
	if h.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
		return
	}
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		badRequest(c, "message is required")
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	reply, err := h.assistant.Ask(ctx, req.Message)
	if err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		h.log.Warn("assistant timed out", zap.Duration("timeout", h.timeout))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "assistant took too long, try a narrower question"})
		return
	}
	if err != nil {
		h.log.Error("assistant failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant is unavailable, try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
