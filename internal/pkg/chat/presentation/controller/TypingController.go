package controller

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/cache/port"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/realtime"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/auth"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/application/usecase"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/adapter"
)

// TypingController is the REST fallback for clients without an open socket.
type TypingController struct {
	UC *usecase.TypingIndicatorUseCase
}

func NewTypingController(pool *pgxpool.Pool, hub *realtime.Hub, cache cport.Cache) *TypingController {
	return &TypingController{
		UC: &usecase.TypingIndicatorUseCase{
			Conversations: adapter.NewPgConversationRepository(pool),
			Broadcaster:   hub,
			Cache:         cache,
			TTL:           typingTTLFromEnv(),
		},
	}
}

func typingTTLFromEnv() time.Duration {
	raw := os.Getenv("TYPING_TTL_SECONDS")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

type typingRequest struct {
	IsTyping bool `json:"isTyping"`
}

func (h *TypingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req typingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		if err := h.UC.Execute(ctx, c.Param("conversationId"), auth.CurrentUser(c), req.IsTyping); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// HandleStatus answers whether the counterpart is typing right now, for
// clients polling over REST instead of holding a socket.
func (h *TypingController) HandleStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		other, isTyping, err := h.UC.Peek(ctx, c.Param("conversationId"), auth.CurrentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": other, "isTyping": isTyping})
	}
}
