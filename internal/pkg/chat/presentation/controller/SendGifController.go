package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/queue/port"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/ratelimit"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/realtime"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/auth"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/application/usecase"
	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/adapter"
)

// SendGifController appends a gif message. The gif stays hosted by its
// provider; only the URL is stored.
type SendGifController struct {
	UC      *usecase.SendMessageUseCase
	Limiter ratelimit.Limiter
}

func NewSendGifController(pool *pgxpool.Pool, client qport.Client, hub *realtime.Hub, limiter ratelimit.Limiter) *SendGifController {
	return &SendGifController{
		UC: &usecase.SendMessageUseCase{
			Conversations: adapter.NewPgConversationRepository(pool),
			Messages:      adapter.NewPgMessageRepository(pool),
			Queue:         client,
			Broadcaster:   hub,
		},
		Limiter: limiter,
	}
}

type sendGifRequest struct {
	GifURL  string  `json:"gifUrl" binding:"required"`
	Caption *string `json:"caption"`
}

func (h *SendGifController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.CurrentUser(c)
		if h.Limiter != nil {
			if err := h.Limiter.Allow(c.Request.Context(), "send:"+userID); err != nil {
				respondError(c, err)
				return
			}
		}

		var req sendGifRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		message, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ConversationID: c.Param("conversationId"),
			SenderID:       userID,
			Content:        req.Caption,
			GifURL:         &req.GifURL,
			MessageType:    chat.MessageTypeGif,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, usecase.NewMessageView(message))
	}
}
