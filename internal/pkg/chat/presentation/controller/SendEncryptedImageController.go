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

// SendEncryptedImageController appends a client-side encrypted image, with an
// optional encrypted caption. The server never sees either in the clear.
type SendEncryptedImageController struct {
	UC      *usecase.SendMessageUseCase
	Limiter ratelimit.Limiter
}

func NewSendEncryptedImageController(pool *pgxpool.Pool, client qport.Client, hub *realtime.Hub, limiter ratelimit.Limiter) *SendEncryptedImageController {
	return &SendEncryptedImageController{
		UC: &usecase.SendMessageUseCase{
			Conversations: adapter.NewPgConversationRepository(pool),
			Messages:      adapter.NewPgMessageRepository(pool),
			Queue:         client,
			Broadcaster:   hub,
		},
		Limiter: limiter,
	}
}

type sendEncryptedImageRequest struct {
	EncryptedImage string  `json:"encryptedImage" binding:"required"`
	ImageIV        string  `json:"imageIv" binding:"required"`
	ImageMimeType  *string `json:"imageMimeType"`
	SessionKey     *string `json:"sessionKey"`
	Ciphertext     *string `json:"ciphertext"`
	IV             *string `json:"iv"`
}

func (h *SendEncryptedImageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.CurrentUser(c)
		if h.Limiter != nil {
			if err := h.Limiter.Allow(c.Request.Context(), "send:"+userID); err != nil {
				respondError(c, err)
				return
			}
		}

		var req sendEncryptedImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		message, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ConversationID: c.Param("conversationId"),
			SenderID:       userID,
			Encrypted:      true,
			Ciphertext:     req.Ciphertext,
			IV:             req.IV,
			SessionKey:     req.SessionKey,
			EncryptedImage: &req.EncryptedImage,
			ImageIV:        &req.ImageIV,
			ImageMimeType:  req.ImageMimeType,
			MessageType:    chat.MessageTypeImage,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, usecase.NewMessageView(message))
	}
}
