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
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/adapter"
)

// SendMessageController handles the JSON send endpoint. Plaintext, gif and
// encrypted payloads all come through here; binary image uploads have their
// own endpoint.
type SendMessageController struct {
	UC      *usecase.SendMessageUseCase
	Limiter ratelimit.Limiter
}

func NewSendMessageController(pool *pgxpool.Pool, client qport.Client, hub *realtime.Hub, limiter ratelimit.Limiter) *SendMessageController {
	return &SendMessageController{
		UC: &usecase.SendMessageUseCase{
			Conversations: adapter.NewPgConversationRepository(pool),
			Messages:      adapter.NewPgMessageRepository(pool),
			Queue:         client,
			Broadcaster:   hub,
		},
		Limiter: limiter,
	}
}

type sendMessageRequest struct {
	Content        *string `json:"content"`
	GifURL         *string `json:"gifUrl"`
	Encrypted      bool    `json:"encrypted"`
	Ciphertext     *string `json:"ciphertext"`
	IV             *string `json:"iv"`
	SessionKey     *string `json:"sessionKey"`
	EncryptedImage *string `json:"encryptedImage"`
	ImageIV        *string `json:"imageIv"`
	ImageMimeType  *string `json:"imageMimeType"`
	MessageType    string  `json:"messageType"`
	ReplyToID      *string `json:"replyTo"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.CurrentUser(c)
		if h.Limiter != nil {
			if err := h.Limiter.Allow(c.Request.Context(), "send:"+userID); err != nil {
				respondError(c, err)
				return
			}
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		message, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ConversationID: c.Param("conversationId"),
			SenderID:       userID,
			Content:        req.Content,
			GifURL:         req.GifURL,
			Encrypted:      req.Encrypted,
			Ciphertext:     req.Ciphertext,
			IV:             req.IV,
			SessionKey:     req.SessionKey,
			EncryptedImage: req.EncryptedImage,
			ImageIV:        req.ImageIV,
			ImageMimeType:  req.ImageMimeType,
			MessageType:    req.MessageType,
			ReplyToID:      req.ReplyToID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, usecase.NewMessageView(message))
	}
}
