package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/queue/port"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/ratelimit"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/realtime"
	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/upload"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/auth"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/application/usecase"
	chat "github.com/dihanio/LapakNesaBackend/internal/pkg/chat/domain"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/adapter"
)

const maxImageUploadBytes = 10 << 20 // 10MB

// SendImageController accepts a multipart image upload, stores it with the
// configured uploader and appends the resulting URL as an image message. An
// optional form field carries the caption.
type SendImageController struct {
	UC       *usecase.SendMessageUseCase
	Uploader upload.Uploader
	Limiter  ratelimit.Limiter
}

func NewSendImageController(pool *pgxpool.Pool, client qport.Client, hub *realtime.Hub, uploader upload.Uploader, limiter ratelimit.Limiter) *SendImageController {
	return &SendImageController{
		UC: &usecase.SendMessageUseCase{
			Conversations: adapter.NewPgConversationRepository(pool),
			Messages:      adapter.NewPgMessageRepository(pool),
			Queue:         client,
			Broadcaster:   hub,
		},
		Uploader: uploader,
		Limiter:  limiter,
	}
}

func (h *SendImageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.CurrentUser(c)
		if h.Limiter != nil {
			if err := h.Limiter.Allow(c.Request.Context(), "send:"+userID); err != nil {
				respondError(c, err)
				return
			}
		}
		if h.Uploader == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads are not configured"})
			return
		}

		// Membership gates the upload; otherwise any authenticated user
		// could burn storage quota against an arbitrary conversation id.
		authCtx, cancelAuth := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancelAuth()
		if err := h.UC.Authorize(authCtx, c.Param("conversationId"), userID); err != nil {
			respondError(c, err)
			return
		}

		header, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		if header.Size > maxImageUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds the 10MB limit"})
			return
		}
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image file"})
			return
		}
		defer file.Close()

		// Upload first; only a stored image becomes a message.
		uploadCtx, cancelUpload := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancelUpload()
		publicID := fmt.Sprintf("chat/%s/%s", c.Param("conversationId"), uuid.NewString())
		url, err := h.Uploader.UploadImage(uploadCtx, file, publicID)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image upload failed"})
			return
		}

		var caption *string
		if v := c.PostForm("content"); v != "" {
			caption = &v
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		message, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ConversationID: c.Param("conversationId"),
			SenderID:       userID,
			Content:        caption,
			Image:          &url,
			MessageType:    chat.MessageTypeImage,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, usecase.NewMessageView(message))
	}
}
