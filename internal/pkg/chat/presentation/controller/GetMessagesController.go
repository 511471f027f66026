package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dihanio/LapakNesaBackend/internal/infrastructure/realtime"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/auth"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/application/usecase"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/adapter"
)

// GetMessagesController serves a conversation's visible message window.
// Fetching also marks the counterpart's messages as read.
type GetMessagesController struct {
	UC *usecase.ListMessagesUseCase
}

func NewGetMessagesController(pool *pgxpool.Pool, hub *realtime.Hub) *GetMessagesController {
	return &GetMessagesController{
		UC: &usecase.ListMessagesUseCase{
			Conversations: adapter.NewPgConversationRepository(pool),
			Messages:      adapter.NewPgMessageRepository(pool),
			Broadcaster:   hub,
		},
	}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		views, err := h.UC.Execute(ctx, c.Param("conversationId"), auth.CurrentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}
