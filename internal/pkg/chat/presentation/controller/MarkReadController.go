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

// MarkReadController handles the explicit mark-as-read endpoint.
type MarkReadController struct {
	UC *usecase.MarkReadUseCase
}

func NewMarkReadController(pool *pgxpool.Pool, hub *realtime.Hub) *MarkReadController {
	return &MarkReadController{
		UC: &usecase.MarkReadUseCase{
			Conversations: adapter.NewPgConversationRepository(pool),
			Messages:      adapter.NewPgMessageRepository(pool),
			Broadcaster:   hub,
		},
	}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		modified, err := h.UC.Execute(ctx, c.Param("conversationId"), auth.CurrentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"modified": modified})
	}
}
