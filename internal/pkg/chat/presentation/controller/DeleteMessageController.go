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

// DeleteMessageController handles sender-side message deletion.
type DeleteMessageController struct {
	UC *usecase.DeleteMessageUseCase
}

func NewDeleteMessageController(pool *pgxpool.Pool, hub *realtime.Hub) *DeleteMessageController {
	return &DeleteMessageController{
		UC: &usecase.DeleteMessageUseCase{
			Messages:    adapter.NewPgMessageRepository(pool),
			Broadcaster: hub,
		},
	}
}

func (h *DeleteMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		if err := h.UC.Execute(ctx, c.Param("messageId"), auth.CurrentUser(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}
