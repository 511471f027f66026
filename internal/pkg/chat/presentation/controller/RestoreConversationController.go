package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dihanio/LapakNesaBackend/internal/pkg/auth"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/application/usecase"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/chat/persistence/repository/adapter"
)

// RestoreConversationController handles the restore endpoint.
type RestoreConversationController struct {
	UC *usecase.RestoreConversationUseCase
}

func NewRestoreConversationController(pool *pgxpool.Pool) *RestoreConversationController {
	return &RestoreConversationController{
		UC: &usecase.RestoreConversationUseCase{Conversations: adapter.NewPgConversationRepository(pool)},
	}
}

func (h *RestoreConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		if err := h.UC.Execute(ctx, c.Param("conversationId"), auth.CurrentUser(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "restored"})
	}
}
