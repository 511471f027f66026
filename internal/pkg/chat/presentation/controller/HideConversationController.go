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

// HideConversationController handles the hide endpoint.
type HideConversationController struct {
	UC *usecase.HideConversationUseCase
}

func NewHideConversationController(pool *pgxpool.Pool) *HideConversationController {
	return &HideConversationController{
		UC: &usecase.HideConversationUseCase{Conversations: adapter.NewPgConversationRepository(pool)},
	}
}

func (h *HideConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		if err := h.UC.Execute(ctx, c.Param("conversationId"), auth.CurrentUser(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "hidden"})
	}
}
