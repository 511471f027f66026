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

// UnreadCountController serves the total unread badge count.
type UnreadCountController struct {
	UC *usecase.UnreadCountUseCase
}

func NewUnreadCountController(pool *pgxpool.Pool) *UnreadCountController {
	return &UnreadCountController{
		UC: &usecase.UnreadCountUseCase{
			Conversations: adapter.NewPgConversationRepository(pool),
			Messages:      adapter.NewPgMessageRepository(pool),
		},
	}
}

func (h *UnreadCountController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		total, err := h.UC.Execute(ctx, auth.CurrentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"unreadCount": total})
	}
}
