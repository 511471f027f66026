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

// ListConversationsController serves the inbox listing. The hidden query
// parameter selects the archive view instead.
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(pool *pgxpool.Pool) *ListConversationsController {
	return &ListConversationsController{
		UC: &usecase.ListConversationsUseCase{
			Conversations: adapter.NewPgConversationRepository(pool),
			Messages:      adapter.NewPgMessageRepository(pool),
		},
	}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		views, err := h.UC.Execute(ctx, usecase.ListConversationsInput{
			UserID: auth.CurrentUser(c),
			Hidden: c.Query("hidden") == "true",
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}
