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

// SearchMessagesController handles plaintext message search.
type SearchMessagesController struct {
	UC *usecase.SearchMessagesUseCase
}

func NewSearchMessagesController(pool *pgxpool.Pool) *SearchMessagesController {
	return &SearchMessagesController{
		UC: &usecase.SearchMessagesUseCase{
			Conversations: adapter.NewPgConversationRepository(pool),
			Messages:      adapter.NewPgMessageRepository(pool),
		},
	}
}

func (h *SearchMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		in := usecase.SearchMessagesInput{
			UserID: auth.CurrentUser(c),
			Query:  c.Query("q"),
		}
		if v := c.Query("conversationId"); v != "" {
			in.ConversationID = &v
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		views, err := h.UC.Execute(ctx, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}
