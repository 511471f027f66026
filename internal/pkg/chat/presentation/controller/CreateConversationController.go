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

// CreateConversationController handles the conversation find-or-create
// endpoint. One controller per endpoint.
type CreateConversationController struct {
	UC *usecase.StartConversationUseCase
}

func NewCreateConversationController(pool *pgxpool.Pool) *CreateConversationController {
	return &CreateConversationController{
		UC: &usecase.StartConversationUseCase{Conversations: adapter.NewPgConversationRepository(pool)},
	}
}

type createConversationRequest struct {
	RecipientID  string  `json:"recipientId" binding:"required"`
	ProductID    *string `json:"productId"`
	ClearProduct bool    `json:"clearProduct"`
}

func (h *CreateConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		conversation, err := h.UC.Execute(ctx, usecase.StartConversationInput{
			UserID:       auth.CurrentUser(c),
			RecipientID:  req.RecipientID,
			ProductID:    req.ProductID,
			ClearProduct: req.ClearProduct,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, usecase.NewConversationView(conversation, auth.CurrentUser(c), 0))
	}
}
