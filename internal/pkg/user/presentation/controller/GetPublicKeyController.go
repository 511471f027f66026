package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dihanio/LapakNesaBackend/internal/pkg/user/application/usecase"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/user/persistence/repository/adapter"
)

// GetPublicKeyController serves another user's published public key.
type GetPublicKeyController struct {
	UC *usecase.GetPublicKeyUseCase
}

func NewGetPublicKeyController(pool *pgxpool.Pool) *GetPublicKeyController {
	return &GetPublicKeyController{
		UC: &usecase.GetPublicKeyUseCase{Users: adapter.NewPgUserRepository(pool)},
	}
}

func (h *GetPublicKeyController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		key, err := h.UC.Execute(ctx, c.Param("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": c.Param("userId"), "publicKey": key})
	}
}
