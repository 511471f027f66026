package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dihanio/LapakNesaBackend/internal/pkg/auth"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/user/application/usecase"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/user/persistence/repository/adapter"
)

// StorePublicKeyController lets a client publish its encryption public key.
type StorePublicKeyController struct {
	UC *usecase.StorePublicKeyUseCase
}

func NewStorePublicKeyController(pool *pgxpool.Pool) *StorePublicKeyController {
	return &StorePublicKeyController{
		UC: &usecase.StorePublicKeyUseCase{Users: adapter.NewPgUserRepository(pool)},
	}
}

type storePublicKeyRequest struct {
	PublicKey string `json:"publicKey" binding:"required"`
}

func (h *StorePublicKeyController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req storePublicKeyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		if err := h.UC.Execute(ctx, auth.CurrentUser(c), req.PublicKey); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "stored"})
	}
}
