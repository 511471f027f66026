package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cport "github.com/dihanio/LapakNesaBackend/internal/infrastructure/cache/port"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/user/application/usecase"
	"github.com/dihanio/LapakNesaBackend/internal/pkg/user/persistence/repository/adapter"
)

// GetPresenceController serves another user's online state.
type GetPresenceController struct {
	UC *usecase.GetPresenceUseCase
}

func NewGetPresenceController(pool *pgxpool.Pool, cache cport.Cache) *GetPresenceController {
	return &GetPresenceController{
		UC: &usecase.GetPresenceUseCase{
			Users: adapter.NewPgUserRepository(pool),
			Cache: cache,
		},
	}
}

func (h *GetPresenceController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		view, err := h.UC.Execute(ctx, c.Param("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
