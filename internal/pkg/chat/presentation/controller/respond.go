package controller

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"
)

const requestTimeout = 3 * time.Second

func statusOf(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeForbidden:
		return http.StatusForbidden
	case apperrors.CodeInvalidPayload:
		return http.StatusBadRequest
	case apperrors.CodeConflict:
		return http.StatusConflict
	case apperrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage strips wrapped causes so clients only see the taxonomy-level
// message.
func errorMessage(err error) string {
	var app *apperrors.AppError
	if stderrors.As(err, &app) {
		return app.Message
	}
	return err.Error()
}

// respondError maps the application error taxonomy onto HTTP statuses without
// leaking wrapped causes to clients.
func respondError(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": errorMessage(err)})
}
