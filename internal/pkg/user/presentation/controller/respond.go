package controller

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/dihanio/LapakNesaBackend/pkg/errors"
)

const requestTimeout = 3 * time.Second

func respondError(c *gin.Context, err error) {
	message := err.Error()
	var app *apperrors.AppError
	if stderrors.As(err, &app) {
		message = app.Message
	}
	status := http.StatusInternalServerError
	switch apperrors.CodeOf(err) {
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeForbidden:
		status = http.StatusForbidden
	case apperrors.CodeInvalidPayload:
		status = http.StatusBadRequest
	case apperrors.CodeUnavailable:
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": message})
}
