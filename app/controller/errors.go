package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"enel-smeta/models"
	"enel-smeta/service"
)

// ActivityNotifier delivers site activity to chat subscribers
type ActivityNotifier interface {
	Notify(ctx context.Context, event service.Notification)
	Subscribers() []int64
}

// handleError maps service errors to a status and writes the {error, details} body.
// message is the user facing text of the failed operation.
func handleError(c *gin.Context, log zerolog.Logger, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrSheetUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, service.ErrNotifierDisabled):
		status = http.StatusServiceUnavailable
	}

	log.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("❌ " + message)
	c.JSON(status, models.ErrorResponse{Error: message, Details: err.Error()})
}
