package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/followup"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/reminder"
)

const (
	errTypeValidation   = "validation_error"
	errTypeNotFound     = "not_found"
	errTypeLimitReached = "limit_reached"
	errTypeCapExceeded  = "cap_exceeded"
	errTypeProcessing   = "processing_error"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, ErrorResponse{Error: errType, Message: message})
}

// respondServiceError maps service errors onto status codes. Unexpected
// errors are logged and reported without detail.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		respondError(c, http.StatusNotFound, errTypeNotFound, err.Error())
	case errors.Is(err, domain.ErrProfileLimitReached):
		respondError(c, http.StatusConflict, errTypeLimitReached, err.Error())
	case errors.Is(err, domain.ErrCapExceeded):
		respondError(c, http.StatusConflict, errTypeCapExceeded, err.Error())
	case errors.Is(err, domain.ErrInvalidProfile),
		errors.Is(err, domain.ErrProfileNameEmpty),
		errors.Is(err, domain.ErrInvalidTimeBlock),
		errors.Is(err, reminder.ErrInvalidFrequency),
		errors.Is(err, reminder.ErrInvalidExerciseLog),
		errors.Is(err, followup.ErrInvalidSnoozeDuration):
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to process request")
	}
}
