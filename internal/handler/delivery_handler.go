package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/reminder"
)

// DeliveryHandler receives the task queue callback for fired requests.
type DeliveryHandler struct {
	service ReminderService
}

func NewDeliveryHandler(service ReminderService) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

type DeliveryRequest struct {
	TaskID     string    `json:"task_id" binding:"required"`
	UserID     string    `json:"user_id" binding:"required"`
	Identifier string    `json:"identifier" binding:"required"`
	FireAt     time.Time `json:"fire_at"`
}

type DeliveryResponse struct {
	Status            string      `json:"status"`
	Lane              domain.Lane `json:"lane,omitempty"`
	Forwarded         bool        `json:"forwarded"`
	DeadResponseArmed bool        `json:"dead_response_armed"`
	Rescheduled       *time.Time  `json:"rescheduled,omitempty"`
}

const (
	deliveryStatusDelivered = "delivered"
	deliveryStatusIgnored   = "ignored"
)

// HandleDelivery acknowledges stale callbacks with 200 so the queue does not
// retry them; only processing failures are answered with 5xx.
func (h *DeliveryHandler) HandleDelivery(c *gin.Context) {
	ctx := c.Request.Context()

	var req DeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "delivery request invalid",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}

	slog.InfoContext(ctx, "processing delivery",
		slog.String("task_id", req.TaskID),
		slog.String("user_id", req.UserID),
		slog.String("identifier", req.Identifier),
	)

	outcome, err := h.service.HandleDelivery(ctx, reminder.Delivery{
		TaskID:     req.TaskID,
		UserID:     req.UserID,
		Identifier: req.Identifier,
		FireAt:     req.FireAt,
	})
	if errors.Is(err, domain.ErrStaleDelivery) {
		c.JSON(http.StatusOK, DeliveryResponse{Status: deliveryStatusIgnored})
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to process delivery",
			slog.String("task_id", req.TaskID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, errTypeProcessing, "failed to process delivery")
		return
	}

	c.JSON(http.StatusOK, DeliveryResponse{
		Status:            deliveryStatusDelivered,
		Lane:              outcome.Lane,
		Forwarded:         outcome.Forwarded,
		DeadResponseArmed: outcome.DeadResponseArmed,
		Rescheduled:       outcome.Rescheduled,
	})
}
