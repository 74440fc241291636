package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/queue"
)

const (
	defaultDebugUpcoming = 10
	maxDebugUpcoming     = 64
)

type QueueHandler struct {
	service ReminderService
}

func NewQueueHandler(service ReminderService) *QueueHandler {
	return &QueueHandler{service: service}
}

func (h *QueueHandler) Ensure(c *gin.Context) {
	result, err := h.service.EnsureQueue(c.Request.Context(), c.Param("user_id"))
	respondQueueResult(c, result, err)
}

func (h *QueueHandler) Rebuild(c *gin.Context) {
	result, err := h.service.RebuildQueue(c.Request.Context(), c.Param("user_id"))
	respondQueueResult(c, result, err)
}

func (h *QueueHandler) Clear(c *gin.Context) {
	result, err := h.service.ClearQueue(c.Request.Context(), c.Param("user_id"))
	respondQueueResult(c, result, err)
}

func (h *QueueHandler) Debug(c *gin.Context) {
	n := defaultDebugUpcoming
	if raw := c.Query("upcoming"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > maxDebugUpcoming {
			respondError(c, http.StatusBadRequest, errTypeValidation, "upcoming must be between 0 and 64")
			return
		}
		n = parsed
	}

	info, err := h.service.DebugInfo(c.Request.Context(), c.Param("user_id"), n)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func respondQueueResult(c *gin.Context, result *queue.Result, err error) {
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
