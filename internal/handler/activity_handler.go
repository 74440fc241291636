package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/firedlog"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/queue"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/report"
)

// ActivityHandler serves the user-facing actions: snoozing, logging
// exercises, reports, the timeline and settings.
type ActivityHandler struct {
	service ReminderService
}

func NewActivityHandler(service ReminderService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

type SnoozeRequest struct {
	Minutes int `json:"minutes" binding:"required"`
}

type SnoozeResponse struct {
	FireAt time.Time `json:"fire_at"`
}

func (h *ActivityHandler) Snooze(c *gin.Context) {
	var req SnoozeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}

	fireAt, err := h.service.Snooze(c.Request.Context(), c.Param("user_id"), req.Minutes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SnoozeResponse{FireAt: fireAt})
}

type ExerciseRequest struct {
	ExerciseName    string     `json:"exercise_name" binding:"required"`
	DurationSeconds int        `json:"duration_seconds" binding:"required,gt=0"`
	Repetitions     int        `json:"repetitions" binding:"gte=0"`
	CompletedAt     *time.Time `json:"completed_at"`
}

type ExerciseResponse struct {
	Log          domain.ExerciseLog   `json:"log"`
	Achievements []report.Achievement `json:"achievements"`
	Queue        *queue.Result        `json:"queue,omitempty"`
}

func (h *ActivityHandler) LogExercise(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "exercise request invalid",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}

	log := domain.ExerciseLog{
		ExerciseName:    req.ExerciseName,
		DurationSeconds: req.DurationSeconds,
		Repetitions:     req.Repetitions,
	}
	if req.CompletedAt != nil {
		log.CompletedAt = *req.CompletedAt
	}

	outcome, err := h.service.LogExercise(ctx, userID, log)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	achievements := outcome.Unlocked
	if achievements == nil {
		achievements = []report.Achievement{}
	}

	c.JSON(http.StatusCreated, ExerciseResponse{
		Log:          outcome.Log,
		Achievements: achievements,
		Queue:        outcome.QueueResult,
	})
}

type ProgressReportRequest struct {
	Frequency string `json:"frequency"`
}

type ProgressReportResponse struct {
	FireAt time.Time          `json:"fire_at"`
	Stats  report.ReportStats `json:"stats"`
}

func (h *ActivityHandler) ScheduleProgressReport(c *gin.Context) {
	var req ProgressReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
			return
		}
	}

	fireAt, stats, err := h.service.ScheduleProgressReport(c.Request.Context(), c.Param("user_id"), req.Frequency)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProgressReportResponse{FireAt: fireAt, Stats: stats})
}

type TimelineResponse struct {
	Events []firedlog.TimelineEvent `json:"events"`
}

func (h *ActivityHandler) Timeline(c *gin.Context) {
	events := h.service.Timeline(c.Request.Context(), c.Param("user_id"))
	if events == nil {
		events = []firedlog.TimelineEvent{}
	}
	c.JSON(http.StatusOK, TimelineResponse{Events: events})
}

func (h *ActivityHandler) ClearTimeline(c *gin.Context) {
	h.service.ClearTimeline(c.Request.Context(), c.Param("user_id"))
	c.Status(http.StatusNoContent)
}

func (h *ActivityHandler) Settings(c *gin.Context) {
	settings, err := h.service.Settings(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type SettingsResponse struct {
	Settings domain.UserSettings `json:"settings"`
	Queue    *queue.Result       `json:"queue,omitempty"`
}

func (h *ActivityHandler) UpdateSettings(c *gin.Context) {
	var settings domain.UserSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}

	result, err := h.service.UpdateSettings(c.Request.Context(), c.Param("user_id"), settings)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{Settings: settings, Queue: result})
}
