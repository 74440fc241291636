package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/queue"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/reminder"
)

type ProfileHandler struct {
	service ReminderService
}

func NewProfileHandler(service ReminderService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type ProfileListResponse struct {
	Profiles        []*domain.ScheduleProfile `json:"profiles"`
	ActiveProfileID string                    `json:"active_profile_id,omitempty"`
}

type ProfileChangeResponse struct {
	Profile *domain.ScheduleProfile `json:"profile,omitempty"`
	Active  bool                    `json:"active"`
	Queue   *queue.Result           `json:"queue,omitempty"`
}

func newProfileChangeResponse(change *reminder.ProfileChange) ProfileChangeResponse {
	return ProfileChangeResponse{
		Profile: change.Profile,
		Active:  change.Active,
		Queue:   change.QueueResult,
	}
}

func (h *ProfileHandler) List(c *gin.Context) {
	profiles, activeID, err := h.service.ListProfiles(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if profiles == nil {
		profiles = []*domain.ScheduleProfile{}
	}

	c.JSON(http.StatusOK, ProfileListResponse{Profiles: profiles, ActiveProfileID: activeID})
}

func (h *ProfileHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")

	var p domain.ScheduleProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		slog.WarnContext(ctx, "profile request invalid",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}

	change, err := h.service.CreateProfile(ctx, userID, &p)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newProfileChangeResponse(change))
}

func (h *ProfileHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")

	var p domain.ScheduleProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		slog.WarnContext(ctx, "profile request invalid",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}
	p.ID = c.Param("profile_id")

	change, err := h.service.UpdateProfile(ctx, userID, &p)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfileChangeResponse(change))
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	change, err := h.service.DeleteProfile(c.Request.Context(), c.Param("user_id"), c.Param("profile_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfileChangeResponse(change))
}

func (h *ProfileHandler) Activate(c *gin.Context) {
	change, err := h.service.ActivateProfile(c.Request.Context(), c.Param("user_id"), c.Param("profile_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfileChangeResponse(change))
}
