package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/routine-api/internal/dto"
	"github.com/noah-isme/routine-api/internal/models"
	"github.com/noah-isme/routine-api/internal/service"
	"github.com/noah-isme/routine-api/pkg/response"
)

type scheduleService interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ClassSession, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.ClassSession, error)
	Validate(ctx context.Context, req service.ValidateSessionRequest) (*dto.ValidationResult, error)
	Create(ctx context.Context, req service.SessionRequest) (*models.ClassSession, error)
	Update(ctx context.Context, id string, req service.SessionRequest) (*models.ClassSession, error)
	Move(ctx context.Context, id string, req service.MoveSessionRequest) (*models.ClassSession, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleHandler exposes the admin routine editing endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// List godoc
// @Summary List class sessions
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param day query string false "Weekday"
// @Param start_time query string false "Slot start (HH:MM)"
// @Param teacher_id query string false "Teacher ID"
// @Param room_id query string false "Room ID"
// @Param section_id query string false "Section ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/sessions [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	filter := models.ScheduleFilter{
		Day:       strings.TrimSpace(c.Query("day")),
		StartTime: strings.TrimSpace(c.Query("start_time")),
		TeacherID: c.Query("teacher_id"),
		RoomID:    c.Query("room_id"),
		SectionID: c.Query("section_id"),
		Page:      page,
		PageSize:  size,
	}
	sessions, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, pagination)
}

// Get godoc
// @Summary Get class session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/sessions/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Validate godoc
// @Summary Dry-run a placement
// @Description Checks a class or counseling hour against the stored routine without saving it.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ValidateSessionRequest true "Candidate session"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/sessions/validate [post]
func (h *ScheduleHandler) Validate(c *gin.Context) {
	var req service.ValidateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid session payload"))
		return
	}
	result, err := h.service.Validate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Create godoc
// @Summary Place a class session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.SessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/sessions [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid session payload"))
		return
	}
	session, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Update godoc
// @Summary Replace a class session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param payload body service.SessionRequest true "Session payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/sessions/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req service.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid session payload"))
		return
	}
	session, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Move godoc
// @Summary Move a class session to another cell
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param payload body service.MoveSessionRequest true "Target cell"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/sessions/{id}/move [patch]
func (h *ScheduleHandler) Move(c *gin.Context) {
	var req service.MoveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid move payload"))
		return
	}
	session, err := h.service.Move(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Delete godoc
// @Summary Remove a class session
// @Tags Sessions
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/sessions/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
