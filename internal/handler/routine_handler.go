package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/routine-api/internal/dto"
	"github.com/noah-isme/routine-api/internal/models"
	"github.com/noah-isme/routine-api/internal/service"
	"github.com/noah-isme/routine-api/pkg/response"
)

type routineService interface {
	Catalog() dto.Catalog
	Grid(ctx context.Context, query dto.GridQuery) (*dto.RoutineGrid, error)
	FreeRooms(ctx context.Context, day, start string) (*dto.FreeRoomsResponse, error)
}

type publicationGate interface {
	EnsurePublished(ctx context.Context) (*models.Settings, error)
}

type routineExporter interface {
	Routine(ctx context.Context, format string, query dto.GridQuery) (*service.ExportFile, error)
}

// RoutineHandler serves the read-only routine views.
type RoutineHandler struct {
	routine  routineService
	gate     publicationGate
	exporter routineExporter
}

// NewRoutineHandler constructs a RoutineHandler.
func NewRoutineHandler(routine routineService, gate publicationGate, exporter routineExporter) *RoutineHandler {
	return &RoutineHandler{routine: routine, gate: gate, exporter: exporter}
}

// Catalog godoc
// @Summary Weekdays and time slots
// @Tags Routine
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog [get]
func (h *RoutineHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.routine.Catalog(), nil)
}

// Routine godoc
// @Summary Published weekly routine
// @Tags Routine
// @Produce json
// @Param teacher_id query string false "Only this teacher's sessions"
// @Param section_id query string false "Only this section's classes"
// @Param batch query int false "Only this batch's classes"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /routine [get]
func (h *RoutineHandler) Routine(c *gin.Context) {
	if _, err := h.gate.EnsurePublished(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	h.grid(c)
}

// Preview godoc
// @Summary Routine preview regardless of publication
// @Tags Routine
// @Produce json
// @Security BearerAuth
// @Param teacher_id query string false "Only this teacher's sessions"
// @Param section_id query string false "Only this section's classes"
// @Param batch query int false "Only this batch's classes"
// @Success 200 {object} response.Envelope
// @Router /admin/routine [get]
func (h *RoutineHandler) Preview(c *gin.Context) {
	h.grid(c)
}

// Export godoc
// @Summary Download the published routine
// @Tags Routine
// @Produce octet-stream
// @Param format query string false "csv, pdf, xlsx or sql" default(csv)
// @Param teacher_id query string false "Only this teacher's sessions"
// @Param section_id query string false "Only this section's classes"
// @Param batch query int false "Only this batch's classes"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /routine/export [get]
func (h *RoutineHandler) Export(c *gin.Context) {
	if _, err := h.gate.EnsurePublished(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	var query dto.GridQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid routine filter"))
		return
	}
	file, err := h.exporter.Routine(c.Request.Context(), c.DefaultQuery("format", service.ExportFormatCSV), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.ContentType, file.Filename, file.Body)
}

// FreeRooms godoc
// @Summary Rooms free in a slot
// @Tags Routine
// @Produce json
// @Param day query string true "Weekday"
// @Param start query string true "Slot start (HH:MM)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /rooms/free [get]
func (h *RoutineHandler) FreeRooms(c *gin.Context) {
	if _, err := h.gate.EnsurePublished(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	rooms, err := h.routine.FreeRooms(c.Request.Context(), c.Query("day"), c.Query("start"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

func (h *RoutineHandler) grid(c *gin.Context) {
	var query dto.GridQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid routine filter"))
		return
	}
	grid, err := h.routine.Grid(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}
