package dto

import (
	"strconv"
	"time"

	"github.com/noah-isme/routine-api/internal/models"
)

// ValidationResult is the dry-run verdict for a proposed session.
type ValidationResult struct {
	Accepted bool                     `json:"accepted"`
	Code     string                   `json:"code,omitempty"`
	Reason   string                   `json:"reason,omitempty"`
	Conflict *models.ScheduleConflict `json:"conflict,omitempty"`
}

// FreeRoomsResponse lists the rooms still bookable in a cell.
type FreeRoomsResponse struct {
	Day       models.DayOfWeek `json:"day"`
	StartTime string           `json:"start_time"`
	EndTime   string           `json:"end_time"`
	Rooms     []models.Room    `json:"rooms"`
	Full      bool             `json:"full"`
}

// GridQuery narrows the routine grid to one teacher, section or batch.
type GridQuery struct {
	TeacherID string `form:"teacher_id" json:"teacher_id,omitempty"`
	SectionID string `form:"section_id" json:"section_id,omitempty"`
	Batch     *int   `form:"batch" json:"batch,omitempty"`
}

// CacheKey identifies the grid variant for caching.
func (q GridQuery) CacheKey() string {
	key := "grid"
	if q.TeacherID != "" {
		key += ":teacher=" + q.TeacherID
	}
	if q.SectionID != "" {
		key += ":section=" + q.SectionID
	}
	if q.Batch != nil {
		key += ":batch=" + strconv.Itoa(*q.Batch)
	}
	return key
}

// GridCell is one session rendered for the timetable.
type GridCell struct {
	SessionID      string `json:"session_id"`
	Kind           string `json:"kind"`
	CourseCode     string `json:"course_code,omitempty"`
	CourseName     string `json:"course_name,omitempty"`
	TeacherID      string `json:"teacher_id"`
	TeacherInitial string `json:"teacher_initial"`
	TeacherName    string `json:"teacher_name"`
	RoomNumber     string `json:"room_number,omitempty"`
	Section        string `json:"section,omitempty"`
}

// GridSlot holds the cells of one time slot on one day.
type GridSlot struct {
	Start string     `json:"start"`
	End   string     `json:"end"`
	Label string     `json:"label"`
	Cells []GridCell `json:"cells"`
}

// GridDay is one row of the week grid.
type GridDay struct {
	Day   models.DayOfWeek `json:"day"`
	Slots []GridSlot       `json:"slots"`
}

// RoutineGrid is the week view, Saturday to Friday across the slot catalog.
type RoutineGrid struct {
	Semester     string    `json:"semester"`
	LastModified time.Time `json:"last_modified"`
	Filter       GridQuery `json:"filter"`
	Days         []GridDay `json:"days"`
}

// CatalogSlot is a time slot with its display label.
type CatalogSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// Catalog exposes the static day and slot enumerations.
type Catalog struct {
	Days      []models.DayOfWeek `json:"days"`
	WeekOrder []models.DayOfWeek `json:"week_order"`
	Slots     []CatalogSlot      `json:"slots"`
}
