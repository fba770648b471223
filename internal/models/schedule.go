package models

import "time"

// ClassSession is a stored routine entry. Academic sessions carry a course,
// room and section; counseling sessions carry none of them.
type ClassSession struct {
	ID         string    `db:"id" json:"id"`
	Day        DayOfWeek `db:"day" json:"day"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    string    `db:"end_time" json:"end_time"`
	TeacherID  string    `db:"teacher_id" json:"teacher_id"`
	CourseID   *string   `db:"course_id" json:"course_id,omitempty"`
	RoomID     *string   `db:"room_id" json:"room_id,omitempty"`
	SectionID  *string   `db:"section_id" json:"section_id,omitempty"`
	Counseling bool      `db:"counseling" json:"counseling"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleFilter describes query params for listing sessions.
type ScheduleFilter struct {
	Day       string
	StartTime string
	TeacherID string
	RoomID    string
	SectionID string
	Page      int
	PageSize  int
}

// Conflict dimensions reported by the placement checker.
const (
	ConflictMalformed       = "MALFORMED_CANDIDATE"
	ConflictTeacherBusy     = "TEACHER_BUSY"
	ConflictTeacherOffDay   = "TEACHER_OFF_DAY"
	ConflictRoomOccupied    = "ROOM_OCCUPIED"
	ConflictSectionOccupied = "SECTION_OCCUPIED"
)

// ScheduleConflict describes the existing session a candidate collided with.
type ScheduleConflict struct {
	SessionID string    `json:"session_id,omitempty"`
	TeacherID string    `json:"teacher_id,omitempty"`
	RoomID    string    `json:"room_id,omitempty"`
	SectionID string    `json:"section_id,omitempty"`
	Day       DayOfWeek `json:"day"`
	StartTime string    `json:"start_time"`
	Dimension string    `json:"dimension"`
}

// ScheduleConflictError is returned when a placement is rejected.
type ScheduleConflictError struct {
	Type     string           `json:"type"`
	Message  string           `json:"message"`
	Conflict ScheduleConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *ScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
