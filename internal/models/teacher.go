package models

import (
	"time"

	"github.com/lib/pq"
)

// Teacher represents an instructor on the routine.
type Teacher struct {
	ID             string         `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Initial        string         `db:"initial" json:"initial"`
	Email          string         `db:"email" json:"email"`
	Phone          *string        `db:"phone" json:"phone,omitempty"`
	OffDays        pq.StringArray `db:"off_days" json:"off_days"`
	CounselingHour *string        `db:"counseling_hour" json:"counseling_hour,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// IsOffDay reports whether the teacher declared day as never available.
func (t Teacher) IsOffDay(day DayOfWeek) bool {
	for _, off := range t.OffDays {
		if parsed, ok := ParseDay(off); ok && parsed == day {
			return true
		}
	}
	return false
}

// DisplayName falls back to the initial when no name is recorded.
func (t Teacher) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Initial != "" {
		return t.Initial
	}
	return t.ID
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search   string
	Page     int
	PageSize int
}
