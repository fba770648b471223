// Package scheduling decides whether a proposed routine session can coexist
// with the sessions already placed, and which rooms remain free in a slot.
package scheduling

import (
	"fmt"

	"github.com/noah-isme/routine-api/internal/models"
)

// ReasonCode classifies a rejected placement.
type ReasonCode string

const (
	CodeMalformed       ReasonCode = models.ConflictMalformed
	CodeTeacherBusy     ReasonCode = models.ConflictTeacherBusy
	CodeTeacherOffDay   ReasonCode = models.ConflictTeacherOffDay
	CodeRoomOccupied    ReasonCode = models.ConflictRoomOccupied
	CodeSectionOccupied ReasonCode = models.ConflictSectionOccupied
)

// Outcome is the checker's verdict for one candidate.
type Outcome struct {
	Accepted bool
	Code     ReasonCode
	Reason   string
	Conflict *models.ScheduleConflict
}

// Accept returns an accepting outcome.
func Accept() Outcome {
	return Outcome{Accepted: true}
}

// Reject returns a rejecting outcome.
func Reject(code ReasonCode, reason string, conflict *models.ScheduleConflict) Outcome {
	return Outcome{Code: code, Reason: reason, Conflict: conflict}
}

// Malformed reports whether the candidate failed its preconditions.
func (o Outcome) Malformed() bool {
	return !o.Accepted && o.Code == CodeMalformed
}

// Err adapts a rejection into a *models.ScheduleConflictError; nil when accepted.
func (o Outcome) Err() error {
	if o.Accepted {
		return nil
	}
	domainErr := &models.ScheduleConflictError{Type: string(o.Code), Message: o.Reason}
	if o.Conflict != nil {
		domainErr.Conflict = *o.Conflict
	} else {
		domainErr.Conflict = models.ScheduleConflict{Dimension: string(o.Code)}
	}
	return domainErr
}

// Checker validates single placements against a schedule snapshot.
type Checker struct {
	registry Registry
}

// NewChecker builds a checker over the given reference data.
func NewChecker(reg Registry) *Checker {
	return &Checker{registry: reg}
}

// ValidatePlacement validates candidate against schedule, treating an
// existing entry with the candidate's id as the one being replaced.
func ValidatePlacement(candidate Session, schedule []Session, reg Registry) Outcome {
	var excludeID string
	if !isNil(candidate) {
		excludeID = candidate.Base().ID
	}
	return NewChecker(reg).Validate(candidate, schedule, excludeID)
}

// Validate applies the placement rules in order and reports the first
// violation: teacher double-booking, teacher off-day, room, then section.
// Entries whose id equals excludeID or the candidate's own id are ignored.
func (c *Checker) Validate(candidate Session, schedule []Session, excludeID string) Outcome {
	if reason, ok := wellFormed(candidate); !ok {
		return Reject(CodeMalformed, reason, nil)
	}
	base := candidate.Base()
	occupying := NewIndex(schedule, excludeID, base.ID).At(base.Day, base.Start)

	for _, other := range occupying {
		if other.Base().TeacherID == base.TeacherID {
			reason := fmt.Sprintf("%s is already busy with a %s", c.registry.teacherName(base.TeacherID), KindLabel(other))
			return Reject(CodeTeacherBusy, reason, conflictWith(other, CodeTeacherBusy))
		}
	}

	if teacher, ok := c.registry.Teachers[base.TeacherID]; ok && teacher.IsOffDay(base.Day) {
		reason := fmt.Sprintf("%s has an off-day on %s", teacher.DisplayName(), base.Day)
		return Reject(CodeTeacherOffDay, reason, &models.ScheduleConflict{
			TeacherID: base.TeacherID,
			Day:       base.Day,
			StartTime: base.Start,
			Dimension: string(CodeTeacherOffDay),
		})
	}

	academic, ok := AsAcademic(candidate)
	if !ok {
		return Accept()
	}

	for _, other := range occupying {
		if o, isAcademic := AsAcademic(other); isAcademic && o.RoomID == academic.RoomID {
			reason := fmt.Sprintf("Room %s is already occupied", c.registry.roomName(academic.RoomID))
			return Reject(CodeRoomOccupied, reason, conflictWith(other, CodeRoomOccupied))
		}
	}
	for _, other := range occupying {
		if o, isAcademic := AsAcademic(other); isAcademic && o.SectionID == academic.SectionID {
			reason := fmt.Sprintf("Section %s already has a class", c.registry.sectionName(academic.SectionID))
			return Reject(CodeSectionOccupied, reason, conflictWith(other, CodeSectionOccupied))
		}
	}
	return Accept()
}

func wellFormed(candidate Session) (string, bool) {
	if isNil(candidate) {
		return "candidate session is missing", false
	}
	base := candidate.Base()
	if base.TeacherID == "" {
		return "teacher is required", false
	}
	if !base.Day.Valid() {
		return fmt.Sprintf("%q is not a weekday", base.Day), false
	}
	if _, ok := models.SlotByStart(base.Start); !ok {
		return fmt.Sprintf("%q is not a time slot start", base.Start), false
	}
	if academic, ok := AsAcademic(candidate); ok {
		switch {
		case academic.CourseID == "":
			return "course is required for a class", false
		case academic.RoomID == "":
			return "room is required for a class", false
		case academic.SectionID == "":
			return "section is required for a class", false
		}
	}
	return "", true
}

func conflictWith(other Session, code ReasonCode) *models.ScheduleConflict {
	base := other.Base()
	conflict := &models.ScheduleConflict{
		SessionID: base.ID,
		TeacherID: base.TeacherID,
		Day:       base.Day,
		StartTime: base.Start,
		Dimension: string(code),
	}
	if academic, ok := AsAcademic(other); ok {
		conflict.RoomID = academic.RoomID
		conflict.SectionID = academic.SectionID
	}
	return conflict
}
