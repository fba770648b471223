package scheduling

import (
	"errors"
	"fmt"

	"github.com/noah-isme/routine-api/internal/models"
)

// ErrInvalidSession is returned when a stored row is neither a complete
// academic session nor a plain counseling session.
var ErrInvalidSession = errors.New("invalid session")

// Placement is the part every session shares: who, when, and its identity.
type Placement struct {
	ID        string
	Day       models.DayOfWeek
	Start     string
	TeacherID string
}

// Session is either an AcademicSession or a CounselingSession.
type Session interface {
	Base() Placement
	session()
}

// AcademicSession occupies a teacher, a room and a section at once.
type AcademicSession struct {
	Placement
	CourseID  string
	RoomID    string
	SectionID string
}

// CounselingSession books the teacher only.
type CounselingSession struct {
	Placement
}

// NewAcademic builds an academic session.
func NewAcademic(p Placement, courseID, roomID, sectionID string) AcademicSession {
	return AcademicSession{Placement: p, CourseID: courseID, RoomID: roomID, SectionID: sectionID}
}

// NewCounseling builds a counseling session.
func NewCounseling(p Placement) CounselingSession {
	return CounselingSession{Placement: p}
}

func (s AcademicSession) Base() Placement   { return s.Placement }
func (s CounselingSession) Base() Placement { return s.Placement }

func (AcademicSession) session()   {}
func (CounselingSession) session() {}

// AsAcademic unwraps s when it is an academic session.
func AsAcademic(s Session) (AcademicSession, bool) {
	switch v := s.(type) {
	case AcademicSession:
		return v, true
	case *AcademicSession:
		if v != nil {
			return *v, true
		}
	}
	return AcademicSession{}, false
}

// isNil reports whether s is nil or a nil pointer to one of the session types.
func isNil(s Session) bool {
	switch v := s.(type) {
	case nil:
		return true
	case *AcademicSession:
		return v == nil
	case *CounselingSession:
		return v == nil
	}
	return false
}

// KindLabel names the session kind the way rejection reasons print it.
func KindLabel(s Session) string {
	if _, ok := AsAcademic(s); ok {
		return "Class"
	}
	return "Counseling Hour"
}

// FromModel converts a stored row into a Session. The course, room and
// section references must be all present (academic) or all absent with the
// counseling flag set.
func FromModel(row models.ClassSession) (Session, error) {
	p := Placement{ID: row.ID, Day: row.Day, Start: row.StartTime, TeacherID: row.TeacherID}
	refs := 0
	for _, ref := range []*string{row.CourseID, row.RoomID, row.SectionID} {
		if ref != nil && *ref != "" {
			refs++
		}
	}
	switch {
	case refs == 3 && !row.Counseling:
		return NewAcademic(p, *row.CourseID, *row.RoomID, *row.SectionID), nil
	case refs == 0 && row.Counseling:
		return NewCounseling(p), nil
	case refs == 3 && row.Counseling:
		return nil, fmt.Errorf("%w: session %s is flagged counseling but references a course, room and section", ErrInvalidSession, row.ID)
	case refs == 0:
		return nil, fmt.Errorf("%w: session %s has no course, room or section and is not counseling", ErrInvalidSession, row.ID)
	default:
		return nil, fmt.Errorf("%w: session %s references only part of course, room and section", ErrInvalidSession, row.ID)
	}
}

// FromModels converts rows, returning the rows that could not be converted
// separately so a single bad record does not hide the rest of the routine.
func FromModels(rows []models.ClassSession) ([]Session, []models.ClassSession) {
	sessions := make([]Session, 0, len(rows))
	var invalid []models.ClassSession
	for _, row := range rows {
		s, err := FromModel(row)
		if err != nil {
			invalid = append(invalid, row)
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, invalid
}

// ToModel converts a session back into a storable row. EndTime is taken
// from the slot catalog.
func ToModel(s Session) models.ClassSession {
	base := s.Base()
	row := models.ClassSession{
		ID:        base.ID,
		Day:       base.Day,
		StartTime: base.Start,
		TeacherID: base.TeacherID,
	}
	if slot, ok := models.SlotByStart(base.Start); ok {
		row.EndTime = slot.End
	}
	if academic, ok := AsAcademic(s); ok {
		row.CourseID = strPtr(academic.CourseID)
		row.RoomID = strPtr(academic.RoomID)
		row.SectionID = strPtr(academic.SectionID)
	} else {
		row.Counseling = true
	}
	return row
}

func strPtr(v string) *string {
	return &v
}
