package service

import (
	"context"

	"github.com/noah-isme/routine-api/internal/models"
	"github.com/noah-isme/routine-api/internal/scheduling"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
)

type teacherLister interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
}

type roomLister interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type sectionLister interface {
	ListAll(ctx context.Context) ([]models.Section, error)
}

type courseLister interface {
	ListAll(ctx context.Context) ([]models.Course, error)
}

// ReferenceData loads the entity registries that placements and views are
// resolved against.
type ReferenceData struct {
	teachers teacherLister
	rooms    roomLister
	sections sectionLister
	courses  courseLister
}

// NewReferenceData constructs a ReferenceData loader.
func NewReferenceData(teachers teacherLister, rooms roomLister, sections sectionLister, courses courseLister) *ReferenceData {
	return &ReferenceData{teachers: teachers, rooms: rooms, sections: sections, courses: courses}
}

type referenceSnapshot struct {
	registry scheduling.Registry
	teachers []models.Teacher
	rooms    []models.Room
	sections []models.Section
	courses  []models.Course
	courseBy map[string]models.Course
}

// Load reads all four registries.
func (r *ReferenceData) Load(ctx context.Context) (*referenceSnapshot, error) {
	teachers, err := r.teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	rooms, err := r.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	sections, err := r.sections.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}
	courses, err := r.courses.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}

	courseBy := make(map[string]models.Course, len(courses))
	for _, c := range courses {
		courseBy[c.ID] = c
	}
	return &referenceSnapshot{
		registry: scheduling.NewRegistry(teachers, rooms, sections),
		teachers: teachers,
		rooms:    rooms,
		sections: sections,
		courses:  courses,
		courseBy: courseBy,
	}, nil
}

// checkReferences rejects candidates naming entities that do not exist.
func (s *referenceSnapshot) checkReferences(candidate scheduling.Session) error {
	base := candidate.Base()
	if _, ok := s.registry.Teachers[base.TeacherID]; !ok {
		return appErrors.Clone(appErrors.ErrValidation, "unknown teacher "+base.TeacherID)
	}
	academic, ok := scheduling.AsAcademic(candidate)
	if !ok {
		return nil
	}
	if _, ok := s.courseBy[academic.CourseID]; !ok {
		return appErrors.Clone(appErrors.ErrValidation, "unknown course "+academic.CourseID)
	}
	if _, ok := s.registry.Rooms[academic.RoomID]; !ok {
		return appErrors.Clone(appErrors.ErrValidation, "unknown room "+academic.RoomID)
	}
	if _, ok := s.registry.Sections[academic.SectionID]; !ok {
		return appErrors.Clone(appErrors.ErrValidation, "unknown section "+academic.SectionID)
	}
	return nil
}
