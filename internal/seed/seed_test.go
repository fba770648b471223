package seed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-api/internal/models"
	"github.com/noah-isme/routine-api/internal/service"
)

type recorder struct {
	seq        int
	sessions   []service.SessionRequest
	settings   *service.UpdateSettingsRequest
	sessionErr error
}

func (r *recorder) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

type teacherStub struct{ *recorder }

func (s teacherStub) Create(ctx context.Context, req service.TeacherRequest) (*models.Teacher, error) {
	return &models.Teacher{ID: s.nextID("teacher"), Initial: req.Initial}, nil
}

type roomStub struct{ *recorder }

func (s roomStub) Create(ctx context.Context, req service.RoomRequest) (*models.Room, error) {
	return &models.Room{ID: s.nextID("room"), RoomNumber: req.RoomNumber}, nil
}

type sectionStub struct{ *recorder }

func (s sectionStub) Create(ctx context.Context, req service.SectionRequest) (*models.Section, error) {
	return &models.Section{ID: s.nextID("section"), Name: req.Name, Batch: req.Batch}, nil
}

type courseStub struct{ *recorder }

func (s courseStub) Create(ctx context.Context, req service.CourseRequest) (*models.Course, error) {
	return &models.Course{ID: s.nextID("course"), Code: req.Code}, nil
}

type sessionStub struct{ *recorder }

func (s sessionStub) Create(ctx context.Context, req service.SessionRequest) (*models.ClassSession, error) {
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	s.sessions = append(s.sessions, req)
	return &models.ClassSession{ID: s.nextID("session")}, nil
}

type settingsStub struct{ *recorder }

func (s settingsStub) Update(ctx context.Context, req service.UpdateSettingsRequest) (*models.Settings, error) {
	s.settings = &req
	return &models.Settings{SemesterName: req.SemesterName}, nil
}

func newTargets(r *recorder) Targets {
	return Targets{
		Teachers: teacherStub{r},
		Rooms:    roomStub{r},
		Sections: sectionStub{r},
		Courses:  courseStub{r},
		Sessions: sessionStub{r},
		Settings: settingsStub{r},
	}
}

func TestLoadResolvesReferences(t *testing.T) {
	r := &recorder{}

	summary, err := Load(context.Background(), newTargets(r), nil)
	require.NoError(t, err)
	assert.Equal(t, &Summary{Teachers: 3, Rooms: 4, Sections: 3, Courses: 5, Sessions: 8}, summary)

	require.Len(t, r.sessions, 8)
	for _, req := range r.sessions {
		assert.NotEmpty(t, req.TeacherID)
		if req.Counseling {
			assert.Empty(t, req.RoomID)
			continue
		}
		assert.NotEmpty(t, req.CourseID)
		assert.NotEmpty(t, req.RoomID)
		assert.NotEmpty(t, req.SectionID)
	}

	require.NotNil(t, r.settings)
	require.NotNil(t, r.settings.IsPublished)
	assert.True(t, *r.settings.IsPublished)
	assert.Equal(t, "Spring 2026", r.settings.SemesterName)
}

func TestLoadStopsOnPlacementFailure(t *testing.T) {
	r := &recorder{sessionErr: errors.New("room occupied")}

	summary, err := Load(context.Background(), newTargets(r), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed session Sunday 08:30 JD")
	assert.Equal(t, 0, summary.Sessions)
	assert.Nil(t, r.settings)
}
