package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-api/internal/models"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
)

type mockRoomRepo struct {
	items map[string]*models.Room
}

func (m *mockRoomRepo) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error) {
	var out []models.Room
	for _, room := range m.items {
		if filter.Type == "" || string(room.Type) == filter.Type {
			out = append(out, *room)
		}
	}
	return out, len(out), nil
}

func (m *mockRoomRepo) FindByID(ctx context.Context, id string) (*models.Room, error) {
	if room, ok := m.items[id]; ok {
		cp := *room
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRoomRepo) ExistsByNumber(ctx context.Context, number, excludeID string) (bool, error) {
	for id, room := range m.items {
		if room.RoomNumber == number && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRoomRepo) Create(ctx context.Context, room *models.Room) error {
	if m.items == nil {
		m.items = make(map[string]*models.Room)
	}
	room.ID = "room-new"
	cp := *room
	m.items[room.ID] = &cp
	return nil
}

func (m *mockRoomRepo) Update(ctx context.Context, room *models.Room) error {
	cp := *room
	m.items[room.ID] = &cp
	return nil
}

func (m *mockRoomRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type mockSectionRepo struct {
	items map[string]*models.Section
}

func (m *mockSectionRepo) List(ctx context.Context, filter models.SectionFilter) ([]models.Section, int, error) {
	var out []models.Section
	for _, section := range m.items {
		if filter.Batch == nil || section.Batch == *filter.Batch {
			out = append(out, *section)
		}
	}
	return out, len(out), nil
}

func (m *mockSectionRepo) FindByID(ctx context.Context, id string) (*models.Section, error) {
	if section, ok := m.items[id]; ok {
		cp := *section
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSectionRepo) Create(ctx context.Context, section *models.Section) error {
	if m.items == nil {
		m.items = make(map[string]*models.Section)
	}
	section.ID = "section-new"
	cp := *section
	m.items[section.ID] = &cp
	return nil
}

func (m *mockSectionRepo) Update(ctx context.Context, section *models.Section) error {
	cp := *section
	m.items[section.ID] = &cp
	return nil
}

func (m *mockSectionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type mockCourseRepo struct {
	items map[string]*models.Course
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	var out []models.Course
	for _, course := range m.items {
		out = append(out, *course)
	}
	return out, len(out), nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if course, ok := m.items[id]; ok {
		cp := *course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	for id, course := range m.items {
		if course.Code == code && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.items == nil {
		m.items = make(map[string]*models.Course)
	}
	course.ID = "course-new"
	cp := *course
	m.items[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	cp := *course
	m.items[course.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func TestRoomServiceLifecycle(t *testing.T) {
	repo := &mockRoomRepo{items: map[string]*models.Room{
		"r1": {ID: "r1", RoomNumber: "AB4-601", Type: models.RoomTypeTheory},
	}}
	changes := &countingRecorder{}
	svc := NewRoomService(repo, changes, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, RoomRequest{RoomNumber: "AB4-601", Type: "Lab"})
	assertAppCode(t, err, appErrors.ErrConflict)

	_, err = svc.Create(ctx, RoomRequest{RoomNumber: "AB4-701", Type: "Studio"})
	assertAppCode(t, err, appErrors.ErrValidation)

	room, err := svc.Create(ctx, RoomRequest{RoomNumber: " AB4-701 ", Type: "Lab"})
	require.NoError(t, err)
	assert.Equal(t, "AB4-701", room.RoomNumber)
	assert.Equal(t, models.RoomTypeLab, room.Type)

	updated, err := svc.Update(ctx, "r1", RoomRequest{RoomNumber: "AB4-601", Type: "Lab"})
	require.NoError(t, err)
	assert.Equal(t, models.RoomTypeLab, updated.Type)

	labs, _, err := svc.List(ctx, models.RoomFilter{Type: "Lab"})
	require.NoError(t, err)
	assert.Len(t, labs, 2)

	require.NoError(t, svc.Delete(ctx, "r1"))
	assertAppCode(t, svc.Delete(ctx, "r1"), appErrors.ErrNotFound)
	assert.Equal(t, 3, changes.calls)
}

func TestSectionServiceLifecycle(t *testing.T) {
	repo := &mockSectionRepo{}
	changes := &countingRecorder{}
	svc := NewSectionService(repo, changes, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, SectionRequest{Name: "A"})
	assertAppCode(t, err, appErrors.ErrValidation)

	section, err := svc.Create(ctx, SectionRequest{Name: " A ", Batch: 56, StudentCount: 40})
	require.NoError(t, err)
	assert.Equal(t, "Batch 56 (A)", section.Label())

	whole, err := svc.Update(ctx, section.ID, SectionRequest{Batch: 57})
	require.NoError(t, err)
	assert.Equal(t, "Batch 57", whole.Label())

	batch := 57
	listed, _, err := svc.List(ctx, models.SectionFilter{Batch: &batch})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = svc.Update(ctx, "ghost", SectionRequest{Batch: 57})
	assertAppCode(t, err, appErrors.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, section.ID))
	assert.Equal(t, 3, changes.calls)
}

func TestCourseServiceLifecycle(t *testing.T) {
	repo := &mockCourseRepo{items: map[string]*models.Course{
		"c1": {ID: "c1", Code: "CSE101", Name: "Structured Programming"},
	}}
	svc := NewCourseService(repo, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CourseRequest{Code: "CSE101", Name: "Duplicate"})
	assertAppCode(t, err, appErrors.ErrConflict)

	_, err = svc.Create(ctx, CourseRequest{Code: "CSE999", Name: "Too Heavy", Credits: 12})
	assertAppCode(t, err, appErrors.ErrValidation)

	course, err := svc.Create(ctx, CourseRequest{Code: "cse205", Name: " Data Structures ", ShortName: "DS", Credits: 3})
	require.NoError(t, err)
	assert.Equal(t, "CSE205", course.Code)
	assert.Equal(t, "Data Structures", course.Name)

	updated, err := svc.Update(ctx, "c1", CourseRequest{Code: "CSE101", Name: "Programming I", Credits: 3})
	require.NoError(t, err)
	assert.Equal(t, "Programming I", updated.Name)

	_, err = svc.Get(ctx, "ghost")
	assertAppCode(t, err, appErrors.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "c1"))
	_, err = svc.Get(ctx, "c1")
	assertAppCode(t, err, appErrors.ErrNotFound)
}
