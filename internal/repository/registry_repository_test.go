package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-api/internal/models"
)

func TestRoomRepositoryListByType(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	rows := sqlmock.NewRows([]string{"id", "room_number", "type", "created_at", "updated_at"}).
		AddRow("r3", "Lab1", "Lab", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + roomColumns + " FROM rooms WHERE 1=1 AND type = $1 ORDER BY room_number ASC LIMIT 20 OFFSET 0")).
		WithArgs("Lab").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM rooms WHERE 1=1 AND type = $1")).
		WithArgs("Lab").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rooms, total, err := repo.List(context.Background(), models.RoomFilter{Type: "Lab"})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, models.RoomTypeLab, rooms[0].Type)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryExistsByNumber(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM rooms WHERE LOWER(room_number) = LOWER($1) LIMIT 1")).
		WithArgs("ab4-601").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByNumber(context.Background(), "ab4-601", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryListByBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "batch", "student_count", "created_at", "updated_at"}).
		AddRow("s1", "A", 56, 40, time.Now(), time.Now()).
		AddRow("s2", "B", 56, 38, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM sections WHERE 1=1 AND batch = $1 ORDER BY batch ASC, name ASC")).
		WithArgs(56).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sections WHERE 1=1 AND batch = $1")).
		WithArgs(56).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	batch := 56
	sections, total, err := repo.List(context.Background(), models.SectionFilter{Batch: &batch})
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Batch 56 (A)", sections[0].Label())
	assert.Equal(t, 2, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateAndUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WithArgs(sqlmock.AnyArg(), "CSE101", "Structured Programming", "SPL", 3.0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE courses SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	course := &models.Course{Code: "CSE101", Name: "Structured Programming", ShortName: "SPL", Credits: 3}
	require.NoError(t, repo.Create(context.Background(), course))
	course.Credits = 1.5
	require.NoError(t, repo.Update(context.Background(), course))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryGetAndTouch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT semester_name, is_published, last_modified FROM routine_settings WHERE id = 1")).
		WillReturnRows(sqlmock.NewRows([]string{"semester_name", "is_published", "last_modified"}).AddRow("Spring 2026", true, now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO routine_settings")).
		WithArgs("Spring 2026", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	settings, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, settings.IsPublished)
	require.NoError(t, repo.Touch(context.Background(), now, "Spring 2026"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
