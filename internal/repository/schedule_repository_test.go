package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-api/internal/models"
)

var sessionRowColumns = []string{"id", "day", "start_time", "end_time", "teacher_id", "course_id", "room_id", "section_id", "counseling", "created_at", "updated_at"}

func TestScheduleRepositoryListBySlot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows(sessionRowColumns).
		AddRow("c1", "Sunday", "08:30", "10:00", "t1", "co1", "r1", "s1", false, time.Now(), time.Now()).
		AddRow("h1", "Sunday", "08:30", "10:00", "t2", nil, nil, nil, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_sessions WHERE day = $1 AND start_time = $2")).
		WithArgs("Sunday", "08:30").
		WillReturnRows(rows)

	sessions, err := repo.ListBySlot(context.Background(), models.Sunday, "08:30")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, models.Sunday, sessions[0].Day)
	require.NotNil(t, sessions[0].RoomID)
	assert.Equal(t, "r1", *sessions[0].RoomID)
	assert.True(t, sessions[1].Counseling)
	assert.Nil(t, sessions[1].RoomID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryApplyInSlotWrites(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("class_sessions|Monday|10:00").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_sessions WHERE day = $1 AND start_time = $2")).
		WithArgs("Monday", "10:00").
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).
			AddRow("c9", "Monday", "10:00", "11:30", "t5", "co1", "r2", "s2", false, time.Now(), time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO class_sessions")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	var seen int
	saved, err := repo.ApplyInSlot(context.Background(), models.Monday, "10:00", func(existing []models.ClassSession) (*models.ClassSession, error) {
		seen = len(existing)
		return &models.ClassSession{Day: models.Monday, StartTime: "10:00", EndTime: "11:30", TeacherID: "t1", Counseling: true}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryApplyInSlotRejectRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("pg_advisory_xact_lock")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_sessions WHERE day = $1")).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns))
	mock.ExpectRollback()

	rejected := errors.New("rejected")
	_, err := repo.ApplyInSlot(context.Background(), models.Monday, "10:00", func([]models.ClassSession) (*models.ClassSession, error) {
		return nil, rejected
	})
	assert.ErrorIs(t, err, rejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM class_sessions WHERE 1=1 AND day = $1 AND teacher_id = $2 ORDER BY day ASC, start_time ASC, id ASC LIMIT 20 OFFSET 0")).
		WithArgs("Sunday", "t1").
		WillReturnRows(sqlmock.NewRows(sessionRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM class_sessions WHERE 1=1 AND day = $1 AND teacher_id = $2")).
		WithArgs("Sunday", "t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.ScheduleFilter{Day: "Sunday", TeacherID: "t1"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryLoadReturnsSnapshot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM class_sessions ORDER BY day ASC, start_time ASC, id ASC")).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).
			AddRow("c1", "Sunday", "08:30", "10:00", "t1", "co1", "r1", "s1", false, time.Now(), time.Now()).
			AddRow("h1", "Monday", "11:30", "13:00", "t2", nil, nil, nil, true, time.Now(), time.Now()))

	sessions, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "c1", sessions[0].ID)
	assert.True(t, sessions[1].Counseling)
	assert.NoError(t, mock.ExpectationsWereMet())
}
