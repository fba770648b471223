package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/routine-api/internal/models"
)

const sessionColumns = "id, day, start_time, end_time, teacher_id, course_id, room_id, section_id, counseling, created_at, updated_at"

const upsertSessionQuery = `INSERT INTO class_sessions (id, day, start_time, end_time, teacher_id, course_id, room_id, section_id, counseling, created_at, updated_at)
VALUES (:id, :day, :start_time, :end_time, :teacher_id, :course_id, :room_id, :section_id, :counseling, :created_at, :updated_at)
ON CONFLICT (id) DO UPDATE SET day = EXCLUDED.day, start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
teacher_id = EXCLUDED.teacher_id, course_id = EXCLUDED.course_id, room_id = EXCLUDED.room_id, section_id = EXCLUDED.section_id,
counseling = EXCLUDED.counseling, updated_at = EXCLUDED.updated_at`

// ScheduleRepository is the routine store for class sessions.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns sessions with optional filtering and pagination.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ClassSession, int, error) {
	base := "FROM class_sessions WHERE 1=1"
	var conditions []string
	var args []interface{}

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("day", filter.Day)
	add("start_time", filter.StartTime)
	add("teacher_id", filter.TeacherID)
	add("room_id", filter.RoomID)
	add("section_id", filter.SectionID)

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page, size := normalisePage(filter.Page, filter.PageSize)
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY day ASC, start_time ASC, id ASC LIMIT %d OFFSET %d", sessionColumns, base, size, offset)
	var sessions []models.ClassSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list class sessions: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count class sessions: %w", err)
	}

	return sessions, total, nil
}

// Load returns the whole routine snapshot.
func (r *ScheduleRepository) Load(ctx context.Context) ([]models.ClassSession, error) {
	query := fmt.Sprintf("SELECT %s FROM class_sessions ORDER BY day ASC, start_time ASC, id ASC", sessionColumns)
	var sessions []models.ClassSession
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("load class sessions: %w", err)
	}
	return sessions, nil
}

// FindByID loads a session by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ClassSession, error) {
	query := fmt.Sprintf("SELECT %s FROM class_sessions WHERE id = $1", sessionColumns)
	var session models.ClassSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListBySlot returns the sessions occupying a (day, start) cell.
func (r *ScheduleRepository) ListBySlot(ctx context.Context, day models.DayOfWeek, start string) ([]models.ClassSession, error) {
	var sessions []models.ClassSession
	if err := r.db.SelectContext(ctx, &sessions, slotQuery(), day, start); err != nil {
		return nil, fmt.Errorf("list class sessions by slot: %w", err)
	}
	return sessions, nil
}

// ApplyInSlot serialises writes per (day, start): it takes a transaction
// scoped advisory lock for the slot, loads the slot's sessions, lets mutate
// decide what to write and upserts the result by id. An error returned by
// mutate rolls the transaction back untouched.
func (r *ScheduleRepository) ApplyInSlot(ctx context.Context, day models.DayOfWeek, start string, mutate func(existing []models.ClassSession) (*models.ClassSession, error)) (result *models.ClassSession, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin slot transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, SlotLockKey(day, start)); err != nil {
		return nil, fmt.Errorf("lock slot %s %s: %w", day, start, err)
	}

	var existing []models.ClassSession
	if err = tx.SelectContext(ctx, &existing, slotQuery(), day, start); err != nil {
		return nil, fmt.Errorf("load slot %s %s: %w", day, start, err)
	}

	result, err = mutate(existing)
	if err != nil {
		return nil, err
	}

	if err = upsertSession(ctx, tx, result); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit slot transaction: %w", err)
	}
	return result, nil
}

// Delete removes a session by id.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "class_sessions", id)
}

// SlotLockKey is the advisory lock key for a routine cell.
func SlotLockKey(day models.DayOfWeek, start string) string {
	return fmt.Sprintf("class_sessions|%s|%s", day, start)
}

func slotQuery() string {
	return fmt.Sprintf("SELECT %s FROM class_sessions WHERE day = $1 AND start_time = $2 ORDER BY created_at ASC, id ASC", sessionColumns)
}

func upsertSession(ctx context.Context, exec sqlx.ExtContext, session *models.ClassSession) error {
	if session == nil {
		return fmt.Errorf("nil class session")
	}
	now := time.Now().UTC()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	if _, err := sqlx.NamedExecContext(ctx, exec, upsertSessionQuery, session); err != nil {
		return fmt.Errorf("upsert class session: %w", err)
	}
	return nil
}

func normalisePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}
