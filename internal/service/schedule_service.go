package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-api/internal/dto"
	"github.com/noah-isme/routine-api/internal/models"
	"github.com/noah-isme/routine-api/internal/scheduling"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
)

type sessionRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ClassSession, int, error)
	Load(ctx context.Context) ([]models.ClassSession, error)
	FindByID(ctx context.Context, id string) (*models.ClassSession, error)
	ListBySlot(ctx context.Context, day models.DayOfWeek, start string) ([]models.ClassSession, error)
	ApplyInSlot(ctx context.Context, day models.DayOfWeek, start string, mutate func(existing []models.ClassSession) (*models.ClassSession, error)) (*models.ClassSession, error)
	Delete(ctx context.Context, id string) error
}

type routineSettings interface {
	Get(ctx context.Context) (*models.Settings, error)
	RecordChange(ctx context.Context)
}

// SessionRequest describes a class or counseling hour to place. Shape
// problems (unknown day, off-catalog start, missing references) are reported
// by the placement checker as MALFORMED_CANDIDATE rather than by tags.
type SessionRequest struct {
	Day        string `json:"day" validate:"max=16"`
	StartTime  string `json:"start_time" validate:"max=16"`
	TeacherID  string `json:"teacher_id" validate:"max=64"`
	CourseID   string `json:"course_id,omitempty" validate:"max=64"`
	RoomID     string `json:"room_id,omitempty" validate:"max=64"`
	SectionID  string `json:"section_id,omitempty" validate:"max=64"`
	Counseling bool   `json:"counseling"`
}

// ValidateSessionRequest is a dry-run placement. ExcludeID names the stored
// session being edited so it does not collide with itself.
type ValidateSessionRequest struct {
	SessionRequest
	ExcludeID string `json:"exclude_id,omitempty" validate:"max=64"`
}

// MoveSessionRequest relocates a session to another cell.
type MoveSessionRequest struct {
	Day       string `json:"day" validate:"required,max=16"`
	StartTime string `json:"start_time" validate:"required,max=16"`
}

// ScheduleService places, moves and removes routine sessions and renders the
// derived views.
type ScheduleService struct {
	sessions  sessionRepository
	reference *ReferenceData
	settings  routineSettings
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(sessions sessionRepository, reference *ReferenceData, settings routineSettings, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		sessions:  sessions,
		reference: reference,
		settings:  settings,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Catalog returns the weekday enumeration and the slot catalog.
func (s *ScheduleService) Catalog() dto.Catalog {
	catalog := dto.Catalog{Days: models.Days(), WeekOrder: models.WeekOrder()}
	for _, slot := range models.TimeSlots() {
		catalog.Slots = append(catalog.Slots, dto.CatalogSlot{Start: slot.Start, End: slot.End, Label: slot.Label()})
	}
	return catalog
}

// List returns stored sessions plus pagination data.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ClassSession, *models.Pagination, error) {
	if filter.Day != "" {
		day, ok := models.ParseDay(filter.Day)
		if !ok {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%q is not a weekday", filter.Day))
		}
		filter.Day = string(day)
	}
	sessions, total, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, newPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a session by id.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ClassSession, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// Validate checks a placement against the stored routine without writing.
// Rejections come back both as the result and as a CONFLICT or
// MALFORMED_CANDIDATE error.
func (s *ScheduleService) Validate(ctx context.Context, req ValidateSessionRequest) (*dto.ValidationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	candidate, outcome := s.shape(req.ExcludeID, req.SessionRequest)
	if outcome.Malformed() {
		return resultOf(outcome), outcomeError(outcome)
	}

	ref, err := s.reference.Load(ctx)
	if err != nil {
		return nil, err
	}
	base := candidate.Base()
	existing, err := s.sessions.ListBySlot(ctx, base.Day, base.Start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}

	outcome, err = s.evaluate(ref, candidate, existing, req.ExcludeID)
	if err != nil {
		return nil, err
	}
	return resultOf(outcome), outcomeError(outcome)
}

// Create places a new session under a fresh id.
func (s *ScheduleService) Create(ctx context.Context, req SessionRequest) (*models.ClassSession, error) {
	session, err := s.place(ctx, uuid.NewString(), req, time.Time{})
	if err != nil {
		return nil, err
	}
	s.logger.Info("session created", zap.String("id", session.ID), zap.String("day", string(session.Day)), zap.String("start", session.StartTime))
	return session, nil
}

// Update replaces the session stored under id.
func (s *ScheduleService) Update(ctx context.Context, id string, req SessionRequest) (*models.ClassSession, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session, err := s.place(ctx, id, req, current.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.logger.Info("session updated", zap.String("id", id))
	return session, nil
}

// Move changes only the day and start of a stored session.
func (s *ScheduleService) Move(ctx context.Context, id string, req MoveSessionRequest) (*models.ClassSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	moved := requestFromModel(*current)
	moved.Day = req.Day
	moved.StartTime = req.StartTime
	session, err := s.place(ctx, id, moved, current.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.logger.Info("session moved",
		zap.String("id", id),
		zap.String("from", fmt.Sprintf("%s %s", current.Day, current.StartTime)),
		zap.String("to", fmt.Sprintf("%s %s", session.Day, session.StartTime)),
	)
	return session, nil
}

// Delete removes a session.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	s.settings.RecordChange(ctx)
	s.logger.Info("session deleted", zap.String("id", id))
	return nil
}

// FreeRooms lists the rooms no class holds at the given cell.
func (s *ScheduleService) FreeRooms(ctx context.Context, rawDay, start string) (*dto.FreeRoomsResponse, error) {
	day, ok := models.ParseDay(rawDay)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%q is not a weekday", rawDay))
	}
	slot, ok := models.SlotByStart(strings.TrimSpace(start))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%q is not a time slot start", start))
	}

	key := fmt.Sprintf("free:%s:%s", day, slot.Start)
	var cached dto.FreeRoomsResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	rooms, err := s.reference.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	rows, err := s.sessions.ListBySlot(ctx, day, slot.Start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}

	free := scheduling.FreeRooms(day, slot.Start, rooms, s.toSessions(rows))
	resp := &dto.FreeRoomsResponse{
		Day:       day,
		StartTime: slot.Start,
		EndTime:   slot.End,
		Rooms:     free,
		Full:      len(free) == 0,
	}
	s.cache.Set(ctx, key, resp, 0)
	return resp, nil
}

// Grid renders the week, Saturday to Friday across the slot catalog,
// optionally narrowed to one teacher, section or batch.
func (s *ScheduleService) Grid(ctx context.Context, query dto.GridQuery) (*dto.RoutineGrid, error) {
	var cached dto.RoutineGrid
	if s.cache.Get(ctx, query.CacheKey(), &cached) {
		return &cached, nil
	}

	ref, err := s.reference.Load(ctx)
	if err != nil {
		return nil, err
	}
	if query.TeacherID != "" {
		if _, ok := ref.registry.Teachers[query.TeacherID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
	}
	if query.SectionID != "" {
		if _, ok := ref.registry.Sections[query.SectionID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load routine")
	}

	index := scheduling.NewIndex(s.toSessions(rows))
	grid := &dto.RoutineGrid{
		Semester:     settings.SemesterName,
		LastModified: settings.LastModified,
		Filter:       query,
	}
	for _, day := range models.WeekOrder() {
		row := dto.GridDay{Day: day}
		for _, slot := range models.TimeSlots() {
			cellSlot := dto.GridSlot{Start: slot.Start, End: slot.End, Label: slot.Label(), Cells: []dto.GridCell{}}
			for _, session := range index.At(day, slot.Start) {
				if matchesGrid(query, session, ref) {
					cellSlot.Cells = append(cellSlot.Cells, gridCell(session, ref))
				}
			}
			row.Slots = append(row.Slots, cellSlot)
		}
		grid.Days = append(grid.Days, row)
	}

	s.cache.Set(ctx, query.CacheKey(), grid, 0)
	return grid, nil
}

// shape builds the candidate and runs the checker against an empty slot so
// malformed requests are rejected before touching the store.
func (s *ScheduleService) shape(id string, req SessionRequest) (scheduling.Session, scheduling.Outcome) {
	if req.Counseling && (strings.TrimSpace(req.CourseID) != "" || strings.TrimSpace(req.RoomID) != "" || strings.TrimSpace(req.SectionID) != "") {
		outcome := scheduling.Reject(scheduling.CodeMalformed, "counseling hours take no course, room or section", nil)
		s.metrics.RecordPlacement(string(outcome.Code))
		return nil, outcome
	}
	candidate := buildCandidate(id, req)
	outcome := scheduling.NewChecker(scheduling.Registry{}).Validate(candidate, nil, "")
	if outcome.Malformed() {
		s.metrics.RecordPlacement(string(outcome.Code))
	}
	return candidate, outcome
}

func (s *ScheduleService) place(ctx context.Context, id string, req SessionRequest, createdAt time.Time) (*models.ClassSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	candidate, outcome := s.shape(id, req)
	if outcome.Malformed() {
		return nil, outcomeError(outcome)
	}

	ref, err := s.reference.Load(ctx)
	if err != nil {
		return nil, err
	}

	base := candidate.Base()
	started := time.Now()
	saved, err := s.sessions.ApplyInSlot(ctx, base.Day, base.Start, func(existing []models.ClassSession) (*models.ClassSession, error) {
		outcome, err := s.evaluate(ref, candidate, existing, id)
		if err != nil {
			return nil, err
		}
		if err := outcomeError(outcome); err != nil {
			return nil, err
		}
		row := scheduling.ToModel(candidate)
		row.CreatedAt = createdAt
		return &row, nil
	})
	s.metrics.ObserveDBQuery("apply_in_slot", time.Since(started))
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save session")
	}

	s.settings.RecordChange(ctx)
	return saved, nil
}

func (s *ScheduleService) evaluate(ref *referenceSnapshot, candidate scheduling.Session, rows []models.ClassSession, excludeID string) (scheduling.Outcome, error) {
	outcome := scheduling.NewChecker(ref.registry).Validate(candidate, s.toSessions(rows), excludeID)
	s.metrics.RecordPlacement(string(outcome.Code))
	if err := ref.checkReferences(candidate); err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (s *ScheduleService) toSessions(rows []models.ClassSession) []scheduling.Session {
	sessions, invalid := scheduling.FromModels(rows)
	for _, row := range invalid {
		s.logger.Warn("ignoring malformed stored session", zap.String("id", row.ID), zap.String("day", string(row.Day)), zap.String("start", row.StartTime))
	}
	return sessions
}

func buildCandidate(id string, req SessionRequest) scheduling.Session {
	day, ok := models.ParseDay(req.Day)
	if !ok {
		day = models.DayOfWeek(strings.TrimSpace(req.Day))
	}
	p := scheduling.Placement{
		ID:        id,
		Day:       day,
		Start:     strings.TrimSpace(req.StartTime),
		TeacherID: strings.TrimSpace(req.TeacherID),
	}
	if req.Counseling {
		return scheduling.NewCounseling(p)
	}
	return scheduling.NewAcademic(p, strings.TrimSpace(req.CourseID), strings.TrimSpace(req.RoomID), strings.TrimSpace(req.SectionID))
}

func requestFromModel(row models.ClassSession) SessionRequest {
	req := SessionRequest{
		Day:        string(row.Day),
		StartTime:  row.StartTime,
		TeacherID:  row.TeacherID,
		Counseling: row.Counseling,
	}
	if row.CourseID != nil {
		req.CourseID = *row.CourseID
	}
	if row.RoomID != nil {
		req.RoomID = *row.RoomID
	}
	if row.SectionID != nil {
		req.SectionID = *row.SectionID
	}
	return req
}

func outcomeError(outcome scheduling.Outcome) error {
	if outcome.Accepted {
		return nil
	}
	kind := appErrors.ErrConflict
	if outcome.Malformed() {
		kind = appErrors.ErrMalformedCandidate
	}
	return appErrors.Wrap(outcome.Err(), kind.Code, kind.Status, outcome.Reason)
}

func resultOf(outcome scheduling.Outcome) *dto.ValidationResult {
	return &dto.ValidationResult{
		Accepted: outcome.Accepted,
		Code:     string(outcome.Code),
		Reason:   outcome.Reason,
		Conflict: outcome.Conflict,
	}
}

func matchesGrid(query dto.GridQuery, session scheduling.Session, ref *referenceSnapshot) bool {
	if query.TeacherID != "" && session.Base().TeacherID != query.TeacherID {
		return false
	}
	if query.SectionID == "" && query.Batch == nil {
		return true
	}
	academic, ok := scheduling.AsAcademic(session)
	if !ok {
		return false
	}
	if query.SectionID != "" && academic.SectionID != query.SectionID {
		return false
	}
	if query.Batch != nil {
		section, ok := ref.registry.Sections[academic.SectionID]
		if !ok || section.Batch != *query.Batch {
			return false
		}
	}
	return true
}

func gridCell(session scheduling.Session, ref *referenceSnapshot) dto.GridCell {
	base := session.Base()
	teacher := ref.registry.Teachers[base.TeacherID]
	cell := dto.GridCell{
		SessionID:      base.ID,
		Kind:           "counseling",
		TeacherID:      base.TeacherID,
		TeacherInitial: teacher.Initial,
		TeacherName:    teacher.Name,
	}
	if cell.TeacherInitial == "" {
		cell.TeacherInitial = base.TeacherID
	}
	academic, ok := scheduling.AsAcademic(session)
	if !ok {
		return cell
	}
	cell.Kind = "class"
	if course, ok := ref.courseBy[academic.CourseID]; ok {
		cell.CourseCode = course.Code
		cell.CourseName = course.Name
	} else {
		cell.CourseCode = academic.CourseID
	}
	if room, ok := ref.registry.Rooms[academic.RoomID]; ok {
		cell.RoomNumber = room.RoomNumber
	} else {
		cell.RoomNumber = academic.RoomID
	}
	if section, ok := ref.registry.Sections[academic.SectionID]; ok {
		cell.Section = section.Label()
	} else {
		cell.Section = academic.SectionID
	}
	return cell
}
