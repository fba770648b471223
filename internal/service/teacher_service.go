package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-api/internal/models"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	ExistsByInitial(ctx context.Context, initial, excludeID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id string) error
}

// TeacherRequest represents the payload for creating or replacing a teacher.
type TeacherRequest struct {
	Name           string   `json:"name" validate:"required,max=150"`
	Initial        string   `json:"initial" validate:"required,max=10"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          *string  `json:"phone" validate:"omitempty,max=50"`
	OffDays        []string `json:"off_days" validate:"omitempty,max=7"`
	CounselingHour *string  `json:"counseling_hour" validate:"omitempty,max=100"`
}

// TeacherService orchestrates teacher operations.
type TeacherService struct {
	repo      teacherRepository
	changes   changeRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, changes changeRecorder, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, changes: changes, validator: validate, logger: logger}
}

// List returns teachers plus pagination data.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, newPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create registers a new teacher record.
func (s *TeacherService) Create(ctx context.Context, req TeacherRequest) (*models.Teacher, error) {
	offDays, err := s.checkRequest(ctx, req, "")
	if err != nil {
		return nil, err
	}

	teacher := &models.Teacher{OffDays: offDays}
	applyTeacherRequest(teacher, req)
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	recordChange(ctx, s.changes)
	s.logger.Info("teacher created", zap.String("id", teacher.ID), zap.String("initial", teacher.Initial))
	return teacher, nil
}

// Update modifies an existing teacher. Changing off-days does not touch
// sessions already placed on those days.
func (s *TeacherService) Update(ctx context.Context, id string, req TeacherRequest) (*models.Teacher, error) {
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	offDays, err := s.checkRequest(ctx, req, id)
	if err != nil {
		return nil, err
	}

	teacher.OffDays = offDays
	applyTeacherRequest(teacher, req)
	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	recordChange(ctx, s.changes)
	return teacher, nil
}

// Delete removes a teacher together with all of their sessions.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	recordChange(ctx, s.changes)
	s.logger.Info("teacher deleted", zap.String("id", id))
	return nil
}

func (s *TeacherService) checkRequest(ctx context.Context, req TeacherRequest, excludeID string) ([]string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	offDays, err := normalizeOffDays(req.OffDays)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByInitial(ctx, strings.ToUpper(strings.TrimSpace(req.Initial)), excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check initial uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "initial already used")
	}
	return offDays, nil
}

func applyTeacherRequest(teacher *models.Teacher, req TeacherRequest) {
	teacher.Name = strings.TrimSpace(req.Name)
	teacher.Initial = strings.ToUpper(strings.TrimSpace(req.Initial))
	teacher.Email = strings.TrimSpace(req.Email)
	teacher.Phone = normalizeOptional(req.Phone)
	teacher.CounselingHour = normalizeOptional(req.CounselingHour)
}

// normalizeOffDays canonicalises weekday names and drops duplicates.
func normalizeOffDays(raw []string) ([]string, error) {
	days := make([]string, 0, len(raw))
	seen := make(map[models.DayOfWeek]struct{}, len(raw))
	for _, value := range raw {
		day, ok := models.ParseDay(value)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%q is not a weekday", value))
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, string(day))
	}
	return days, nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
