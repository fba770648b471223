package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-api/internal/models"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Upsert(ctx context.Context, settings *models.Settings) error
	Touch(ctx context.Context, at time.Time, defaultSemester string) error
}

// changeRecorder is notified after every successful routine or registry write.
type changeRecorder interface {
	RecordChange(ctx context.Context)
}

// UpdateSettingsRequest updates the semester label and publication flag.
type UpdateSettingsRequest struct {
	SemesterName string `json:"semester_name" validate:"required,max=100"`
	IsPublished  *bool  `json:"is_published"`
}

// SettingsService manages publication state and the last-modified stamp.
type SettingsService struct {
	repo            settingsRepository
	cache           *CacheService
	validator       *validator.Validate
	logger          *zap.Logger
	defaultSemester string
	now             func() time.Time
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo settingsRepository, cache *CacheService, defaultSemester string, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, cache: cache, validator: validate, logger: logger, defaultSemester: defaultSemester, now: time.Now}
}

// Get returns the stored settings, or defaults when none were saved yet.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.Settings{SemesterName: s.defaultSemester}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	return settings, nil
}

// Update saves the semester name and, when given, the publish flag.
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	settings.SemesterName = strings.TrimSpace(req.SemesterName)
	if req.IsPublished != nil {
		settings.IsPublished = *req.IsPublished
	}
	settings.LastModified = s.now().UTC()

	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}
	s.cache.InvalidateRoutine(ctx)
	s.logger.Info("routine settings updated", zap.String("semester", settings.SemesterName), zap.Bool("published", settings.IsPublished))
	return settings, nil
}

// EnsurePublished returns ErrNotPublished while the routine is hidden.
func (s *SettingsService) EnsurePublished(ctx context.Context) (*models.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.IsPublished {
		return nil, appErrors.Clone(appErrors.ErrNotPublished, "routine has not been published yet")
	}
	return settings, nil
}

// RecordChange refreshes last_modified and drops cached views. Failures are
// logged only; the write that triggered it has already committed.
func (s *SettingsService) RecordChange(ctx context.Context) {
	if s == nil {
		return
	}
	if err := s.repo.Touch(ctx, s.now(), s.defaultSemester); err != nil {
		s.logger.Warn("failed to refresh routine last_modified", zap.Error(err))
	}
	s.cache.InvalidateRoutine(ctx)
}

func recordChange(ctx context.Context, changes changeRecorder) {
	if changes != nil {
		changes.RecordChange(ctx)
	}
}
