package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/routine-api/internal/models"
)

// SettingsRepository stores the single routine settings row.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs a SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row or sql.ErrNoRows when it was never saved.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	const query = `SELECT semester_name, is_published, last_modified FROM routine_settings WHERE id = 1`
	var settings models.Settings
	if err := r.db.GetContext(ctx, &settings, query); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert writes the settings row.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.Settings) error {
	if settings.LastModified.IsZero() {
		settings.LastModified = time.Now().UTC()
	}
	const query = `INSERT INTO routine_settings (id, semester_name, is_published, last_modified)
		VALUES (1, :semester_name, :is_published, :last_modified)
		ON CONFLICT (id) DO UPDATE SET semester_name = EXCLUDED.semester_name, is_published = EXCLUDED.is_published, last_modified = EXCLUDED.last_modified`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("upsert routine settings: %w", err)
	}
	return nil
}

// Touch bumps last_modified, creating the row with defaultSemester if needed.
func (r *SettingsRepository) Touch(ctx context.Context, at time.Time, defaultSemester string) error {
	const query = `INSERT INTO routine_settings (id, semester_name, is_published, last_modified)
		VALUES (1, $1, FALSE, $2)
		ON CONFLICT (id) DO UPDATE SET last_modified = EXCLUDED.last_modified`
	if _, err := r.db.ExecContext(ctx, query, defaultSemester, at.UTC()); err != nil {
		return fmt.Errorf("touch routine settings: %w", err)
	}
	return nil
}
