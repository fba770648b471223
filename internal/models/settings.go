package models

import "time"

// Settings holds routine-wide publication state.
type Settings struct {
	SemesterName string    `db:"semester_name" json:"semester_name"`
	IsPublished  bool      `db:"is_published" json:"is_published"`
	LastModified time.Time `db:"last_modified" json:"last_modified"`
}
