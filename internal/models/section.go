package models

import (
	"fmt"
	"time"
)

// Section is a student group. An empty Name stands for the whole batch.
type Section struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Batch        int       `db:"batch" json:"batch"`
	StudentCount int       `db:"student_count" json:"student_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Label renders "Batch 56 (A)" or "Batch 57" for whole-batch sections.
func (s Section) Label() string {
	if s.Name == "" {
		return fmt.Sprintf("Batch %d", s.Batch)
	}
	return fmt.Sprintf("Batch %d (%s)", s.Batch, s.Name)
}

// ShortLabel renders the compact grid form, e.g. "B56-A".
func (s Section) ShortLabel() string {
	if s.Name == "" {
		return fmt.Sprintf("B%d", s.Batch)
	}
	return fmt.Sprintf("B%d-%s", s.Batch, s.Name)
}

// SectionFilter narrows section listings.
type SectionFilter struct {
	Batch    *int
	Page     int
	PageSize int
}
