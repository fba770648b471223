package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/routine-api/internal/dto"
	"github.com/noah-isme/routine-api/internal/models"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
	"github.com/noah-isme/routine-api/pkg/export"
)

// Export formats accepted by ExportService.Routine.
const (
	ExportFormatCSV  = "csv"
	ExportFormatPDF  = "pdf"
	ExportFormatXLSX = "xlsx"
	ExportFormatSQL  = "sql"
)

type gridProvider interface {
	Grid(ctx context.Context, query dto.GridQuery) (*dto.RoutineGrid, error)
}

type sessionLoader interface {
	Load(ctx context.Context) ([]models.ClassSession, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the routine grid as CSV, PDF or XLSX, or dumps the
// whole store as an SQL insert script.
type ExportService struct {
	grid      gridProvider
	reference *ReferenceData
	sessions  sessionLoader
	renderers map[string]export.Renderer
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with the CSV, PDF and XLSX renderers.
func NewExportService(grid gridProvider, reference *ReferenceData, sessions sessionLoader, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		grid:      grid,
		reference: reference,
		sessions:  sessions,
		renderers: map[string]export.Renderer{
			ExportFormatCSV:  export.NewCSVExporter(),
			ExportFormatPDF:  export.NewPDFExporter(),
			ExportFormatXLSX: export.NewXLSXExporter(),
		},
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Routine renders the (optionally filtered) routine in format.
func (s *ExportService) Routine(ctx context.Context, format string, query dto.GridQuery) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}

	var (
		file *ExportFile
		err  error
	)
	if format == ExportFormatSQL {
		file, err = s.sqlDump(ctx)
	} else {
		file, err = s.render(ctx, format, query)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.RecordExport(format)
	s.logger.Info("routine exported", zap.String("format", format), zap.Int("bytes", len(file.Body)))
	return file, nil
}

func (s *ExportService) render(ctx context.Context, format string, query dto.GridQuery) (*ExportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	grid, err := s.grid.Grid(ctx, query)
	if err != nil {
		return nil, err
	}

	body, err := renderer.Render(gridDataset(grid))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    s.filename(grid.Semester, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func gridDataset(grid *dto.RoutineGrid) export.Dataset {
	title := strings.TrimSpace(grid.Semester + " Class Routine")
	headers := []string{"Day"}
	for _, slot := range models.TimeSlots() {
		headers = append(headers, slot.Label())
	}

	data := export.Dataset{Title: title, Headers: headers}
	for _, day := range grid.Days {
		row := map[string]string{"Day": string(day.Day)}
		for _, slot := range day.Slots {
			texts := make([]string, 0, len(slot.Cells))
			for _, cell := range slot.Cells {
				texts = append(texts, cellText(cell))
			}
			row[slot.Label] = strings.Join(texts, "\n")
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

func cellText(cell dto.GridCell) string {
	if cell.Kind != "class" {
		return "Counseling | " + cell.TeacherInitial
	}
	return strings.Join([]string{cell.CourseCode, cell.TeacherInitial, cell.RoomNumber, cell.Section}, " | ")
}

// sqlDump writes INSERT statements for every table, parents first.
func (s *ExportService) sqlDump(ctx context.Context) (*ExportFile, error) {
	ref, err := s.reference.Load(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load routine")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- class routine export generated %s\nBEGIN;\n\n", s.now().UTC().Format(time.RFC3339))

	for _, t := range ref.teachers {
		offDays := append([]string(nil), t.OffDays...)
		sort.Strings(offDays)
		fmt.Fprintf(&b, "INSERT INTO teachers (id, name, initial, email, phone, off_days, counseling_hour) VALUES (%s, %s, %s, %s, %s, %s, %s);\n",
			sqlString(t.ID), sqlString(t.Name), sqlString(t.Initial), sqlString(t.Email), sqlNullable(t.Phone), sqlArray(offDays), sqlNullable(t.CounselingHour))
	}
	b.WriteString("\n")
	for _, r := range ref.rooms {
		fmt.Fprintf(&b, "INSERT INTO rooms (id, room_number, type) VALUES (%s, %s, %s);\n",
			sqlString(r.ID), sqlString(r.RoomNumber), sqlString(string(r.Type)))
	}
	b.WriteString("\n")
	for _, sec := range ref.sections {
		fmt.Fprintf(&b, "INSERT INTO sections (id, name, batch, student_count) VALUES (%s, %s, %d, %d);\n",
			sqlString(sec.ID), sqlString(sec.Name), sec.Batch, sec.StudentCount)
	}
	b.WriteString("\n")
	for _, c := range ref.courses {
		fmt.Fprintf(&b, "INSERT INTO courses (id, code, name, short_name, credits) VALUES (%s, %s, %s, %s, %g);\n",
			sqlString(c.ID), sqlString(c.Code), sqlString(c.Name), sqlString(c.ShortName), c.Credits)
	}
	b.WriteString("\n")
	for _, cs := range sessions {
		fmt.Fprintf(&b, "INSERT INTO class_sessions (id, day, start_time, end_time, teacher_id, course_id, room_id, section_id, counseling) VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %t);\n",
			sqlString(cs.ID), sqlString(string(cs.Day)), sqlString(cs.StartTime), sqlString(cs.EndTime), sqlString(cs.TeacherID),
			sqlNullable(cs.CourseID), sqlNullable(cs.RoomID), sqlNullable(cs.SectionID), cs.Counseling)
	}
	b.WriteString("\nCOMMIT;\n")

	return &ExportFile{
		Filename:    s.filename("database", "sql"),
		ContentType: "application/sql; charset=utf-8",
		Body:        []byte(b.String()),
	}, nil
}

func (s *ExportService) filename(label, ext string) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("routine_%s_%s.%s", sanitizeFilename(strings.ToLower(label)), timestamp, ext)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func sqlString(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func sqlNullable(v *string) string {
	if v == nil {
		return "NULL"
	}
	return sqlString(*v)
}

func sqlArray(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = sqlString(v)
	}
	return "ARRAY[" + strings.Join(quoted, ", ") + "]::TEXT[]"
}
