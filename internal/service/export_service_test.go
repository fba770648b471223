package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-api/internal/dto"
	"github.com/noah-isme/routine-api/internal/models"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
)

func newTestExportService(t *testing.T) (*ExportService, *fakeSessionRepo) {
	t.Helper()
	repo := newFakeSessionRepo(
		storedClass("c1", models.Sunday, "08:30", "t1", "c1", "r1", "s1"),
		storedCounseling("h1", models.Sunday, "08:30", "t2"),
	)
	schedule, _ := newTestScheduleService(repo)
	svc := NewExportService(schedule, testReferenceData(), repo, NewMetricsService(), nil)
	svc.now = func() time.Time { return time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC) }
	return svc, repo
}

func TestExportServiceCSV(t *testing.T) {
	svc, _ := newTestExportService(t)

	file, err := svc.Routine(context.Background(), "", dto.GridQuery{})
	require.NoError(t, err)
	assert.Equal(t, "routine_spring_2026_20260402_103000.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Body)).ReadAll()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(records), 8)

	var sunday []string
	for _, record := range records {
		if len(record) > 0 && record[0] == "Sunday" {
			sunday = record
		}
	}
	require.NotNil(t, sunday)
	assert.Equal(t, "CSE101 | AR | AB4-601 | Batch 56 (A)\nCounseling | BK", sunday[1])
}

func TestExportServiceBinaryFormats(t *testing.T) {
	svc, _ := newTestExportService(t)

	pdf, err := svc.Routine(context.Background(), "PDF", dto.GridQuery{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf.Body, []byte("%PDF")))
	assert.True(t, strings.HasSuffix(pdf.Filename, ".pdf"))

	xlsx, err := svc.Routine(context.Background(), "xlsx", dto.GridQuery{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(xlsx.Body, []byte("PK")))
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	svc, _ := newTestExportService(t)

	_, err := svc.Routine(context.Background(), "docx", dto.GridQuery{})
	assertAppCode(t, err, appErrors.ErrValidation)
}

func TestExportServiceSQLDump(t *testing.T) {
	svc, _ := newTestExportService(t)

	file, err := svc.Routine(context.Background(), "sql", dto.GridQuery{})
	require.NoError(t, err)
	assert.Equal(t, "routine_database_20260402_103000.sql", file.Filename)

	body := string(file.Body)
	assert.True(t, strings.Contains(body, "BEGIN;"))
	assert.True(t, strings.HasSuffix(body, "COMMIT;\n"))
	assert.Contains(t, body, "INSERT INTO teachers (id, name, initial, email, phone, off_days, counseling_hour) VALUES ('t1', 'Alice Rahman', 'AR', '', NULL, ARRAY['Friday']::TEXT[], NULL);")
	assert.Contains(t, body, "INSERT INTO rooms (id, room_number, type) VALUES ('r1', 'AB4-601', 'Theory');")
	assert.Contains(t, body, "VALUES ('h1', 'Sunday', '08:30', '10:00', 't2', NULL, NULL, NULL, true);")
	assert.Less(t, strings.Index(body, "INSERT INTO sections"), strings.Index(body, "INSERT INTO class_sessions"))
}

func TestSQLStringEscapesQuotes(t *testing.T) {
	assert.Equal(t, "'O''Brien'", sqlString("O'Brien"))
	assert.Equal(t, "ARRAY[]::TEXT[]", sqlArray(nil))
}
