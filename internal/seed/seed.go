// Package seed loads a small demo routine through the regular services, so
// every placement passes the same checks as an admin edit.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/routine-api/internal/models"
	"github.com/noah-isme/routine-api/internal/service"
)

type teacherCreator interface {
	Create(ctx context.Context, req service.TeacherRequest) (*models.Teacher, error)
}

type roomCreator interface {
	Create(ctx context.Context, req service.RoomRequest) (*models.Room, error)
}

type sectionCreator interface {
	Create(ctx context.Context, req service.SectionRequest) (*models.Section, error)
}

type courseCreator interface {
	Create(ctx context.Context, req service.CourseRequest) (*models.Course, error)
}

type sessionPlacer interface {
	Create(ctx context.Context, req service.SessionRequest) (*models.ClassSession, error)
}

type settingsUpdater interface {
	Update(ctx context.Context, req service.UpdateSettingsRequest) (*models.Settings, error)
}

// Targets are the services the demo data is written through.
type Targets struct {
	Teachers teacherCreator
	Rooms    roomCreator
	Sections sectionCreator
	Courses  courseCreator
	Sessions sessionPlacer
	Settings settingsUpdater
}

// Summary counts what was created.
type Summary struct {
	Teachers int
	Rooms    int
	Sections int
	Courses  int
	Sessions int
}

func strPtr(v string) *string { return &v }

var teachers = []service.TeacherRequest{
	{Name: "Mr. John Doe", Initial: "JD", Email: "john@diu.edu.bd", Phone: strPtr("+8801700000001"), OffDays: []string{"Friday", "Saturday"}, CounselingHour: strPtr("Sunday 10:00 - 11:30")},
	{Name: "Ms. Jane Smith", Initial: "JS", Email: "jane@diu.edu.bd", Phone: strPtr("+8801700000002"), OffDays: []string{"Saturday"}, CounselingHour: strPtr("Monday 11:30 - 13:00")},
	{Name: "Dr. Robert Brown", Initial: "RB", Email: "robert@diu.edu.bd", Phone: strPtr("+8801700000003"), OffDays: []string{"Thursday"}},
}

var courses = []service.CourseRequest{
	{Code: "CSE101", Name: "Structured Programming", Credits: 3},
	{Code: "CSE102", Name: "Discrete Mathematics", Credits: 3},
	{Code: "ENG101", Name: "English I", Credits: 3},
	{Code: "CSE201", Name: "Data Structures", Credits: 3},
	{Code: "CSE202", Name: "OOP", Credits: 3},
}

var rooms = []service.RoomRequest{
	{RoomNumber: "AB4-601", Type: string(models.RoomTypeTheory)},
	{RoomNumber: "AB4-602", Type: string(models.RoomTypeTheory)},
	{RoomNumber: "AB4-Lab1", Type: string(models.RoomTypeLab)},
	{RoomNumber: "AB4-Lab2", Type: string(models.RoomTypeLab)},
}

var sections = []service.SectionRequest{
	{Name: "A", Batch: 56, StudentCount: 45},
	{Name: "B", Batch: 56, StudentCount: 42},
	{Batch: 57, StudentCount: 50},
}

// placement names its references by teacher initial, course code, room
// number and section label; they are resolved to ids after creation.
type placement struct {
	day, start, teacher, course, room, section string
}

var placements = []placement{
	{"Sunday", "08:30", "JD", "CSE101", "AB4-601", "Batch 56 (A)"},
	{"Sunday", "08:30", "JS", "CSE102", "AB4-602", "Batch 56 (B)"},
	{"Sunday", "10:00", "JD", "", "", ""},
	{"Monday", "08:30", "RB", "CSE201", "AB4-Lab1", "Batch 57"},
	{"Monday", "11:30", "JS", "", "", ""},
	{"Tuesday", "10:00", "JD", "ENG101", "AB4-601", "Batch 56 (B)"},
	{"Wednesday", "13:00", "RB", "CSE202", "AB4-Lab2", "Batch 56 (A)"},
	{"Thursday", "14:30", "JS", "CSE201", "AB4-602", "Batch 57"},
}

// Load writes the demo registries, places the demo sessions and publishes
// the routine. It stops at the first failure.
func Load(ctx context.Context, t Targets, logger *zap.Logger) (*Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	summary := &Summary{}

	teacherIDs := make(map[string]string, len(teachers))
	for _, req := range teachers {
		teacher, err := t.Teachers.Create(ctx, req)
		if err != nil {
			return summary, fmt.Errorf("seed teacher %s: %w", req.Initial, err)
		}
		teacherIDs[teacher.Initial] = teacher.ID
		summary.Teachers++
	}

	courseIDs := make(map[string]string, len(courses))
	for _, req := range courses {
		course, err := t.Courses.Create(ctx, req)
		if err != nil {
			return summary, fmt.Errorf("seed course %s: %w", req.Code, err)
		}
		courseIDs[course.Code] = course.ID
		summary.Courses++
	}

	roomIDs := make(map[string]string, len(rooms))
	for _, req := range rooms {
		room, err := t.Rooms.Create(ctx, req)
		if err != nil {
			return summary, fmt.Errorf("seed room %s: %w", req.RoomNumber, err)
		}
		roomIDs[room.RoomNumber] = room.ID
		summary.Rooms++
	}

	sectionIDs := make(map[string]string, len(sections))
	for _, req := range sections {
		section, err := t.Sections.Create(ctx, req)
		if err != nil {
			return summary, fmt.Errorf("seed section batch %d: %w", req.Batch, err)
		}
		sectionIDs[section.Label()] = section.ID
		summary.Sections++
	}

	for _, p := range placements {
		req := service.SessionRequest{Day: p.day, StartTime: p.start, TeacherID: teacherIDs[p.teacher]}
		if p.course == "" {
			req.Counseling = true
		} else {
			req.CourseID = courseIDs[p.course]
			req.RoomID = roomIDs[p.room]
			req.SectionID = sectionIDs[p.section]
		}
		if _, err := t.Sessions.Create(ctx, req); err != nil {
			return summary, fmt.Errorf("seed session %s %s %s: %w", p.day, p.start, p.teacher, err)
		}
		summary.Sessions++
	}

	published := true
	if _, err := t.Settings.Update(ctx, service.UpdateSettingsRequest{SemesterName: "Spring 2026", IsPublished: &published}); err != nil {
		return summary, fmt.Errorf("seed settings: %w", err)
	}

	logger.Info("demo routine loaded",
		zap.Int("teachers", summary.Teachers),
		zap.Int("courses", summary.Courses),
		zap.Int("rooms", summary.Rooms),
		zap.Int("sections", summary.Sections),
		zap.Int("sessions", summary.Sessions),
	)
	return summary, nil
}
