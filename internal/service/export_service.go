package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/repository"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/service/integration"
)

var attendanceSheetHeader = []string{"Student Name", "Email", "Clock In", "Clock Out", "Duration"}

type ExportService interface {
	// ExportCourseAttendance uploads the course's attendance sheet as CSV
	// and returns a presigned link to it.
	ExportCourseAttendance(ctx context.Context, courseID string) (*models.AttendanceExport, error)
}

type exportService struct {
	attendanceRepo repository.AttendanceRepository
	courseRepo     repository.CourseRepository
	storage        integration.ObjectStorage
	logger         zerolog.Logger
	now            func() time.Time
}

// NewExportService accepts a nil storage; exports then fail with
// ErrExportDisabled.
func NewExportService(
	attendanceRepo repository.AttendanceRepository,
	courseRepo repository.CourseRepository,
	storage integration.ObjectStorage,
	logger zerolog.Logger,
) ExportService {
	return &exportService{
		attendanceRepo: attendanceRepo,
		courseRepo:     courseRepo,
		storage:        storage,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *exportService) ExportCourseAttendance(ctx context.Context, courseID string) (*models.AttendanceExport, error) {
	if s.storage == nil {
		return nil, ErrExportDisabled
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	rows, err := s.attendanceRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list course attendance: %w", err)
	}

	var buf bytes.Buffer
	if err := writeAttendanceSheet(&buf, rows); err != nil {
		return nil, fmt.Errorf("failed to render attendance sheet: %w", err)
	}

	key := fmt.Sprintf("attendance/%s/%s.csv", course.CourseCode, s.now().UTC().Format("20060102T150405Z"))
	if err := s.storage.PutObject(ctx, key, "text/csv", buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to upload attendance sheet: %w", err)
	}

	url, err := s.storage.PresignedURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign attendance sheet url: %w", err)
	}

	s.logger.Info().
		Str("course_id", courseID).
		Str("object_key", key).
		Int("rows", len(rows)).
		Msg("Attendance sheet exported")

	return &models.AttendanceExport{
		ObjectKey: key,
		URL:       url,
		Rows:      len(rows),
	}, nil
}

func writeAttendanceSheet(w io.Writer, rows []models.AttendanceWithDetails) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(attendanceSheetHeader); err != nil {
		return err
	}

	for _, row := range rows {
		var name, email string
		if row.Student != nil {
			name = row.Student.FullName()
			email = row.Student.Email
		}

		var duration string
		if row.ClockIn != nil && row.ClockOut != nil {
			duration = row.ClockOut.Sub(*row.ClockIn).Round(time.Second).String()
		}

		record := []string{name, email, formatTimestamp(row.ClockIn), formatTimestamp(row.ClockOut), duration}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
