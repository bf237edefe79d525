package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/config"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/metrics"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/repository"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/service/integration"
)

const dailyTaskDateLayout = "Monday 2 January, 2006"

// DailyTaskTitle names the automatic attendance task of a course for the
// UTC calendar day containing t.
func DailyTaskTitle(courseTitle string, t time.Time) string {
	return fmt.Sprintf("%s Attendance for %s", courseTitle, t.UTC().Format(dailyTaskDateLayout))
}

func dailyTaskDescription(courseTitle string) string {
	return "Daily attendance task for " + courseTitle
}

func utcDay(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

type AttendanceService interface {
	// ClockIn opens an attendance record and, in the same transaction,
	// makes sure the course has its daily task and scores the student on it.
	ClockIn(ctx context.Context, req *models.ClockInRequest) (*models.AttendanceWithDetails, error)
	ClockOut(ctx context.Context, req *models.ClockOutRequest) (*models.AttendanceWithDetails, error)
	CreateAttendance(ctx context.Context, req *models.CreateAttendanceRequest) (*models.AttendanceWithDetails, error)
	GetAttendance(ctx context.Context, id string) (*models.AttendanceWithDetails, error)
	ListAttendance(ctx context.Context, page models.PaginationRequest) (*models.Page[models.AttendanceWithDetails], error)
	ListStudentAttendance(ctx context.Context, studentID string, page models.PaginationRequest) (*models.Page[models.AttendanceWithDetails], error)
	UpdateAttendance(ctx context.Context, id string, req *models.UpdateAttendanceRequest) (*models.AttendanceWithDetails, error)
	DeleteAttendance(ctx context.Context, id string) error
}

type attendanceService struct {
	attendanceRepo repository.AttendanceRepository
	studentRepo    repository.StudentRepository
	courseRepo     repository.CourseRepository
	transactor     repository.Transactor
	publisher      integration.EventPublisher
	recorder       metrics.Recorder
	settings       config.AttendanceConfig
	logger         zerolog.Logger
	now            func() time.Time
}

func NewAttendanceService(
	attendanceRepo repository.AttendanceRepository,
	studentRepo repository.StudentRepository,
	courseRepo repository.CourseRepository,
	transactor repository.Transactor,
	publisher integration.EventPublisher,
	recorder metrics.Recorder,
	settings config.AttendanceConfig,
	logger zerolog.Logger,
) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		studentRepo:    studentRepo,
		courseRepo:     courseRepo,
		transactor:     transactor,
		publisher:      publisher,
		recorder:       recorder,
		settings:       settings,
		logger:         logger,
		now:            time.Now,
	}
}

type clockInResult struct {
	attendance  *models.Attendance
	task        *models.Task
	taskCreated bool
	score       *models.TaskScore
	firstOfDay  bool
}

func (s *attendanceService) ClockIn(ctx context.Context, req *models.ClockInRequest) (*models.AttendanceWithDetails, error) {
	student, err := s.studentRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	active, err := s.attendanceRepo.GetActiveByStudent(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active attendance: %w", err)
	}
	if active != nil {
		return nil, ErrAlreadyClockedIn
	}

	now := s.now().UTC()
	var result clockInResult

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		r, err := s.clockInTx(ctx, repos, student.ID, &course.Course, now)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		if repository.IsConstraint(err, repository.ConstraintSingleActiveAttendance) {
			return nil, ErrAlreadyClockedIn
		}
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to clock in: %w", err)
	}

	s.recorder.ClockIn()
	if result.taskCreated {
		s.recorder.AttendanceTaskCreated()
	}

	event := &models.AttendanceClockedInEvent{
		AttendanceID: result.attendance.ID,
		StudentID:    student.ID,
		CourseID:     course.ID,
		TaskID:       result.task.ID,
		TaskCreated:  result.taskCreated,
		ClockIn:      now,
	}
	if result.score != nil {
		event.ScoreID = result.score.ID
	}
	if err := s.publisher.PublishAttendanceClockedIn(ctx, event); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish clock in event")
	}

	s.logger.Info().
		Str("attendance_id", result.attendance.ID).
		Str("student_id", student.ID).
		Str("course_id", course.ID).
		Str("task_id", result.task.ID).
		Bool("task_created", result.taskCreated).
		Bool("first_of_day", result.firstOfDay).
		Bool("scored", result.score != nil).
		Msg("Student clocked in")

	return &models.AttendanceWithDetails{
		Attendance: *result.attendance,
		Student:    student,
		Course:     &course.Course,
	}, nil
}

// clockInTx serialises clock-ins per student and per course-day so the
// active-record check and the daily task lookup cannot race.
func (s *attendanceService) clockInTx(ctx context.Context, repos repository.TxRepositories, studentID string, course *models.Course, now time.Time) (clockInResult, error) {
	var result clockInResult
	dayStart, dayEnd := utcDay(now)

	if err := repos.Locks.Lock(ctx, "attendance:student:"+studentID); err != nil {
		return result, fmt.Errorf("failed to lock student: %w", err)
	}

	active, err := repos.Attendance.GetActiveByStudent(ctx, studentID)
	if err != nil {
		return result, fmt.Errorf("failed to re-check active attendance: %w", err)
	}
	if active != nil {
		return result, ErrAlreadyClockedIn
	}

	if err := repos.Locks.Lock(ctx, "attendance:course-day:"+course.ID+":"+dayStart.Format("2006-01-02")); err != nil {
		return result, fmt.Errorf("failed to lock course day: %w", err)
	}

	earlier, err := repos.Attendance.CountByCourseBetween(ctx, course.ID, dayStart, dayEnd)
	if err != nil {
		return result, fmt.Errorf("failed to count course attendance: %w", err)
	}
	result.firstOfDay = earlier == 0

	title := DailyTaskTitle(course.CourseTitle, now)
	task, err := repos.Tasks.FindByCourseAndTitle(ctx, course.ID, title, dayStart, dayEnd)
	if err != nil {
		return result, fmt.Errorf("failed to find daily task: %w", err)
	}
	if task == nil {
		description := dailyTaskDescription(course.CourseTitle)
		task = &models.Task{
			ID:                 uuid.New().String(),
			Title:              title,
			Description:        &description,
			CourseID:           course.ID,
			MaxObtainableScore: s.settings.DailyTaskMaxScore,
			CreatedAt:          now,
		}
		if err := repos.Tasks.Create(ctx, task); err != nil {
			return result, fmt.Errorf("failed to create daily task: %w", err)
		}
		result.taskCreated = true
	}
	result.task = task

	clockIn := now
	attendance := &models.Attendance{
		ID:        uuid.New().String(),
		StudentID: studentID,
		CourseID:  course.ID,
		ClockIn:   &clockIn,
		CreatedAt: now,
	}
	if err := repos.Attendance.Create(ctx, attendance); err != nil {
		return result, err
	}
	result.attendance = attendance

	// A second clock-in on the same day keeps the first score.
	existing, err := repos.TaskScores.GetByTaskAndStudent(ctx, task.ID, studentID)
	if err != nil {
		return result, fmt.Errorf("failed to check daily score: %w", err)
	}
	if existing == nil {
		score := &models.TaskScore{
			ID:        uuid.New().String(),
			TaskID:    task.ID,
			StudentID: studentID,
			Score:     math.Min(s.settings.DailyTaskScore, task.MaxObtainableScore),
			CreatedAt: now,
		}
		if err := repos.TaskScores.Create(ctx, score); err != nil {
			return result, fmt.Errorf("failed to record daily score: %w", err)
		}
		result.score = score
	}

	return result, nil
}

func (s *attendanceService) ClockOut(ctx context.Context, req *models.ClockOutRequest) (*models.AttendanceWithDetails, error) {
	active, err := s.attendanceRepo.GetActiveByStudentAndCourse(ctx, req.StudentID, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active attendance: %w", err)
	}
	if active == nil {
		return nil, ErrNoActiveAttendance
	}

	clockOut := s.now().UTC()

	if err := s.attendanceRepo.ClockOut(ctx, active.ID, clockOut); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNoActiveAttendance
		}
		return nil, fmt.Errorf("failed to clock out: %w", err)
	}
	active.ClockOut = &clockOut

	s.recorder.ClockOut()

	event := &models.AttendanceClockedOutEvent{
		AttendanceID: active.ID,
		StudentID:    active.StudentID,
		CourseID:     active.CourseID,
		ClockOut:     clockOut,
	}
	if err := s.publisher.PublishAttendanceClockedOut(ctx, event); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish clock out event")
	}

	s.logger.Info().
		Str("attendance_id", active.ID).
		Str("student_id", active.StudentID).
		Str("course_id", active.CourseID).
		Msg("Student clocked out")

	student, err := s.studentRepo.GetByID(ctx, active.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return &models.AttendanceWithDetails{
		Attendance: *active,
		Student:    student,
	}, nil
}

func checkClockRange(clockIn, clockOut *time.Time) error {
	if clockIn != nil && clockOut != nil && clockOut.Before(*clockIn) {
		return ErrClockOutBeforeIn
	}
	return nil
}

func (s *attendanceService) CreateAttendance(ctx context.Context, req *models.CreateAttendanceRequest) (*models.AttendanceWithDetails, error) {
	if err := checkClockRange(req.ClockIn, req.ClockOut); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	attendance := &models.Attendance{
		ID:        uuid.New().String(),
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		ClockIn:   req.ClockIn,
		ClockOut:  req.ClockOut,
		CreatedAt: s.now().UTC(),
	}

	if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
		if repository.IsConstraint(err, repository.ConstraintSingleActiveAttendance) {
			return nil, ErrAlreadyClockedIn
		}
		return nil, fmt.Errorf("failed to create attendance: %w", err)
	}

	s.logger.Info().
		Str("attendance_id", attendance.ID).
		Str("student_id", attendance.StudentID).
		Str("course_id", attendance.CourseID).
		Msg("Attendance record created")

	return &models.AttendanceWithDetails{
		Attendance: *attendance,
		Student:    student,
		Course:     &course.Course,
	}, nil
}

func (s *attendanceService) GetAttendance(ctx context.Context, id string) (*models.AttendanceWithDetails, error) {
	attendance, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	if attendance == nil {
		return nil, ErrAttendanceNotFound
	}

	return attendance, nil
}

func (s *attendanceService) ListAttendance(ctx context.Context, page models.PaginationRequest) (*models.Page[models.AttendanceWithDetails], error) {
	return s.list(ctx, repository.AttendanceFilter{}, page)
}

func (s *attendanceService) ListStudentAttendance(ctx context.Context, studentID string, page models.PaginationRequest) (*models.Page[models.AttendanceWithDetails], error) {
	exists, err := s.studentRepo.Exists(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student existence: %w", err)
	}
	if !exists {
		return nil, ErrStudentNotFound
	}

	return s.list(ctx, repository.AttendanceFilter{StudentID: studentID}, page)
}

func (s *attendanceService) list(ctx context.Context, filter repository.AttendanceFilter, page models.PaginationRequest) (*models.Page[models.AttendanceWithDetails], error) {
	page = page.Normalize()

	attendances, total, err := s.attendanceRepo.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	return newPage(attendances, total, page), nil
}

func (s *attendanceService) UpdateAttendance(ctx context.Context, id string, req *models.UpdateAttendanceRequest) (*models.AttendanceWithDetails, error) {
	if err := checkClockRange(req.ClockIn, req.ClockOut); err != nil {
		return nil, err
	}

	attendance, err := s.GetAttendance(ctx, id)
	if err != nil {
		return nil, err
	}

	attendance.ClockIn = req.ClockIn
	attendance.ClockOut = req.ClockOut

	if err := s.attendanceRepo.Update(ctx, &attendance.Attendance); err != nil {
		if repository.IsConstraint(err, repository.ConstraintSingleActiveAttendance) {
			return nil, ErrAlreadyClockedIn
		}
		return nil, resolveNoRows(ctx, err, "update attendance", ErrAttendanceNotFound, func(ctx context.Context) (bool, error) {
			a, err := s.attendanceRepo.GetByID(ctx, id)
			return a != nil, err
		})
	}

	s.logger.Info().Str("attendance_id", id).Msg("Attendance record updated")

	return attendance, nil
}

func (s *attendanceService) DeleteAttendance(ctx context.Context, id string) error {
	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	s.logger.Info().Str("attendance_id", id).Msg("Attendance record deleted")

	return nil
}
