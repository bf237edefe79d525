package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

type AttendanceFilter struct {
	StudentID string
	CourseID  string
}

type AttendanceRepository interface {
	Create(ctx context.Context, attendance *models.Attendance) error
	GetByID(ctx context.Context, id string) (*models.AttendanceWithDetails, error)
	// GetActiveByStudent returns the student's open record in any course.
	GetActiveByStudent(ctx context.Context, studentID string) (*models.Attendance, error)
	GetActiveByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Attendance, error)
	// CountByCourseBetween counts rows for the course created in [from, to).
	CountByCourseBetween(ctx context.Context, courseID string, from, to time.Time) (int, error)
	List(ctx context.Context, filter AttendanceFilter, page models.PaginationRequest) ([]models.AttendanceWithDetails, int, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.AttendanceWithDetails, error)
	Update(ctx context.Context, attendance *models.Attendance) error
	// ClockOut closes the record only while it is still open; ErrNoRows
	// otherwise.
	ClockOut(ctx context.Context, id string, clockOut time.Time) error
	Delete(ctx context.Context, id string) error
}

const attendanceColumns = `a.id, a.student_id, a.course_id, a.clock_in, a.clock_out, a.created_at`

const attendanceDetailColumns = attendanceColumns + `,
	s.id, s.first_name, s.last_name, s.email, s.phone_number, s.gender, s.created_at,
	c.id, c.course_code, c.course_title, c.created_at
`

const attendanceFrom = `attendances a
	JOIN students s ON s.id = a.student_id
	JOIN courses c ON c.id = a.course_id`

var attendanceSortColumns = map[string][]string{
	"student":   {"s.first_name"},
	"clockin":   {"a.clock_in"},
	"clockout":  {"a.clock_out"},
	"createdat": {"a.created_at"},
}

type attendanceRepository struct {
	*PostgresRepository
}

func NewAttendanceRepository(db Querier, logger zerolog.Logger) AttendanceRepository {
	return &attendanceRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func scanAttendance(row scanner, a *models.Attendance) error {
	return row.Scan(
		&a.ID,
		&a.StudentID,
		&a.CourseID,
		&a.ClockIn,
		&a.ClockOut,
		&a.CreatedAt,
	)
}

func scanAttendanceWithDetails(row scanner, a *models.AttendanceWithDetails) error {
	student := &models.Student{}
	course := &models.Course{}

	err := row.Scan(
		&a.ID,
		&a.StudentID,
		&a.CourseID,
		&a.ClockIn,
		&a.ClockOut,
		&a.CreatedAt,
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.PhoneNumber,
		&student.Gender,
		&student.CreatedAt,
		&course.ID,
		&course.CourseCode,
		&course.CourseTitle,
		&course.CreatedAt,
	)
	if err != nil {
		return err
	}

	a.Student = student
	a.Course = course
	return nil
}

func (r *attendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	query := `
		INSERT INTO attendances (id, student_id, course_id, clock_in, clock_out, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	return r.exec(ctx, query,
		attendance.ID,
		attendance.StudentID,
		attendance.CourseID,
		attendance.ClockIn,
		attendance.ClockOut,
		attendance.CreatedAt,
	)
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (*models.AttendanceWithDetails, error) {
	query := `SELECT ` + attendanceDetailColumns + ` FROM ` + attendanceFrom + ` WHERE a.id = $1`

	attendance := &models.AttendanceWithDetails{}
	err := scanAttendanceWithDetails(r.db.QueryRowContext(ctx, query, id), attendance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return attendance, nil
}

func (r *attendanceRepository) GetActiveByStudent(ctx context.Context, studentID string) (*models.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.student_id = $1 AND a.clock_in IS NOT NULL AND a.clock_out IS NULL
		ORDER BY a.clock_in DESC
		LIMIT 1
	`

	return r.getOne(ctx, query, studentID)
}

func (r *attendanceRepository) GetActiveByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.student_id = $1 AND a.course_id = $2
			AND a.clock_in IS NOT NULL AND a.clock_out IS NULL
		ORDER BY a.clock_in DESC
		LIMIT 1
	`

	return r.getOne(ctx, query, studentID, courseID)
}

func (r *attendanceRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Attendance, error) {
	attendance := &models.Attendance{}
	err := scanAttendance(r.db.QueryRowContext(ctx, query, args...), attendance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return attendance, nil
}

func (r *attendanceRepository) CountByCourseBetween(ctx context.Context, courseID string, from, to time.Time) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM attendances WHERE course_id = $1 AND created_at >= $2 AND created_at < $3`,
		courseID, from, to,
	)
}

func (r *attendanceRepository) List(ctx context.Context, filter AttendanceFilter, page models.PaginationRequest) ([]models.AttendanceWithDetails, int, error) {
	q := newListQuery(attendanceFrom, page)
	if filter.StudentID != "" {
		q.Where("a.student_id = %s", filter.StudentID)
	}
	if filter.CourseID != "" {
		q.Where("a.course_id = %s", filter.CourseID)
	}
	q.Search("s.first_name", "s.last_name", "s.email").
		Sort(attendanceSortColumns, "a.created_at DESC, a.id")

	countQuery, countArgs := q.CountSQL()
	total, err := r.count(ctx, countQuery, countArgs...)
	if err != nil {
		return nil, 0, err
	}

	query, args := q.SelectSQL(attendanceDetailColumns)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	attendances := make([]models.AttendanceWithDetails, 0)
	for rows.Next() {
		var attendance models.AttendanceWithDetails
		if err := scanAttendanceWithDetails(rows, &attendance); err != nil {
			return nil, 0, err
		}
		attendances = append(attendances, attendance)
	}

	return attendances, total, rows.Err()
}

func (r *attendanceRepository) ListByCourse(ctx context.Context, courseID string) ([]models.AttendanceWithDetails, error) {
	query := `
		SELECT ` + attendanceDetailColumns + `
		FROM ` + attendanceFrom + `
		WHERE a.course_id = $1
		ORDER BY a.created_at, s.last_name, s.first_name
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendances := make([]models.AttendanceWithDetails, 0)
	for rows.Next() {
		var attendance models.AttendanceWithDetails
		if err := scanAttendanceWithDetails(rows, &attendance); err != nil {
			return nil, err
		}
		attendances = append(attendances, attendance)
	}

	return attendances, rows.Err()
}

func (r *attendanceRepository) Update(ctx context.Context, attendance *models.Attendance) error {
	query := `
		UPDATE attendances
		SET clock_in = $1, clock_out = $2
		WHERE id = $3
	`

	return r.execAffecting(ctx, query, attendance.ClockIn, attendance.ClockOut, attendance.ID)
}

func (r *attendanceRepository) ClockOut(ctx context.Context, id string, clockOut time.Time) error {
	query := `
		UPDATE attendances
		SET clock_out = $1
		WHERE id = $2 AND clock_in IS NOT NULL AND clock_out IS NULL
	`

	return r.execAffecting(ctx, query, clockOut, id)
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	return r.execAffecting(ctx, `DELETE FROM attendances WHERE id = $1`, id)
}
