package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

type RegistrationFilter struct {
	StudentID string
	CourseID  string
}

type CourseRegistrationRepository interface {
	Create(ctx context.Context, registration *models.CourseRegistration) error
	GetByID(ctx context.Context, id string) (*models.CourseRegistrationWithDetails, error)
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	List(ctx context.Context, filter RegistrationFilter, page models.PaginationRequest) ([]models.CourseRegistrationWithDetails, int, error)
	Delete(ctx context.Context, id string) error
}

const registrationColumns = `
	cr.id, cr.student_id, cr.course_id, cr.created_at,
	s.id, s.first_name, s.last_name, s.email, s.phone_number, s.gender, s.created_at,
	c.id, c.course_code, c.course_title, c.created_at
`

const registrationFrom = `course_registrations cr
	JOIN students s ON s.id = cr.student_id
	JOIN courses c ON c.id = cr.course_id`

var registrationSortColumns = map[string][]string{
	"student":   {"s.first_name", "s.last_name"},
	"course":    {"c.course_code"},
	"createdat": {"cr.created_at"},
}

type courseRegistrationRepository struct {
	*PostgresRepository
}

func NewCourseRegistrationRepository(db Querier, logger zerolog.Logger) CourseRegistrationRepository {
	return &courseRegistrationRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func scanRegistration(row scanner, reg *models.CourseRegistrationWithDetails) error {
	student := &models.Student{}
	course := &models.Course{}

	err := row.Scan(
		&reg.ID,
		&reg.StudentID,
		&reg.CourseID,
		&reg.CreatedAt,
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

	reg.Student = student
	reg.Course = course
	return nil
}

func (r *courseRegistrationRepository) Create(ctx context.Context, registration *models.CourseRegistration) error {
	query := `
		INSERT INTO course_registrations (id, student_id, course_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	return r.exec(ctx, query,
		registration.ID,
		registration.StudentID,
		registration.CourseID,
		registration.CreatedAt,
	)
}

func (r *courseRegistrationRepository) GetByID(ctx context.Context, id string) (*models.CourseRegistrationWithDetails, error) {
	query := `SELECT ` + registrationColumns + ` FROM ` + registrationFrom + ` WHERE cr.id = $1`

	reg := &models.CourseRegistrationWithDetails{}
	err := scanRegistration(r.db.QueryRowContext(ctx, query, id), reg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return reg, nil
}

func (r *courseRegistrationRepository) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	return r.exists(ctx,
		`SELECT EXISTS(SELECT 1 FROM course_registrations WHERE student_id = $1 AND course_id = $2)`,
		studentID, courseID,
	)
}

func (r *courseRegistrationRepository) List(ctx context.Context, filter RegistrationFilter, page models.PaginationRequest) ([]models.CourseRegistrationWithDetails, int, error) {
	q := newListQuery(registrationFrom, page)
	if filter.StudentID != "" {
		q.Where("cr.student_id = %s", filter.StudentID)
	}
	if filter.CourseID != "" {
		q.Where("cr.course_id = %s", filter.CourseID)
	}
	q.Search("s.first_name", "s.last_name", "s.email", "c.course_code", "c.course_title").
		Sort(registrationSortColumns, "cr.created_at DESC, cr.id")

	countQuery, countArgs := q.CountSQL()
	total, err := r.count(ctx, countQuery, countArgs...)
	if err != nil {
		return nil, 0, err
	}

	query, args := q.SelectSQL(registrationColumns)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	registrations := make([]models.CourseRegistrationWithDetails, 0)
	for rows.Next() {
		var reg models.CourseRegistrationWithDetails
		if err := scanRegistration(rows, &reg); err != nil {
			return nil, 0, err
		}
		registrations = append(registrations, reg)
	}

	return registrations, total, rows.Err()
}

func (r *courseRegistrationRepository) Delete(ctx context.Context, id string) error {
	return r.execAffecting(ctx, `DELETE FROM course_registrations WHERE id = $1`, id)
}
