package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.CourseWithStats, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context, page models.PaginationRequest) ([]models.CourseWithStats, int, error)
	ListStudents(ctx context.Context, courseID string) ([]models.Student, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

const courseWithStatsColumns = `
	c.id, c.course_code, c.course_title, c.created_at,
	(SELECT COUNT(*) FROM course_registrations cr WHERE cr.course_id = c.id) AS course_registration_count
`

var courseSortColumns = map[string][]string{
	"coursecode":  {"c.course_code"},
	"coursetitle": {"c.course_title"},
	"createdat":   {"c.created_at"},
}

type courseRepository struct {
	*PostgresRepository
}

func NewCourseRepository(db Querier, logger zerolog.Logger) CourseRepository {
	return &courseRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func scanCourseWithStats(row scanner, c *models.CourseWithStats) error {
	return row.Scan(
		&c.ID,
		&c.CourseCode,
		&c.CourseTitle,
		&c.CreatedAt,
		&c.CourseRegistrationCount,
	)
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (id, course_code, course_title, created_at)
		VALUES ($1, $2, $3, $4)
	`

	return r.exec(ctx, query,
		course.ID,
		course.CourseCode,
		course.CourseTitle,
		course.CreatedAt,
	)
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.CourseWithStats, error) {
	query := `SELECT ` + courseWithStatsColumns + ` FROM courses c WHERE c.id = $1`

	course := &models.CourseWithStats{}
	err := scanCourseWithStats(r.db.QueryRowContext(ctx, query, id), course)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return course, nil
}

func (r *courseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	query := `
		SELECT id, course_code, course_title, created_at
		FROM courses
		WHERE LOWER(course_code) = LOWER($1)
	`

	course := &models.Course{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&course.ID,
		&course.CourseCode,
		&course.CourseTitle,
		&course.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return course, nil
}

func (r *courseRepository) List(ctx context.Context, page models.PaginationRequest) ([]models.CourseWithStats, int, error) {
	q := newListQuery("courses c", page).
		Search("c.course_code", "c.course_title").
		Sort(courseSortColumns, "c.created_at DESC, c.id")

	countQuery, countArgs := q.CountSQL()
	total, err := r.count(ctx, countQuery, countArgs...)
	if err != nil {
		return nil, 0, err
	}

	query, args := q.SelectSQL(courseWithStatsColumns)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	courses := make([]models.CourseWithStats, 0)
	for rows.Next() {
		var course models.CourseWithStats
		if err := scanCourseWithStats(rows, &course); err != nil {
			return nil, 0, err
		}
		courses = append(courses, course)
	}

	return courses, total, rows.Err()
}

func (r *courseRepository) ListStudents(ctx context.Context, courseID string) ([]models.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM course_registrations cr
		JOIN students s ON s.id = cr.student_id
		WHERE cr.course_id = $1
		ORDER BY s.last_name, s.first_name
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]models.Student, 0)
	for rows.Next() {
		var student models.Student
		if err := scanStudent(rows, &student); err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET course_code = $1, course_title = $2
		WHERE id = $3
	`

	return r.execAffecting(ctx, query, course.CourseCode, course.CourseTitle, course.ID)
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	return r.execAffecting(ctx, `DELETE FROM courses WHERE id = $1`, id)
}

func (r *courseRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, id)
}
