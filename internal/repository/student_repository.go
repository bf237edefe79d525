package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	List(ctx context.Context, page models.PaginationRequest) ([]models.Student, int, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

const studentColumns = `s.id, s.first_name, s.last_name, s.email, s.phone_number, s.gender, s.created_at`

var studentSortColumns = map[string][]string{
	"firstname": {"s.first_name"},
	"lastname":  {"s.last_name"},
	"email":     {"s.email"},
	"createdat": {"s.created_at"},
}

type studentRepository struct {
	*PostgresRepository
}

func NewStudentRepository(db Querier, logger zerolog.Logger) StudentRepository {
	return &studentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func scanStudent(row scanner, s *models.Student) error {
	return row.Scan(
		&s.ID,
		&s.FirstName,
		&s.LastName,
		&s.Email,
		&s.PhoneNumber,
		&s.Gender,
		&s.CreatedAt,
	)
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (id, first_name, last_name, email, phone_number, gender, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	return r.exec(ctx, query,
		student.ID,
		student.FirstName,
		student.LastName,
		student.Email,
		student.PhoneNumber,
		student.Gender,
		student.CreatedAt,
	)
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	return r.getOne(ctx, `SELECT `+studentColumns+` FROM students s WHERE s.id = $1`, id)
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.getOne(ctx, `SELECT `+studentColumns+` FROM students s WHERE LOWER(s.email) = LOWER($1)`, email)
}

func (r *studentRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Student, error) {
	student := &models.Student{}
	err := scanStudent(r.db.QueryRowContext(ctx, query, args...), student)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return student, nil
}

func (r *studentRepository) List(ctx context.Context, page models.PaginationRequest) ([]models.Student, int, error) {
	q := newListQuery("students s", page).
		Search("s.first_name", "s.last_name", "s.email", "s.phone_number").
		Sort(studentSortColumns, "s.created_at DESC, s.id")

	countQuery, countArgs := q.CountSQL()
	total, err := r.count(ctx, countQuery, countArgs...)
	if err != nil {
		return nil, 0, err
	}

	query, args := q.SelectSQL(studentColumns)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	students := make([]models.Student, 0)
	for rows.Next() {
		var student models.Student
		if err := scanStudent(rows, &student); err != nil {
			return nil, 0, err
		}
		students = append(students, student)
	}

	return students, total, rows.Err()
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET first_name = $1, last_name = $2, email = $3, phone_number = $4, gender = $5
		WHERE id = $6
	`

	return r.execAffecting(ctx, query,
		student.FirstName,
		student.LastName,
		student.Email,
		student.PhoneNumber,
		student.Gender,
		student.ID,
	)
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	return r.execAffecting(ctx, `DELETE FROM students WHERE id = $1`, id)
}

func (r *studentRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, id)
}
