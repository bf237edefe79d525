package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

var (
	ErrDuplicate  = errors.New("duplicate record")
	ErrForeignKey = errors.New("referenced record does not exist")
	ErrNoRows     = errors.New("no rows affected")
)

// Constraint and index names declared in the migrations.
const (
	ConstraintStudentEmail           = "idx_students_email"
	ConstraintCourseCode             = "idx_courses_course_code"
	ConstraintRegistrationUnique     = "uq_course_registrations_student_course"
	ConstraintSingleActiveAttendance = "idx_attendances_single_active"
	ConstraintActiveTeamName         = "idx_teams_active_name"
	ConstraintTeamMemberStudent      = "idx_team_members_student_id"
	ConstraintTaskScoreUnique        = "uq_task_scores_task_student"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type scanner interface {
	Scan(dest ...interface{}) error
}

type PostgresRepository struct {
	db     Querier
	logger zerolog.Logger
}

func NewPostgresRepository(db Querier, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

// ConstraintError is returned when a write violates a database constraint.
type ConstraintError struct {
	Kind       error
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// IsConstraint reports whether err is a violation of the named constraint.
func IsConstraint(err error, constraint string) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Constraint == constraint
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return &ConstraintError{Kind: ErrDuplicate, Constraint: pqErr.Constraint, Err: err}
		case "23503":
			return &ConstraintError{Kind: ErrForeignKey, Constraint: pqErr.Constraint, Err: err}
		}
	}

	return err
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := r.db.ExecContext(ctx, query, args...)
	return translateError(err)
}

// execAffecting runs a write that must touch at least one row.
func (r *PostgresRepository) execAffecting(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translateError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoRows
	}

	return nil
}

func (r *PostgresRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&total)
	return total, err
}

// DB is the subset of *sql.DB the transactor and health checks need.
type DB interface {
	Querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	PingContext(ctx context.Context) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type healthRepository struct {
	db DB
}

func NewHealthRepository(db DB) Pinger {
	return &healthRepository{db: db}
}

func (r *healthRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}
