package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

type TaskScoreRepository interface {
	Create(ctx context.Context, score *models.TaskScore) error
	GetByID(ctx context.Context, id string) (*models.TaskScoreWithDetails, error)
	GetByTaskAndStudent(ctx context.Context, taskID, studentID string) (*models.TaskScore, error)
	List(ctx context.Context, filter models.TaskScoreFilter, page models.PaginationRequest) ([]models.TaskScoreWithDetails, int, error)
	// MaxScoreByTask returns the highest score recorded on the task, or 0.
	MaxScoreByTask(ctx context.Context, taskID string) (float64, error)
	Update(ctx context.Context, score *models.TaskScore) error
	Delete(ctx context.Context, id string) error
}

const taskScoreColumns = `ts.id, ts.task_id, ts.student_id, ts.score, ts.created_at`

const taskScoreDetailColumns = taskScoreColumns + `,
	t.id, t.title, t.description, t.course_id, t.max_obtainable_score, t.created_at,
	s.id, s.first_name, s.last_name, s.email, s.phone_number, s.gender, s.created_at
`

const taskScoreFrom = `task_scores ts
	JOIN tasks t ON t.id = ts.task_id
	JOIN students s ON s.id = ts.student_id`

var taskScoreSortColumns = map[string][]string{
	"score":       {"ts.score"},
	"tasktitle":   {"t.title"},
	"studentname": {"s.last_name", "s.first_name"},
	"createdat":   {"ts.created_at"},
}

type taskScoreRepository struct {
	*PostgresRepository
}

func NewTaskScoreRepository(db Querier, logger zerolog.Logger) TaskScoreRepository {
	return &taskScoreRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func scanTaskScoreWithDetails(row scanner, ts *models.TaskScoreWithDetails) error {
	task := &models.Task{}
	student := &models.Student{}

	err := row.Scan(
		&ts.ID,
		&ts.TaskID,
		&ts.StudentID,
		&ts.Score,
		&ts.CreatedAt,
		&task.ID,
		&task.Title,
		&task.Description,
		&task.CourseID,
		&task.MaxObtainableScore,
		&task.CreatedAt,
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.PhoneNumber,
		&student.Gender,
		&student.CreatedAt,
	)
	if err != nil {
		return err
	}

	ts.Task = task
	ts.Student = student
	return nil
}

func (r *taskScoreRepository) Create(ctx context.Context, score *models.TaskScore) error {
	query := `
		INSERT INTO task_scores (id, task_id, student_id, score, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	return r.exec(ctx, query,
		score.ID,
		score.TaskID,
		score.StudentID,
		score.Score,
		score.CreatedAt,
	)
}

func (r *taskScoreRepository) GetByID(ctx context.Context, id string) (*models.TaskScoreWithDetails, error) {
	query := `SELECT ` + taskScoreDetailColumns + ` FROM ` + taskScoreFrom + ` WHERE ts.id = $1`

	score := &models.TaskScoreWithDetails{}
	err := scanTaskScoreWithDetails(r.db.QueryRowContext(ctx, query, id), score)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return score, nil
}

func (r *taskScoreRepository) GetByTaskAndStudent(ctx context.Context, taskID, studentID string) (*models.TaskScore, error) {
	query := `SELECT ` + taskScoreColumns + ` FROM task_scores ts WHERE ts.task_id = $1 AND ts.student_id = $2`

	score := &models.TaskScore{}
	err := r.db.QueryRowContext(ctx, query, taskID, studentID).Scan(
		&score.ID,
		&score.TaskID,
		&score.StudentID,
		&score.Score,
		&score.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return score, nil
}

func (r *taskScoreRepository) List(ctx context.Context, filter models.TaskScoreFilter, page models.PaginationRequest) ([]models.TaskScoreWithDetails, int, error) {
	q := newListQuery(taskScoreFrom, page)
	if filter.TaskID != "" {
		q.Where("ts.task_id = %s", filter.TaskID)
	}
	if filter.StudentID != "" {
		q.Where("ts.student_id = %s", filter.StudentID)
	}
	q.Search("t.title", "s.first_name", "s.last_name", "s.email").
		Sort(taskScoreSortColumns, "ts.created_at DESC, ts.id")

	countQuery, countArgs := q.CountSQL()
	total, err := r.count(ctx, countQuery, countArgs...)
	if err != nil {
		return nil, 0, err
	}

	query, args := q.SelectSQL(taskScoreDetailColumns)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	scores := make([]models.TaskScoreWithDetails, 0)
	for rows.Next() {
		var score models.TaskScoreWithDetails
		if err := scanTaskScoreWithDetails(rows, &score); err != nil {
			return nil, 0, err
		}
		scores = append(scores, score)
	}

	return scores, total, rows.Err()
}

func (r *taskScoreRepository) MaxScoreByTask(ctx context.Context, taskID string) (float64, error) {
	var max float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(score), 0) FROM task_scores WHERE task_id = $1`, taskID,
	).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *taskScoreRepository) Update(ctx context.Context, score *models.TaskScore) error {
	return r.execAffecting(ctx, `UPDATE task_scores SET score = $1 WHERE id = $2`, score.Score, score.ID)
}

func (r *taskScoreRepository) Delete(ctx context.Context, id string) error {
	return r.execAffecting(ctx, `DELETE FROM task_scores WHERE id = $1`, id)
}
