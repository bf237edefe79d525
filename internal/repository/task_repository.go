package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.TaskWithDetails, error)
	// FindByCourseAndTitle returns the course's task with the given title
	// created in [from, to), or nil.
	FindByCourseAndTitle(ctx context.Context, courseID, title string, from, to time.Time) (*models.Task, error)
	List(ctx context.Context, page models.PaginationRequest) ([]models.TaskWithDetails, int, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

const taskColumns = `t.id, t.title, t.description, t.course_id, t.max_obtainable_score, t.created_at`

const taskDetailColumns = taskColumns + `,
	c.id, c.course_code, c.course_title, c.created_at,
	(SELECT COUNT(*) FROM task_scores ts WHERE ts.task_id = t.id) AS task_scores_count
`

const taskFrom = `tasks t JOIN courses c ON c.id = t.course_id`

var taskSortColumns = map[string][]string{
	"title":       {"t.title"},
	"coursetitle": {"c.course_title"},
	"maxscore":    {"t.max_obtainable_score"},
	"createdat":   {"t.created_at"},
}

type taskRepository struct {
	*PostgresRepository
}

func NewTaskRepository(db Querier, logger zerolog.Logger) TaskRepository {
	return &taskRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func scanTask(row scanner, t *models.Task) error {
	return row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.CourseID,
		&t.MaxObtainableScore,
		&t.CreatedAt,
	)
}

func scanTaskWithDetails(row scanner, t *models.TaskWithDetails) error {
	course := &models.Course{}

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.CourseID,
		&t.MaxObtainableScore,
		&t.CreatedAt,
		&course.ID,
		&course.CourseCode,
		&course.CourseTitle,
		&course.CreatedAt,
		&t.TaskScoresCount,
	)
	if err != nil {
		return err
	}

	t.Course = course
	return nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, course_id, max_obtainable_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	return r.exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.CourseID,
		task.MaxObtainableScore,
		task.CreatedAt,
	)
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*models.TaskWithDetails, error) {
	query := `SELECT ` + taskDetailColumns + ` FROM ` + taskFrom + ` WHERE t.id = $1`

	task := &models.TaskWithDetails{}
	err := scanTaskWithDetails(r.db.QueryRowContext(ctx, query, id), task)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) FindByCourseAndTitle(ctx context.Context, courseID, title string, from, to time.Time) (*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.course_id = $1 AND t.title = $2 AND t.created_at >= $3 AND t.created_at < $4
		ORDER BY t.created_at
		LIMIT 1
	`

	task := &models.Task{}
	err := scanTask(r.db.QueryRowContext(ctx, query, courseID, title, from, to), task)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) List(ctx context.Context, page models.PaginationRequest) ([]models.TaskWithDetails, int, error) {
	q := newListQuery(taskFrom, page).
		Search("t.title", "t.description", "c.course_title", "c.course_code").
		Sort(taskSortColumns, "t.created_at DESC, t.id")

	countQuery, countArgs := q.CountSQL()
	total, err := r.count(ctx, countQuery, countArgs...)
	if err != nil {
		return nil, 0, err
	}

	query, args := q.SelectSQL(taskDetailColumns)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks := make([]models.TaskWithDetails, 0)
	for rows.Next() {
		var task models.TaskWithDetails
		if err := scanTaskWithDetails(rows, &task); err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, task)
	}

	return tasks, total, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, max_obtainable_score = $3
		WHERE id = $4
	`

	return r.execAffecting(ctx, query,
		task.Title,
		task.Description,
		task.MaxObtainableScore,
		task.ID,
	)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return r.execAffecting(ctx, `DELETE FROM tasks WHERE id = $1`, id)
}

func (r *taskRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)`, id)
}
