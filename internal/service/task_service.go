package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/repository"
)

type TaskService interface {
	CreateTask(ctx context.Context, req *models.CreateTaskRequest) (*models.TaskWithDetails, error)
	GetTask(ctx context.Context, id string) (*models.TaskWithDetails, error)
	ListTasks(ctx context.Context, page models.PaginationRequest) (*models.Page[models.TaskWithDetails], error)
	UpdateTask(ctx context.Context, id string, req *models.UpdateTaskRequest) (*models.TaskWithDetails, error)
	DeleteTask(ctx context.Context, id string) error
}

type taskService struct {
	taskRepo   repository.TaskRepository
	scoreRepo  repository.TaskScoreRepository
	courseRepo repository.CourseRepository
	logger     zerolog.Logger
}

func NewTaskService(
	taskRepo repository.TaskRepository,
	scoreRepo repository.TaskScoreRepository,
	courseRepo repository.CourseRepository,
	logger zerolog.Logger,
) TaskService {
	return &taskService{
		taskRepo:   taskRepo,
		scoreRepo:  scoreRepo,
		courseRepo: courseRepo,
		logger:     logger,
	}
}

func (s *taskService) CreateTask(ctx context.Context, req *models.CreateTaskRequest) (*models.TaskWithDetails, error) {
	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrUnknownTaskCourse
	}

	task := &models.Task{
		ID:                 uuid.New().String(),
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		CourseID:           req.CourseID,
		MaxObtainableScore: req.MaxObtainableScore,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrUnknownTaskCourse
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("course_id", task.CourseID).
		Msg("Task created")

	return &models.TaskWithDetails{Task: *task, Course: &course.Course}, nil
}

func (s *taskService) GetTask(ctx context.Context, id string) (*models.TaskWithDetails, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, page models.PaginationRequest) (*models.Page[models.TaskWithDetails], error) {
	page = page.Normalize()

	tasks, total, err := s.taskRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return newPage(tasks, total, page), nil
}

func (s *taskService) UpdateTask(ctx context.Context, id string, req *models.UpdateTaskRequest) (*models.TaskWithDetails, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.MaxObtainableScore < task.MaxObtainableScore {
		highest, err := s.scoreRepo.MaxScoreByTask(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get highest task score: %w", err)
		}
		if req.MaxObtainableScore < highest {
			return nil, errMaxBelowScore(highest)
		}
	}

	task.Title = strings.TrimSpace(req.Title)
	task.Description = req.Description
	task.MaxObtainableScore = req.MaxObtainableScore

	if err := s.taskRepo.Update(ctx, &task.Task); err != nil {
		return nil, resolveNoRows(ctx, err, "update task", ErrTaskNotFound, func(ctx context.Context) (bool, error) {
			return s.taskRepo.Exists(ctx, id)
		})
	}

	s.logger.Info().Str("task_id", id).Msg("Task updated")

	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info().Str("task_id", id).Msg("Task deleted")

	return nil
}
