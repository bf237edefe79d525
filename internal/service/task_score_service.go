package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/repository"
	"github.com/ProjectUnravel/StudentManagementAPI/internal/service/integration"
)

type TaskScoreService interface {
	RecordScore(ctx context.Context, req *models.CreateTaskScoreRequest) (*models.TaskScoreWithDetails, error)
	GetScore(ctx context.Context, id string) (*models.TaskScoreWithDetails, error)
	ListScores(ctx context.Context, filter models.TaskScoreFilter, page models.PaginationRequest) (*models.Page[models.TaskScoreWithDetails], error)
	UpdateScore(ctx context.Context, id string, req *models.UpdateTaskScoreRequest) (*models.TaskScoreWithDetails, error)
	DeleteScore(ctx context.Context, id string) error
}

type taskScoreService struct {
	scoreRepo        repository.TaskScoreRepository
	taskRepo         repository.TaskRepository
	studentRepo      repository.StudentRepository
	registrationRepo repository.CourseRegistrationRepository
	publisher        integration.EventPublisher
	logger           zerolog.Logger
}

func NewTaskScoreService(
	scoreRepo repository.TaskScoreRepository,
	taskRepo repository.TaskRepository,
	studentRepo repository.StudentRepository,
	registrationRepo repository.CourseRegistrationRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) TaskScoreService {
	return &taskScoreService{
		scoreRepo:        scoreRepo,
		taskRepo:         taskRepo,
		studentRepo:      studentRepo,
		registrationRepo: registrationRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

func (s *taskScoreService) RecordScore(ctx context.Context, req *models.CreateTaskScoreRequest) (*models.TaskScoreWithDetails, error) {
	task, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, ErrUnknownScoreTask
	}

	student, err := s.studentRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrUnknownScoreStudent
	}

	enrolled, err := s.registrationRepo.Exists(ctx, req.StudentID, task.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}
	if !enrolled {
		return nil, ErrStudentNotEnrolled
	}

	if req.Score > task.MaxObtainableScore {
		return nil, errScoreAboveMax(task.MaxObtainableScore)
	}

	existing, err := s.scoreRepo.GetByTaskAndStudent(ctx, req.TaskID, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing score: %w", err)
	}
	if existing != nil {
		return nil, ErrTaskScoreExists
	}

	score := &models.TaskScore{
		ID:        uuid.New().String(),
		TaskID:    req.TaskID,
		StudentID: req.StudentID,
		Score:     req.Score,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.scoreRepo.Create(ctx, score); err != nil {
		if repository.IsConstraint(err, repository.ConstraintTaskScoreUnique) {
			return nil, ErrTaskScoreExists
		}
		return nil, fmt.Errorf("failed to create task score: %w", err)
	}

	event := &models.TaskScoreRecordedEvent{
		TaskScoreID: score.ID,
		TaskID:      score.TaskID,
		StudentID:   score.StudentID,
		Score:       score.Score,
		Timestamp:   score.CreatedAt.Unix(),
	}
	if err := s.publisher.PublishTaskScoreRecorded(ctx, event); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish task score recorded event")
	}

	s.logger.Info().
		Str("task_score_id", score.ID).
		Str("task_id", score.TaskID).
		Str("student_id", score.StudentID).
		Float64("score", score.Score).
		Msg("Task score recorded")

	return &models.TaskScoreWithDetails{
		TaskScore: *score,
		Task:      &task.Task,
		Student:   student,
	}, nil
}

func (s *taskScoreService) GetScore(ctx context.Context, id string) (*models.TaskScoreWithDetails, error) {
	score, err := s.scoreRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task score: %w", err)
	}
	if score == nil {
		return nil, ErrTaskScoreNotFound
	}

	return score, nil
}

func (s *taskScoreService) ListScores(ctx context.Context, filter models.TaskScoreFilter, page models.PaginationRequest) (*models.Page[models.TaskScoreWithDetails], error) {
	page = page.Normalize()

	scores, total, err := s.scoreRepo.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list task scores: %w", err)
	}

	return newPage(scores, total, page), nil
}

func (s *taskScoreService) UpdateScore(ctx context.Context, id string, req *models.UpdateTaskScoreRequest) (*models.TaskScoreWithDetails, error) {
	score, err := s.GetScore(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Score > score.Task.MaxObtainableScore {
		return nil, errScoreAboveMax(score.Task.MaxObtainableScore)
	}
	score.Score = req.Score

	if err := s.scoreRepo.Update(ctx, &score.TaskScore); err != nil {
		return nil, resolveNoRows(ctx, err, "update task score", ErrTaskScoreNotFound, func(ctx context.Context) (bool, error) {
			ts, err := s.scoreRepo.GetByID(ctx, id)
			return ts != nil, err
		})
	}

	s.logger.Info().
		Str("task_score_id", id).
		Float64("score", score.Score).
		Msg("Task score updated")

	return score, nil
}

func (s *taskScoreService) DeleteScore(ctx context.Context, id string) error {
	if err := s.scoreRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrTaskScoreNotFound
		}
		return fmt.Errorf("failed to delete task score: %w", err)
	}

	s.logger.Info().Str("task_score_id", id).Msg("Task score deleted")

	return nil
}
