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

type CourseService interface {
	CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.CourseWithStats, error)
	GetCourse(ctx context.Context, id string) (*models.CourseWithStats, error)
	ListCourses(ctx context.Context, page models.PaginationRequest) (*models.Page[models.CourseWithStats], error)
	ListCourseStudents(ctx context.Context, courseID string) ([]models.Student, error)
	UpdateCourse(ctx context.Context, id string, req *models.UpdateCourseRequest) (*models.CourseWithStats, error)
	DeleteCourse(ctx context.Context, id string) error
}

type courseService struct {
	courseRepo repository.CourseRepository
	logger     zerolog.Logger
}

func NewCourseService(courseRepo repository.CourseRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

func (s *courseService) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.CourseWithStats, error) {
	code := strings.TrimSpace(req.CourseCode)

	existing, err := s.courseRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing course: %w", err)
	}
	if existing != nil {
		return nil, ErrCourseCodeTaken
	}

	course := &models.Course{
		ID:          uuid.New().String(),
		CourseCode:  code,
		CourseTitle: strings.TrimSpace(req.CourseTitle),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		if repository.IsConstraint(err, repository.ConstraintCourseCode) {
			return nil, ErrCourseCodeTaken
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info().
		Str("course_id", course.ID).
		Str("course_code", course.CourseCode).
		Msg("Course created")

	return &models.CourseWithStats{Course: *course}, nil
}

func (s *courseService) GetCourse(ctx context.Context, id string) (*models.CourseWithStats, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	return course, nil
}

func (s *courseService) ListCourses(ctx context.Context, page models.PaginationRequest) (*models.Page[models.CourseWithStats], error) {
	page = page.Normalize()

	courses, total, err := s.courseRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return newPage(courses, total, page), nil
}

func (s *courseService) ListCourseStudents(ctx context.Context, courseID string) ([]models.Student, error) {
	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course existence: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	students, err := s.courseRepo.ListStudents(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list course students: %w", err)
	}

	return students, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, id string, req *models.UpdateCourseRequest) (*models.CourseWithStats, error) {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.CourseCode)
	if code != course.CourseCode {
		other, err := s.courseRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing course: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, ErrCourseCodeTaken
		}
	}

	course.CourseCode = code
	course.CourseTitle = strings.TrimSpace(req.CourseTitle)

	if err := s.courseRepo.Update(ctx, &course.Course); err != nil {
		if repository.IsConstraint(err, repository.ConstraintCourseCode) {
			return nil, ErrCourseCodeTaken
		}
		return nil, resolveNoRows(ctx, err, "update course", ErrCourseNotFound, func(ctx context.Context) (bool, error) {
			return s.courseRepo.Exists(ctx, id)
		})
	}

	s.logger.Info().Str("course_id", id).Msg("Course updated")

	return course, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, id string) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.logger.Info().Str("course_id", id).Msg("Course deleted")

	return nil
}
