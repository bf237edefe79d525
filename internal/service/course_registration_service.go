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
)

type CourseRegistrationService interface {
	Register(ctx context.Context, req *models.CreateCourseRegistrationRequest) (*models.CourseRegistrationWithDetails, error)
	GetRegistration(ctx context.Context, id string) (*models.CourseRegistrationWithDetails, error)
	ListRegistrations(ctx context.Context, filter repository.RegistrationFilter, page models.PaginationRequest) (*models.Page[models.CourseRegistrationWithDetails], error)
	DeleteRegistration(ctx context.Context, id string) error
}

type courseRegistrationService struct {
	registrationRepo repository.CourseRegistrationRepository
	studentRepo      repository.StudentRepository
	courseRepo       repository.CourseRepository
	logger           zerolog.Logger
}

func NewCourseRegistrationService(
	registrationRepo repository.CourseRegistrationRepository,
	studentRepo repository.StudentRepository,
	courseRepo repository.CourseRepository,
	logger zerolog.Logger,
) CourseRegistrationService {
	return &courseRegistrationService{
		registrationRepo: registrationRepo,
		studentRepo:      studentRepo,
		courseRepo:       courseRepo,
		logger:           logger,
	}
}

func (s *courseRegistrationService) Register(ctx context.Context, req *models.CreateCourseRegistrationRequest) (*models.CourseRegistrationWithDetails, error) {
	student, err := s.studentRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	registered, err := s.registrationRepo.Exists(ctx, req.StudentID, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}
	if registered {
		return nil, ErrAlreadyRegistered
	}

	registration := &models.CourseRegistration{
		ID:        uuid.New().String(),
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.registrationRepo.Create(ctx, registration); err != nil {
		if repository.IsConstraint(err, repository.ConstraintRegistrationUnique) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.logger.Info().
		Str("registration_id", registration.ID).
		Str("student_id", req.StudentID).
		Str("course_id", req.CourseID).
		Msg("Student registered for course")

	return &models.CourseRegistrationWithDetails{
		CourseRegistration: *registration,
		Student:            student,
		Course:             &course.Course,
	}, nil
}

func (s *courseRegistrationService) GetRegistration(ctx context.Context, id string) (*models.CourseRegistrationWithDetails, error) {
	registration, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	if registration == nil {
		return nil, ErrRegistrationNotFound
	}

	return registration, nil
}

func (s *courseRegistrationService) ListRegistrations(ctx context.Context, filter repository.RegistrationFilter, page models.PaginationRequest) (*models.Page[models.CourseRegistrationWithDetails], error) {
	page = page.Normalize()

	registrations, total, err := s.registrationRepo.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	return newPage(registrations, total, page), nil
}

func (s *courseRegistrationService) DeleteRegistration(ctx context.Context, id string) error {
	if err := s.registrationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to delete registration: %w", err)
	}

	s.logger.Info().Str("registration_id", id).Msg("Course registration deleted")

	return nil
}
