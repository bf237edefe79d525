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

type StudentService interface {
	CreateStudent(ctx context.Context, req *models.CreateStudentRequest) (*models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	ListStudents(ctx context.Context, page models.PaginationRequest) (*models.Page[models.Student], error)
	UpdateStudent(ctx context.Context, id string, req *models.UpdateStudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

type studentService struct {
	studentRepo repository.StudentRepository
	logger      zerolog.Logger
}

func NewStudentService(studentRepo repository.StudentRepository, logger zerolog.Logger) StudentService {
	return &studentService{
		studentRepo: studentRepo,
		logger:      logger,
	}
}

func (s *studentService) CreateStudent(ctx context.Context, req *models.CreateStudentRequest) (*models.Student, error) {
	email := strings.TrimSpace(req.Email)

	existing, err := s.studentRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing student: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	student := &models.Student{
		ID:          uuid.New().String(),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       email,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Gender:      strings.TrimSpace(req.Gender),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if repository.IsConstraint(err, repository.ConstraintStudentEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info().
		Str("student_id", student.ID).
		Str("email", student.Email).
		Msg("Student created")

	return student, nil
}

func (s *studentService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	return student, nil
}

func (s *studentService) ListStudents(ctx context.Context, page models.PaginationRequest) (*models.Page[models.Student], error) {
	page = page.Normalize()

	students, total, err := s.studentRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	return newPage(students, total, page), nil
}

func (s *studentService) UpdateStudent(ctx context.Context, id string, req *models.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if !strings.EqualFold(email, student.Email) {
		other, err := s.studentRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing student: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, ErrEmailTaken
		}
	}

	student.FirstName = strings.TrimSpace(req.FirstName)
	student.LastName = strings.TrimSpace(req.LastName)
	student.Email = email
	student.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	student.Gender = strings.TrimSpace(req.Gender)

	if err := s.studentRepo.Update(ctx, student); err != nil {
		if repository.IsConstraint(err, repository.ConstraintStudentEmail) {
			return nil, ErrEmailTaken
		}
		return nil, resolveNoRows(ctx, err, "update student", ErrStudentNotFound, func(ctx context.Context) (bool, error) {
			return s.studentRepo.Exists(ctx, id)
		})
	}

	s.logger.Info().Str("student_id", id).Msg("Student updated")

	return student, nil
}

func (s *studentService) DeleteStudent(ctx context.Context, id string) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to delete student: %w", err)
	}

	s.logger.Info().Str("student_id", id).Msg("Student deleted")

	return nil
}
