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

type TeamMemberService interface {
	ListMembers(ctx context.Context, teamID string, page models.PaginationRequest) (*models.TeamMembers, *models.MetaData, error)
	Assign(ctx context.Context, req *models.AssignTeamRequest) (*models.TeamMember, error)
	Unassign(ctx context.Context, req *models.AssignTeamRequest) error
}

type teamMemberService struct {
	memberRepo  repository.TeamMemberRepository
	teamRepo    repository.TeamRepository
	studentRepo repository.StudentRepository
	logger      zerolog.Logger
}

func NewTeamMemberService(
	memberRepo repository.TeamMemberRepository,
	teamRepo repository.TeamRepository,
	studentRepo repository.StudentRepository,
	logger zerolog.Logger,
) TeamMemberService {
	return &teamMemberService{
		memberRepo:  memberRepo,
		teamRepo:    teamRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

func (s *teamMemberService) ListMembers(ctx context.Context, teamID string, page models.PaginationRequest) (*models.TeamMembers, *models.MetaData, error) {
	team, err := s.teamRepo.GetActiveByID(ctx, teamID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return nil, nil, ErrTeamNotFound
	}

	page = page.Normalize()
	members, total, err := s.memberRepo.ListByTeam(ctx, teamID, page)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list team members: %w", err)
	}

	return &models.TeamMembers{Team: team, Members: members},
		models.NewMetaData(page.PageIndex, page.PageSize, total),
		nil
}

// checkPair validates an assign/unassign request. Both failures are
// client errors rather than 404s.
func (s *teamMemberService) checkPair(ctx context.Context, req *models.AssignTeamRequest) error {
	team, err := s.teamRepo.GetActiveByID(ctx, req.TeamID)
	if err != nil {
		return fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return ErrInvalidTeam
	}

	exists, err := s.studentRepo.Exists(ctx, req.StudentID)
	if err != nil {
		return fmt.Errorf("failed to check student existence: %w", err)
	}
	if !exists {
		return ErrInvalidStudent
	}

	return nil
}

func (s *teamMemberService) Assign(ctx context.Context, req *models.AssignTeamRequest) (*models.TeamMember, error) {
	if err := s.checkPair(ctx, req); err != nil {
		return nil, err
	}

	current, err := s.memberRepo.GetByStudent(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team membership: %w", err)
	}
	if current != nil {
		return nil, ErrAlreadyInTeam
	}

	member := &models.TeamMember{
		ID:        uuid.New().String(),
		StudentID: req.StudentID,
		TeamID:    req.TeamID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		if repository.IsConstraint(err, repository.ConstraintTeamMemberStudent) {
			return nil, ErrAlreadyInTeam
		}
		return nil, fmt.Errorf("failed to assign student to team: %w", err)
	}

	s.logger.Info().
		Str("team_id", req.TeamID).
		Str("student_id", req.StudentID).
		Msg("Student assigned to team")

	return member, nil
}

func (s *teamMemberService) Unassign(ctx context.Context, req *models.AssignTeamRequest) error {
	if err := s.checkPair(ctx, req); err != nil {
		return err
	}

	member, err := s.memberRepo.GetByStudentAndTeam(ctx, req.StudentID, req.TeamID)
	if err != nil {
		return fmt.Errorf("failed to get team membership: %w", err)
	}
	if member == nil {
		return ErrStudentTeamNotFound
	}

	if err := s.memberRepo.Delete(ctx, member.ID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrStudentTeamNotFound
		}
		return fmt.Errorf("failed to unassign student from team: %w", err)
	}

	s.logger.Info().
		Str("team_id", req.TeamID).
		Str("student_id", req.StudentID).
		Msg("Student unassigned from team")

	return nil
}
