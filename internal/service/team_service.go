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

// TeamService works on active teams only. DeleteTeam is a soft delete.
type TeamService interface {
	CreateTeam(ctx context.Context, req *models.CreateTeamRequest) (*models.Team, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	ListTeams(ctx context.Context, page models.PaginationRequest) (*models.Page[models.Team], error)
	UpdateTeam(ctx context.Context, id string, req *models.UpdateTeamRequest) (*models.Team, error)
	DeleteTeam(ctx context.Context, id string) (*models.Team, error)
}

type teamService struct {
	teamRepo repository.TeamRepository
	logger   zerolog.Logger
}

func NewTeamService(teamRepo repository.TeamRepository, logger zerolog.Logger) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		logger:   logger,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, req *models.CreateTeamRequest) (*models.Team, error) {
	name := strings.TrimSpace(req.Name)

	inUse, err := s.teamRepo.NameInUse(ctx, name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check team name: %w", err)
	}
	if inUse {
		return nil, errTeamNameInUse(name)
	}

	team := &models.Team{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		if repository.IsConstraint(err, repository.ConstraintActiveTeamName) {
			return nil, errTeamNameInUse(name)
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.logger.Info().
		Str("team_id", team.ID).
		Str("name", team.Name).
		Msg("Team created")

	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.teamRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}

	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context, page models.PaginationRequest) (*models.Page[models.Team], error) {
	page = page.Normalize()

	teams, total, err := s.teamRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	return newPage(teams, total, page), nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id string, req *models.UpdateTeamRequest) (*models.Team, error) {
	team, err := s.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	inUse, err := s.teamRepo.NameInUse(ctx, name, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check team name: %w", err)
	}
	if inUse {
		return nil, errTeamNameInUse(name)
	}

	team.Name = name
	team.Description = strings.TrimSpace(req.Description)

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if repository.IsConstraint(err, repository.ConstraintActiveTeamName) {
			return nil, errTeamNameInUse(name)
		}
		return nil, resolveNoRows(ctx, err, "update team", ErrTeamNotFound, func(ctx context.Context) (bool, error) {
			t, err := s.teamRepo.GetActiveByID(ctx, id)
			return t != nil, err
		})
	}

	s.logger.Info().Str("team_id", id).Msg("Team updated")

	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to deactivate team: %w", err)
	}
	team.IsActive = false

	s.logger.Info().Str("team_id", id).Msg("Team deactivated")

	return team, nil
}
