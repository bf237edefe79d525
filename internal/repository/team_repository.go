package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

// TeamRepository only ever surfaces active teams. Deleting a team
// deactivates it.
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetActiveByID(ctx context.Context, id string) (*models.Team, error)
	// NameInUse checks active teams case-insensitively, ignoring excludeID.
	NameInUse(ctx context.Context, name, excludeID string) (bool, error)
	List(ctx context.Context, page models.PaginationRequest) ([]models.Team, int, error)
	Update(ctx context.Context, team *models.Team) error
	Deactivate(ctx context.Context, id string) error
}

const teamColumns = `t.id, t.name, t.description, t.is_active, t.created_at`

var teamSortColumns = map[string][]string{
	"name":      {"t.name"},
	"createdat": {"t.created_at"},
}

type teamRepository struct {
	*PostgresRepository
}

func NewTeamRepository(db Querier, logger zerolog.Logger) TeamRepository {
	return &teamRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func scanTeam(row scanner, t *models.Team) error {
	return row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.IsActive,
		&t.CreatedAt,
	)
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, name, description, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	return r.exec(ctx, query,
		team.ID,
		team.Name,
		team.Description,
		team.IsActive,
		team.CreatedAt,
	)
}

func (r *teamRepository) GetActiveByID(ctx context.Context, id string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams t WHERE t.id = $1 AND t.is_active`

	team := &models.Team{}
	err := scanTeam(r.db.QueryRowContext(ctx, query, id), team)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return team, nil
}

func (r *teamRepository) NameInUse(ctx context.Context, name, excludeID string) (bool, error) {
	if excludeID == "" {
		return r.exists(ctx,
			`SELECT EXISTS(SELECT 1 FROM teams WHERE is_active AND LOWER(name) = LOWER($1))`,
			name,
		)
	}

	return r.exists(ctx,
		`SELECT EXISTS(SELECT 1 FROM teams WHERE is_active AND LOWER(name) = LOWER($1) AND id <> $2)`,
		name, excludeID,
	)
}

func (r *teamRepository) List(ctx context.Context, page models.PaginationRequest) ([]models.Team, int, error) {
	q := newListQuery("teams t", page).
		WhereRaw("t.is_active").
		Search("t.name", "t.description").
		Sort(teamSortColumns, "t.created_at DESC, t.id")

	countQuery, countArgs := q.CountSQL()
	total, err := r.count(ctx, countQuery, countArgs...)
	if err != nil {
		return nil, 0, err
	}

	query, args := q.SelectSQL(teamColumns)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := scanTeam(rows, &team); err != nil {
			return nil, 0, err
		}
		teams = append(teams, team)
	}

	return teams, total, rows.Err()
}

func (r *teamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams
		SET name = $1, description = $2
		WHERE id = $3 AND is_active
	`

	return r.execAffecting(ctx, query, team.Name, team.Description, team.ID)
}

func (r *teamRepository) Deactivate(ctx context.Context, id string) error {
	return r.execAffecting(ctx, `UPDATE teams SET is_active = FALSE WHERE id = $1 AND is_active`, id)
}
