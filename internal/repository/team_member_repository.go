package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

type TeamMemberRepository interface {
	Create(ctx context.Context, member *models.TeamMember) error
	GetByStudent(ctx context.Context, studentID string) (*models.TeamMember, error)
	GetByStudentAndTeam(ctx context.Context, studentID, teamID string) (*models.TeamMember, error)
	Delete(ctx context.Context, id string) error
	// ListByTeam returns the team's students with CreatedAt set to the
	// membership time.
	ListByTeam(ctx context.Context, teamID string, page models.PaginationRequest) ([]models.Student, int, error)
}

const teamMemberColumns = `tm.id, tm.student_id, tm.team_id, tm.created_at`

var teamMemberSortColumns = map[string][]string{
	"firstname": {"s.first_name"},
	"lastname":  {"s.last_name"},
	"email":     {"s.email"},
	"createdat": {"tm.created_at"},
}

type teamMemberRepository struct {
	*PostgresRepository
}

func NewTeamMemberRepository(db Querier, logger zerolog.Logger) TeamMemberRepository {
	return &teamMemberRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func scanTeamMember(row scanner, m *models.TeamMember) error {
	return row.Scan(
		&m.ID,
		&m.StudentID,
		&m.TeamID,
		&m.CreatedAt,
	)
}

func (r *teamMemberRepository) Create(ctx context.Context, member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (id, student_id, team_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	return r.exec(ctx, query,
		member.ID,
		member.StudentID,
		member.TeamID,
		member.CreatedAt,
	)
}

func (r *teamMemberRepository) GetByStudent(ctx context.Context, studentID string) (*models.TeamMember, error) {
	return r.getOne(ctx,
		`SELECT `+teamMemberColumns+` FROM team_members tm WHERE tm.student_id = $1`,
		studentID,
	)
}

func (r *teamMemberRepository) GetByStudentAndTeam(ctx context.Context, studentID, teamID string) (*models.TeamMember, error) {
	return r.getOne(ctx,
		`SELECT `+teamMemberColumns+` FROM team_members tm WHERE tm.student_id = $1 AND tm.team_id = $2`,
		studentID, teamID,
	)
}

func (r *teamMemberRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.TeamMember, error) {
	member := &models.TeamMember{}
	err := scanTeamMember(r.db.QueryRowContext(ctx, query, args...), member)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return member, nil
}

func (r *teamMemberRepository) Delete(ctx context.Context, id string) error {
	return r.execAffecting(ctx, `DELETE FROM team_members WHERE id = $1`, id)
}

func (r *teamMemberRepository) ListByTeam(ctx context.Context, teamID string, page models.PaginationRequest) ([]models.Student, int, error) {
	q := newListQuery("team_members tm JOIN students s ON s.id = tm.student_id", page).
		Where("tm.team_id = %s", teamID).
		Search("s.first_name", "s.last_name", "s.email", "s.phone_number").
		Sort(teamMemberSortColumns, "s.first_name, s.last_name")

	countQuery, countArgs := q.CountSQL()
	total, err := r.count(ctx, countQuery, countArgs...)
	if err != nil {
		return nil, 0, err
	}

	query, args := q.SelectSQL(`s.id, s.first_name, s.last_name, s.email, s.phone_number, s.gender, tm.created_at`)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	members := make([]models.Student, 0)
	for rows.Next() {
		var student models.Student
		if err := scanStudent(rows, &student); err != nil {
			return nil, 0, err
		}
		members = append(members, student)
	}

	return members, total, rows.Err()
}
