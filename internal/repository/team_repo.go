package repository

import (
	"context"

	"github.com/arsalan-h/CourtAppBack/internal/models"
)

type CreateTeamInput struct {
	Name    string
	Season  *string
	OwnerID int64
}

type TeamRepository struct {
	db DBTX
}

func NewTeamRepository(db DBTX) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	query := `
		INSERT INTO teams (name, season, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, season, owner_id, created_at, updated_at
	`
	var team models.Team
	err := r.db.QueryRow(ctx, query, input.Name, input.Season, input.OwnerID).Scan(
		&team.ID,
		&team.Name,
		&team.Season,
		&team.OwnerID,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (*models.Team, error) {
	query := `
		SELECT id, name, season, owner_id, created_at, updated_at
		FROM teams
		WHERE id = $1
	`
	var team models.Team
	err := r.db.QueryRow(ctx, query, teamID).Scan(
		&team.ID,
		&team.Name,
		&team.Season,
		&team.OwnerID,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepository) ListByCoach(ctx context.Context, userID int64) ([]models.Team, error) {
	query := `
		SELECT DISTINCT t.id, t.name, t.season, t.owner_id, t.created_at, t.updated_at
		FROM teams t
		LEFT JOIN team_coaches tc ON tc.team_id = t.id
		WHERE t.owner_id = $1 OR tc.user_id = $1
		ORDER BY t.id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.Season,
			&team.OwnerID,
			&team.CreatedAt,
			&team.UpdatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *TeamRepository) AddCoach(ctx context.Context, teamID, userID int64) error {
	query := `
		INSERT INTO team_coaches (team_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, teamID, userID)
	return err
}

// HasAccess reports whether the user owns the team or is listed as one of its
// coaches. Ledger, roster and attendance handlers gate every team-scoped
// request on this check.
func (r *TeamRepository) HasAccess(ctx context.Context, teamID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM teams t
			LEFT JOIN team_coaches tc ON tc.team_id = t.id AND tc.user_id = $2
			WHERE t.id = $1
			  AND (t.owner_id = $2 OR tc.user_id IS NOT NULL)
		)
	`
	var hasAccess bool
	if err := r.db.QueryRow(ctx, query, teamID, userID).Scan(&hasAccess); err != nil {
		return false, err
	}
	return hasAccess, nil
}
