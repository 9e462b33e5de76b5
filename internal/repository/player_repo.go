package repository

import (
	"context"

	"github.com/arsalan-h/CourtAppBack/internal/models"
)

type CreatePlayerInput struct {
	TeamID       int64
	FullName     string
	JerseyNumber *int
	Position     *string
}

type UpdatePlayerInput struct {
	FullName     *string
	JerseyNumber *int
	Position     *string
	Active       *bool
}

type PlayerRepository struct {
	db DBTX
}

func NewPlayerRepository(db DBTX) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	query := `
		INSERT INTO players (team_id, full_name, jersey_number, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, team_id, full_name, jersey_number, position, active, created_at, updated_at
	`
	var player models.Player
	err := r.db.QueryRow(ctx, query, input.TeamID, input.FullName, input.JerseyNumber, input.Position).Scan(
		&player.ID,
		&player.TeamID,
		&player.FullName,
		&player.JerseyNumber,
		&player.Position,
		&player.Active,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// GetByTeamAndID scopes the lookup to the team so a player id from another
// roster resolves as not found rather than leaking across teams.
func (r *PlayerRepository) GetByTeamAndID(ctx context.Context, teamID, playerID int64) (*models.Player, error) {
	query := `
		SELECT id, team_id, full_name, jersey_number, position, active, created_at, updated_at
		FROM players
		WHERE id = $1 AND team_id = $2
	`
	var player models.Player
	err := r.db.QueryRow(ctx, query, playerID, teamID).Scan(
		&player.ID,
		&player.TeamID,
		&player.FullName,
		&player.JerseyNumber,
		&player.Position,
		&player.Active,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int64) ([]models.Player, error) {
	query := `
		SELECT id, team_id, full_name, jersey_number, position, active, created_at, updated_at
		FROM players
		WHERE team_id = $1
		ORDER BY full_name ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var player models.Player
		if err := rows.Scan(
			&player.ID,
			&player.TeamID,
			&player.FullName,
			&player.JerseyNumber,
			&player.Position,
			&player.Active,
			&player.CreatedAt,
			&player.UpdatedAt,
		); err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return players, nil
}

func (r *PlayerRepository) Update(ctx context.Context, teamID, playerID int64, input UpdatePlayerInput) (*models.Player, error) {
	query := `
		UPDATE players
		SET full_name = COALESCE($3, full_name),
			jersey_number = COALESCE($4, jersey_number),
			position = COALESCE($5, position),
			active = COALESCE($6, active),
			updated_at = NOW()
		WHERE id = $1 AND team_id = $2
		RETURNING id, team_id, full_name, jersey_number, position, active, created_at, updated_at
	`
	var player models.Player
	err := r.db.QueryRow(ctx, query, playerID, teamID,
		input.FullName, input.JerseyNumber, input.Position, input.Active,
	).Scan(
		&player.ID,
		&player.TeamID,
		&player.FullName,
		&player.JerseyNumber,
		&player.Position,
		&player.Active,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// Deactivate soft-deletes a player. Roster rows are never removed because
// ledger history keeps pointing at them.
func (r *PlayerRepository) Deactivate(ctx context.Context, teamID, playerID int64) (*models.Player, error) {
	query := `
		UPDATE players
		SET active = FALSE, updated_at = NOW()
		WHERE id = $1 AND team_id = $2
		RETURNING id, team_id, full_name, jersey_number, position, active, created_at, updated_at
	`
	var player models.Player
	err := r.db.QueryRow(ctx, query, playerID, teamID).Scan(
		&player.ID,
		&player.TeamID,
		&player.FullName,
		&player.JerseyNumber,
		&player.Position,
		&player.Active,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &player, nil
}
