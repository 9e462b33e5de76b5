package repository

import (
	"context"
	"time"

	"github.com/arsalan-h/CourtAppBack/internal/models"
)

type UpsertBalanceInput struct {
	TeamID            int64
	PlayerID          int64
	TotalSessions     int
	UsedSessions      int
	RemainingSessions int
	ExpirationDate    *time.Time
	LastUpdatedBy     int64
}

type BalanceRepository struct {
	db DBTX
}

func NewBalanceRepository(db DBTX) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// GetByPlayer returns pgx.ErrNoRows when the player has never had a prepaid
// arrangement. Callers treat that as a valid empty state, not a failure.
func (r *BalanceRepository) GetByPlayer(ctx context.Context, teamID, playerID int64) (*models.SessionBalance, error) {
	query := `
		SELECT id, player_id, team_id, total_sessions, used_sessions, remaining_sessions,
			   expiration_date, last_updated_by, created_at, updated_at
		FROM session_balances
		WHERE team_id = $1 AND player_id = $2
	`
	var balance models.SessionBalance
	err := r.db.QueryRow(ctx, query, teamID, playerID).Scan(
		&balance.ID,
		&balance.PlayerID,
		&balance.TeamID,
		&balance.TotalSessions,
		&balance.UsedSessions,
		&balance.RemainingSessions,
		&balance.ExpirationDate,
		&balance.LastUpdatedBy,
		&balance.CreatedAt,
		&balance.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// GetByPlayerForUpdate takes a row lock for the read-modify-write cycle inside
// a transaction. Absence is still pgx.ErrNoRows; the first override-set for a
// player has nothing to lock and relies on the advisory lock instead.
func (r *BalanceRepository) GetByPlayerForUpdate(ctx context.Context, teamID, playerID int64) (*models.SessionBalance, error) {
	query := `
		SELECT id, player_id, team_id, total_sessions, used_sessions, remaining_sessions,
			   expiration_date, last_updated_by, created_at, updated_at
		FROM session_balances
		WHERE team_id = $1 AND player_id = $2
		FOR UPDATE
	`
	var balance models.SessionBalance
	err := r.db.QueryRow(ctx, query, teamID, playerID).Scan(
		&balance.ID,
		&balance.PlayerID,
		&balance.TeamID,
		&balance.TotalSessions,
		&balance.UsedSessions,
		&balance.RemainingSessions,
		&balance.ExpirationDate,
		&balance.LastUpdatedBy,
		&balance.CreatedAt,
		&balance.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *BalanceRepository) ListByTeam(ctx context.Context, teamID int64) ([]models.SessionBalance, error) {
	query := `
		SELECT id, player_id, team_id, total_sessions, used_sessions, remaining_sessions,
			   expiration_date, last_updated_by, created_at, updated_at
		FROM session_balances
		WHERE team_id = $1
		ORDER BY player_id ASC
	`
	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]models.SessionBalance, 0)
	for rows.Next() {
		var balance models.SessionBalance
		if err := rows.Scan(
			&balance.ID,
			&balance.PlayerID,
			&balance.TeamID,
			&balance.TotalSessions,
			&balance.UsedSessions,
			&balance.RemainingSessions,
			&balance.ExpirationDate,
			&balance.LastUpdatedBy,
			&balance.CreatedAt,
			&balance.UpdatedAt,
		); err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return balances, nil
}

// Upsert inserts the balance row on first use and overwrites the mutable
// fields afterwards. The (team_id, player_id) unique constraint guarantees at
// most one current row per player.
func (r *BalanceRepository) Upsert(ctx context.Context, input UpsertBalanceInput) (*models.SessionBalance, error) {
	query := `
		INSERT INTO session_balances
			(player_id, team_id, total_sessions, used_sessions, remaining_sessions, expiration_date, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (team_id, player_id) DO UPDATE
		SET total_sessions = EXCLUDED.total_sessions,
			used_sessions = EXCLUDED.used_sessions,
			remaining_sessions = EXCLUDED.remaining_sessions,
			expiration_date = EXCLUDED.expiration_date,
			last_updated_by = EXCLUDED.last_updated_by,
			updated_at = NOW()
		RETURNING id, player_id, team_id, total_sessions, used_sessions, remaining_sessions,
				  expiration_date, last_updated_by, created_at, updated_at
	`
	var balance models.SessionBalance
	err := r.db.QueryRow(ctx, query,
		input.PlayerID,
		input.TeamID,
		input.TotalSessions,
		input.UsedSessions,
		input.RemainingSessions,
		input.ExpirationDate,
		input.LastUpdatedBy,
	).Scan(
		&balance.ID,
		&balance.PlayerID,
		&balance.TeamID,
		&balance.TotalSessions,
		&balance.UsedSessions,
		&balance.RemainingSessions,
		&balance.ExpirationDate,
		&balance.LastUpdatedBy,
		&balance.CreatedAt,
		&balance.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}
