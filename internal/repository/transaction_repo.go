package repository

import (
	"context"
	"fmt"

	"github.com/arsalan-h/CourtAppBack/internal/models"
)

type AppendTransactionInput struct {
	TeamID        int64
	PlayerID      int64
	SessionChange int
	Reason        string
	Notes         *string
	PaymentID     *int64
	AttendanceID  *int64
	LastUpdatedBy int64
}

type TransactionListFilter struct {
	TeamID   int64
	PlayerID *int64
	Limit    int
	Offset   int
}

type TransactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append is a pure insert. History is never updated or deleted; corrections
// are compensating appends.
func (r *TransactionRepository) Append(ctx context.Context, input AppendTransactionInput) (*models.SessionTransaction, error) {
	query := `
		INSERT INTO session_transactions
			(player_id, team_id, session_change, reason, notes, payment_id, attendance_id, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, player_id, team_id, occurred_at, session_change, reason, notes,
				  payment_id, attendance_id, last_updated_by, created_at
	`
	var entry models.SessionTransaction
	err := r.db.QueryRow(ctx, query,
		input.PlayerID,
		input.TeamID,
		input.SessionChange,
		input.Reason,
		input.Notes,
		input.PaymentID,
		input.AttendanceID,
		input.LastUpdatedBy,
	).Scan(
		&entry.ID,
		&entry.PlayerID,
		&entry.TeamID,
		&entry.OccurredAt,
		&entry.SessionChange,
		&entry.Reason,
		&entry.Notes,
		&entry.PaymentID,
		&entry.AttendanceID,
		&entry.LastUpdatedBy,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns audit entries newest-first. PlayerID narrows the history to a
// single player; Limit/Offset page through long team histories.
func (r *TransactionRepository) List(ctx context.Context, filter TransactionListFilter) ([]models.SessionTransaction, error) {
	args := []any{filter.TeamID}
	where := "team_id = $1"
	if filter.PlayerID != nil {
		args = append(args, *filter.PlayerID)
		where += fmt.Sprintf(" AND player_id = $%d", len(args))
	}

	query := fmt.Sprintf(`
		SELECT id, player_id, team_id, occurred_at, session_change, reason, notes,
			   payment_id, attendance_id, last_updated_by, created_at
		FROM session_transactions
		WHERE %s
		ORDER BY occurred_at DESC, id DESC
	`, where)

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.SessionTransaction, 0)
	for rows.Next() {
		var entry models.SessionTransaction
		if err := rows.Scan(
			&entry.ID,
			&entry.PlayerID,
			&entry.TeamID,
			&entry.OccurredAt,
			&entry.SessionChange,
			&entry.Reason,
			&entry.Notes,
			&entry.PaymentID,
			&entry.AttendanceID,
			&entry.LastUpdatedBy,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *TransactionRepository) CountByTeam(ctx context.Context, teamID int64, playerID *int64) (int, error) {
	args := []any{teamID}
	where := "team_id = $1"
	if playerID != nil {
		args = append(args, *playerID)
		where += fmt.Sprintf(" AND player_id = $%d", len(args))
	}

	var total int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM session_transactions WHERE %s`, where)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
