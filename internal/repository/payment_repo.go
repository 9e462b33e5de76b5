package repository

import (
	"context"

	"github.com/arsalan-h/CourtAppBack/internal/models"
)

type CreatePaymentInput struct {
	TeamID     int64
	PlayerID   int64
	Amount     float64
	Method     string
	Note       *string
	RecordedBy int64
}

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, input CreatePaymentInput) (*models.Payment, error) {
	query := `
		INSERT INTO payments (team_id, player_id, amount, method, note, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, team_id, player_id, amount, method, note, recorded_by, created_at
	`
	var payment models.Payment
	err := r.db.QueryRow(ctx, query,
		input.TeamID,
		input.PlayerID,
		input.Amount,
		input.Method,
		input.Note,
		input.RecordedBy,
	).Scan(
		&payment.ID,
		&payment.TeamID,
		&payment.PlayerID,
		&payment.Amount,
		&payment.Method,
		&payment.Note,
		&payment.RecordedBy,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) ListByTeam(ctx context.Context, teamID int64, playerID *int64) ([]models.Payment, error) {
	args := []any{teamID}
	where := "team_id = $1"
	if playerID != nil {
		args = append(args, *playerID)
		where += " AND player_id = $2"
	}

	query := `
		SELECT id, team_id, player_id, amount, method, note, recorded_by, created_at
		FROM payments
		WHERE ` + where + `
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]models.Payment, 0)
	for rows.Next() {
		var payment models.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.TeamID,
			&payment.PlayerID,
			&payment.Amount,
			&payment.Method,
			&payment.Note,
			&payment.RecordedBy,
			&payment.CreatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}
