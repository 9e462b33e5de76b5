package repository

import (
	"context"
	"time"

	"github.com/arsalan-h/CourtAppBack/internal/models"
)

type CreateAttendanceInput struct {
	TeamID       int64
	PlayerID     int64
	PracticeDate time.Time
	Present      bool
	RecordedBy   int64
}

type AttendanceRepository struct {
	db DBTX
}

func NewAttendanceRepository(db DBTX) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(ctx context.Context, input CreateAttendanceInput) (*models.AttendanceRecord, error) {
	query := `
		INSERT INTO attendance_records (team_id, player_id, practice_date, present, recorded_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, team_id, player_id, practice_date, present, recorded_by, created_at
	`
	var record models.AttendanceRecord
	err := r.db.QueryRow(ctx, query,
		input.TeamID,
		input.PlayerID,
		input.PracticeDate,
		input.Present,
		input.RecordedBy,
	).Scan(
		&record.ID,
		&record.TeamID,
		&record.PlayerID,
		&record.PracticeDate,
		&record.Present,
		&record.RecordedBy,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *AttendanceRepository) ListByTeam(ctx context.Context, teamID int64, practiceDate *time.Time) ([]models.AttendanceRecord, error) {
	args := []any{teamID}
	where := "team_id = $1"
	if practiceDate != nil {
		args = append(args, *practiceDate)
		where += " AND practice_date = $2"
	}

	query := `
		SELECT id, team_id, player_id, practice_date, present, recorded_by, created_at
		FROM attendance_records
		WHERE ` + where + `
		ORDER BY practice_date DESC, player_id ASC
	`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.AttendanceRecord, 0)
	for rows.Next() {
		var record models.AttendanceRecord
		if err := rows.Scan(
			&record.ID,
			&record.TeamID,
			&record.PlayerID,
			&record.PracticeDate,
			&record.Present,
			&record.RecordedBy,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
