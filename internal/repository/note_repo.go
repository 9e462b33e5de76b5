package repository

import (
	"context"
	"time"

	"github.com/arsalan-h/CourtAppBack/internal/models"
)

type CreateNoteInput struct {
	TeamID       int64
	AuthorID     int64
	PracticeDate time.Time
	Body         string
}

type NoteRepository struct {
	db DBTX
}

func NewNoteRepository(db DBTX) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, input CreateNoteInput) (*models.PracticeNote, error) {
	query := `
		INSERT INTO practice_notes (team_id, author_id, practice_date, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, team_id, author_id, practice_date, body, created_at, updated_at
	`
	var note models.PracticeNote
	err := r.db.QueryRow(ctx, query, input.TeamID, input.AuthorID, input.PracticeDate, input.Body).Scan(
		&note.ID,
		&note.TeamID,
		&note.AuthorID,
		&note.PracticeDate,
		&note.Body,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) GetByID(ctx context.Context, noteID int64) (*models.PracticeNote, error) {
	query := `
		SELECT id, team_id, author_id, practice_date, body, created_at, updated_at
		FROM practice_notes
		WHERE id = $1
	`
	var note models.PracticeNote
	err := r.db.QueryRow(ctx, query, noteID).Scan(
		&note.ID,
		&note.TeamID,
		&note.AuthorID,
		&note.PracticeDate,
		&note.Body,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) ListByTeam(ctx context.Context, teamID int64) ([]models.PracticeNote, error) {
	query := `
		SELECT id, team_id, author_id, practice_date, body, created_at, updated_at
		FROM practice_notes
		WHERE team_id = $1
		ORDER BY practice_date DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]models.PracticeNote, 0)
	for rows.Next() {
		var note models.PracticeNote
		if err := rows.Scan(
			&note.ID,
			&note.TeamID,
			&note.AuthorID,
			&note.PracticeDate,
			&note.Body,
			&note.CreatedAt,
			&note.UpdatedAt,
		); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, noteID int64, body string) (*models.PracticeNote, error) {
	query := `
		UPDATE practice_notes
		SET body = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, team_id, author_id, practice_date, body, created_at, updated_at
	`
	var note models.PracticeNote
	err := r.db.QueryRow(ctx, query, noteID, body).Scan(
		&note.ID,
		&note.TeamID,
		&note.AuthorID,
		&note.PracticeDate,
		&note.Body,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) Delete(ctx context.Context, noteID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM practice_notes WHERE id = $1`, noteID)
	return err
}
