package models

import "time"

type AttendanceRecord struct {
	ID           int64     `json:"id"`
	TeamID       int64     `json:"team_id"`
	PlayerID     int64     `json:"player_id"`
	PracticeDate time.Time `json:"practice_date"`
	Present      bool      `json:"present"`
	RecordedBy   int64     `json:"recorded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

type Payment struct {
	ID         int64     `json:"id"`
	TeamID     int64     `json:"team_id"`
	PlayerID   int64     `json:"player_id"`
	Amount     float64   `json:"amount"`
	Method     string    `json:"method"`
	Note       *string   `json:"note"`
	RecordedBy int64     `json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type PracticeNote struct {
	ID           int64     `json:"id"`
	TeamID       int64     `json:"team_id"`
	AuthorID     int64     `json:"author_id"`
	PracticeDate time.Time `json:"practice_date"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
