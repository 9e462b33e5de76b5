package models

import "time"

type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Season    *string   `json:"season"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Player struct {
	ID           int64     `json:"id"`
	TeamID       int64     `json:"team_id"`
	FullName     string    `json:"full_name"`
	JerseyNumber *int      `json:"jersey_number"`
	Position     *string   `json:"position"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
