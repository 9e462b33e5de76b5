package models

import "time"

// SessionBalance is the current prepaid-session state for one player on one
// team. There is at most one row per (team, player); it is mutated in place,
// and remaining_sessions always equals max(total_sessions - used_sessions, 0).
type SessionBalance struct {
	ID                int64      `json:"id"`
	PlayerID          int64      `json:"player_id"`
	TeamID            int64      `json:"team_id"`
	TotalSessions     int        `json:"total_sessions"`
	UsedSessions      int        `json:"used_sessions"`
	RemainingSessions int        `json:"remaining_sessions"`
	ExpirationDate    *time.Time `json:"expiration_date"`
	LastUpdatedBy     int64      `json:"last_updated_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// SessionTransaction is one append-only audit entry explaining a balance
// change. Rows are never updated or deleted; corrections are compensating
// appends.
type SessionTransaction struct {
	ID            int64     `json:"id"`
	PlayerID      int64     `json:"player_id"`
	TeamID        int64     `json:"team_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	SessionChange int       `json:"session_change"`
	Reason        string    `json:"reason"`
	Notes         *string   `json:"notes"`
	PaymentID     *int64    `json:"payment_id"`
	AttendanceID  *int64    `json:"attendance_id"`
	LastUpdatedBy int64     `json:"last_updated_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// PlayerLedger is the per-player read view: the current balance (nil when the
// player has never had a prepaid arrangement) plus the audit history,
// newest-first.
type PlayerLedger struct {
	Balance      *SessionBalance      `json:"balance"`
	Transactions []SessionTransaction `json:"transactions"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
