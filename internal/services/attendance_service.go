package services

import (
	"context"
	"errors"
	"time"

	"github.com/arsalan-h/CourtAppBack/internal/models"
	"github.com/arsalan-h/CourtAppBack/internal/repository"
	"github.com/jackc/pgx/v5"
)

type sessionConsumer interface {
	ConsumeSession(ctx context.Context, actorID, teamID, playerID, attendanceID int64) (*BalanceMutation, error)
}

type attendanceStore interface {
	Create(ctx context.Context, input repository.CreateAttendanceInput) (*models.AttendanceRecord, error)
	ListByTeam(ctx context.Context, teamID int64, practiceDate *time.Time) ([]models.AttendanceRecord, error)
}

// AttendanceService records practice attendance and drives prepaid session
// consumption for present players who asked for it.
type AttendanceService struct {
	attendanceRepo attendanceStore
	playerRepo     playerReader
	ledger         sessionConsumer
}

func NewAttendanceService(
	attendanceRepo *repository.AttendanceRepository,
	playerRepo playerReader,
	ledger *LedgerService,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		playerRepo:     playerRepo,
		ledger:         ledger,
	}
}

type AttendanceEntry struct {
	PlayerID       int64
	Present        bool
	ConsumeSession bool
}

type MarkAttendanceInput struct {
	PracticeDate time.Time
	Entries      []AttendanceEntry
}

// AttendanceResult reports one recorded entry. SessionConsumed is false when
// consumption was not requested, the player was absent, or the player has no
// prepaid arrangement to draw down.
type AttendanceResult struct {
	Record          *models.AttendanceRecord `json:"record"`
	SessionConsumed bool                     `json:"session_consumed"`
	Balance         *models.SessionBalance   `json:"balance,omitempty"`
}

func (s *AttendanceService) MarkAttendance(
	ctx context.Context,
	actorID int64,
	teamID int64,
	input MarkAttendanceInput,
) ([]AttendanceResult, error) {
	if input.PracticeDate.IsZero() || len(input.Entries) == 0 {
		return nil, ErrInvalidInput
	}

	for _, entry := range input.Entries {
		if _, err := s.playerRepo.GetByTeamAndID(ctx, teamID, entry.PlayerID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrPlayerNotFound
			}
			return nil, err
		}
	}

	results := make([]AttendanceResult, 0, len(input.Entries))
	for _, entry := range input.Entries {
		record, err := s.attendanceRepo.Create(ctx, repository.CreateAttendanceInput{
			TeamID:       teamID,
			PlayerID:     entry.PlayerID,
			PracticeDate: input.PracticeDate,
			Present:      entry.Present,
			RecordedBy:   actorID,
		})
		if err != nil {
			return nil, err
		}

		result := AttendanceResult{Record: record}
		if entry.Present && entry.ConsumeSession {
			mutation, err := s.ledger.ConsumeSession(ctx, actorID, teamID, entry.PlayerID, record.ID)
			if err != nil {
				// Attendance without a prepaid arrangement is still valid
				// attendance; only the ledger draw-down is skipped.
				if errors.Is(err, ErrNoBalance) {
					results = append(results, result)
					continue
				}
				return nil, err
			}
			result.SessionConsumed = true
			result.Balance = mutation.Balance
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *AttendanceService) ListAttendance(
	ctx context.Context,
	teamID int64,
	practiceDate *time.Time,
) ([]models.AttendanceRecord, error) {
	return s.attendanceRepo.ListByTeam(ctx, teamID, practiceDate)
}
