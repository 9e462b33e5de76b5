package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arsalan-h/CourtAppBack/internal/models"
	"github.com/arsalan-h/CourtAppBack/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidReason  = errors.New("invalid reason")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNoBalance      = errors.New("player has no session balance")
)

const (
	ReasonPayment          = "payment"
	ReasonAttendance       = "attendance"
	ReasonManualAdjustment = "manual-adjustment"
)

type playerReader interface {
	GetByTeamAndID(ctx context.Context, teamID, playerID int64) (*models.Player, error)
}

// LedgerService owns every mutation of session_balances and
// session_transactions. Each mutation runs in one transaction spanning the
// balance write and the audit append, serialized per player with an advisory
// lock, so the two writes succeed or fail together and concurrent coach edits
// cannot interleave.
type LedgerService struct {
	db          *pgxpool.Pool
	balanceRepo *repository.BalanceRepository
	txnRepo     *repository.TransactionRepository
	playerRepo  playerReader
}

func NewLedgerService(
	db *pgxpool.Pool,
	balanceRepo *repository.BalanceRepository,
	txnRepo *repository.TransactionRepository,
	playerRepo playerReader,
) *LedgerService {
	return &LedgerService{
		db:          db,
		balanceRepo: balanceRepo,
		txnRepo:     txnRepo,
		playerRepo:  playerRepo,
	}
}

type SetBalanceInput struct {
	TotalSessions  int
	UsedSessions   *int
	ExpirationDate *time.Time
	Notes          *string
	Reason         string
	PaymentID      *int64
}

// BalanceMutation is the result of one ledger write: the balance after the
// write plus the audit entry appended alongside it.
type BalanceMutation struct {
	Balance     *models.SessionBalance     `json:"balance"`
	Transaction *models.SessionTransaction `json:"transaction"`
}

// SetBalance performs an override-set: the stored total is replaced outright
// by input.TotalSessions, used sessions are carried forward unless explicitly
// supplied, and remaining is always recomputed as max(total-used, 0). The
// caller-facing delta (new total minus old total) lands in the audit entry.
func (s *LedgerService) SetBalance(
	ctx context.Context,
	actorID int64,
	teamID int64,
	playerID int64,
	input SetBalanceInput,
) (*BalanceMutation, error) {
	if input.TotalSessions < 0 {
		return nil, ErrInvalidInput
	}
	if input.UsedSessions != nil && *input.UsedSessions < 0 {
		return nil, ErrInvalidInput
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = ReasonManualAdjustment
	}
	if reason != ReasonManualAdjustment && reason != ReasonPayment {
		return nil, ErrInvalidReason
	}

	if _, err := s.playerRepo.GetByTeamAndID(ctx, teamID, playerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	var mutation *BalanceMutation
	err := s.withPlayerLock(ctx, teamID, playerID, func(ctx context.Context, tx pgx.Tx) error {
		txBalanceRepo := repository.NewBalanceRepository(tx)
		txTxnRepo := repository.NewTransactionRepository(tx)

		oldTotal := 0
		oldUsed := 0
		current, err := txBalanceRepo.GetByPlayerForUpdate(ctx, teamID, playerID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if current != nil {
			oldTotal = current.TotalSessions
			oldUsed = current.UsedSessions
		}

		newUsed, newRemaining, change := reconcileOverride(oldTotal, oldUsed, input.TotalSessions, input.UsedSessions)

		balance, err := txBalanceRepo.Upsert(ctx, repository.UpsertBalanceInput{
			TeamID:            teamID,
			PlayerID:          playerID,
			TotalSessions:     input.TotalSessions,
			UsedSessions:      newUsed,
			RemainingSessions: newRemaining,
			ExpirationDate:    input.ExpirationDate,
			LastUpdatedBy:     actorID,
		})
		if err != nil {
			return err
		}

		notes := input.Notes
		if notes == nil {
			text := fmt.Sprintf("Prepaid session total set to %d (was %d)", input.TotalSessions, oldTotal)
			notes = &text
		}

		entry, err := txTxnRepo.Append(ctx, repository.AppendTransactionInput{
			TeamID:        teamID,
			PlayerID:      playerID,
			SessionChange: change,
			Reason:        reason,
			Notes:         notes,
			PaymentID:     input.PaymentID,
			LastUpdatedBy: actorID,
		})
		if err != nil {
			return err
		}

		mutation = &BalanceMutation{Balance: balance, Transaction: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mutation, nil
}

// ConsumeSession burns one prepaid session for an attended practice. Used
// grows by exactly one; remaining clamps at zero even when used already
// exceeds the total. A player with no balance row has no prepaid arrangement
// to draw down, which is reported as ErrNoBalance.
func (s *LedgerService) ConsumeSession(
	ctx context.Context,
	actorID int64,
	teamID int64,
	playerID int64,
	attendanceID int64,
) (*BalanceMutation, error) {
	var mutation *BalanceMutation
	err := s.withPlayerLock(ctx, teamID, playerID, func(ctx context.Context, tx pgx.Tx) error {
		txBalanceRepo := repository.NewBalanceRepository(tx)
		txTxnRepo := repository.NewTransactionRepository(tx)

		current, err := txBalanceRepo.GetByPlayerForUpdate(ctx, teamID, playerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNoBalance
			}
			return err
		}

		newUsed, newRemaining := reconcileConsumption(current.TotalSessions, current.UsedSessions)
		balance, err := txBalanceRepo.Upsert(ctx, repository.UpsertBalanceInput{
			TeamID:            teamID,
			PlayerID:          playerID,
			TotalSessions:     current.TotalSessions,
			UsedSessions:      newUsed,
			RemainingSessions: newRemaining,
			ExpirationDate:    current.ExpirationDate,
			LastUpdatedBy:     actorID,
		})
		if err != nil {
			return err
		}

		entry, err := txTxnRepo.Append(ctx, repository.AppendTransactionInput{
			TeamID:        teamID,
			PlayerID:      playerID,
			SessionChange: -1,
			Reason:        ReasonAttendance,
			AttendanceID:  &attendanceID,
			LastUpdatedBy: actorID,
		})
		if err != nil {
			return err
		}

		mutation = &BalanceMutation{Balance: balance, Transaction: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mutation, nil
}

// PlayerLedger returns the per-player read view. A player who never had a
// prepaid arrangement yields a nil balance and empty history, not an error.
func (s *LedgerService) PlayerLedger(
	ctx context.Context,
	teamID int64,
	playerID int64,
) (*models.PlayerLedger, error) {
	if _, err := s.playerRepo.GetByTeamAndID(ctx, teamID, playerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	balance, err := s.balanceRepo.GetByPlayer(ctx, teamID, playerID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	transactions, err := s.txnRepo.List(ctx, repository.TransactionListFilter{
		TeamID:   teamID,
		PlayerID: &playerID,
	})
	if err != nil {
		return nil, err
	}

	return &models.PlayerLedger{Balance: balance, Transactions: transactions}, nil
}

// TeamBalances lists every balance row for the team, inactive players
// included. Filtering by roster status is a client concern.
func (s *LedgerService) TeamBalances(ctx context.Context, teamID int64) ([]models.SessionBalance, error) {
	return s.balanceRepo.ListByTeam(ctx, teamID)
}

func (s *LedgerService) ListTransactions(
	ctx context.Context,
	filter repository.TransactionListFilter,
) ([]models.SessionTransaction, int, error) {
	entries, err := s.txnRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.txnRepo.CountByTeam(ctx, filter.TeamID, filter.PlayerID)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// withPlayerLock runs fn inside a transaction holding the per-player advisory
// lock, so concurrent mutations for the same (team, player) queue up instead
// of racing the read-modify-write cycle.
func (s *LedgerService) withPlayerLock(
	ctx context.Context,
	teamID int64,
	playerID int64,
	fn func(ctx context.Context, tx pgx.Tx) error,
) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1::int4, $2::int4)", teamID, playerID); err != nil {
		return err
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// reconcileOverride computes the stored fields for an override-set: used is
// carried forward unless the caller supplied it, remaining is recomputed from
// the new total, and change is the audited delta (new total minus old total).
func reconcileOverride(oldTotal, oldUsed, newTotal int, suppliedUsed *int) (used, remaining, change int) {
	used = oldUsed
	if suppliedUsed != nil {
		used = *suppliedUsed
	}
	return used, clampRemaining(newTotal, used), newTotal - oldTotal
}

// reconcileConsumption burns one session: used always grows by one, and
// remaining clamps at zero when used exceeds the total.
func reconcileConsumption(total, used int) (newUsed, remaining int) {
	newUsed = used + 1
	return newUsed, clampRemaining(total, newUsed)
}

func clampRemaining(total, used int) int {
	if remaining := total - used; remaining > 0 {
		return remaining
	}
	return 0
}
