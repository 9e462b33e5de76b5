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
)

var allowedPaymentMethods = map[string]struct{}{
	"cash":     {},
	"card":     {},
	"transfer": {},
	"other":    {},
}

type balanceSetter interface {
	SetBalance(ctx context.Context, actorID, teamID, playerID int64, input SetBalanceInput) (*BalanceMutation, error)
}

type paymentStore interface {
	Create(ctx context.Context, input repository.CreatePaymentInput) (*models.Payment, error)
	ListByTeam(ctx context.Context, teamID int64, playerID *int64) ([]models.Payment, error)
}

// PaymentService records payments and, when a payment buys a block of prepaid
// sessions, forwards the new total to the ledger as a payment-reason
// override-set carrying the payment back-reference.
type PaymentService struct {
	paymentRepo paymentStore
	playerRepo  playerReader
	ledger      balanceSetter
}

func NewPaymentService(
	paymentRepo *repository.PaymentRepository,
	playerRepo playerReader,
	ledger *LedgerService,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		playerRepo:  playerRepo,
		ledger:      ledger,
	}
}

type RecordPaymentInput struct {
	PlayerID       int64
	Amount         float64
	Method         string
	Note           *string
	SessionTotal   *int
	ExpirationDate *time.Time
}

type PaymentResult struct {
	Payment *models.Payment        `json:"payment"`
	Balance *models.SessionBalance `json:"balance,omitempty"`
}

func (s *PaymentService) RecordPayment(
	ctx context.Context,
	actorID int64,
	teamID int64,
	input RecordPaymentInput,
) (*PaymentResult, error) {
	if input.PlayerID <= 0 || input.Amount <= 0 {
		return nil, ErrInvalidInput
	}
	method := strings.ToLower(strings.TrimSpace(input.Method))
	if _, ok := allowedPaymentMethods[method]; !ok {
		return nil, ErrInvalidInput
	}
	if input.SessionTotal != nil && *input.SessionTotal < 0 {
		return nil, ErrInvalidInput
	}

	if _, err := s.playerRepo.GetByTeamAndID(ctx, teamID, input.PlayerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	payment, err := s.paymentRepo.Create(ctx, repository.CreatePaymentInput{
		TeamID:     teamID,
		PlayerID:   input.PlayerID,
		Amount:     input.Amount,
		Method:     method,
		Note:       input.Note,
		RecordedBy: actorID,
	})
	if err != nil {
		return nil, err
	}

	result := &PaymentResult{Payment: payment}
	if input.SessionTotal != nil {
		notes := fmt.Sprintf("Payment of %.2f set prepaid total to %d", payment.Amount, *input.SessionTotal)
		mutation, err := s.ledger.SetBalance(ctx, actorID, teamID, input.PlayerID, SetBalanceInput{
			TotalSessions:  *input.SessionTotal,
			ExpirationDate: input.ExpirationDate,
			Notes:          &notes,
			Reason:         ReasonPayment,
			PaymentID:      &payment.ID,
		})
		if err != nil {
			return nil, err
		}
		result.Balance = mutation.Balance
	}

	return result, nil
}

func (s *PaymentService) ListPayments(
	ctx context.Context,
	teamID int64,
	playerID *int64,
) ([]models.Payment, error) {
	return s.paymentRepo.ListByTeam(ctx, teamID, playerID)
}
