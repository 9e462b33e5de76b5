package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/arsalan-h/CourtAppBack/internal/models"
	"github.com/arsalan-h/CourtAppBack/internal/repository"
	"github.com/arsalan-h/CourtAppBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type ledgerApplicationService interface {
	SetBalance(ctx context.Context, actorID, teamID, playerID int64, input services.SetBalanceInput) (*services.BalanceMutation, error)
	PlayerLedger(ctx context.Context, teamID, playerID int64) (*models.PlayerLedger, error)
	TeamBalances(ctx context.Context, teamID int64) ([]models.SessionBalance, error)
	ListTransactions(ctx context.Context, filter repository.TransactionListFilter) ([]models.SessionTransaction, int, error)
}

type LedgerHandler struct {
	service  ledgerApplicationService
	teamRepo teamAccessChecker
}

func NewLedgerHandler(service *services.LedgerService, teamRepo *repository.TeamRepository) *LedgerHandler {
	return &LedgerHandler{service: service, teamRepo: teamRepo}
}

type setBalanceRequest struct {
	TotalSessions  int     `json:"total_sessions"`
	UsedSessions   *int    `json:"used_sessions"`
	ExpirationDate *string `json:"expiration_date"`
	Notes          *string `json:"notes"`
	Reason         string  `json:"reason"`

	// Accepted for wire compatibility with older clients; remaining is always
	// recomputed server-side.
	RemainingSessions *int `json:"remaining_sessions"`
}

// GetPlayerLedger returns the balance (null when the player never had a
// prepaid arrangement) plus the audit history, newest-first.
func (h *LedgerHandler) GetPlayerLedger(c *fiber.Ctx) error {
	_, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	playerID, err := parseIDParam(c, "playerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid player id"})
	}

	ledger, err := h.service.PlayerLedger(c.Context(), teamID, playerID)
	if err != nil {
		return mapLedgerError(c, err)
	}

	return c.JSON(ledger)
}

func (h *LedgerHandler) GetTeamBalances(c *fiber.Ctx) error {
	_, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	balances, err := h.service.TeamBalances(c.Context(), teamID)
	if err != nil {
		return mapLedgerError(c, err)
	}

	return c.JSON(fiber.Map{"balances": balances})
}

// SetBalance is a destructive override: the stored total is replaced by the
// requested value, not added to. The response carries the applied
// session_change so clients can warn when an override erased prior
// allocations.
func (h *LedgerHandler) SetBalance(c *fiber.Ctx) error {
	userID, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	playerID, err := parseIDParam(c, "playerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid player id"})
	}

	var req setBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TotalSessions < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "total_sessions must be 0 or greater"})
	}
	if req.UsedSessions != nil && *req.UsedSessions < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "used_sessions must be 0 or greater"})
	}

	var expirationDate *time.Time
	if req.ExpirationDate != nil && strings.TrimSpace(*req.ExpirationDate) != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*req.ExpirationDate))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expiration_date must be a YYYY-MM-DD date"})
		}
		expirationDate = &parsed
	}

	mutation, err := h.service.SetBalance(c.Context(), userID, teamID, playerID, services.SetBalanceInput{
		TotalSessions:  req.TotalSessions,
		UsedSessions:   req.UsedSessions,
		ExpirationDate: expirationDate,
		Notes:          req.Notes,
		Reason:         req.Reason,
	})
	if err != nil {
		return mapLedgerError(c, err)
	}

	return c.JSON(fiber.Map{
		"balance":        mutation.Balance,
		"transaction":    mutation.Transaction,
		"session_change": mutation.Transaction.SessionChange,
	})
}

func (h *LedgerHandler) ListTransactions(c *fiber.Ctx) error {
	_, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	var playerID *int64
	if raw := strings.TrimSpace(c.Query("player_id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "player_id must be a positive integer"})
		}
		playerID = &parsed
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultPageLimit)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	entries, total, err := h.service.ListTransactions(c.Context(), repository.TransactionListFilter{
		TeamID:   teamID,
		PlayerID: playerID,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return mapLedgerError(c, err)
	}

	return c.JSON(fiber.Map{
		"transactions": entries,
		"pagination":   buildPaginationMeta(page, limit, total),
	})
}

func mapLedgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidReason):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrPlayerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Player not found"})
	case errors.Is(err, services.ErrNoBalance):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process ledger request"})
	}
}
