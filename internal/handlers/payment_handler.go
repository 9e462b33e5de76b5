package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/arsalan-h/CourtAppBack/internal/models"
	"github.com/arsalan-h/CourtAppBack/internal/services"
	"github.com/gofiber/fiber/v2"
)

type paymentApplicationService interface {
	RecordPayment(ctx context.Context, actorID, teamID int64, input services.RecordPaymentInput) (*services.PaymentResult, error)
	ListPayments(ctx context.Context, teamID int64, playerID *int64) ([]models.Payment, error)
}

type PaymentHandler struct {
	service  paymentApplicationService
	teamRepo teamAccessChecker
}

func NewPaymentHandler(service *services.PaymentService, teamRepo teamAccessChecker) *PaymentHandler {
	return &PaymentHandler{service: service, teamRepo: teamRepo}
}

type recordPaymentRequest struct {
	PlayerID       int64   `json:"player_id"`
	Amount         float64 `json:"amount"`
	Method         string  `json:"method"`
	Note           *string `json:"note"`
	SessionTotal   *int    `json:"session_total"`
	ExpirationDate *string `json:"expiration_date"`
}

func (h *PaymentHandler) RecordPayment(c *fiber.Ctx) error {
	userID, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	var req recordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.PlayerID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "player_id is required"})
	}
	if req.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount must be greater than 0"})
	}
	if req.SessionTotal != nil && *req.SessionTotal < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_total must be 0 or greater"})
	}

	var expirationDate *time.Time
	if req.ExpirationDate != nil && strings.TrimSpace(*req.ExpirationDate) != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*req.ExpirationDate))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expiration_date must be a YYYY-MM-DD date"})
		}
		expirationDate = &parsed
	}

	result, err := h.service.RecordPayment(c.Context(), userID, teamID, services.RecordPaymentInput{
		PlayerID:       req.PlayerID,
		Amount:         req.Amount,
		Method:         req.Method,
		Note:           req.Note,
		SessionTotal:   req.SessionTotal,
		ExpirationDate: expirationDate,
	})
	if err != nil {
		return mapPaymentError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
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

	payments, err := h.service.ListPayments(c.Context(), teamID, playerID)
	if err != nil {
		return mapPaymentError(c, err)
	}

	return c.JSON(fiber.Map{"payments": payments})
}

func mapPaymentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidReason):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrPlayerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Player not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process payment request"})
	}
}
