package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/arsalan-h/CourtAppBack/internal/models"
	"github.com/arsalan-h/CourtAppBack/internal/services"
	"github.com/gofiber/fiber/v2"
)

type attendanceApplicationService interface {
	MarkAttendance(ctx context.Context, actorID, teamID int64, input services.MarkAttendanceInput) ([]services.AttendanceResult, error)
	ListAttendance(ctx context.Context, teamID int64, practiceDate *time.Time) ([]models.AttendanceRecord, error)
}

type AttendanceHandler struct {
	service  attendanceApplicationService
	teamRepo teamAccessChecker
}

func NewAttendanceHandler(service *services.AttendanceService, teamRepo teamAccessChecker) *AttendanceHandler {
	return &AttendanceHandler{service: service, teamRepo: teamRepo}
}

type attendanceEntryRequest struct {
	PlayerID       int64 `json:"player_id"`
	Present        bool  `json:"present"`
	ConsumeSession bool  `json:"consume_session"`
}

type markAttendanceRequest struct {
	PracticeDate string                   `json:"practice_date"`
	Entries      []attendanceEntryRequest `json:"entries"`
}

func (h *AttendanceHandler) MarkAttendance(c *fiber.Ctx) error {
	userID, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	var req markAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	practiceDate, err := time.Parse("2006-01-02", strings.TrimSpace(req.PracticeDate))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "practice_date must be a YYYY-MM-DD date"})
	}
	if len(req.Entries) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entries must contain at least one item"})
	}
	for _, entry := range req.Entries {
		if entry.PlayerID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entries must reference valid player ids"})
		}
	}

	entries := make([]services.AttendanceEntry, 0, len(req.Entries))
	for _, entry := range req.Entries {
		entries = append(entries, services.AttendanceEntry{
			PlayerID:       entry.PlayerID,
			Present:        entry.Present,
			ConsumeSession: entry.ConsumeSession,
		})
	}

	results, err := h.service.MarkAttendance(c.Context(), userID, teamID, services.MarkAttendanceInput{
		PracticeDate: practiceDate,
		Entries:      entries,
	})
	if err != nil {
		return mapAttendanceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"attendance": results})
}

func (h *AttendanceHandler) ListAttendance(c *fiber.Ctx) error {
	_, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	var practiceDate *time.Time
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be a YYYY-MM-DD date"})
		}
		practiceDate = &parsed
	}

	records, err := h.service.ListAttendance(c.Context(), teamID, practiceDate)
	if err != nil {
		return mapAttendanceError(c, err)
	}

	return c.JSON(fiber.Map{"attendance": records})
}

func mapAttendanceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrPlayerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Player not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process attendance request"})
	}
}
