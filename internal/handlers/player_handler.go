package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/arsalan-h/CourtAppBack/internal/models"
	"github.com/arsalan-h/CourtAppBack/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type playerStore interface {
	Create(ctx context.Context, input repository.CreatePlayerInput) (*models.Player, error)
	GetByTeamAndID(ctx context.Context, teamID, playerID int64) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID int64) ([]models.Player, error)
	Update(ctx context.Context, teamID, playerID int64, input repository.UpdatePlayerInput) (*models.Player, error)
	Deactivate(ctx context.Context, teamID, playerID int64) (*models.Player, error)
}

type PlayerHandler struct {
	playerRepo playerStore
	teamRepo   teamAccessChecker
}

func NewPlayerHandler(playerRepo *repository.PlayerRepository, teamRepo *repository.TeamRepository) *PlayerHandler {
	return &PlayerHandler{playerRepo: playerRepo, teamRepo: teamRepo}
}

type createPlayerRequest struct {
	FullName     string  `json:"full_name"`
	JerseyNumber *int    `json:"jersey_number"`
	Position     *string `json:"position"`
}

type updatePlayerRequest struct {
	FullName     *string `json:"full_name"`
	JerseyNumber *int    `json:"jersey_number"`
	Position     *string `json:"position"`
	Active       *bool   `json:"active"`
}

func (h *PlayerHandler) CreatePlayer(c *fiber.Ctx) error {
	_, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	var req createPlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.FullName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "full_name is required"})
	}
	if req.JerseyNumber != nil && *req.JerseyNumber < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "jersey_number must be 0 or greater"})
	}

	player, err := h.playerRepo.Create(c.Context(), repository.CreatePlayerInput{
		TeamID:       teamID,
		FullName:     strings.TrimSpace(req.FullName),
		JerseyNumber: req.JerseyNumber,
		Position:     req.Position,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create player"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"player": player})
}

func (h *PlayerHandler) ListPlayers(c *fiber.Ctx) error {
	_, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	players, err := h.playerRepo.ListByTeam(c.Context(), teamID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list players"})
	}

	return c.JSON(fiber.Map{"players": players})
}

func (h *PlayerHandler) GetPlayer(c *fiber.Ctx) error {
	_, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	playerID, err := parseIDParam(c, "playerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid player id"})
	}

	player, err := h.playerRepo.GetByTeamAndID(c.Context(), teamID, playerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Player not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load player"})
	}

	return c.JSON(fiber.Map{"player": player})
}

func (h *PlayerHandler) UpdatePlayer(c *fiber.Ctx) error {
	_, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	playerID, err := parseIDParam(c, "playerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid player id"})
	}

	var req updatePlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "full_name must not be empty"})
	}
	if req.JerseyNumber != nil && *req.JerseyNumber < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "jersey_number must be 0 or greater"})
	}

	player, err := h.playerRepo.Update(c.Context(), teamID, playerID, repository.UpdatePlayerInput{
		FullName:     req.FullName,
		JerseyNumber: req.JerseyNumber,
		Position:     req.Position,
		Active:       req.Active,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Player not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update player"})
	}

	return c.JSON(fiber.Map{"player": player})
}

func (h *PlayerHandler) DeletePlayer(c *fiber.Ctx) error {
	_, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	playerID, err := parseIDParam(c, "playerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid player id"})
	}

	player, err := h.playerRepo.Deactivate(c.Context(), teamID, playerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Player not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate player"})
	}

	return c.JSON(fiber.Map{"player": player})
}
