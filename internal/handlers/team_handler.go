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

type teamStore interface {
	Create(ctx context.Context, input repository.CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, teamID int64) (*models.Team, error)
	ListByCoach(ctx context.Context, userID int64) ([]models.Team, error)
	AddCoach(ctx context.Context, teamID, userID int64) error
	HasAccess(ctx context.Context, teamID, userID int64) (bool, error)
}

type teamUserReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type TeamHandler struct {
	teamRepo teamStore
	userRepo teamUserReader
}

func NewTeamHandler(teamRepo *repository.TeamRepository, userRepo *repository.UserRepository) *TeamHandler {
	return &TeamHandler{teamRepo: teamRepo, userRepo: userRepo}
}

type createTeamRequest struct {
	Name   string  `json:"name"`
	Season *string `json:"season"`
}

type addCoachRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *TeamHandler) CreateTeam(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	team, err := h.teamRepo.Create(c.Context(), repository.CreateTeamInput{
		Name:    strings.TrimSpace(req.Name),
		Season:  req.Season,
		OwnerID: userID,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create team"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"team": team})
}

func (h *TeamHandler) ListTeams(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	teams, err := h.teamRepo.ListByCoach(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list teams"})
	}

	return c.JSON(fiber.Map{"teams": teams})
}

func (h *TeamHandler) GetTeam(c *fiber.Ctx) error {
	_, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	team, err := h.teamRepo.GetByID(c.Context(), teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Team not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load team"})
	}

	return c.JSON(fiber.Map{"team": team})
}

// AddCoach grants another user access to the team. Only the owner can grant.
func (h *TeamHandler) AddCoach(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	teamID, err := parseIDParam(c, "teamId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid team id"})
	}

	team, err := h.teamRepo.GetByID(c.Context(), teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Team not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load team"})
	}
	if team.OwnerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	var req addCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.UserID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}

	if _, err := h.userRepo.GetByID(c.Context(), req.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	if err := h.teamRepo.AddCoach(c.Context(), teamID, req.UserID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add coach"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"team_id": teamID, "user_id": req.UserID})
}
