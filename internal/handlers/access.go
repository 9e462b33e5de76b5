package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type teamAccessChecker interface {
	HasAccess(ctx context.Context, teamID, userID int64) (bool, error)
}

func parseUserID(c *fiber.Ctx) (int64, error) {
	userIDValue := c.Locals("user_id")
	userIDStr, ok := userIDValue.(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(userIDStr, 10, 64)
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}

// requireTeamAccess resolves the acting user and verifies team membership in
// one step. On denial it writes the error response itself and reports ok=false;
// the caller must return nil without touching the request further, since a
// successful JSON write yields a nil error and cannot signal denial on its own.
func requireTeamAccess(c *fiber.Ctx, teams teamAccessChecker) (userID int64, teamID int64, ok bool) {
	userID, err := parseUserID(c)
	if err != nil {
		c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		return 0, 0, false
	}

	teamID, err = parseIDParam(c, "teamId")
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid team id"})
		return 0, 0, false
	}

	hasAccess, err := teams.HasAccess(c.Context(), teamID, userID)
	if err != nil {
		c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check team access"})
		return 0, 0, false
	}
	if !hasAccess {
		c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		return 0, 0, false
	}

	return userID, teamID, true
}
