package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/arsalan-h/CourtAppBack/internal/models"
	"github.com/arsalan-h/CourtAppBack/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type noteStore interface {
	Create(ctx context.Context, input repository.CreateNoteInput) (*models.PracticeNote, error)
	GetByID(ctx context.Context, noteID int64) (*models.PracticeNote, error)
	ListByTeam(ctx context.Context, teamID int64) ([]models.PracticeNote, error)
	Update(ctx context.Context, noteID int64, body string) (*models.PracticeNote, error)
	Delete(ctx context.Context, noteID int64) error
}

type NoteHandler struct {
	noteRepo noteStore
	teamRepo teamAccessChecker
}

func NewNoteHandler(noteRepo *repository.NoteRepository, teamRepo *repository.TeamRepository) *NoteHandler {
	return &NoteHandler{noteRepo: noteRepo, teamRepo: teamRepo}
}

type createNoteRequest struct {
	PracticeDate string `json:"practice_date"`
	Body         string `json:"body"`
}

type updateNoteRequest struct {
	Body string `json:"body"`
}

func (h *NoteHandler) CreateNote(c *fiber.Ctx) error {
	userID, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	var req createNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	practiceDate, err := time.Parse("2006-01-02", strings.TrimSpace(req.PracticeDate))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "practice_date must be a YYYY-MM-DD date"})
	}
	if strings.TrimSpace(req.Body) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body is required"})
	}

	note, err := h.noteRepo.Create(c.Context(), repository.CreateNoteInput{
		TeamID:       teamID,
		AuthorID:     userID,
		PracticeDate: practiceDate,
		Body:         strings.TrimSpace(req.Body),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create note"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"note": note})
}

func (h *NoteHandler) ListNotes(c *fiber.Ctx) error {
	_, teamID, ok := requireTeamAccess(c, h.teamRepo)
	if !ok {
		return nil
	}

	notes, err := h.noteRepo.ListByTeam(c.Context(), teamID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list notes"})
	}

	return c.JSON(fiber.Map{"notes": notes})
}

func (h *NoteHandler) UpdateNote(c *fiber.Ctx) error {
	note, ok := h.loadAccessibleNote(c)
	if !ok {
		return nil
	}

	var req updateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Body) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body is required"})
	}

	updated, err := h.noteRepo.Update(c.Context(), note.ID, strings.TrimSpace(req.Body))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update note"})
	}

	return c.JSON(fiber.Map{"note": updated})
}

func (h *NoteHandler) DeleteNote(c *fiber.Ctx) error {
	note, ok := h.loadAccessibleNote(c)
	if !ok {
		return nil
	}

	if err := h.noteRepo.Delete(c.Context(), note.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete note"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// loadAccessibleNote resolves the note and checks team access through the
// note's team, since note routes are not nested under /teams. Like
// requireTeamAccess, it writes the error response itself on denial and
// reports ok=false; callers return nil without touching the note.
func (h *NoteHandler) loadAccessibleNote(c *fiber.Ctx) (note *models.PracticeNote, ok bool) {
	userID, err := parseUserID(c)
	if err != nil {
		c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		return nil, false
	}

	noteID, err := parseIDParam(c, "id")
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid note id"})
		return nil, false
	}

	note, err = h.noteRepo.GetByID(c.Context(), noteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Note not found"})
			return nil, false
		}
		c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load note"})
		return nil, false
	}

	hasAccess, err := h.teamRepo.HasAccess(c.Context(), note.TeamID, userID)
	if err != nil {
		c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check team access"})
		return nil, false
	}
	if !hasAccess {
		c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		return nil, false
	}

	return note, true
}
