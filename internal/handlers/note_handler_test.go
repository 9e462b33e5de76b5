package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arsalan-h/CourtAppBack/internal/models"
	"github.com/arsalan-h/CourtAppBack/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type stubNoteStore struct {
	note   *models.PracticeNote
	getErr error

	createCalls int
	updateCalls int
	deleteCalls int
}

func (s *stubNoteStore) Create(_ context.Context, input repository.CreateNoteInput) (*models.PracticeNote, error) {
	s.createCalls++
	return &models.PracticeNote{ID: 1, TeamID: input.TeamID, AuthorID: input.AuthorID, Body: input.Body}, nil
}

func (s *stubNoteStore) GetByID(_ context.Context, _ int64) (*models.PracticeNote, error) {
	return s.note, s.getErr
}

func (s *stubNoteStore) ListByTeam(_ context.Context, _ int64) ([]models.PracticeNote, error) {
	return nil, nil
}

func (s *stubNoteStore) Update(_ context.Context, noteID int64, body string) (*models.PracticeNote, error) {
	s.updateCalls++
	return &models.PracticeNote{ID: noteID, Body: body}, nil
}

func (s *stubNoteStore) Delete(_ context.Context, _ int64) error {
	s.deleteCalls++
	return nil
}

func newNoteTestApp(handler *NoteHandler, userID string) *fiber.App {
	app := fiber.New()
	if userID != "" {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user_id", userID)
			c.Locals("role", "coach")
			return c.Next()
		})
	}
	app.Post("/api/v1/teams/:teamId/notes", handler.CreateNote)
	app.Get("/api/v1/teams/:teamId/notes", handler.ListNotes)
	app.Put("/api/v1/notes/:id", handler.UpdateNote)
	app.Delete("/api/v1/notes/:id", handler.DeleteNote)
	return app
}

func TestCreateNoteDeniedWithoutTeamAccessCreatesNothing(t *testing.T) {
	store := &stubNoteStore{}
	handler := &NoteHandler{noteRepo: store, teamRepo: &stubTeamAccess{hasAccess: false}}

	app := newNoteTestApp(handler, "42")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams/5/notes", strings.NewReader(`{
		"practice_date": "2026-02-10",
		"body": "worked on zone defense"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if store.createCalls != 0 {
		t.Fatalf("store must not be reached on a denied request, got %d create calls", store.createCalls)
	}
}

func TestCreateNoteReturnsUnauthorizedWithoutUser(t *testing.T) {
	store := &stubNoteStore{}
	handler := &NoteHandler{noteRepo: store, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newNoteTestApp(handler, "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams/5/notes", strings.NewReader(`{
		"practice_date": "2026-02-10",
		"body": "worked on zone defense"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if store.createCalls != 0 {
		t.Fatalf("store must not be reached without a user, got %d create calls", store.createCalls)
	}
}

func TestUpdateNoteReturnsNotFoundForUnknownNote(t *testing.T) {
	store := &stubNoteStore{getErr: pgx.ErrNoRows}
	handler := &NoteHandler{noteRepo: store, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newNoteTestApp(handler, "42")
	req := httptest.NewRequest(http.MethodPut, "/api/v1/notes/999", strings.NewReader(`{"body": "updated"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if store.updateCalls != 0 {
		t.Fatalf("unknown note must not be updated, got %d update calls", store.updateCalls)
	}
}

func TestDeleteNoteDeniedForOtherTeamsNote(t *testing.T) {
	store := &stubNoteStore{note: &models.PracticeNote{ID: 3, TeamID: 9, Body: "scrimmage recap"}}
	handler := &NoteHandler{noteRepo: store, teamRepo: &stubTeamAccess{hasAccess: false}}

	app := newNoteTestApp(handler, "42")
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/notes/3", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if store.deleteCalls != 0 {
		t.Fatalf("note must not be deleted on a denied request, got %d delete calls", store.deleteCalls)
	}
}
