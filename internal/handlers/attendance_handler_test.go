package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arsalan-h/CourtAppBack/internal/models"
	"github.com/arsalan-h/CourtAppBack/internal/services"
	"github.com/gofiber/fiber/v2"
)

type stubAttendanceService struct {
	markResults []services.AttendanceResult
	markErr     error
	listResults []models.AttendanceRecord
	listErr     error

	lastActorID  int64
	lastTeamID   int64
	lastInput    services.MarkAttendanceInput
	lastListDate *time.Time
}

func (s *stubAttendanceService) MarkAttendance(_ context.Context, actorID, teamID int64, input services.MarkAttendanceInput) ([]services.AttendanceResult, error) {
	s.lastActorID = actorID
	s.lastTeamID = teamID
	s.lastInput = input
	return s.markResults, s.markErr
}

func (s *stubAttendanceService) ListAttendance(_ context.Context, teamID int64, practiceDate *time.Time) ([]models.AttendanceRecord, error) {
	s.lastTeamID = teamID
	s.lastListDate = practiceDate
	return s.listResults, s.listErr
}

func newAttendanceTestApp(handler *AttendanceHandler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		c.Locals("role", "coach")
		return c.Next()
	})
	app.Post("/api/v1/teams/:teamId/attendance", handler.MarkAttendance)
	app.Get("/api/v1/teams/:teamId/attendance", handler.ListAttendance)
	return app
}

func TestMarkAttendanceForwardsEntriesAndReportsConsumption(t *testing.T) {
	service := &stubAttendanceService{
		markResults: []services.AttendanceResult{
			{
				Record:          &models.AttendanceRecord{ID: 1, PlayerID: 12, Present: true},
				SessionConsumed: true,
				Balance:         &models.SessionBalance{PlayerID: 12, RemainingSessions: 4},
			},
			{
				Record:          &models.AttendanceRecord{ID: 2, PlayerID: 13, Present: false},
				SessionConsumed: false,
			},
		},
	}
	handler := &AttendanceHandler{service: service, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newAttendanceTestApp(handler)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams/5/attendance", strings.NewReader(`{
		"practice_date": "2026-02-10",
		"entries": [
			{"player_id": 12, "present": true, "consume_session": true},
			{"player_id": 13, "present": false, "consume_session": false}
		]
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 || service.lastTeamID != 5 {
		t.Fatalf("unexpected forwarded ids: actor=%d team=%d", service.lastActorID, service.lastTeamID)
	}
	if !service.lastInput.PracticeDate.Equal(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected practice date: %v", service.lastInput.PracticeDate)
	}
	if len(service.lastInput.Entries) != 2 || !service.lastInput.Entries[0].ConsumeSession {
		t.Fatalf("unexpected entries: %+v", service.lastInput.Entries)
	}

	var body struct {
		Attendance []services.AttendanceResult `json:"attendance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Attendance) != 2 {
		t.Fatalf("expected 2 results, got %d", len(body.Attendance))
	}
	if !body.Attendance[0].SessionConsumed || body.Attendance[0].Balance == nil {
		t.Fatalf("expected first entry to report consumption, got %+v", body.Attendance[0])
	}
	if body.Attendance[1].SessionConsumed {
		t.Fatalf("absent player must not consume a session")
	}
}

func TestMarkAttendanceRejectsMalformedDate(t *testing.T) {
	handler := &AttendanceHandler{service: &stubAttendanceService{}, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newAttendanceTestApp(handler)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams/5/attendance", strings.NewReader(`{
		"practice_date": "Feb 10",
		"entries": [{"player_id": 12, "present": true}]
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMarkAttendanceRejectsEmptyEntries(t *testing.T) {
	handler := &AttendanceHandler{service: &stubAttendanceService{}, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newAttendanceTestApp(handler)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams/5/attendance", strings.NewReader(`{
		"practice_date": "2026-02-10",
		"entries": []
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMarkAttendanceReturnsNotFoundForUnknownPlayer(t *testing.T) {
	service := &stubAttendanceService{markErr: services.ErrPlayerNotFound}
	handler := &AttendanceHandler{service: service, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newAttendanceTestApp(handler)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams/5/attendance", strings.NewReader(`{
		"practice_date": "2026-02-10",
		"entries": [{"player_id": 999, "present": true}]
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestMarkAttendanceDeniedWithoutTeamAccess(t *testing.T) {
	service := &stubAttendanceService{}
	handler := &AttendanceHandler{service: service, teamRepo: &stubTeamAccess{hasAccess: false}}

	app := newAttendanceTestApp(handler)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams/5/attendance", strings.NewReader(`{
		"practice_date": "2026-02-10",
		"entries": [{"player_id": 12, "present": true, "consume_session": true}]
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
	if service.lastActorID != 0 || len(service.lastInput.Entries) != 0 {
		t.Fatalf("service must not be reached on a denied request")
	}
}

func TestListAttendanceFiltersByDate(t *testing.T) {
	service := &stubAttendanceService{
		listResults: []models.AttendanceRecord{{ID: 1, PlayerID: 12, Present: true}},
	}
	handler := &AttendanceHandler{service: service, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newAttendanceTestApp(handler)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/5/attendance?date=2026-02-10", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastListDate == nil || !service.lastListDate.Equal(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date filter: %v", service.lastListDate)
	}
}
