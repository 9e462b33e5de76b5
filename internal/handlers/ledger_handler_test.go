package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arsalan-h/CourtAppBack/internal/models"
	"github.com/arsalan-h/CourtAppBack/internal/repository"
	"github.com/arsalan-h/CourtAppBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type stubTeamAccess struct {
	hasAccess bool
	err       error

	lastTeamID int64
	lastUserID int64
}

func (s *stubTeamAccess) HasAccess(_ context.Context, teamID, userID int64) (bool, error) {
	s.lastTeamID = teamID
	s.lastUserID = userID
	return s.hasAccess, s.err
}

type stubLedgerService struct {
	setResult    *services.BalanceMutation
	setErr       error
	ledgerResult *models.PlayerLedger
	ledgerErr    error
	teamResult   []models.SessionBalance
	teamErr      error
	listResult   []models.SessionTransaction
	listTotal    int
	listErr      error

	lastActorID    int64
	lastTeamID     int64
	lastPlayerID   int64
	lastSetInput   services.SetBalanceInput
	lastListFilter repository.TransactionListFilter
}

func (s *stubLedgerService) SetBalance(_ context.Context, actorID, teamID, playerID int64, input services.SetBalanceInput) (*services.BalanceMutation, error) {
	s.lastActorID = actorID
	s.lastTeamID = teamID
	s.lastPlayerID = playerID
	s.lastSetInput = input
	return s.setResult, s.setErr
}

func (s *stubLedgerService) PlayerLedger(_ context.Context, teamID, playerID int64) (*models.PlayerLedger, error) {
	s.lastTeamID = teamID
	s.lastPlayerID = playerID
	return s.ledgerResult, s.ledgerErr
}

func (s *stubLedgerService) TeamBalances(_ context.Context, teamID int64) ([]models.SessionBalance, error) {
	s.lastTeamID = teamID
	return s.teamResult, s.teamErr
}

func (s *stubLedgerService) ListTransactions(_ context.Context, filter repository.TransactionListFilter) ([]models.SessionTransaction, int, error) {
	s.lastListFilter = filter
	return s.listResult, s.listTotal, s.listErr
}

func newLedgerTestApp(handler *LedgerHandler, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", "coach")
		return c.Next()
	})
	app.Get("/api/v1/teams/:teamId/players/:playerId/balance", handler.GetPlayerLedger)
	app.Put("/api/v1/teams/:teamId/players/:playerId/balance", handler.SetBalance)
	app.Get("/api/v1/teams/:teamId/balances", handler.GetTeamBalances)
	app.Get("/api/v1/teams/:teamId/transactions", handler.ListTransactions)
	return app
}

func TestSetBalanceOverridesAndReportsChange(t *testing.T) {
	service := &stubLedgerService{
		setResult: &services.BalanceMutation{
			Balance: &models.SessionBalance{
				ID:                3,
				PlayerID:          12,
				TeamID:            5,
				TotalSessions:     5,
				UsedSessions:      3,
				RemainingSessions: 2,
			},
			Transaction: &models.SessionTransaction{
				ID:            44,
				PlayerID:      12,
				TeamID:        5,
				SessionChange: -5,
				Reason:        services.ReasonManualAdjustment,
			},
		},
	}
	access := &stubTeamAccess{hasAccess: true}
	handler := &LedgerHandler{service: service, teamRepo: access}

	app := newLedgerTestApp(handler, "42")
	req := httptest.NewRequest(http.MethodPut, "/api/v1/teams/5/players/12/balance", strings.NewReader(`{
		"total_sessions": 5,
		"expiration_date": "2026-06-30",
		"notes": "package downgrade"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 || service.lastTeamID != 5 || service.lastPlayerID != 12 {
		t.Fatalf("unexpected forwarded ids: actor=%d team=%d player=%d",
			service.lastActorID, service.lastTeamID, service.lastPlayerID)
	}
	if service.lastSetInput.TotalSessions != 5 {
		t.Fatalf("expected total 5, got %d", service.lastSetInput.TotalSessions)
	}
	if service.lastSetInput.ExpirationDate == nil ||
		!service.lastSetInput.ExpirationDate.Equal(time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected expiration date: %v", service.lastSetInput.ExpirationDate)
	}

	var body struct {
		Balance       models.SessionBalance     `json:"balance"`
		Transaction   models.SessionTransaction `json:"transaction"`
		SessionChange int                       `json:"session_change"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Balance.RemainingSessions != 2 {
		t.Fatalf("expected remaining 2, got %d", body.Balance.RemainingSessions)
	}
	if body.SessionChange != -5 {
		t.Fatalf("expected session_change -5, got %d", body.SessionChange)
	}
}

func TestSetBalanceIgnoresClientRemainingSessions(t *testing.T) {
	service := &stubLedgerService{
		setResult: &services.BalanceMutation{
			Balance:     &models.SessionBalance{TotalSessions: 10, RemainingSessions: 10},
			Transaction: &models.SessionTransaction{SessionChange: 10, Reason: services.ReasonManualAdjustment},
		},
	}
	handler := &LedgerHandler{service: service, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newLedgerTestApp(handler, "42")
	req := httptest.NewRequest(http.MethodPut, "/api/v1/teams/5/players/12/balance", strings.NewReader(`{
		"total_sessions": 10,
		"remaining_sessions": 999
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastSetInput.UsedSessions != nil {
		t.Fatalf("expected no used override, got %v", *service.lastSetInput.UsedSessions)
	}
}

func TestSetBalanceRejectsNegativeTotal(t *testing.T) {
	service := &stubLedgerService{}
	handler := &LedgerHandler{service: service, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newLedgerTestApp(handler, "42")
	req := httptest.NewRequest(http.MethodPut, "/api/v1/teams/5/players/12/balance", strings.NewReader(`{
		"total_sessions": -1
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
	if service.lastSetInput.TotalSessions != 0 {
		t.Fatalf("service should not be called on invalid input")
	}
}

func TestSetBalanceRejectsMalformedExpirationDate(t *testing.T) {
	handler := &LedgerHandler{service: &stubLedgerService{}, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newLedgerTestApp(handler, "42")
	req := httptest.NewRequest(http.MethodPut, "/api/v1/teams/5/players/12/balance", strings.NewReader(`{
		"total_sessions": 5,
		"expiration_date": "30/06/2026"
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

func TestSetBalanceReturnsForbiddenWithoutTeamAccess(t *testing.T) {
	access := &stubTeamAccess{hasAccess: false}
	service := &stubLedgerService{}
	handler := &LedgerHandler{service: service, teamRepo: access}

	app := newLedgerTestApp(handler, "42")
	req := httptest.NewRequest(http.MethodPut, "/api/v1/teams/5/players/12/balance", strings.NewReader(`{"total_sessions": 5}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if access.lastTeamID != 5 || access.lastUserID != 42 {
		t.Fatalf("unexpected access check: team=%d user=%d", access.lastTeamID, access.lastUserID)
	}
	if service.lastActorID != 0 || service.lastSetInput.TotalSessions != 0 {
		t.Fatalf("service must not be reached on a denied request")
	}
}

func TestGetPlayerLedgerReturnsUnauthorizedWithoutUser(t *testing.T) {
	service := &stubLedgerService{}
	handler := &LedgerHandler{service: service, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := fiber.New()
	app.Get("/api/v1/teams/:teamId/players/:playerId/balance", handler.GetPlayerLedger)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/5/players/12/balance", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if service.lastPlayerID != 0 {
		t.Fatalf("service must not be reached without a user")
	}
}

func TestGetPlayerLedgerReturnsNullBalanceForUnfundedPlayer(t *testing.T) {
	service := &stubLedgerService{
		ledgerResult: &models.PlayerLedger{
			Balance:      nil,
			Transactions: []models.SessionTransaction{},
		},
	}
	handler := &LedgerHandler{service: service, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newLedgerTestApp(handler, "42")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/5/players/12/balance", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Balance      *models.SessionBalance      `json:"balance"`
		Transactions []models.SessionTransaction `json:"transactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Balance != nil {
		t.Fatalf("expected null balance, got %+v", body.Balance)
	}
	if body.Transactions == nil || len(body.Transactions) != 0 {
		t.Fatalf("expected empty transactions array, got %v", body.Transactions)
	}
}

func TestGetPlayerLedgerReturnsNotFoundForUnknownPlayer(t *testing.T) {
	service := &stubLedgerService{ledgerErr: services.ErrPlayerNotFound}
	handler := &LedgerHandler{service: service, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newLedgerTestApp(handler, "42")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/5/players/999/balance", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetTeamBalancesReturnsList(t *testing.T) {
	service := &stubLedgerService{
		teamResult: []models.SessionBalance{
			{PlayerID: 12, TotalSessions: 10, UsedSessions: 4, RemainingSessions: 6},
			{PlayerID: 13, TotalSessions: 8, UsedSessions: 8, RemainingSessions: 0},
		},
	}
	handler := &LedgerHandler{service: service, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newLedgerTestApp(handler, "42")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/5/balances", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Balances []models.SessionBalance `json:"balances"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(body.Balances))
	}
	if body.Balances[1].RemainingSessions != 0 {
		t.Fatalf("expected exhausted balance to report 0 remaining, got %d", body.Balances[1].RemainingSessions)
	}
}

func TestListTransactionsForwardsFilterAndPagination(t *testing.T) {
	service := &stubLedgerService{
		listResult: []models.SessionTransaction{
			{ID: 2, SessionChange: -1, Reason: services.ReasonAttendance},
			{ID: 1, SessionChange: 10, Reason: services.ReasonPayment},
		},
		listTotal: 27,
	}
	handler := &LedgerHandler{service: service, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newLedgerTestApp(handler, "42")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/5/transactions?player_id=12&page=2&limit=10", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastListFilter.TeamID != 5 {
		t.Fatalf("expected team 5, got %d", service.lastListFilter.TeamID)
	}
	if service.lastListFilter.PlayerID == nil || *service.lastListFilter.PlayerID != 12 {
		t.Fatalf("unexpected player filter: %v", service.lastListFilter.PlayerID)
	}
	if service.lastListFilter.Limit != 10 || service.lastListFilter.Offset != 10 {
		t.Fatalf("unexpected paging: limit=%d offset=%d", service.lastListFilter.Limit, service.lastListFilter.Offset)
	}

	var body struct {
		Transactions []models.SessionTransaction `json:"transactions"`
		Pagination   models.PaginationMeta       `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Pagination.Total != 27 || body.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination meta: %+v", body.Pagination)
	}
}

func TestListTransactionsRejectsBadPlayerFilter(t *testing.T) {
	handler := &LedgerHandler{service: &stubLedgerService{}, teamRepo: &stubTeamAccess{hasAccess: true}}

	app := newLedgerTestApp(handler, "42")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/5/transactions?player_id=abc", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMapLedgerErrorReturnsUnprocessableForMissingBalance(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return mapLedgerError(c, services.ErrNoBalance)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestMapLedgerErrorReturnsNotFoundForMissingRows(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return mapLedgerError(c, pgx.ErrNoRows)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestMapLedgerErrorDefaultsToInternalServerError(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return mapLedgerError(c, errors.New("boom"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}
