package routes

import (
	"github.com/arsalan-h/CourtAppBack/internal/config"
	"github.com/arsalan-h/CourtAppBack/internal/handlers"
	"github.com/arsalan-h/CourtAppBack/internal/middleware"
	"github.com/arsalan-h/CourtAppBack/internal/repository"
	"github.com/arsalan-h/CourtAppBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	balanceRepo := repository.NewBalanceRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	ledgerService := services.NewLedgerService(db, balanceRepo, transactionRepo, playerRepo)
	attendanceService := services.NewAttendanceService(attendanceRepo, playerRepo, ledgerService)
	paymentService := services.NewPaymentService(paymentRepo, playerRepo, ledgerService)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	teamHandler := handlers.NewTeamHandler(teamRepo, userRepo)
	playerHandler := handlers.NewPlayerHandler(playerRepo, teamRepo)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService, teamRepo)
	paymentHandler := handlers.NewPaymentHandler(paymentService, teamRepo)
	noteHandler := handlers.NewNoteHandler(noteRepo, teamRepo)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, teamRepo)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	teams := authProtected.Group("/teams")
	teams.Post("", teamHandler.CreateTeam)
	teams.Get("", teamHandler.ListTeams)
	teams.Get("/:teamId", teamHandler.GetTeam)
	teams.Post("/:teamId/coaches", teamHandler.AddCoach)

	teams.Post("/:teamId/players", playerHandler.CreatePlayer)
	teams.Get("/:teamId/players", playerHandler.ListPlayers)
	teams.Get("/:teamId/players/:playerId", playerHandler.GetPlayer)
	teams.Put("/:teamId/players/:playerId", playerHandler.UpdatePlayer)
	teams.Delete("/:teamId/players/:playerId", playerHandler.DeletePlayer)

	teams.Post("/:teamId/attendance", attendanceHandler.MarkAttendance)
	teams.Get("/:teamId/attendance", attendanceHandler.ListAttendance)

	teams.Post("/:teamId/payments", paymentHandler.RecordPayment)
	teams.Get("/:teamId/payments", paymentHandler.ListPayments)

	teams.Post("/:teamId/notes", noteHandler.CreateNote)
	teams.Get("/:teamId/notes", noteHandler.ListNotes)

	notes := authProtected.Group("/notes")
	notes.Put("/:id", noteHandler.UpdateNote)
	notes.Delete("/:id", noteHandler.DeleteNote)

	teams.Get("/:teamId/players/:playerId/balance", ledgerHandler.GetPlayerLedger)
	teams.Put("/:teamId/players/:playerId/balance", ledgerHandler.SetBalance)
	teams.Get("/:teamId/balances", ledgerHandler.GetTeamBalances)
	teams.Get("/:teamId/transactions", ledgerHandler.ListTransactions)
}
