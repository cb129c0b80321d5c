// @title         careerly facade API
// @version       1.0
// @description   Local facade over the career guidance chat and resume analysis workflows.
// @BasePath      /api/v1
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token. Both "Bearer <JWT>" and "<JWT>" are accepted.
package main

import (
	"context"
	"log"
	"time"

	_ "github.com/Anaswara-jk/Careerly/docs"
	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	// internal imports
	"github.com/Anaswara-jk/Careerly/api/http"
	"github.com/Anaswara-jk/Careerly/api/http/handlers"
	"github.com/Anaswara-jk/Careerly/pkg/chat"
	"github.com/Anaswara-jk/Careerly/pkg/config"
	"github.com/Anaswara-jk/Careerly/pkg/guide"
	"github.com/Anaswara-jk/Careerly/pkg/health"
	"github.com/Anaswara-jk/Careerly/pkg/health/checkers"
	"github.com/Anaswara-jk/Careerly/pkg/history"
	"github.com/Anaswara-jk/Careerly/pkg/logger"
	"github.com/Anaswara-jk/Careerly/pkg/remote/httpapi"
	pgrepo "github.com/Anaswara-jk/Careerly/pkg/repository/postgres"
	"github.com/Anaswara-jk/Careerly/pkg/security/jwt"
	"github.com/Anaswara-jk/Careerly/pkg/storage/postgres"
)

func main() {
	// Load configuration from env/.env and CONFIG_FILE
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	app := fiber.New(fiber.Config{BodyLimit: int(cfg.MaxUploadBytes) + 1<<20})

	var tokens httpapi.TokenSource
	if cfg.RemoteJWTSecret != "" {
		tokens = jwt.NewGenerator(cfg.RemoteJWTSecret, cfg.RemoteJWTIssuer, "careerly-server",
			time.Duration(cfg.RemoteJWTTTLMinutes)*time.Minute)
	}
	api := httpapi.New(cfg.RemoteBaseURL, cfg.RemoteTimeout, tokens)

	readinessCheckers := []health.Checker{checkers.NewRemoteChecker(api)}

	// History goes to PostgreSQL when configured, otherwise stays in memory.
	var hist history.Repository = history.NewMemory()
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer pool.Close()
		repo, err := pgrepo.NewHistoryRepository(pool)
		if err != nil {
			log.Fatalf("init history repo: %v", err)
		}
		hist = repo
		readinessCheckers = append(readinessCheckers, checkers.NewHistoryDBChecker(pool))
	}

	coord := guide.New(api, guide.Config{
		Chat: chat.Config{
			TypingMin:       cfg.ChatTypingMin,
			TypingMax:       cfg.ChatTypingMax,
			EscalationDelay: cfg.ChatEscalationDelay,
		},
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, hist)

	// JWT auth middleware for the facade, if a secret is configured
	var authMW fiber.Handler
	if cfg.FacadeJWTSecret != "" {
		authMW = jwt.NewAuthMiddleware(cfg.FacadeJWTSecret, cfg.FacadeJWTIssuer)
	}

	http.Register(app, http.Handlers{
		Health:  handlers.NewHealthHandler(health.NewService(readinessCheckers...)),
		View:    handlers.NewViewHandler(coord),
		Resume:  handlers.NewResumeHandler(coord, cfg.MaxUploadBytes, cfg.UploadDir),
		Chat:    handlers.NewChatHandler(coord),
		History: handlers.NewHistoryHandler(hist),
	}, authMW)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Start server
	port := cfg.Port
	log.Printf("HTTP server listening on :%s (remote %s)", port, cfg.RemoteBaseURL)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
