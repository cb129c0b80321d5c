// Command cli is an interactive terminal client for the career guidance
// chat and resume analysis.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/Anaswara-jk/Careerly/pkg/chat"
	"github.com/Anaswara-jk/Careerly/pkg/config"
	"github.com/Anaswara-jk/Careerly/pkg/guide"
	"github.com/Anaswara-jk/Careerly/pkg/history"
	"github.com/Anaswara-jk/Careerly/pkg/logger"
	"github.com/Anaswara-jk/Careerly/pkg/remote/httpapi"
	pgrepo "github.com/Anaswara-jk/Careerly/pkg/repository/postgres"
	"github.com/Anaswara-jk/Careerly/pkg/security/jwt"
	"github.com/Anaswara-jk/Careerly/pkg/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.InitTo(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var tokens httpapi.TokenSource
	if cfg.RemoteJWTSecret != "" {
		tokens = jwt.NewGenerator(cfg.RemoteJWTSecret, cfg.RemoteJWTIssuer, "careerly-cli",
			time.Duration(cfg.RemoteJWTTTLMinutes)*time.Minute)
	}
	api := httpapi.New(cfg.RemoteBaseURL, cfg.RemoteTimeout, tokens)

	var hist history.Repository = history.NewMemory()
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer pool.Close()
		if hist, err = pgrepo.NewHistoryRepository(pool); err != nil {
			log.Fatalf("init history repo: %v", err)
		}
	}

	coord := guide.New(api, guide.Config{
		Chat: chat.Config{
			TypingMin:       cfg.ChatTypingMin,
			TypingMax:       cfg.ChatTypingMax,
			EscalationDelay: cfg.ChatEscalationDelay,
		},
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, hist)

	if err := newShell(coord, os.Stdout).run(ctx, os.Stdin); err != nil {
		log.Fatalf("cli: %v", err)
	}
}
