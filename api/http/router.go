package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Anaswara-jk/Careerly/api/http/handlers"
)

// Handlers groups everything Register needs.
type Handlers struct {
	Health  *handlers.HealthHandler
	View    *handlers.ViewHandler
	Resume  *handlers.ResumeHandler
	Chat    *handlers.ChatHandler
	History *handlers.HistoryHandler
}

// Register wires all HTTP routes onto given Fiber app. authMW may be nil,
// leaving the facade open.
func Register(app *fiber.App, h Handlers, authMW fiber.Handler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", h.Health.Health)
	v1.Get("/ready", h.Health.Ready)

	protected := v1.Group("")
	if authMW != nil {
		protected.Use(authMW)
	}

	protected.Get("/view", h.View.Get)
	protected.Put("/view", h.View.Put)

	rg := protected.Group("/resume")
	rg.Get("", h.Resume.Get)
	rg.Post("/file", h.Resume.SelectFile)
	rg.Get("/preview", h.Resume.Preview)
	rg.Post("/analyze", h.Resume.Analyze)
	rg.Post("/reset", h.Resume.Reset)
	rg.Post("/ack", h.Resume.Acknowledge)

	cg := protected.Group("/chat")
	cg.Get("", h.Chat.Get)
	cg.Post("/open", h.Chat.Open)
	cg.Post("/messages", h.Chat.Send)
	cg.Post("/suggestions/:index", h.Chat.Suggestion)
	cg.Post("/reset", h.Chat.Reset)
	cg.Get("/summary", h.Chat.Summary)

	if h.History != nil {
		hg := protected.Group("/history")
		hg.Get("/analyses", h.History.Analyses)
		hg.Get("/transcripts", h.History.Transcripts)
	}
}
