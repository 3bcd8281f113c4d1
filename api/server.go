/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/punch            The one action that matters
  /api/state            Renderable game state
  /api/upgrades/*       Upgrade listing and purchases
  /api/powerups/*       Offer listing and collection
  /api/achievements     Catalog with unlock status
  /api/prestige         Permanent-multiplier reset
  /api/export|import    Save transfer
  /api/reset            Full wipe

SECURITY NOTE:
  No authentication middleware. Single-profile game server.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/punch", h.Punch)
		r.Get("/state", h.GetState)

		r.Route("/upgrades", func(r chi.Router) {
			r.Get("/", h.ListUpgrades)
			r.Post("/{kind}", h.PurchaseUpgrade)
		})

		r.Route("/powerups", func(r chi.Router) {
			r.Get("/", h.ListPowerUps)
			r.Post("/{id}/collect", h.CollectPowerUp)
		})

		r.Get("/achievements", h.ListAchievements)
		r.Post("/prestige", h.Prestige)

		r.Get("/export", h.ExportSave)
		r.Post("/import", h.ImportSave)
		r.Post("/reset", h.ResetGame)
	})

	return r
}
