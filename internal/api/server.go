// Package api wires the Chi router, middleware stack, and HTTP handlers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/Ahssan23/medication-tracker/internal/api/handler"
	"github.com/Ahssan23/medication-tracker/internal/auth"
	"github.com/Ahssan23/medication-tracker/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and
// routes. metricsHandler may be nil to omit the /metrics endpoint.
func NewRouter(h *handler.Handler, tokens *auth.TokenService, cfg *config.Config, metricsHandler http.Handler) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Process-Time"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	requireAuth := AuthMiddleware(tokens)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
	})

	// Prometheus metrics
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Auth (public)
		r.Post("/auth/signup", h.Signup)
		r.Post("/auth/login", h.Login)

		// Push subscription
		r.Get("/subscribe/vapid", h.VAPIDPublicKey)
		r.With(requireAuth).Post("/subscribe", h.Subscribe)

		// Medicines (authenticated, owner-scoped)
		r.Route("/medicines", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", h.ListMedicines)
			r.Post("/", h.AddMedicine)
			r.Put("/{id}", h.UpdateMedicine)
			r.Delete("/{id}", h.DeleteMedicine)
		})
	})

	return r
}
