package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marquinacarlos/portablogio-backend/internal/config"
	"github.com/marquinacarlos/portablogio-backend/internal/middleware"
)

// Dependencies are the collaborators the router hands to its handlers.
type Dependencies struct {
	Posts    PostStore
	Projects ProjectStore
	Services ServiceStore
	Auth     Authenticator
	Tokens   middleware.TokenVerifier
	Contact  ContactSender
	DB       Pinger
}

// NewRouter builds the HTTP routes. Everything except /health and /metrics
// lives under /api/v1.
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.Server.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", Health(deps.DB))
	r.Handle("/metrics", promhttp.Handler())

	window := cfg.RateLimit.Window
	if window <= 0 {
		window = time.Minute
	}
	requireToken := middleware.RequireToken(deps.Tokens)

	posts := NewPostsHandler(deps.Posts)
	projects := NewProjectsHandler(deps.Projects)
	services := NewServicesHandler(deps.Services)
	authHandler := NewAuthHandler(deps.Auth)
	contactHandler := NewContactHandler(deps.Contact)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimit.Global, window))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(cfg.RateLimit.Login, window)).Post("/login", authHandler.Login)
			if cfg.Auth.RegistrationEnabled {
				r.With(middleware.RateLimit(cfg.RateLimit.Login, window)).Post("/register", authHandler.Register)
			}
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.ListPublic)
			r.With(requireToken).Get("/admin", posts.ListAdmin)
			r.With(requireToken).Post("/", posts.Create)
			r.With(requireToken).Put("/{slug}", posts.Update)
			r.With(requireToken).Delete("/{slug}", posts.Delete)
			r.Get("/{slug}", posts.GetBySlug)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projects.List)
			r.With(requireToken).Post("/", projects.Create)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", services.List)
			r.With(requireToken).Post("/", services.Create)
		})

		r.With(middleware.RateLimit(cfg.RateLimit.Contact, window)).Post("/contact", contactHandler.Send)
	})

	return r
}
