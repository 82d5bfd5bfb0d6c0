package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "auth-api/docs"
)

// Routes builds the router. The auth actions are served both under /auth and
// at the bare action path, the latter matching a single-function deployment
// where the action is the whole path.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(CORSMiddleware())

	r.NotFound(s.NotFoundHandler)
	r.MethodNotAllowed(s.NotFoundHandler)

	r.Get("/health", s.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Group(s.authRoutes)
	r.Route("/auth", s.authRoutes)

	return r
}

func (s *Server) authRoutes(r chi.Router) {
	r.Options("/*", s.PreflightHandler)
	r.Post("/register", s.RegisterHandler)
	r.Post("/login", s.LoginHandler)
	r.Post("/logout", s.LogoutHandler)
	r.Get("/me", s.GetCurrentUserHandler)
	r.With(s.SessionMiddleware).Get("/sessions", s.ListSessionsHandler)
}
