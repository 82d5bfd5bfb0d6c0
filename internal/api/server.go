package api

import (
	"auth-api/internal/auth"
	"auth-api/internal/config"
	"auth-api/internal/database"
	"auth-api/internal/logging"
)

type Server struct {
	config *config.Config
	store  *database.Store
	auth   *auth.Service
	log    logging.Logger
}

func NewServer(cfg *config.Config, store *database.Store, log logging.Logger) *Server {
	svc := auth.NewService(store, auth.Options{
		SessionTTL:        cfg.Auth.SessionTTL,
		MinPasswordLength: cfg.Auth.MinPasswordLength,
		CookieName:        cfg.Auth.CookieName,
	})
	return &Server{
		config: cfg,
		store:  store,
		auth:   svc,
		log:    log,
	}
}
