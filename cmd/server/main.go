// @title           Auth API
// @version         1.0
// @description     Session-token authentication: register, login, logout and current user lookup.
// @host            localhost:8080
// @schemes         http https
// @BasePath        /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"auth-api/internal/api"
	"auth-api/internal/config"
	"auth-api/internal/database"
	"auth-api/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "info", "text").Error(context.Background(), "cannot load configuration", "err", err)
		return err
	}

	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := pgxpool.New(ctx, cfg.DB.Source)
	if err != nil {
		logger.Error(ctx, "cannot connect to database", "err", err)
		return err
	}
	defer dbpool.Close()

	if err := dbpool.Ping(ctx); err != nil {
		logger.Error(ctx, "cannot ping database", "err", err)
		return err
	}
	logger.Info(ctx, "connected to database")

	if err := database.Migrate(ctx, dbpool); err != nil {
		logger.Error(ctx, "cannot migrate database", "err", err)
		return err
	}

	store := database.NewStore(dbpool)
	server := api.NewServer(cfg, store, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "starting server", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error(ctx, "server failed", "err", err)
			return err
		}
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "graceful shutdown failed", "err", err)
		return err
	}
	return nil
}
