// Command function serves the auth API as a cloud function. Each event is a
// JSON object read from stdin; each response is written to stdout as one
// JSON line. Logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"auth-api/internal/api"
	"auth-api/internal/config"
	"auth-api/internal/database"
	"auth-api/internal/gateway"
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

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := pgxpool.New(ctx, cfg.DB.Source)
	if err != nil {
		logger.Error(ctx, "cannot connect to database", "err", err)
		return err
	}
	defer dbpool.Close()

	if err := database.Migrate(ctx, dbpool); err != nil {
		logger.Error(ctx, "cannot migrate database", "err", err)
		return err
	}

	server := api.NewServer(cfg, database.NewStore(dbpool), logger)
	adapter := gateway.NewAdapter(server.Routes())

	if err := serve(ctx, adapter, os.Stdin, os.Stdout); err != nil {
		logger.Error(ctx, "event loop failed", "err", err)
		return err
	}
	return nil
}

type eventHandler interface {
	Handle(ctx context.Context, event gateway.Event) (*gateway.Response, error)
}

// serve answers events from r until r is exhausted or ctx is done.
func serve(ctx context.Context, h eventHandler, r io.Reader, w io.Writer) error {
	dec := json.NewDecoder(r)
	enc := json.NewEncoder(w)

	for ctx.Err() == nil {
		var event gateway.Event
		if err := dec.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		resp, err := h.Handle(ctx, event)
		if err != nil {
			return err
		}
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return ctx.Err()
}
