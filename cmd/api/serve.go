package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"github.com/tsc11539/iaas-webhost/internal/config"
	httpx "github.com/tsc11539/iaas-webhost/internal/http"
	"github.com/tsc11539/iaas-webhost/internal/logger"
	"github.com/tsc11539/iaas-webhost/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closer, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()
	mysql.SetLogger(slog.NewLogLogger(log.Handler(), slog.LevelWarn))

	for _, w := range cfg.Warnings {
		log.Warn("configuration default applied", "warning", w)
	}

	db, err := store.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: httpx.NewRouter(httpx.Deps{
			Config: cfg,
			Store:  store.New(db),
			Logger: log,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "port", cfg.HTTPPort, "db_addr", cfg.DB.Addr(), "db_name", cfg.DB.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server ended")
	return nil
}
