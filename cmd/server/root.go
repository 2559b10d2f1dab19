package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yourname/exercisetracker/internal"
	"github.com/yourname/exercisetracker/internal/api"
	"github.com/yourname/exercisetracker/internal/config"
	"github.com/yourname/exercisetracker/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "exercisetracker",
		Short:        "Exercise log HTTP API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.BindFlags(cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().Int("port", 3000, "port to listen on (env PORT)")
	cmd.Flags().String("storage", "memory", "storage backend: memory, file, postgres, sqlite (env STORAGE_BACKEND)")
	return cmd
}

func run(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := storage.New(ctx, cfg, logger)
	if err != nil {
		logger.Errorf("failed to init storage: %v", err)
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("failed to close storage: %v", err)
		}
	}()

	app := api.NewApp(logger, store, api.WithLocation(cfg.Location))
	router := api.NewRouter(app, api.RouterConfig{PublicDir: cfg.PublicDir, ViewsDir: cfg.ViewsDir})

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		logger.Errorf("failed to listen on %s: %v", cfg.Addr(), err)
		return err
	}
	logger.Infof("Your app is listening on port %d", ln.Addr().(*net.TCPAddr).Port)

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server stopped: %v", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
