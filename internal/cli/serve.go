package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"SearchAPI/internal/config"
	"SearchAPI/internal/handler"
	"SearchAPI/internal/logger"
	"SearchAPI/internal/router"
	"SearchAPI/internal/search"
	"SearchAPI/internal/store"
)

const shutdownTimeout = 10 * time.Second

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default command)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg := config.LoadConfig()
	if err := logger.Init(cfg.LogDir); err != nil {
		return fmt.Errorf("log init failed: %w", err)
	}
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		logger.Error("backend_init_failed", map[string]any{"backend": cfg.Backend, "error": err.Error()})
		return err
	}
	defer closeBackend()
	logger.Info("backend_connected", map[string]any{"backend": cfg.Backend})

	reg, err := loadRegistry(ctx, cfg)
	if err != nil {
		logger.Error("registry_init_failed", map[string]any{"error": err.Error()})
		return err
	}
	logger.Info("registry_loaded", map[string]any{"entities": reg.Names()})

	svc := search.NewService[store.Row](reg, backend)
	routes, err := router.InitRoutes(cfg, handler.New(svc))
	if err != nil {
		logger.Error("router_init_failed", map[string]any{"error": err.Error()})
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_start", map[string]any{"port": cfg.Port})
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Starting server on port %s\n", cfg.Port)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_error", map[string]any{"error": err.Error()})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("server_shutdown", nil)
	return srv.Shutdown(shutdownCtx)
}
