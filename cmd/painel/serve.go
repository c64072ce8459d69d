package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cgdin/painel/internal/logging"
	"github.com/cgdin/painel/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	data, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		slog.Error("failed to open data source", "error", err)
		return err
	}
	defer closeSource()

	// Load once up front so a missing file shows in the startup log. The
	// server still starts and keeps retrying on every request.
	if snap, err := data.Snapshot(ctx); err != nil {
		slog.Warn("no data available yet", "error", err)
	} else {
		slog.Info("data loaded", "source", snap.Source, "rows", snap.Table.Len(), "snapshot_id", snap.ID)
	}

	server := web.NewServer(data, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		return err
	}
	slog.Info("server stopped")
	return nil
}
