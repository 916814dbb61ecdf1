package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/sakti/internal/app"
	"github.com/frahmantamala/sakti/internal/core/database"
	"github.com/frahmantamala/sakti/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server serving the API and the dashboard pages`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer()
	},
}

func startHTTPServer() error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.Configure(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	application, err := app.New(cfg, db, log)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting HTTP server", "address", addr, "auth_mode", cfg.Auth.Mode)

	server := &http.Server{
		Addr:              addr,
		Handler:           application.Router(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			_ = application.Close()
			return fmt.Errorf("server failed to start: %w", err)
		}
	}

	if err := application.Close(); err != nil {
		log.Error("Database close error", "error", err)
	}
	slog.Info("Server stopped")
	return nil
}
