package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/registre/server/internal/api"
	"github.com/registre/server/internal/auth"
	"github.com/registre/server/internal/config"
	"github.com/registre/server/internal/metrics"
	"github.com/registre/server/internal/storage/sqlite"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Server flags (override config/env)
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Registre HTTP server",
	Long: `Start the Registre HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables (or --env-file if provided)
- Open the SQLite store, creating and seeding it on first start
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9090

  # Start with debug logging
  server serve --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 3000)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Msg("starting Registre server")

	metrics.Init(Version, GitCommit, BuildDate)

	openCtx, openCancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := sqlite.Open(openCtx, cfg.Store.Path, logger)
	openCancel()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	repo, err := sqlite.NewRepository(db)
	if err != nil {
		return fmt.Errorf("storage init: %w", err)
	}

	manager, err := buildJWTManager(cfg.Auth, logger)
	if err != nil {
		return fmt.Errorf("identity init: %w", err)
	}

	creds, err := buildCredentials(cfg.Auth, logger)
	if err != nil {
		return fmt.Errorf("credentials init: %w", err)
	}

	router := api.NewRouter(cfg, logger, api.Dependencies{
		Repo:        repo,
		DB:          db,
		Manager:     manager,
		Credentials: creds,
	})
	defer router.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	shutdown(server, logger)
	return nil
}

// buildJWTManager prefers the realm file; the env secret is the fallback
// for deployments without one.
func buildJWTManager(cfg config.AuthConfig, logger zerolog.Logger) (*auth.JWTManager, error) {
	if cfg.RealmFile != "" {
		realm, err := auth.LoadRealm(cfg.RealmFile)
		if err != nil {
			return nil, fmt.Errorf("load realm %s: %w", cfg.RealmFile, err)
		}
		logger.Info().Str("realm", realm.Realm).Msg("identity realm loaded")
		return realm.Manager(), nil
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry, "registre"), nil
}

// buildCredentials hashes the bootstrap login pair at startup. Without one
// the login endpoint rejects everything, which is fine for deployments
// that only accept bearer tokens minted elsewhere.
func buildCredentials(cfg config.AuthConfig, logger zerolog.Logger) (*auth.Credentials, error) {
	if cfg.Username == "" || cfg.Password == "" {
		logger.Warn().Msg("AUTH_USERNAME/AUTH_PASSWORD not set; local login disabled")
		return nil, nil
	}
	return auth.NewCredentials(cfg.Username, cfg.Password)
}

func shutdown(server *http.Server, logger zerolog.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
