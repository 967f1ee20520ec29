package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/registre/server/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile   string
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "server",
		Short: "Registre server - person registry backend",
		Long: `Registre server exposes a JSON API over a person registry.

The server supports:
- CRUD operations on person records backed by SQLite
- Cookie-based sessions with an identity-guarded area
- Per-client rate limiting and CORS for browser clients`,
		// Running the bare binary starts the server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command. Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load before reading configuration (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console) (default: json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(healthcheckCmd)
}

// loadConfig reads the optional env file, then the environment, then lets
// persistent flags override what they cover.
func loadConfig() (config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return config.Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		// A missing default .env is not an error.
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}
