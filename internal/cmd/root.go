package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/DevSymphony/goosectl/internal/config"
	"github.com/DevSymphony/goosectl/internal/goosed"
	"github.com/DevSymphony/goosectl/internal/logger"
)

// Global flags
var (
	verbose   bool
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "goosectl",
	Short: "goosectl - command-line companion for the goose agent backend",
	Long: `goosectl drives a running goosed backend from the terminal.

Features:
  - List the LLM providers and models the backend supports
  - Initialize an agent with a provider and model
  - Attach builtin and deep-linked extensions
  - Manage extension settings and probe stdio extensions`,
	SilenceUsage: true,
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(extensionsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statusCmd)
}

// app bundles what most commands need: merged config, logger and client.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *goosed.Client
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.GetLogLevel()
	if logLevel != "" {
		level = logLevel
	}
	if verbose {
		level = "debug"
	}
	format := cfg.GetLogFormat()
	if logFormat != "" {
		format = logFormat
	}

	log, err := logger.Stderr(level, format)
	if err != nil {
		return nil, err
	}

	client := goosed.NewClient(cfg.GetBaseURL(),
		goosed.WithSecretKey(cfg.SecretKey),
		goosed.WithTimeout(cfg.GetHTTPTimeout()),
		goosed.WithLogger(log),
	)

	log.Debug().Str("base_url", cfg.GetBaseURL()).Msg("backend client ready")

	return &app{cfg: cfg, log: log, client: client}, nil
}
