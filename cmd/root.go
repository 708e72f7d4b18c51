package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/workmux/internal/config"
	"github.com/timvw/workmux/internal/mux"
	telem "github.com/timvw/workmux/internal/otel"
	"github.com/timvw/workmux/internal/state"
)

// Version is the build version, overridden at link time.
var Version = "dev"

var (
	// Global flags.
	flagMux     string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "workmux",
	Short: "Uniform control surface for coding agents across tmux, WezTerm, and kitty",
	Long: `workmux gives coding agents one interface onto whichever terminal
multiplexer they happen to be running inside: tmux, WezTerm, or kitty.

It detects the surrounding multiplexer from the environment, drives it
through its native control CLI (tmux, wezterm cli, kitten @), and keeps a
durable on-disk registry of agent panes so their status survives across
processes and shows up in the shared dashboard.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMux, "mux", "", "multiplexer: tmux, wezterm, kitty (default: auto-detect)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "report config and telemetry wiring on stderr")
}

// loadConfig resolves defaults -> config file -> env vars.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if flagVerbose && cfg.ConfigFile != "" {
		fmt.Fprintf(os.Stderr, "config: loaded %s\n", cfg.ConfigFile)
	}
	return cfg, nil
}

// getBackend returns the explicitly requested or auto-detected backend.
// Flag beats config beats detection.
func getBackend(cfg *config.Config) (mux.Backend, error) {
	name := flagMux
	if name == "" {
		name = cfg.Mux
	}
	if name != "" {
		return mux.FromName(name)
	}
	return mux.New(mux.Detect()), nil
}

// openStore opens the agent registry at the configured or default location.
func openStore(cfg *config.Config) (*state.Store, error) {
	if cfg.StateDir != "" {
		return state.OpenAt(cfg.StateDir)
	}
	return state.Open()
}

// opContext bounds a one-shot multiplexer operation by the configured
// command timeout.
func opContext(cmd *cobra.Command, cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), cfg.CommandTimeoutDuration)
}

// initTelemetry initializes OTEL metrics. Returns nil when no endpoint is
// configured or init fails; callers treat a nil result as disabled.
func initTelemetry(ctx context.Context, cfg *config.Config) *telem.Telemetry {
	telem.Version = Version
	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: otel init failed: %v\n", err)
		return nil
	}
	return tel
}
