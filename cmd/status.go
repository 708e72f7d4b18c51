package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/workmux/internal/agent"
	"github.com/timvw/workmux/internal/mux"
	telem "github.com/timvw/workmux/internal/otel"
	"github.com/timvw/workmux/internal/state"
)

var (
	flagStatusTitle string
	flagStatusTab   bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report or clear the calling agent's status",
}

var statusSetCmd = &cobra.Command{
	Use:   "set <working|waiting|done>",
	Short: "Record the agent's status for the current pane",
	Long: `Persist the agent's status in the registry and render the matching
status icon onto the current pane's title.

The registry write is mandatory; the visual indicator is best-effort and
never fails the command. Must run inside a multiplexer pane.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := state.ParseStatus(args[0])
		if err != nil {
			return err
		}

		reporter, tel, err := newReporter(cmd)
		if err != nil {
			return err
		}
		if tel != nil {
			defer tel.Shutdown(cmd.Context())
		}
		reporter.Tab = flagStatusTab

		var title *string
		if cmd.Flags().Changed("title") {
			title = &flagStatusTitle
		}

		rec, err := reporter.SetStatus(cmd.Context(), st, title)
		if err != nil {
			return err
		}
		if flagVerbose {
			fmt.Fprintf(os.Stderr, "recorded %s as %s\n", rec.Key, rec.Status)
		}
		return nil
	},
}

var statusClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the status icon from the current pane",
	Long: `Clear the visual status indicator on the current pane. The registry
record is kept so the agent stays visible on the dashboard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reporter, tel, err := newReporter(cmd)
		if err != nil {
			return err
		}
		if tel != nil {
			defer tel.Shutdown(cmd.Context())
		}
		return reporter.ClearStatus(cmd.Context())
	},
}

// newReporter wires backend, store, and telemetry into a Reporter.
func newReporter(cmd *cobra.Command) (*agent.Reporter, *telem.Telemetry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	backend, err := getBackend(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	if tel := initTelemetry(cmd.Context(), cfg); tel != nil {
		reporter := agent.NewReporter(mux.WithMetrics(backend, tel.Metrics), store)
		reporter.Metrics = tel.Metrics
		return reporter, tel, nil
	}
	return agent.NewReporter(backend, store), nil, nil
}

func init() {
	statusSetCmd.Flags().StringVar(&flagStatusTitle, "title", "", "task title to record alongside the status")
	statusSetCmd.Flags().BoolVar(&flagStatusTab, "tab", false, "also set the containing window/tab title")
	statusCmd.AddCommand(statusSetCmd)
	statusCmd.AddCommand(statusClearCmd)
	rootCmd.AddCommand(statusCmd)
}
