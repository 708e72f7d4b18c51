package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/workmux/internal/mux"
)

var (
	flagOpenPrefix string
	flagOpenDir    string
	flagOpenAfter  string
)

var openCmd = &cobra.Command{
	Use:   "open <name>",
	Short: "Open a new agent window",
	Long: `Create a new window (tmux window, WezTerm tab, kitty tab) named
<prefix><name> without stealing focus, and print the id of its pane.

The window is created in the background so the caller's pane stays active.
Use --after to hint placement next to an existing window (tmux only; other
backends append).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		backend, err := getBackend(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := opContext(cmd, cfg)
		defer cancel()

		paneID, err := backend.CreateWindow(ctx, mux.WindowRequest{
			Prefix:      flagOpenPrefix,
			Name:        args[0],
			Dir:         flagOpenDir,
			AfterWindow: flagOpenAfter,
		})
		if err != nil {
			return fmt.Errorf("open window %q: %w", args[0], err)
		}

		fmt.Println(paneID)
		return nil
	},
}

func init() {
	openCmd.Flags().StringVar(&flagOpenPrefix, "prefix", "", "window name prefix")
	openCmd.Flags().StringVar(&flagOpenDir, "dir", "", "working directory for the new window")
	openCmd.Flags().StringVar(&flagOpenAfter, "after", "", "place the window after this window name")
	rootCmd.AddCommand(openCmd)
}
