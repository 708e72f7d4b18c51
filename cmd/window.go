package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagWindowPrefix string

var selectCmd = &cobra.Command{
	Use:   "select <name>",
	Short: "Focus the window named <prefix><name>",
	Args:  cobra.ExactArgs(1),
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

		if err := backend.SelectWindow(ctx, flagWindowPrefix, args[0]); err != nil {
			return fmt.Errorf("select window %q: %w", flagWindowPrefix+args[0], err)
		}
		return nil
	},
}

var killCmd = &cobra.Command{
	Use:   "kill <full-name>",
	Short: "Close the window with the given full name",
	Long: `Close a window by its full name, prefix included. Killing a window
does not touch the registry; stale records are the dashboard's to show
and the operator's to prune.`,
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

		if err := backend.KillWindow(ctx, args[0]); err != nil {
			return fmt.Errorf("kill window %q: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	selectCmd.Flags().StringVar(&flagWindowPrefix, "prefix", "", "window name prefix")
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(killCmd)
}
