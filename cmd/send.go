package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <pane-id> <text>...",
	Short: "Type text into a pane and submit it",
	Long: `Send literal text to a pane followed by a submission keystroke, as if
the user typed it and pressed Enter. Multiple arguments are joined with
single spaces.`,
	Args: cobra.MinimumNArgs(2),
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

		paneID := args[0]
		text := strings.Join(args[1:], " ")
		if err := backend.SendKeys(ctx, paneID, text); err != nil {
			return fmt.Errorf("send to pane %q: %w", paneID, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
