package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagCaptureLines int

var captureCmd = &cobra.Command{
	Use:   "capture <pane-id>",
	Short: "Print the recent content of a pane",
	Long: `Capture the last lines of a pane's content and print them to stdout.

This is pure transport: no interpretation of the content. An unreachable
or missing pane exits non-zero without output.`,
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

		content, ok := backend.CapturePane(ctx, args[0], flagCaptureLines)
		if !ok {
			return fmt.Errorf("pane %q unavailable", args[0])
		}
		fmt.Fprint(os.Stdout, content)
		return nil
	},
}

func init() {
	captureCmd.Flags().IntVar(&flagCaptureLines, "lines", 200, "maximum number of trailing lines")
	rootCmd.AddCommand(captureCmd)
}
