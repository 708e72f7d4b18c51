package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var flagEnvJSON bool

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the detected multiplexer environment",
	Long: `Report which multiplexer backend workmux resolved from the environment,
whether its server is reachable, and the pane this process is running in
(if any).`,
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

		paneID, inPane := backend.CurrentPaneID(ctx)
		out := struct {
			Backend string `json:"backend"`
			Running bool   `json:"running"`
			PaneID  string `json:"pane_id,omitempty"`
		}{
			Backend: string(backend.Kind()),
			Running: backend.IsRunning(ctx),
			PaneID:  paneID,
		}

		if flagEnvJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		cmd.Printf("backend: %s\n", out.Backend)
		cmd.Printf("running: %v\n", out.Running)
		if inPane {
			cmd.Printf("pane:    %s\n", out.PaneID)
		} else {
			cmd.Println("pane:    (not inside a pane)")
		}
		return nil
	},
}

func init() {
	envCmd.Flags().BoolVar(&flagEnvJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(envCmd)
}
