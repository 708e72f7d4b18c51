package cmd

import (
	"github.com/spf13/cobra"

	"github.com/timvw/workmux/internal/dashboard"
)

var flagDashTheme string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive view of all registered agents",
	Long: `Launch a terminal UI showing every agent in the registry with its
status icon, title, workdir, and how long ago the status changed. The
registry is re-read on the configured refresh interval, so updates from
other agent processes show up live.

Keys: j/k navigate, p preview the selected pane, r refresh, c clear the
selected pane's status icon, q quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		backend, err := getBackend(cfg)
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}

		theme := flagDashTheme
		if theme == "" {
			theme = cfg.Theme
		}

		d := &dashboard.Dashboard{
			Store:   store,
			Backend: backend,
			Refresh: cfg.RefreshDuration,
			Theme:   dashboard.ThemeByName(theme),
		}
		return d.Run(cmd.Context())
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&flagDashTheme, "theme", "", "color theme: dark, light (default: from config)")
	rootCmd.AddCommand(dashboardCmd)
}
