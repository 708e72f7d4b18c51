package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var flagAgentsJSON bool

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List all registered agents",
	Long: `List every agent record in the registry: pane, status, title, workdir,
and when the status last changed. Damaged records are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}

		agents, err := store.ListAll()
		if err != nil {
			return err
		}

		if flagAgentsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(agents)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PANE\tSTATUS\tTITLE\tWORKDIR\tCHANGED")
		for _, a := range agents {
			changed := ""
			if a.StatusChangedAt != nil {
				changed = a.StatusChangedAt.Local().Format(time.RFC3339)
			}
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\n",
				a.Key, cfg.IconFor(a.Status), a.Status, a.Title, a.Workdir, changed)
		}
		return w.Flush()
	},
}

func init() {
	agentsCmd.Flags().BoolVar(&flagAgentsJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(agentsCmd)
}
