package main

import (
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/benaskins/ztop/internal/dashboard"
)

type paneResult struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Command   string `json:"command"`
	Path      string `json:"path,omitempty"`
	Available bool   `json:"available"`
}

var panesCmd = &cobra.Command{
	Use:   "panes",
	Short: "List the monitors and whether they are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")

		var results []paneResult
		for _, def := range dashboard.Layout() {
			r := paneResult{
				ID:      def.ID.String(),
				Label:   def.Label,
				Command: def.Command.String(),
			}
			if path, err := exec.LookPath(def.Command.Path); err == nil {
				r.Path = path
				r.Available = true
			}
			results = append(results, r)
		}

		if jsonOut {
			return printJSON(results)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PANE\tLABEL\tCOMMAND\tPATH")
		for _, r := range results {
			path := r.Path
			if !r.Available {
				path = "not found"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Label, r.Command, path)
		}
		return w.Flush()
	},
}

func init() {
	panesCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(panesCmd)
}
