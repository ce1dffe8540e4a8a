package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "ztop",
	Short:        "Run four system monitors side by side in one terminal",
	Long:         "Runs htop sorted by CPU and by memory, mactop and ctop, and shows their live output in a 2x2 grid. Press q or ctrl+c to quit.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runDashboard,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
