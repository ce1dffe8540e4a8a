package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benaskins/ztop/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a config file",
	Long:  "Parse and validate a YAML config file. Checks the given file or the default (~/.ztop/config.yaml).",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")

	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}

	cfg, err := config.Load(path)
	if jsonOut {
		if err != nil {
			_ = printJSON(map[string]any{"path": path, "valid": false, "error": err.Error()})
			return err
		}
		return printJSON(map[string]any{"path": path, "valid": true, "config": cfg})
	}
	if err != nil {
		return err
	}

	fmt.Printf("OK    %s\n", path)
	fmt.Printf("      refresh_interval=%s stop_timeout=%s buffer_lines=%d pty=%t\n",
		cfg.RefreshInterval, cfg.StopTimeout, cfg.BufferLines, cfg.PTY)
	return nil
}
