package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/benaskins/ztop/internal/config"
	"github.com/benaskins/ztop/internal/dashboard"
	"github.com/benaskins/ztop/internal/driver"
	"github.com/benaskins/ztop/internal/logging"
	"github.com/benaskins/ztop/internal/render"
)

var (
	configPath string
	plainOut   bool
	usePTY     bool
	logFile    string
	logLevel   string
)

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", config.DefaultPath(), "path to config file")
	rootCmd.Flags().BoolVar(&plainOut, "plain", false, "print plain text blocks instead of the full-screen grid")
	rootCmd.Flags().BoolVar(&usePTY, "pty", false, "run monitors on a pseudo-terminal")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", `log file path, "-" for stderr (default ~/.ztop/ztop.log)`)
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("pty") {
		cfg.PTY = usePTY
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = logFile
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	logger, closer, err := logging.Setup(logging.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closer.Close()

	tty := term.IsTerminal(int(os.Stdout.Fd()))

	d := dashboard.New(cfg,
		dashboard.WithLauncher(newLauncher(cfg, tty)),
		dashboard.WithLogger(logger.With("component", "dashboard")),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh, stopSignals := dashboard.NotifySignals()
	defer stopSignals()
	go d.HandleSignals(ctx, sigCh)

	if configPath != "" {
		go func() {
			err := config.Watch(ctx, configPath, func(c *config.Config) {
				d.SetInterval(c.RefreshInterval.Duration)
			})
			if err != nil {
				slog.Debug("config watcher not running", "file", configPath, "error", err)
			}
		}()
	}

	slog.Info("ztop starting", "pty", cfg.PTY, "interval", cfg.RefreshInterval.Duration, "buffer_lines", cfg.BufferLines)

	if plainOut || !tty {
		err = d.Run(ctx, render.NewPlain(os.Stdout))
	} else {
		tui := render.NewTUI(d.Shutdown)
		tui.Start()
		go func() {
			select {
			case <-tui.Done():
				d.Shutdown()
			case <-ctx.Done():
			}
		}()
		err = d.Run(ctx, tui)
		if cerr := tui.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing terminal: %w", cerr)
		}
	}

	slog.Info("ztop stopped")
	return err
}

// newLauncher picks how monitors are spawned. On a pty each child gets a
// terminal the size of its grid cell.
func newLauncher(cfg *config.Config, tty bool) driver.Launcher {
	if !cfg.PTY {
		return driver.NewNative()
	}

	var rows, cols uint16
	if tty {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			cols = uint16(max(w/2-2, 20))
			rows = uint16(max(h/2-2, 5))
		}
	}
	return driver.NewPTY(rows, cols)
}
