// Package dashboard runs the four monitored panes: it starts them, drives
// the periodic refresh that feeds the renderer, and guarantees every child
// is stopped on the way out, including when a termination signal arrives.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/benaskins/ztop/internal/config"
	"github.com/benaskins/ztop/internal/driver"
	"github.com/benaskins/ztop/internal/pane"
)

// Frame is what the renderer receives for one pane on one tick.
type Frame struct {
	ID    PaneID
	Label string
	Text  string
	Style Style
}

// Renderer draws one tick's worth of frames. It must not block for long
// relative to the refresh interval.
type Renderer interface {
	Render(frames [NumPanes]Frame) error
}

// Dashboard owns the fixed set of panes and the refresh loop.
type Dashboard struct {
	panes  [NumPanes]*pane.Pane
	styles [NumPanes]Style
	logger *slog.Logger

	interval   atomic.Int64
	intervalCh chan time.Duration

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

type options struct {
	launcher driver.Launcher
	logger   *slog.Logger
	commands *[NumPanes]driver.Command
}

// Option configures a Dashboard.
type Option func(*options)

// WithLauncher sets how pane children are spawned.
func WithLauncher(l driver.Launcher) Option {
	return func(o *options) {
		o.launcher = l
	}
}

// WithLogger sets the dashboard logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCommands replaces the argument vectors of the four panes, keeping
// their labels and styles.
func WithCommands(cmds [NumPanes]driver.Command) Option {
	return func(o *options) {
		o.commands = &cmds
	}
}

// New builds the dashboard and its four panes. Nothing is started yet.
func New(cfg *config.Config, opts ...Option) *Dashboard {
	if cfg == nil {
		cfg = config.Default()
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.With("component", "dashboard")
	}

	d := &Dashboard{
		logger:     o.logger,
		intervalCh: make(chan time.Duration, 1),
		stopCh:     make(chan struct{}),
	}
	d.running.Store(true)
	d.interval.Store(int64(cfg.RefreshInterval.Duration))

	for id, def := range defs {
		cmd := def.Command
		if o.commands != nil {
			cmd = o.commands[id]
		}
		paneOpts := []pane.Option{
			pane.WithCapacity(cfg.BufferLines),
			pane.WithStopTimeout(cfg.StopTimeout.Duration),
			pane.WithLogger(o.logger.With("pane_id", PaneID(id).String())),
		}
		if o.launcher != nil {
			paneOpts = append(paneOpts, pane.WithLauncher(o.launcher))
		}
		d.panes[id] = pane.New(def.Label, cmd, paneOpts...)
		d.styles[id] = def.Style
	}
	return d
}

// Pane returns the pane in the given cell.
func (d *Dashboard) Pane(id PaneID) *pane.Pane {
	return d.panes[id]
}

// Infos reports the status of every pane.
func (d *Dashboard) Infos() [NumPanes]pane.Info {
	var infos [NumPanes]pane.Info
	for i, p := range d.panes {
		infos[i] = p.Info()
	}
	return infos
}

// Running reports whether the refresh loop should keep going.
func (d *Dashboard) Running() bool {
	return d.running.Load()
}

// Interval returns the current refresh interval.
func (d *Dashboard) Interval() time.Duration {
	return time.Duration(d.interval.Load())
}

// SetInterval changes the refresh interval of a running loop.
func (d *Dashboard) SetInterval(iv time.Duration) {
	if iv <= 0 {
		return
	}
	d.interval.Store(int64(iv))
	// Replace any pending change so the loop only sees the latest.
	select {
	case <-d.intervalCh:
	default:
	}
	select {
	case d.intervalCh <- iv:
	default:
	}
}

// StartAll starts every pane concurrently and waits for all of them.
// Launch failures stay inside their pane and are not returned.
func (d *Dashboard) StartAll(ctx context.Context) error {
	var g errgroup.Group
	for _, p := range d.panes {
		p := p
		g.Go(func() error {
			return p.Start(ctx)
		})
	}
	return g.Wait()
}

// StopAll stops every pane, whatever its state. It is safe to call repeatedly.
func (d *Dashboard) StopAll(ctx context.Context) {
	var g errgroup.Group
	for _, p := range d.panes {
		p := p
		g.Go(func() error {
			p.Stop(ctx)
			return nil
		})
	}
	_ = g.Wait() // Stop never fails
}

// Shutdown clears the running flag, wakes the refresh loop and stops every
// pane before returning.
func (d *Dashboard) Shutdown() {
	d.running.Store(false)
	d.stopOnce.Do(func() {
		close(d.stopCh)
	})
	d.StopAll(context.Background())
}

// Tick drains every pane and hands the four frames to the renderer.
func (d *Dashboard) Tick(r Renderer) error {
	var frames [NumPanes]Frame
	for id, p := range d.panes {
		frames[id] = Frame{
			ID:    PaneID(id),
			Label: p.Label(),
			Text:  p.Refresh(),
			Style: d.styles[id],
		}
	}
	return r.Render(frames)
}

// Run starts the panes and refreshes the renderer every interval until the
// context is cancelled or Shutdown is called. Every pane is stopped before
// Run returns.
func (d *Dashboard) Run(ctx context.Context, r Renderer) error {
	defer d.StopAll(context.Background())

	if err := d.StartAll(ctx); err != nil {
		if errors.Is(err, pane.ErrStopped) && !d.Running() {
			return nil
		}
		return fmt.Errorf("starting panes: %w", err)
	}
	d.logger.Info("panes started", "interval", d.Interval())

	ticker := time.NewTicker(d.Interval())
	defer ticker.Stop()

	for d.Running() {
		if err := d.Tick(r); err != nil {
			d.logger.Warn("render failed", "error", err)
		}

		select {
		case <-ctx.Done():
			d.running.Store(false)
		case <-d.stopCh:
		case iv := <-d.intervalCh:
			ticker.Reset(iv)
			d.logger.Info("refresh interval changed", "interval", iv)
		case <-ticker.C:
		}
	}

	d.logger.Info("refresh loop stopped")
	return nil
}

// NotifySignals subscribes to interrupt and terminate. The returned func
// unsubscribes.
func NotifySignals() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	return ch, func() { signal.Stop(ch) }
}

// HandleSignals waits for a signal on sigCh and shuts the dashboard down
// immediately, without waiting for the refresh loop to notice. It returns
// when a signal was handled, the context ends, or the dashboard stopped
// for another reason.
func (d *Dashboard) HandleSignals(ctx context.Context, sigCh <-chan os.Signal) {
	select {
	case sig := <-sigCh:
		d.logger.Info("received signal, shutting down", "signal", sig)
		d.Shutdown()
	case <-ctx.Done():
	case <-d.stopCh:
	}
}
