package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `refresh_interval: 250ms
stop_timeout: 5s
buffer_lines: 80
pty: true
log:
  file: /tmp/ztop-test.log
  level: debug
  max_size_mb: 1
  max_backups: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RefreshInterval.Duration != 250*time.Millisecond {
		t.Errorf("RefreshInterval = %v, want 250ms", cfg.RefreshInterval.Duration)
	}
	if cfg.StopTimeout.Duration != 5*time.Second {
		t.Errorf("StopTimeout = %v, want 5s", cfg.StopTimeout.Duration)
	}
	if cfg.BufferLines != 80 {
		t.Errorf("BufferLines = %d, want 80", cfg.BufferLines)
	}
	if !cfg.PTY {
		t.Error("PTY = false, want true")
	}
	if cfg.Log.File != "/tmp/ztop-test.log" || cfg.Log.Level != "debug" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Log.MaxSizeMB != 1 || cfg.Log.MaxBackups != 2 {
		t.Errorf("Log rotation = %+v", cfg.Log)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.RefreshInterval.Duration != DefaultRefreshInterval {
		t.Errorf("RefreshInterval = %v, want default", cfg.RefreshInterval.Duration)
	}
	if cfg.StopTimeout.Duration != DefaultStopTimeout {
		t.Errorf("StopTimeout = %v, want default", cfg.StopTimeout.Duration)
	}
	if cfg.BufferLines != DefaultBufferLines {
		t.Errorf("BufferLines = %d, want default", cfg.BufferLines)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	t.Parallel()
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BufferLines != DefaultBufferLines {
		t.Errorf("BufferLines = %d, want default", cfg.BufferLines)
	}
}

func TestLoadCommentsOnly(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `# refresh_interval: 1s
# pty: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RefreshInterval.Duration != DefaultRefreshInterval {
		t.Errorf("RefreshInterval = %v, want default", cfg.RefreshInterval.Duration)
	}
	if cfg.PTY {
		t.Error("PTY should default to false")
	}
}

func TestLoadPartialConfig(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "buffer_lines: 10\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BufferLines != 10 {
		t.Errorf("BufferLines = %d, want 10", cfg.BufferLines)
	}
	if cfg.StopTimeout.Duration != DefaultStopTimeout {
		t.Errorf("StopTimeout = %v, want default", cfg.StopTimeout.Duration)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad duration", "refresh_interval: soon\n", "invalid duration"},
		{"zero interval", "refresh_interval: 0s\n", "refresh_interval"},
		{"negative timeout", "stop_timeout: -1s\n", "stop_timeout"},
		{"zero buffer", "buffer_lines: 0\n", "buffer_lines"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad yaml", "pty: [\n", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDurationMarshal(t *testing.T) {
	t.Parallel()
	v, err := Duration{750 * time.Millisecond}.MarshalYAML()
	if err != nil {
		t.Fatal(err)
	}
	if v != "750ms" {
		t.Errorf("MarshalYAML() = %v, want 750ms", v)
	}
}

func TestWatchReloads(t *testing.T) {
	path := writeConfig(t, "refresh_interval: 1s\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 4)
	errCh := make(chan error, 1)
	go func() {
		errCh <- Watch(ctx, path, func(c *Config) { got <- c })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("refresh_interval: 100ms\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-got:
		if c.RefreshInterval.Duration != 100*time.Millisecond {
			t.Errorf("reloaded RefreshInterval = %v, want 100ms", c.RefreshInterval.Duration)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not reported")
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestConfigJSON(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(Default())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"refresh_interval":"500ms"`) {
		t.Errorf("unexpected JSON: %s", data)
	}
}
