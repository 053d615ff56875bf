package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "handspeak-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Recognition.MinConfidence != 0.7 {
		t.Errorf("default min_confidence = %g, want 0.7", cfg.Recognition.MinConfidence)
	}
	if cfg.Recognition.HoldDuration != 0.8 {
		t.Errorf("default hold_duration = %g, want 0.8", cfg.Recognition.HoldDuration)
	}
	if cfg.Recognition.Cooldown != 1.5 {
		t.Errorf("default cooldown = %g, want 1.5", cfg.Recognition.Cooldown)
	}
	if !cfg.Speech.Enabled {
		t.Error("speech should be enabled by default")
	}
	if cfg.Overlay.Addr != "localhost:8000" {
		t.Errorf("default overlay addr = %q, want localhost:8000", cfg.Overlay.Addr)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
camera:
  device: 2
  fps: 15
recognition:
  min_confidence: 0.8
  hold_duration: 1.2
overlay:
  addr: "localhost:9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Camera.Device != 2 {
		t.Errorf("device = %d, want 2", cfg.Camera.Device)
	}
	if cfg.Camera.FPS != 15 {
		t.Errorf("fps = %d, want 15", cfg.Camera.FPS)
	}
	if cfg.Recognition.MinConfidence != 0.8 {
		t.Errorf("min_confidence = %g, want 0.8", cfg.Recognition.MinConfidence)
	}
	if cfg.Recognition.HoldDuration != 1.2 {
		t.Errorf("hold_duration = %g, want 1.2", cfg.Recognition.HoldDuration)
	}
	if cfg.Overlay.Addr != "localhost:9000" {
		t.Errorf("overlay addr = %q, want localhost:9000", cfg.Overlay.Addr)
	}

	// Untouched sections keep their defaults.
	if cfg.Recognition.Cooldown != 1.5 {
		t.Errorf("cooldown = %g, want default 1.5", cfg.Recognition.Cooldown)
	}
	if !cfg.Speech.Enabled {
		t.Error("speech should stay enabled when the file omits it")
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for explicitly named missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "recognition: [not a map")

	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Root)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Root) {},
			wantErr: false,
		},
		{
			name:    "confidence above one",
			mutate:  func(c *Root) { c.Recognition.MinConfidence = 1.5 },
			wantErr: true,
		},
		{
			name:    "negative confidence",
			mutate:  func(c *Root) { c.Recognition.MinConfidence = -0.1 },
			wantErr: true,
		},
		{
			name:    "zero hold duration",
			mutate:  func(c *Root) { c.Recognition.HoldDuration = 0 },
			wantErr: true,
		},
		{
			name:    "negative cooldown",
			mutate:  func(c *Root) { c.Recognition.Cooldown = -1 },
			wantErr: true,
		},
		{
			name:    "zero cooldown is allowed",
			mutate:  func(c *Root) { c.Recognition.Cooldown = 0 },
			wantErr: false,
		},
		{
			name:    "negative vote window",
			mutate:  func(c *Root) { c.Recognition.VoteWindow = -1 },
			wantErr: true,
		},
		{
			name:    "empty overlay addr",
			mutate:  func(c *Root) { c.Overlay.Addr = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSeconds(t *testing.T) {
	if got := Seconds(0.8); got != 800*time.Millisecond {
		t.Errorf("Seconds(0.8) = %v, want 800ms", got)
	}
	if got := Seconds(1.5); got != 1500*time.Millisecond {
		t.Errorf("Seconds(1.5) = %v, want 1.5s", got)
	}
	if got := Seconds(0); got != 0 {
		t.Errorf("Seconds(0) = %v, want 0", got)
	}
}
