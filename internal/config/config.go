// Package config loads application settings from a YAML file, filling
// in defaults for anything the file leaves out. Command-line flags are
// applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Camera holds capture device settings.
type Camera struct {
	Device int `yaml:"device"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

// Recognition holds the debouncing thresholds. Durations are expressed
// in seconds so the file can say "hold_duration: 0.8".
type Recognition struct {
	MinConfidence float64 `yaml:"min_confidence"`
	HoldDuration  float64 `yaml:"hold_duration"`
	Cooldown      float64 `yaml:"cooldown"`
	VoteWindow    int     `yaml:"vote_window"`
	VoteFraction  float64 `yaml:"vote_fraction"`
	// MotionThreshold is the percent of changed pixels that counts as
	// motion. Zero or negative disables motion gating.
	MotionThreshold float64 `yaml:"motion_threshold"`
}

// Speech holds text-to-speech settings.
type Speech struct {
	Enabled bool `yaml:"enabled"`
	// Command overrides engine autodetection, e.g. "espeak-ng".
	Command string  `yaml:"command"`
	Timeout float64 `yaml:"timeout"`
}

// Overlay holds the overlay HTTP server settings.
type Overlay struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// Storage holds transcript database settings.
type Storage struct {
	Path string `yaml:"path"`
}

// Root is the top-level configuration.
type Root struct {
	Camera      Camera      `yaml:"camera"`
	Recognition Recognition `yaml:"recognition"`
	Speech      Speech      `yaml:"speech"`
	Overlay     Overlay     `yaml:"overlay"`
	Storage     Storage     `yaml:"storage"`
}

// Default returns the configuration used when no file is present.
func Default() *Root {
	return &Root{
		Camera: Camera{
			Device: 0,
			Width:  640,
			Height: 480,
			FPS:    10,
		},
		Recognition: Recognition{
			MinConfidence:   0.7,
			HoldDuration:    0.8,
			Cooldown:        1.5,
			VoteWindow:      0,
			VoteFraction:    0.7,
			MotionThreshold: 1.0,
		},
		Speech: Speech{
			Enabled: true,
			Timeout: 10,
		},
		Overlay: Overlay{
			Addr: "localhost:8000",
		},
		Storage: Storage{
			Path: filepath.Join(os.Getenv("HOME"), ".handspeak", "handspeak.db"),
		},
	}
}

// Load reads the configuration from path. An empty path tries the
// default locations; a missing file in that case is not an error and
// yields the defaults.
func Load(path string) (*Root, error) {
	cfg := Default()

	explicit := path != ""
	candidates := []string{path}
	if !explicit {
		candidates = []string{
			"config.yaml",
			filepath.Join(os.Getenv("HOME"), ".handspeak", "config.yaml"),
		}
	}

	for _, p := range candidates {
		if p == "" {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			if explicit {
				return nil, fmt.Errorf("open config: %w", err)
			}
			continue
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", p, err)
		}
		break
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would make the pipeline misbehave.
func (c *Root) Validate() error {
	if c.Recognition.MinConfidence < 0 || c.Recognition.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be in [0,1], got %g", c.Recognition.MinConfidence)
	}
	if c.Recognition.HoldDuration <= 0 {
		return fmt.Errorf("hold_duration must be positive, got %g", c.Recognition.HoldDuration)
	}
	if c.Recognition.Cooldown < 0 {
		return fmt.Errorf("cooldown must not be negative, got %g", c.Recognition.Cooldown)
	}
	if c.Recognition.VoteWindow < 0 {
		return fmt.Errorf("vote_window must not be negative, got %d", c.Recognition.VoteWindow)
	}
	if c.Camera.FPS < 0 {
		return fmt.Errorf("camera fps must not be negative, got %d", c.Camera.FPS)
	}
	if c.Overlay.Addr == "" {
		return fmt.Errorf("overlay addr must not be empty")
	}
	return nil
}

// Seconds converts a fractional-seconds config value to a Duration.
func Seconds(n float64) time.Duration {
	return time.Duration(n * float64(time.Second))
}
