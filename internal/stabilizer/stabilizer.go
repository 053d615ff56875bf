// Package stabilizer converts noisy per-frame classifier output into a
// debounced stream of display and speak decisions.
package stabilizer

import (
	"fmt"
	"time"
)

// Default tuning values. These match the behavior the rest of the
// system is calibrated against: a sign must be held stably for 800ms
// before it is vocalized, and at least 1.5s must pass between any two
// spoken events.
const (
	DefaultMinConfidence = 0.7
	DefaultHoldDuration  = 800 * time.Millisecond
	DefaultCooldown      = 1500 * time.Millisecond
	DefaultVoteFraction  = 0.7

	// MaxVoteWindow bounds the recent-labels window.
	MaxVoteWindow = 15
)

// Sample is a single classifier reading. An empty Label means no hand
// or no recognizable sign was seen in the frame.
type Sample struct {
	Label      string
	Confidence float64
	Time       time.Time
}

// Decision is the outcome of feeding one Sample to the stabilizer.
//
// Active reports whether the sample passed the confidence gate (and the
// vote filter, when enabled). When Active is false the overlay should
// keep showing whatever it was showing; a single weak frame never
// clears the display.
type Decision struct {
	Label       string
	Confidence  float64
	Hold        time.Duration
	IsNewHold   bool
	ShouldSpeak bool
	Active      bool
}

// Config holds the stabilizer tuning parameters.
type Config struct {
	// MinConfidence is the minimum classifier confidence for a sample
	// to be considered at all (0..1).
	MinConfidence float64

	// HoldDuration is how long the same label must be continuously
	// classified before a speak decision may fire.
	HoldDuration time.Duration

	// Cooldown is the minimum time between two speak decisions,
	// regardless of label.
	Cooldown time.Duration

	// VoteWindow enables the optional majority-vote prefilter when
	// greater than zero. The window holds the most recent VoteWindow
	// accepted labels; a label must occupy more than VoteFraction of
	// the window to be confirmed. Capped at MaxVoteWindow.
	VoteWindow int

	// VoteFraction is the occupancy a label needs in the vote window
	// to be confirmed. Zero means DefaultVoteFraction.
	VoteFraction float64
}

// DefaultConfig returns a Config with the default tuning values and the
// vote prefilter disabled.
func DefaultConfig() Config {
	return Config{
		MinConfidence: DefaultMinConfidence,
		HoldDuration:  DefaultHoldDuration,
		Cooldown:      DefaultCooldown,
	}
}

// Validate checks the configuration, returning an error describing the
// first invalid field. Called by New so that bad thresholds fail at
// startup rather than silently misbehaving mid-session.
func (c Config) Validate() error {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min confidence %v outside [0,1]", c.MinConfidence)
	}
	if c.HoldDuration < 0 {
		return fmt.Errorf("hold duration %v is negative", c.HoldDuration)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("cooldown %v is negative", c.Cooldown)
	}
	if c.VoteWindow < 0 || c.VoteWindow > MaxVoteWindow {
		return fmt.Errorf("vote window %d outside [0,%d]", c.VoteWindow, MaxVoteWindow)
	}
	if c.VoteFraction < 0 || c.VoteFraction >= 1 {
		return fmt.Errorf("vote fraction %v outside [0,1)", c.VoteFraction)
	}
	return nil
}

// Stabilizer is the gesture-event debouncer. It is a synchronous state
// machine: Update never blocks, never performs I/O, and reads time only
// from the sample it is given. It is not safe for concurrent use; it is
// meant to be owned by the single polling goroutine.
type Stabilizer struct {
	cfg Config

	current     string
	start       time.Time
	lastSpoken  string
	lastSpokeAt time.Time

	votes *voteWindow
}

// New creates a Stabilizer, validating the configuration first.
func New(cfg Config) (*Stabilizer, error) {
	if cfg.VoteFraction == 0 {
		cfg.VoteFraction = DefaultVoteFraction
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("stabilizer config: %w", err)
	}

	s := &Stabilizer{cfg: cfg}
	if cfg.VoteWindow > 0 {
		s.votes = newVoteWindow(cfg.VoteWindow, cfg.VoteFraction)
	}
	return s, nil
}

// Update feeds one sample through the state machine and returns the
// resulting decision.
//
// A low-confidence or empty sample is a valid "no gesture" state, not
// an error: the decision is inactive and the hold timer is left alone,
// so a single noisy miss inside a stable run does not reset the hold.
func (s *Stabilizer) Update(sample Sample) Decision {
	conf := clamp01(sample.Confidence)

	if sample.Label == "" || conf < s.cfg.MinConfidence {
		return Decision{}
	}

	// Optional majority-vote prefilter. Unconfirmed samples behave
	// exactly like weak frames: no state change, inactive decision.
	if s.votes != nil {
		if !s.votes.add(sample.Label) {
			return Decision{}
		}
	}

	d := Decision{
		Label:      sample.Label,
		Confidence: conf,
		Active:     true,
	}

	if sample.Label == s.current {
		d.Hold = sample.Time.Sub(s.start)
	} else {
		s.current = sample.Label
		s.start = sample.Time
	}
	// Derived from the timestamps rather than set on the switch branch,
	// so replaying a sample reproduces the same decision.
	d.IsNewHold = sample.Time.Equal(s.start)

	if d.Hold >= s.cfg.HoldDuration && sample.Time.Sub(s.lastSpokeAt) >= s.cfg.Cooldown {
		d.ShouldSpeak = true
		s.lastSpoken = sample.Label
		s.lastSpokeAt = sample.Time
	}

	return d
}

// LastSpoken returns the label and time of the most recent speak
// decision. The zero time means nothing has been spoken yet.
func (s *Stabilizer) LastSpoken() (string, time.Time) {
	return s.lastSpoken, s.lastSpokeAt
}

// Reset clears all state, as if the session had just started.
func (s *Stabilizer) Reset() {
	s.current = ""
	s.start = time.Time{}
	s.lastSpoken = ""
	s.lastSpokeAt = time.Time{}
	if s.votes != nil {
		s.votes.reset()
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
