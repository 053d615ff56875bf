// Package speech provides text-to-speech playback for recognized signs.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrNoEngine is returned when no text-to-speech binary can be found.
var ErrNoEngine = errors.New("no text-to-speech engine found")

// DefaultTimeout bounds a single synthesis+playback run.
const DefaultTimeout = 10 * time.Second

// Engine synthesizes and plays a phrase, blocking until playback ends.
type Engine interface {
	Speak(ctx context.Context, text string) error
}

// CommandEngine speaks by running a system text-to-speech binary with
// the phrase as the final argument.
type CommandEngine struct {
	path    string
	args    []string
	timeout time.Duration
}

// candidates are probed in order by DetectEngine.
var candidates = []struct {
	name string
	args []string
}{
	{"say", nil},                  // macOS
	{"espeak-ng", nil},            // Linux
	{"espeak", nil},               // Linux (legacy)
	{"flite", []string{"-t"}},     // Linux fallback
	{"spd-say", []string{"-w"}},   // speech-dispatcher
}

// DetectEngine probes PATH for a known text-to-speech binary and
// returns a CommandEngine for the first one found.
func DetectEngine() (*CommandEngine, error) {
	for _, c := range candidates {
		if path, err := exec.LookPath(c.name); err == nil {
			return NewCommandEngine(path, c.args, DefaultTimeout), nil
		}
	}
	return nil, ErrNoEngine
}

// NewCommandEngine creates a CommandEngine for the given binary. A
// non-positive timeout falls back to DefaultTimeout.
func NewCommandEngine(path string, args []string, timeout time.Duration) *CommandEngine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CommandEngine{path: path, args: args, timeout: timeout}
}

// Path returns the engine binary path.
func (e *CommandEngine) Path() string {
	return e.path
}

// Speak runs the binary and waits for playback to finish. The run is
// bounded by the engine timeout on top of whatever deadline ctx
// carries.
func (e *CommandEngine) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := append(append([]string(nil), e.args...), text)
	cmd := exec.CommandContext(ctx, e.path, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("speech playback timed out after %v", e.timeout)
	}
	if err != nil {
		if s := stderr.String(); s != "" {
			return fmt.Errorf("speech playback failed: %w, stderr: %s", err, s)
		}
		return fmt.Errorf("speech playback failed: %w", err)
	}
	return nil
}

// Phrase converts a recognized label into the text to vocalize. Single
// letters are expanded to "The letter X" so they stay intelligible.
func Phrase(label string) string {
	if len(label) == 1 && isAlpha(label[0]) {
		return "The letter " + label
	}
	return label
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
