// Package caption assembles stabilized fingerspelling labels into words
// and rolling captions for the overlay.
package caption

import (
	"strings"
	"time"
)

// Control labels emitted by the classifier that end the current word
// instead of contributing a letter.
const (
	LabelSpace   = "space"
	LabelNothing = "nothing"
	LabelDelete  = "del"
)

// Caption display tuning.
const (
	// MaxCaptionLength is the number of characters buffered before the
	// caption is flushed regardless of timing.
	MaxCaptionLength = 35

	// DisplayInterval is how long a flushed caption stays visible, and
	// also the minimum age of buffered words before a time-based flush.
	DisplayInterval = 2500 * time.Millisecond
)

// terminators maps word-ending control labels to the character appended
// to the finished word.
var terminators = map[string]string{
	LabelSpace:   " ",
	LabelNothing: ".",
	LabelDelete:  ",",
}

// Builder turns a stream of stabilized labels into displayable
// captions. Like the stabilizer it is pure with respect to time: the
// caller supplies timestamps, so tests can drive a simulated clock.
// Not safe for concurrent use; owned by the polling goroutine.
type Builder struct {
	word    string
	pending []string

	caption     string
	displayedAt time.Time
}

// NewBuilder creates an empty caption builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add consumes one stabilized label. Control labels (space/nothing/del)
// finish the current word; anything else is appended to it.
func (b *Builder) Add(label string) {
	if term, ok := terminators[label]; ok {
		if strings.TrimSpace(b.word) != "" {
			b.pending = append(b.pending, b.word+term)
			b.word = ""
		}
		return
	}
	b.word += label
}

// Caption returns the caption that should currently be displayed.
// Pending words are flushed as soon as any are available (single words
// display immediately rather than waiting for a full line), and an
// expired caption clears to the empty string after DisplayInterval.
func (b *Builder) Caption(now time.Time) string {
	if len(b.pending) > 0 {
		b.caption = strings.TrimSpace(strings.Join(b.pending, ""))
		if len(b.caption) > MaxCaptionLength {
			b.caption = b.caption[len(b.caption)-MaxCaptionLength:]
		}
		b.pending = b.pending[:0]
		b.displayedAt = now
		return b.caption
	}

	if b.caption != "" && now.Sub(b.displayedAt) >= DisplayInterval {
		b.caption = ""
	}
	return b.caption
}

// IsTerminator reports whether label ends the current word instead of
// contributing a letter to it.
func IsTerminator(label string) bool {
	_, ok := terminators[label]
	return ok
}

// Word returns the partially assembled current word.
func (b *Builder) Word() string {
	return b.word
}

// Reset discards all buffered state.
func (b *Builder) Reset() {
	b.word = ""
	b.pending = nil
	b.caption = ""
	b.displayedAt = time.Time{}
}
