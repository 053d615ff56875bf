package speech

import (
	"context"
	"log"
	"sync"
)

// Speaker serializes speech playback so at most one utterance is in
// flight per session. Say never blocks the caller: a request made while
// audio is playing is parked in a single pending slot, and a newer
// request replaces the parked one. Audio that is already playing is
// never interrupted.
type Speaker struct {
	engine Engine

	mu      sync.Mutex
	pending chan string
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

// NewSpeaker creates a Speaker and starts its playback worker.
func NewSpeaker(engine Engine) *Speaker {
	s := &Speaker{
		engine:  engine,
		pending: make(chan string, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Say queues text for playback without blocking. If an utterance is
// already queued but not yet started, it is dropped in favor of this
// one.
func (s *Speaker) Say(text string) {
	if text == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	for {
		select {
		case s.pending <- text:
			return
		default:
		}
		// Slot occupied: evict the stale utterance and retry.
		select {
		case stale := <-s.pending:
			log.Printf("speech: superseding queued utterance %q", stale)
		default:
		}
	}
}

// Close stops the worker after any in-flight playback finishes.
func (s *Speaker) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.stop)
	<-s.done
}

func (s *Speaker) run() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case text := <-s.pending:
			if err := s.engine.Speak(context.Background(), text); err != nil {
				log.Printf("speech: %v", err)
			}
		}
	}
}
