// Package overlay provides the local HTTP server that renders recognized
// signs for OBS browser sources, and the client the capture pipeline
// uses to publish decisions to it.
package overlay

import (
	"sync"
	"time"
)

// Update is one decision snapshot published by the capture pipeline.
type Update struct {
	Gesture    string  `json:"gesture"`
	Confidence float64 `json:"confidence"`
	TimeHeldMs int64   `json:"time_held_ms"`
	IsNew      bool    `json:"is_new"`
	Caption    string  `json:"caption,omitempty"`
}

// Detection is the state exposed to overlay pages: the latest update
// plus server-side bookkeeping.
type Detection struct {
	Update
	Status      string `json:"status"`
	LastUpdated int64  `json:"last_updated_ms"`
}

// detectionState holds the current detection behind a mutex. The HTTP
// layer serves requests concurrently, so this is the one shared object
// handlers may touch.
type detectionState struct {
	mu      sync.RWMutex
	current Detection
}

func newDetectionState() *detectionState {
	return &detectionState{
		current: Detection{Status: "waiting"},
	}
}

func (s *detectionState) set(u Update, now time.Time) Detection {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Update = u
	s.current.LastUpdated = now.UnixMilli()
	if u.Gesture != "" {
		s.current.Status = "active"
	} else {
		s.current.Status = "waiting"
	}
	return s.current
}

func (s *detectionState) get() Detection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
