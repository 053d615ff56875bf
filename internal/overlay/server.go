package overlay

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rkaul/handspeak/internal/transcript"
)

// Config holds the overlay server configuration.
type Config struct {
	// StaticDir, when set, overrides the embedded overlay page with
	// files served from disk.
	StaticDir string

	// Store, when set, enables the /api/transcript endpoint.
	Store *transcript.Store
}

// Server is the local HTTP server captured by OBS. It owns the current
// detection state; the capture pipeline publishes into it via POST
// /api/update (or directly through Publish when in-process).
type Server struct {
	config Config
	mux    *http.ServeMux
	state  *detectionState
	hub    *eventHub
	start  time.Time
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		state:  newDetectionState(),
		hub:    newEventHub(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/update", s.handleUpdate)
	s.mux.HandleFunc("/api/current", s.handleCurrent)
	s.mux.Handle("/api/events", s.hub)

	if s.config.Store != nil {
		s.mux.HandleFunc("/api/transcript", s.handleTranscript)
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	} else {
		s.mux.HandleFunc("/", s.handlePage)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// Publish applies an update to the detection state and pushes it to all
// connected WebSocket clients. Used by the in-process pipeline and by
// the POST /api/update handler.
func (s *Server) Publish(u Update) {
	d := s.state.set(u, time.Now())
	s.hub.broadcast(d)
}

// Current returns the current detection snapshot.
func (s *Server) Current() Detection {
	return s.state.get()
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(overlayPage))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var u Update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	s.Publish(u)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.state.get())
}

// handleTranscript returns the most recent spoken utterances.
func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	utterances, err := s.config.Store.Utterances().ListRecent(50)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load transcript"})
		return
	}

	type entry struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
		HoldMs     int64   `json:"hold_ms"`
		SpokenAt   string  `json:"spoken_at"`
	}

	out := make([]entry, 0, len(utterances))
	for _, u := range utterances {
		out = append(out, entry{
			Label:      u.Label,
			Confidence: u.Confidence,
			HoldMs:     u.HoldMs,
			SpokenAt:   u.SpokenAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"utterances": out})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}
