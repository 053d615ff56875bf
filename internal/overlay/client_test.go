package overlay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Publish(t *testing.T) {
	var got Update
	var gotPath string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, 0)

	update := Update{Gesture: "V", Confidence: 0.95, TimeHeldMs: 900, IsNew: true}
	if err := c.Publish(context.Background(), update); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if gotPath != "/api/update" {
		t.Errorf("path = %q, want /api/update", gotPath)
	}
	if got != update {
		t.Errorf("received update = %+v, want %+v", got, update)
	}
}

func TestClient_Publish_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, 0)

	err := c.Publish(context.Background(), Update{Gesture: "A"})
	if err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestClient_Publish_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	c := NewClient(ts.URL, 20*time.Millisecond)

	start := time.Now()
	err := c.Publish(context.Background(), Update{Gesture: "A"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout took %v, the slow server must not stall the caller", elapsed)
	}
}

func TestClient_Publish_ServerUnreachable(t *testing.T) {
	// Port 1 is never listening.
	c := NewClient("http://127.0.0.1:1", 50*time.Millisecond)

	err := c.Publish(context.Background(), Update{Gesture: "A"})
	if err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestClient_EndToEnd(t *testing.T) {
	// The client posting into a real overlay server updates its state.
	s := New(Config{})
	ts := httptest.NewServer(s)
	defer ts.Close()

	c := NewClient(ts.URL, 0)

	update := Update{Gesture: "I LOVE YOU", Confidence: 0.95, TimeHeldMs: 810}
	if err := c.Publish(context.Background(), update); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	current := s.Current()
	if current.Gesture != "I LOVE YOU" {
		t.Errorf("gesture = %q, want I LOVE YOU", current.Gesture)
	}
	if current.Status != "active" {
		t.Errorf("status = %q, want active", current.Status)
	}
}
