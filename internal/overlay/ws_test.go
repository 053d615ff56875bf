package overlay

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialEvents(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}

func TestEventHub_BroadcastsUpdates(t *testing.T) {
	s := New(Config{})
	ts := httptest.NewServer(s)
	defer ts.Close()

	conn := dialEvents(t, ts)

	got := make(chan Detection, 1)
	go func() {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var d Detection
		if err := conn.ReadJSON(&d); err == nil {
			got <- d
		}
	}()

	// Publish until the client has received a frame; the hub may not
	// have registered the connection before the first publish.
	deadline := time.After(5 * time.Second)
	for {
		s.Publish(Update{Gesture: "V", Confidence: 0.95, TimeHeldMs: 810})
		select {
		case d := <-got:
			if d.Gesture != "V" {
				t.Errorf("gesture = %q, want V", d.Gesture)
			}
			if d.Status != "active" {
				t.Errorf("status = %q, want active", d.Status)
			}
			return
		case <-deadline:
			t.Fatal("no broadcast received")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestEventHub_ConcurrentPublishers(t *testing.T) {
	// The dispatcher and POST /api/update handlers publish from
	// separate goroutines; all websocket writes must still be
	// serialized through the hub.
	s := New(Config{})
	ts := httptest.NewServer(s)
	defer ts.Close()

	conn := dialEvents(t, ts)

	got := make(chan Detection, 1)
	go func() {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var d Detection
		if err := conn.ReadJSON(&d); err == nil {
			got <- d
		}
	}()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					s.Publish(Update{Gesture: "A", Confidence: 0.9})
					time.Sleep(time.Millisecond)
				}
			}
		}()
	}

	select {
	case d := <-got:
		if d.Gesture != "A" {
			t.Errorf("gesture = %q, want A", d.Gesture)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no broadcast received under concurrent publishers")
	}

	close(stop)
	wg.Wait()
}

func TestEventHub_ClientDisconnectIsDropped(t *testing.T) {
	s := New(Config{})
	ts := httptest.NewServer(s)
	defer ts.Close()

	conn := dialEvents(t, ts)
	conn.Close()

	// Publishing after the client hung up must not panic or wedge the
	// hub; the dead connection is dropped on the failed write.
	for i := 0; i < 10; i++ {
		s.Publish(Update{Gesture: "B", Confidence: 0.9})
	}
}
