package overlay

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local overlay clients only
	},
}

// Hub timing. Clients that miss two pings are dropped on the next write.
const (
	writeTimeout = time.Second
	pingInterval = 30 * time.Second
	pongTimeout  = 65 * time.Second
)

// eventHub pushes every detection update to connected WebSocket
// clients, so overlay pages react immediately instead of polling.
// All connection writes happen on the hub's single run goroutine;
// gorilla connections do not tolerate concurrent writers.
type eventHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
	events  chan Detection
}

func newEventHub() *eventHub {
	h := &eventHub{
		clients: make(map[*websocket.Conn]bool),
		events:  make(chan Detection, 16),
	}
	go h.run()
	return h
}

// ServeHTTP upgrades the connection and keeps it registered until the
// client goes away or stops answering pings.
func (h *eventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Drain reads to run the pong handler and detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// broadcast queues a detection for delivery. Non-blocking: when the
// hub falls behind, stale snapshots are dropped rather than stalling
// the publisher.
func (h *eventHub) broadcast(d Detection) {
	select {
	case h.events <- d:
	default:
	}
}

// run is the hub's only writer. It fans queued detections out to every
// client and pings them between updates.
func (h *eventHub) run() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case d := <-h.events:
			msg, err := json.Marshal(d)
			if err != nil {
				continue
			}
			h.writeAll(websocket.TextMessage, msg)
		case <-ticker.C:
			h.writeAll(websocket.PingMessage, nil)
		}
	}
}

// writeAll sends one message to every client, dropping connections
// whose writes fail or time out.
func (h *eventHub) writeAll(messageType int, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(messageType, msg); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
