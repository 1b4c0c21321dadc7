// Package telemetry broadcasts the live track table to connected
// websocket clients for dashboards and other observers, entirely optional
// and off by default (see config.DisplayConfig.TelemetryAddr).
package telemetry

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"cuastracker/internal/wire"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans out track table snapshots to every connected websocket client.
type Hub struct {
	log     zerolog.Logger
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	server  *http.Server
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{log: log, clients: make(map[*websocket.Conn]struct{})}
}

// Serve starts the websocket endpoint at /tracks, blocking until the
// listener fails or is closed.
func (h *Hub) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/tracks", h.handleConn)
	h.server = &http.Server{Addr: addr, Handler: mux}
	return h.server.ListenAndServe()
}

func (h *Hub) Close() error {
	if h.server == nil {
		return nil
	}
	return h.server.Close()
}

func (h *Hub) handleConn(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("telemetry: websocket upgrade failed")
		return
	}
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast pushes a track table snapshot as a binary websocket frame to
// every connected client, using the same wire encoding sent over UDP.
func (h *Hub) Broadcast(timestamp uint64, records []wire.TrackRecord) {
	payload := wire.EncodeTrackTable(timestamp, records)

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
