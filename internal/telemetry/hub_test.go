package telemetry

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuastracker/internal/logging"
	"cuastracker/internal/wire"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func dialWithRetry(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var lastErr error
	for time.Now().Before(deadline) {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			return conn
		}
		lastErr = err
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("could not dial %s: %v", url, lastErr)
	return nil
}

func TestHubBroadcastsToConnectedClients(t *testing.T) {
	addr := freeAddr(t)
	hub := NewHub(logging.Default())
	go hub.Serve(addr)
	defer hub.Close()

	conn := dialWithRetry(t, fmt.Sprintf("ws://%s/tracks", addr))
	defer conn.Close()

	// give the server goroutine a moment to register the client
	time.Sleep(50 * time.Millisecond)

	records := []wire.TrackRecord{{TrackID: 3, Status: wire.StatusConfirmed}}
	hub.Broadcast(555, records)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	msgType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, msgType)

	ts, got, err := wire.DecodeTrackTable(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(555), ts)
	assert.Equal(t, records, got)
}
