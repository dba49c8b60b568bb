package bridge

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(func(*http.Request) bool { return true })
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.Serve(w, r); err != nil {
			t.Errorf("upgrade failed: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return hub, server
}

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForClients polls until the hub sees n registered connections;
// registration happens after the dial handshake completes.
func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("hub never reached %d clients (have %d)", n, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	return raw
}

func TestHub_RelaysToOtherClientsOnly(t *testing.T) {
	hub, server := newHubServer(t)
	sender := dialHub(t, server)
	receiver := dialHub(t, server)
	waitForClients(t, hub, 2)

	raw := `{"type":"midi","status":144,"data1":60,"data2":100}`
	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte(raw)))

	assert.JSONEq(t, raw, string(readFrame(t, receiver)))

	// The sender never hears its own message back.
	require.NoError(t, sender.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := sender.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestHub_AnswersPingInPlace(t *testing.T) {
	hub, server := newHubServer(t)
	conn := dialHub(t, server)
	other := dialHub(t, server)
	waitForClients(t, hub, 2)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.JSONEq(t, `{"type":"pong"}`, string(readFrame(t, conn)))

	// Pings are answered on the same connection, never relayed.
	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := other.ReadMessage()
	require.Error(t, err)
}

func TestHub_DropsUndecodableEnvelopes(t *testing.T) {
	hub, server := newHubServer(t)
	sender := dialHub(t, server)
	receiver := dialHub(t, server)
	waitForClients(t, hub, 2)

	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte(`{"type":"teleport"}`)))
	valid := `{"type":"midi","status":176,"data1":1,"data2":2}`
	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte(valid)))

	// The first frame the receiver sees is the valid envelope; the
	// undecodable ones before it were dropped at the boundary.
	assert.JSONEq(t, valid, string(readFrame(t, receiver)))
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub, server := newHubServer(t)
	a := dialHub(t, server)
	b := dialHub(t, server)
	waitForClients(t, hub, 2)

	hub.Broadcast(TrackChange{TrackName: "Violins 1"})

	want := `{"type":"trackChange","trackName":"Violins 1"}`
	assert.JSONEq(t, want, string(readFrame(t, a)))
	assert.JSONEq(t, want, string(readFrame(t, b)))
}

func TestHub_UnregisterKeepsSendOpen(t *testing.T) {
	hub := NewHub(nil)
	client := &Client{hub: hub, send: make(chan []byte, sendBuffer), done: make(chan struct{})}
	hub.mu.Lock()
	hub.clients[client] = true
	hub.mu.Unlock()

	hub.unregister(client)
	hub.unregister(client) // second call is a no-op

	select {
	case <-client.done:
	default:
		t.Fatal("done not signaled after unregister")
	}
	assert.Equal(t, 0, hub.ClientCount())

	// A ping reply racing the unregister must never panic: the send
	// channel stays open, shutdown travels through done only.
	assert.NotPanics(t, func() {
		select {
		case client.send <- []byte(`{"type":"pong"}`):
		default:
		}
	})
}

func TestHub_EvictsStalledClientWithCloseFrame(t *testing.T) {
	hub := NewHub(nil)

	// Server-side conn without pumps, so its send buffer never drains.
	connCh := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		connCh <- conn
	}))
	t.Cleanup(server.Close)

	peer := dialHub(t, server)
	serverConn := <-connCh

	stalled := &Client{hub: hub, conn: serverConn, send: make(chan []byte, sendBuffer), done: make(chan struct{})}
	hub.register(stalled)

	raw := []byte(`{"type":"midi","status":144,"data1":1,"data2":1}`)
	for i := 0; i <= sendBuffer; i++ {
		hub.broadcastRaw(raw, nil)
	}

	assert.Equal(t, 0, hub.ClientCount())
	select {
	case <-stalled.done:
	default:
		t.Fatal("evicted client not signaled done")
	}

	// The peer sees a policy-violation close frame, not a bare TCP reset.
	require.NoError(t, peer.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := peer.ReadMessage()
	require.Error(t, err)
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	assert.Equal(t, "slow consumer", closeErr.Text)
}
