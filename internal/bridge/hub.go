package bridge

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/willardjansen/cubby-remote-reaper/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 64
)

// Hub fans messages out to every connected WebSocket client. A message
// read from one client is relayed to all the others; the HTTP side feeds
// broadcasts in through Broadcast.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]bool
	upgrader websocket.Upgrader
}

func NewHub(checkOrigin func(*http.Request) bool) *Hub {
	return &Hub{
		clients: map[*Client]bool{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Client is one WebSocket connection. Writes go through the send channel
// so only the writePump touches the connection. The send channel stays
// open for the client's whole lifetime: the read pump replies to pings on
// it without holding the hub lock, so shutdown is signaled on done
// instead of by closing send.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Serve upgrades the request and runs the connection's pumps. It returns
// once the upgrade has been handed off; the pumps live on their own
// goroutines until the peer disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	h.register(client)

	go client.writePump()
	go client.readPump()
	return nil
}

// Broadcast sends a typed message to every connected client.
func (h *Hub) Broadcast(msg Message) {
	raw, err := Encode(msg)
	if err != nil {
		logger.Error("Failed to encode broadcast message", err, nil)
		return
	}
	h.broadcastRaw(raw, nil)
}

// ClientCount reports the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.mu.Unlock()
	logger.Info("WebSocket client connected", logger.Fields{"clients": count})
}

// unregister removes the client and signals done exactly once. Safe to
// call from both the read pump and the eviction path; the second call is
// a no-op.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, present := h.clients[c]
	if present {
		delete(h.clients, c)
		close(c.done)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if present {
		logger.Info("WebSocket client disconnected", logger.Fields{"clients": count})
	}
}

// evict force-disconnects a client, announcing the reason in a close
// frame so the peer can tell eviction apart from a network failure.
// WriteControl is safe concurrently with the write pump.
func (h *Hub) evict(c *Client, reason string) {
	deadline := time.Now().Add(writeWait)
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), deadline)
	h.unregister(c)
	c.conn.Close()
	logger.Warn("WebSocket client evicted", logger.Fields{"reason": reason})
}

// broadcastRaw relays bytes to every client except the originator. Slow
// clients with a full send buffer are evicted rather than allowed to
// stall the relay.
func (h *Hub) broadcastRaw(raw []byte, from *Client) {
	h.mu.RLock()
	var stalled []*Client
	for client := range h.clients {
		if client == from {
			continue
		}
		select {
		case client.send <- raw:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		h.evict(client, "slow consumer")
	}
}

// readPump decodes inbound envelopes. Pings are answered in place; every
// other valid message is relayed to the remaining clients verbatim.
// Undecodable envelopes are logged and dropped, never relayed.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read failed", logger.Fields{"error": err.Error()})
			}
			return
		}

		msg, err := Decode(raw)
		if err != nil {
			logger.Warn("Dropping undecodable envelope", logger.Fields{"error": err.Error()})
			continue
		}

		switch msg.(type) {
		case Ping:
			if reply, err := Encode(Pong{}); err == nil {
				select {
				case c.send <- reply:
				default:
				}
			}
		case Pong:
			// Keepalive answer, nothing to relay.
		default:
			c.hub.broadcastRaw(raw, c)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case raw := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
