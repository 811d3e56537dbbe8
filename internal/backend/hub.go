package backend

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/transport"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 64
)

// Hub tracks the live connections of every user. A user may be connected
// from several devices at once.
type Hub struct {
	mu     sync.RWMutex
	conns  map[chat.UserID]map[*client]struct{}
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{conns: make(map[chat.UserID]map[*client]struct{}), logger: logger}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[c.user]
	if !ok {
		set = make(map[*client]struct{})
		h.conns[c.user] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[c.user]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.conns, c.user)
	}
}

// Connections returns how many live connections user has.
func (h *Hub) Connections(user chat.UserID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[user])
}

// SendTo queues f on every connection of user except skip. A connection
// whose buffer is full is dropped; its client resyncs on reconnect.
func (h *Hub) SendTo(user chat.UserID, f transport.Frame, skip *client) {
	var slow []*client
	h.mu.RLock()
	for c := range h.conns[user] {
		if c == skip {
			continue
		}
		select {
		case c.send <- f:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow live connection", zap.Int64("user_id", int64(user)))
		h.unregister(c)
	}
}

// reply queues f on c alone, if c is still registered.
func (h *Hub) reply(c *client, f transport.Frame) {
	h.mu.RLock()
	_, ok := h.conns[c.user][c]
	full := false
	if ok {
		select {
		case c.send <- f:
		default:
			full = true
		}
	}
	h.mu.RUnlock()
	if full {
		h.unregister(c)
	}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	var all []*client
	for _, set := range h.conns {
		for c := range set {
			all = append(all, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range all {
		h.unregister(c)
	}
}

// client is one websocket connection of an authenticated user.
type client struct {
	hub  *Hub
	user chat.UserID
	conn *websocket.Conn
	send chan transport.Frame
}

func newClient(h *Hub, user chat.UserID, conn *websocket.Conn) *client {
	return &client{hub: h, user: user, conn: conn, send: make(chan transport.Frame, sendBuffer)}
}

// readPump hands every inbound frame to handle until the connection fails.
func (c *client) readPump(handle func(*client, transport.Frame)) {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var f transport.Frame
		if err := c.conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("live connection closed", zap.Int64("user_id", int64(c.user)), zap.Error(err))
			}
			return
		}
		handle(c, f)
	}
}

// writePump writes queued frames and pings until send is closed.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case f, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(f); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
