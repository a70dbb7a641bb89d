package preview

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/dashpanel/internal/dashboard"
	"github.com/muurk/dashpanel/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Queued messages per client before it is dropped
	sendBuffer = 16
)

// Message types sent to preview clients.
const (
	MessageSnapshot = "snapshot"
	MessageChange   = "change"
)

// Message is the JSON payload pushed to preview clients. Every message
// carries the whole document so a client never has to apply deltas.
type Message struct {
	Type     string              `json:"type"`
	Seq      uint64              `json:"seq"`
	Label    string              `json:"label,omitempty"`
	Cards    []string            `json:"cards,omitempty"`
	Document *dashboard.Document `json:"document"`
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	remote string

	// since is the seq of the snapshot the client started from; changes up
	// to it are already in that snapshot
	since uint64
}

// Hub fans committed document changes out to connected websocket clients.
// It subscribes to the store on creation; call Close to detach it.
type Hub struct {
	store    *dashboard.Store
	upgrader websocket.Upgrader

	mu          sync.Mutex
	clients     map[*client]struct{}
	closed      bool
	unsubscribe func()
}

// NewHub creates a hub observing store.
func NewHub(store *dashboard.Store) *Hub {
	h := &Hub{
		store:   store,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Preview pages are served from anywhere on the local network
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	h.unsubscribe = store.Subscribe(h)
	return h
}

// DocumentChanged implements dashboard.Observer.
func (h *Hub) DocumentChanged(change dashboard.Change) {
	data, err := h.encode(Message{
		Type:  MessageChange,
		Seq:   change.Seq,
		Label: change.Label,
		Cards: change.CardIDs(),
	})
	if err != nil {
		logging.Error("Failed to encode preview message", zap.Error(err))
		return
	}
	h.broadcast(change.Seq, data)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Snapshot returns the current document encoded as a snapshot message.
func (h *Hub) Snapshot() ([]byte, error) {
	data, _, err := h.snapshot()
	return data, err
}

// snapshot encodes the document with the seq it was read at.
func (h *Hub) snapshot() ([]byte, uint64, error) {
	var (
		data []byte
		seq  uint64
		err  error
	)
	h.store.ReadSeq(func(doc *dashboard.Document, s uint64) {
		seq = s
		data, err = json.Marshal(Message{Type: MessageSnapshot, Seq: s, Document: doc})
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode %s message: %w", MessageSnapshot, err)
	}
	return data, seq, nil
}

// ServeHTTP upgrades the request and streams messages until the client
// goes away or the hub is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("Websocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), remote: r.RemoteAddr}
	if err := h.register(c); err != nil {
		logging.Warn("Rejected preview client", zap.String("remote_addr", c.remote), zap.Error(err))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

// Close detaches the hub from the store and disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	h.unsubscribe()
	for c := range clients {
		close(c.send)
	}
}

// register adds c and queues the initial snapshot. The snapshot is taken
// under h.mu, so every change is either in it or broadcast to c afterwards.
func (h *Hub) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return fmt.Errorf("hub is closed")
	}

	snapshot, seq, err := h.snapshot()
	if err != nil {
		return err
	}
	c.since = seq
	c.send <- snapshot
	h.clients[c] = struct{}{}
	logging.LogPreviewClient(c.remote, "connected")
	return nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		logging.LogPreviewClient(c.remote, "disconnected")
	}
}

func (h *Hub) broadcast(seq uint64, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if seq <= c.since {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Client is not keeping up
			delete(h.clients, c)
			close(c.send)
			logging.LogPreviewClient(c.remote, "dropped_slow_client")
		}
	}
}

// encode fills in the document under the store's read lock and marshals msg.
func (h *Hub) encode(msg Message) ([]byte, error) {
	var data []byte
	var err error
	h.store.Read(func(doc *dashboard.Document) {
		msg.Document = doc
		data, err = json.Marshal(msg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s message: %w", msg.Type, err)
	}
	return data, nil
}

// readPump discards client input and keeps the connection alive with pongs.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Info("Preview client closed unexpectedly",
					zap.String("remote_addr", c.remote),
					zap.Error(err),
				)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logging.Debug("Preview write failed",
					zap.String("remote_addr", c.remote),
					zap.Error(err),
				)
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
