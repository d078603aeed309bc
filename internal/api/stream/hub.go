// Package stream pushes ride list changes to browsers over websockets.
//
// Go Learning Note — One Writer per Connection:
// gorilla/websocket allows at most one concurrent writer per connection. Each
// client therefore owns a buffered send channel drained by its own writePump
// goroutine; the hub only ever puts messages on channels and never touches a
// connection directly.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 8
)

// Message is what clients receive after every change.
type Message struct {
	Type  string          `json:"type"`
	Rides []entities.Ride `json:"rides"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients and broadcasts the latest ride list.
type Hub struct {
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
	closed  bool
}

// NewHub creates a hub. checkOrigin may be nil to accept every origin.
func NewHub(log zerolog.Logger, checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		log:     log,
		clients: make(map[*client]struct{}),
	}
}

// Listener returns the callback to register with the registry. It never
// blocks: a client whose buffer is full is disconnected.
func (h *Hub) Listener() func([]entities.Ride) {
	return func(rides []entities.Ride) {
		if rides == nil {
			rides = []entities.Ride{}
		}
		msg, err := json.Marshal(Message{Type: "rides", Rides: rides})
		if err != nil {
			h.log.Error().Err(err).Msg("encode ride stream message")
			return
		}
		h.broadcast(msg)
	}
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = msg
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn().Msg("slow websocket client dropped")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Clients reports how many websocket clients are connected.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and streams ride lists until the client goes
// away. The first message is the current list.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[cl] = struct{}{}
	if h.latest != nil {
		cl.send <- h.latest
	}
	h.mu.Unlock()

	go h.writePump(cl)
	h.readPump(cl)
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// readPump only watches for pongs and close frames; clients send nothing.
func (h *Hub) readPump(cl *client) {
	defer func() {
		h.remove(cl)
		cl.conn.Close()
	}()
	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// AllowOrigins returns a CheckOrigin func accepting requests without an
// Origin header and those whose Origin is listed. "*" accepts everything.
func AllowOrigins(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := allowed["*"]; ok {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
