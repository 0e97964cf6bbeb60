package notifications

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

const writeTimeout = 10 * time.Second

// Hub fans notifications out to websocket connections, keyed by user.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]map[*websocket.Conn]bool
	upgrader websocket.Upgrader
	log      *logger.Logger
}

// NewHub creates a hub. Origin checks are left to the CORS middleware in
// front of the upgrade endpoint.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewDefault("notifications")
	}
	return &Hub{
		conns: make(map[string]map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// ServeWS upgrades the request and keeps the connection registered for
// the given user until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.register(userID, conn)
	defer h.unregister(userID, conn)

	// Drain the connection; clients only receive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish sends v to every open connection of the user. Dead connections
// are dropped.
func (h *Hub) Publish(userID string, v interface{}) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns[userID]))
	for conn := range h.conns[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(v); err != nil {
			h.unregister(userID, conn)
		}
	}
}

func (h *Hub) register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]bool)
	}
	h.conns[userID][conn] = true
}

func (h *Hub) unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set := h.conns[userID]; set != nil {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, userID)
		}
	}
	conn.Close()
}
