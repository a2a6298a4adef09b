// Package live pushes marketplace changes (event created/deleted) to
// websocket subscribers so listings refresh without polling.
package live

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"tixplate/logger"
)

type Update struct {
	Kind     string `json:"kind"`
	EntityID string `json:"entityId"`
}

type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	broadcast chan Update
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Update, 64),
	}
}

// Run fans updates out to every connected client. Dead connections are
// dropped on write failure.
func (h *Hub) Run() {
	for update := range h.broadcast {
		payload, err := json.Marshal(update)
		if err != nil {
			continue
		}
		h.mu.Lock()
		for conn := range h.clients {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}

// Broadcast never blocks the originating request; updates are dropped
// when the channel is full.
func (h *Hub) Broadcast(kind, entityID string) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- Update{Kind: kind, EntityID: entityID}:
	default:
	}
}

func (h *Hub) Handler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		h.mu.Lock()
		h.clients[conn] = true
		h.mu.Unlock()

		// Reader loop just drains control frames and detects closure.
		go func() {
			defer func() {
				h.mu.Lock()
				delete(h.clients, conn)
				h.mu.Unlock()
				conn.Close()
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
