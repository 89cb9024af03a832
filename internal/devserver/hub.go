package devserver

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"cuisineberg/internal/domain"
	"cuisineberg/internal/feed"
)

// hub tracks feed connections per restaurant scope and fans new-order
// frames out to every client joined to that scope.
type hub struct {
	mu    sync.Mutex
	rooms map[string]map[*websocket.Conn]bool
}

func newHub() *hub {
	return &hub{rooms: make(map[string]map[*websocket.Conn]bool)}
}

func (h *hub) join(scope string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[scope] == nil {
		h.rooms[scope] = make(map[*websocket.Conn]bool)
	}
	h.rooms[scope][conn] = true
}

func (h *hub) leave(scope string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[scope], conn)
}

func (h *hub) count(scope string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[scope])
}

func (h *hub) broadcast(scope string, order domain.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()

	frame := feed.Envelope{Type: "new_order", Order: &order}
	for conn := range h.rooms[scope] {
		if err := conn.WriteJSON(frame); err != nil {
			log.Printf("[devserver] dropping feed client for %s: %v", scope, err)
			conn.Close()
			delete(h.rooms[scope], conn)
		}
	}
}
