// Package devserver is an in-memory stand-in for the Cuisineberg backend,
// mirroring the request/response shapes the client consumes. It backs local
// front-end work and the integration tests; nothing here is production code.
package devserver

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"

	"cuisineberg/internal/domain"
	"cuisineberg/internal/feed"
)

type Server struct {
	mu          sync.Mutex
	restaurants map[string]domain.Restaurant
	orders      map[string][]domain.Order // restaurant code -> newest first
	hub         *hub
	upgrader    websocket.Upgrader
}

func New() *Server {
	return &Server{
		restaurants: make(map[string]domain.Restaurant),
		orders:      make(map[string][]domain.Order),
		hub:         newHub(),
		upgrader:    websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// AddRestaurant seeds a restaurant and its menu.
func (s *Server) AddRestaurant(r domain.Restaurant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restaurants[r.PublicCode] = r
}

// FeedClients reports how many feed connections are joined to a scope.
func (s *Server) FeedClients(scope string) int {
	return s.hub.count(scope)
}

// Handler wires the routes the real backend exposes, behind permissive CORS
// so a browser front end can hit it during development.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.health).Methods("GET")
	r.HandleFunc("/api/restaurants/{code}", s.getRestaurant).Methods("GET")
	r.HandleFunc("/api/orders", s.placeOrder).Methods("POST")
	r.HandleFunc("/api/retail/orders", s.listOrders).Methods("GET")
	r.HandleFunc("/api/retail/orders/{id}", s.cancelOrder).Methods("DELETE")
	r.HandleFunc("/api/retail/orders/{id}/status", s.updateStatus).Methods("PATCH")
	r.HandleFunc("/api/upload", s.upload).Methods("POST")
	r.HandleFunc("/ws", s.serveFeed)
	return cors.AllowAll().Handler(r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "cuisineberg-dev",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) getRestaurant(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	restaurant, ok := s.restaurants[mux.Vars(r)["code"]]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "restaurant not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	var draft domain.OrderDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if draft.RestaurantCode == "" || len(draft.Items) == 0 {
		http.Error(w, "invalid order payload", http.StatusBadRequest)
		return
	}

	total := decimal.Zero
	for _, item := range draft.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		RestaurantID:  draft.RestaurantCode,
		Status:        domain.StatusPending,
		Mode:          draft.Mode,
		CustomerName:  draft.CustomerName,
		CustomerPhone: draft.CustomerPhone,
		Address:       draft.Address,
		PickupTime:    draft.PickupTime,
		Payment:       draft.Payment,
		Items:         draft.Items,
		TotalAmount:   total,
		CreatedAt:     time.Now(),
	}

	s.mu.Lock()
	s.orders[order.RestaurantID] = append([]domain.Order{order}, s.orders[order.RestaurantID]...)
	s.mu.Unlock()

	s.hub.broadcast(order.RestaurantID, order)
	writeJSON(w, http.StatusOK, order)
}

// retailScope maps the bearer token to a restaurant code. The dev token is
// simply the restaurant code itself.
func retailScope(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ")
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	scope := retailScope(r)
	if scope == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	s.mu.Lock()
	orders := append([]domain.Order{}, s.orders[scope]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	s.mutateOrder(w, r, func(order *domain.Order) bool {
		order.Status = domain.StatusCancelled
		return true
	})
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !body.Status.Valid() {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	s.mutateOrder(w, r, func(order *domain.Order) bool {
		if order.Status.Terminal() {
			return false
		}
		order.Status = body.Status
		return true
	})
}

func (s *Server) mutateOrder(w http.ResponseWriter, r *http.Request, apply func(*domain.Order) bool) {
	scope := retailScope(r)
	if scope == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	orderID := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders[scope] {
		if s.orders[scope][i].ID != orderID {
			continue
		}
		if !apply(&s.orders[scope][i]) {
			http.Error(w, "order is in a terminal status", http.StatusConflict)
			return
		}
		writeJSON(w, http.StatusOK, s.orders[scope][i])
		return
	}
	http.Error(w, "order not found", http.StatusNotFound)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "missing image file", http.StatusBadRequest)
		return
	}
	file.Close()
	writeJSON(w, http.StatusOK, map[string]string{
		"url": "/static/uploads/" + uuid.NewString() + "-" + header.Filename,
	})
}

// serveFeed upgrades the connection, waits for the join frame, then keeps
// the client in the room until it disconnects.
func (s *Server) serveFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[devserver] feed upgrade failed: %v", err)
		return
	}

	var join feed.Envelope
	if err := conn.ReadJSON(&join); err != nil || join.Type != "join" || join.RestaurantID == "" {
		conn.Close()
		return
	}
	scope := join.RestaurantID
	s.hub.join(scope, conn)
	log.Printf("[devserver] feed client joined scope %s", scope)

	// Drain until the client goes away; pushes happen via the hub.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.hub.leave(scope, conn)
	conn.Close()
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
