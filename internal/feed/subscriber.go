// Package feed maintains the live order-created subscription for one
// restaurant scope at a time. The lifecycle is an explicit state machine so
// that teardown-before-reconnect is structural, not a convention.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"cuisineberg/internal/domain"
	"cuisineberg/internal/orders"
)

type State string

const (
	StateIdle           State = "idle"
	StateHealthChecking State = "health_checking"
	StateConnecting     State = "connecting"
	StateConnected      State = "connected"
	StateDisconnected   State = "disconnected"
	StateFailed         State = "failed"
)

var ErrEmptyScope = errors.New("restaurant scope is empty")

// HealthChecker gates dialing: no socket is opened against a backend that
// has not reported itself ready.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Conn is one established feed connection. ReadMessage blocks until a frame
// arrives or the connection dies.
type Conn interface {
	WriteJSON(v interface{}) error
	ReadMessage() ([]byte, error)
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// Envelope is the feed wire frame. The client sends "join" once after
// connecting; the server pushes "new_order" frames for the joined scope.
type Envelope struct {
	Type         string        `json:"type"`
	RestaurantID string        `json:"restaurant_id,omitempty"`
	Order        *domain.Order `json:"order,omitempty"`
}

type Subscriber struct {
	health  HealthChecker
	dialer  Dialer
	url     string
	board   *orders.Board
	onOrder func(domain.Order)

	mu    sync.Mutex
	state State
	scope string
	conn  Conn
	gen   int
}

// NewSubscriber wires a subscriber to the board it feeds. onOrder fires once
// per accepted order (the dashboard rings its bell there); it may be nil.
func NewSubscriber(health HealthChecker, dialer Dialer, url string, board *orders.Board, onOrder func(domain.Order)) *Subscriber {
	return &Subscriber{
		health:  health,
		dialer:  dialer,
		url:     url,
		board:   board,
		onOrder: onOrder,
		state:   StateIdle,
	}
}

// Subscribe tears down any prior connection, then runs the health check and
// dials for the given scope. Health-check failure leaves the subscriber in
// StateFailed without ever dialing; dial or handshake failure ends in
// StateDisconnected. Both are soft: the rest of the app keeps working
// without live updates.
func (s *Subscriber) Subscribe(ctx context.Context, scope string) error {
	if scope == "" {
		return ErrEmptyScope
	}

	// Unconditional: the old scope's connection must be fully gone before
	// the new cycle starts, or stale events could still land on the board.
	s.teardown(StateIdle)

	s.setState(StateHealthChecking, scope)
	if err := s.health.Health(ctx); err != nil {
		s.setState(StateFailed, scope)
		return fmt.Errorf("feed health check for scope %s: %w", scope, err)
	}

	s.setState(StateConnecting, scope)
	conn, err := s.dialer.Dial(ctx, s.url)
	if err != nil {
		s.setState(StateDisconnected, scope)
		return fmt.Errorf("feed dial for scope %s: %w", scope, err)
	}

	if err := conn.WriteJSON(Envelope{Type: "join", RestaurantID: scope}); err != nil {
		conn.Close()
		s.setState(StateDisconnected, scope)
		return fmt.Errorf("feed join for scope %s: %w", scope, err)
	}

	s.mu.Lock()
	s.state = StateConnected
	s.scope = scope
	s.conn = conn
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	go s.readLoop(conn, gen, scope)
	return nil
}

// Close disconnects the feed. Idempotent; also the unmount path.
func (s *Subscriber) Close() {
	s.teardown(StateDisconnected)
}

func (s *Subscriber) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Subscriber) Scope() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

func (s *Subscriber) setState(state State, scope string) {
	s.mu.Lock()
	s.state = state
	s.scope = scope
	s.mu.Unlock()
}

func (s *Subscriber) teardown(next State) {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.gen++ // orphans any running read loop
	s.state = next
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (s *Subscriber) readLoop(conn Conn, gen int, scope string) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			if gen == s.gen {
				s.state = StateDisconnected
				s.conn = nil
			}
			stale := gen != s.gen
			s.mu.Unlock()
			if !stale {
				log.Printf("[feed] connection for scope %s closed: %v", scope, err)
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			log.Printf("[feed] dropping malformed frame for scope %s: %v", scope, err)
			continue
		}
		if envelope.Type != "new_order" || envelope.Order == nil {
			continue
		}

		s.mu.Lock()
		live := gen == s.gen && s.state == StateConnected
		s.mu.Unlock()
		if !live {
			return
		}

		if s.board.Prepend(*envelope.Order) {
			log.Printf("[feed] new order %s for scope %s", envelope.Order.ID, scope)
			if s.onOrder != nil {
				s.onOrder(*envelope.Order)
			}
		}
	}
}
