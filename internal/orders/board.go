// Package orders keeps the retail dashboard's local mirror of the order
// list. The authoritative state lives server-side; the board only reflects
// fetches, pushed events and optimistic dispatcher patches.
package orders

import (
	"sync"

	"cuisineberg/internal/domain"
)

type Board struct {
	mu     sync.Mutex
	orders []domain.Order
	seen   map[string]bool
}

func NewBoard() *Board {
	return &Board{seen: make(map[string]bool)}
}

// Replace swaps the whole list in, most recent first as the backend returns
// it. Used for the initial fetch and for reconcile re-fetches.
func (b *Board) Replace(orders []domain.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.orders = make([]domain.Order, len(orders))
	copy(b.orders, orders)
	b.seen = make(map[string]bool, len(orders))
	for _, o := range orders {
		b.seen[o.ID] = true
	}
}

// Prepend puts a pushed order at the head of the list. A duplicate id is
// dropped: the feed does not deduplicate, the board does. Returns whether
// the order was actually added.
func (b *Board) Prepend(order domain.Order) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.seen[order.ID] {
		return false
	}
	b.seen[order.ID] = true
	b.orders = append([]domain.Order{order}, b.orders...)
	return true
}

// Get returns the order with the given id, if present.
func (b *Board) Get(orderID string) (domain.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, o := range b.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return domain.Order{}, false
}

// PatchStatus sets the local status for orderID and returns the previous
// one, so a failed dispatch can roll the patch back.
func (b *Board) PatchStatus(orderID string, status domain.Status) (domain.Status, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.orders {
		if b.orders[i].ID == orderID {
			prev := b.orders[i].Status
			b.orders[i].Status = status
			return prev, true
		}
	}
	return "", false
}

// Snapshot returns a copy of the current list, newest first.
func (b *Board) Snapshot() []domain.Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.Order, len(b.orders))
	copy(out, b.orders)
	return out
}

func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.orders)
}
