// Package dispatch issues order state changes against the backend and keeps
// the local board in step: optimistic patch on success, rollback never
// needed because the patch only lands after the server acknowledged, and a
// delayed re-fetch reconciles anything else the server changed.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cuisineberg/internal/domain"
	"cuisineberg/internal/orders"
)

type Action string

const (
	ActionCancel             Action = "cancel"
	ActionMarkPreparing      Action = "mark_preparing"
	ActionMarkOutForDelivery Action = "mark_out_for_delivery"
	ActionMarkDelivered      Action = "mark_delivered"
)

var (
	ErrUnknownOrder      = errors.New("order is not on the board")
	ErrUnknownAction     = errors.New("unknown order action")
	ErrInvalidTransition = errors.New("action not allowed for the order's current status")
)

// OrderAPI is the slice of the backend client the dispatcher needs.
type OrderAPI interface {
	CancelOrder(ctx context.Context, orderID string) error
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.Status) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

type Dispatcher struct {
	api            OrderAPI
	board          *orders.Board
	reconcileAfter time.Duration
}

// NewDispatcher builds a dispatcher over the given board. reconcileAfter is
// the delay before the follow-up re-fetch that realigns the board with the
// server; zero disables it.
func NewDispatcher(api OrderAPI, board *orders.Board, reconcileAfter time.Duration) *Dispatcher {
	return &Dispatcher{api: api, board: board, reconcileAfter: reconcileAfter}
}

func target(action Action) (domain.Status, error) {
	switch action {
	case ActionCancel:
		return domain.StatusCancelled, nil
	case ActionMarkPreparing:
		return domain.StatusPreparing, nil
	case ActionMarkOutForDelivery:
		return domain.StatusOutForDelivery, nil
	case ActionMarkDelivered:
		return domain.StatusDelivered, nil
	}
	return "", ErrUnknownAction
}

// Allowed reports whether action may be taken from the given status. The UI
// uses this to gate what it offers; Dispatch re-checks it regardless.
func Allowed(status domain.Status, action Action) bool {
	switch action {
	case ActionCancel:
		return !status.Terminal()
	case ActionMarkPreparing:
		return status == domain.StatusPending
	case ActionMarkOutForDelivery:
		return status == domain.StatusPreparing
	case ActionMarkDelivered:
		return status == domain.StatusPreparing || status == domain.StatusOutForDelivery
	}
	return false
}

// Dispatch validates the transition locally, calls the backend, and patches
// the board only after the call succeeded. An invalid transition never
// reaches the network.
func (d *Dispatcher) Dispatch(ctx context.Context, orderID string, action Action) error {
	next, err := target(action)
	if err != nil {
		return err
	}

	order, ok := d.board.Get(orderID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOrder, orderID)
	}
	if !Allowed(order.Status, action) {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, order.Status)
	}

	if action == ActionCancel {
		err = d.api.CancelOrder(ctx, orderID)
	} else {
		err = d.api.UpdateOrderStatus(ctx, orderID, next)
	}
	if err != nil {
		return fmt.Errorf("dispatch %s for order %s: %w", action, orderID, err)
	}

	d.board.PatchStatus(orderID, next)

	if d.reconcileAfter > 0 {
		time.AfterFunc(d.reconcileAfter, d.reconcile)
	}
	return nil
}

// Refresh replaces the board with the server's current order list. Used for
// the initial load and available to the UI's retry affordance.
func (d *Dispatcher) Refresh(ctx context.Context) error {
	fetched, err := d.api.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("refresh orders: %w", err)
	}
	d.board.Replace(fetched)
	return nil
}

func (d *Dispatcher) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := d.Refresh(ctx); err != nil {
		// Soft: the optimistic patch stands until the next refresh.
		log.Printf("[dispatch] reconcile fetch failed: %v", err)
	}
}
