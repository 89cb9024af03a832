// Package checkout captures the pickup-time and payment-type choices and
// gates order submission. Actual placement is the backend's job; Submit only
// validates and assembles the draft.
package checkout

import (
	"errors"

	"cuisineberg/internal/cart"
	"cuisineberg/internal/domain"
)

var (
	ErrNoPickupTime  = errors.New("pick a pickup time first")
	ErrNoPaymentType = errors.New("choose a payment type")
	ErrEmptyCart     = errors.New("the cart is empty")
)

type Selector struct {
	pickupTime string
	payment    domain.PaymentType
}

func NewSelector() *Selector {
	return &Selector{}
}

func (s *Selector) SetPickupTime(t string) {
	s.pickupTime = t
}

// SetPayment picks exactly one of the two payment types; anything else is
// ignored.
func (s *Selector) SetPayment(p domain.PaymentType) {
	if p == domain.PaymentCash || p == domain.PaymentOnline {
		s.payment = p
	}
}

func (s *Selector) PickupTime() string          { return s.pickupTime }
func (s *Selector) Payment() domain.PaymentType { return s.payment }

// CanSubmit is true once a pickup time is set. The payment options only
// appear after that, so payment is enforced at Submit, not here.
func (s *Selector) CanSubmit() bool {
	return s.pickupTime != ""
}

// Submit validates the selections against the cart and assembles the draft
// the backend client will post.
func (s *Selector) Submit(restaurantCode string, c *cart.Cart, name, phone string) (*domain.OrderDraft, error) {
	if s.pickupTime == "" {
		return nil, ErrNoPickupTime
	}
	if s.payment == "" {
		return nil, ErrNoPaymentType
	}
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ItemID:   line.Item.ID,
			ItemName: line.Item.Name,
			Quantity: line.Quantity,
			Price:    line.Item.Price,
		})
	}

	return &domain.OrderDraft{
		RestaurantCode: restaurantCode,
		Items:          items,
		Mode:           domain.ModePickup,
		PickupTime:     s.pickupTime,
		Payment:        s.payment,
		CustomerName:   name,
		CustomerPhone:  phone,
	}, nil
}
