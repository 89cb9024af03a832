package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Dietary string

const (
	DietaryNone          Dietary = ""
	DietaryVegetarian    Dietary = "veg"
	DietaryNonVegetarian Dietary = "non_veg"
)

type MenuItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Dietary  Dietary         `json:"dietary,omitempty"`
	PhotoURL string          `json:"photo_url,omitempty"`
}

type Restaurant struct {
	PublicCode string     `json:"public_code"`
	Name       string     `json:"name"`
	Address    string     `json:"address"`
	PhotoURL   string     `json:"photo_url,omitempty"`
	Menu       []MenuItem `json:"menu"`
}

type CartLine struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

// Subtotal is price times quantity, recomputed on every call.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type DeliveryMode string

const (
	ModeDelivery DeliveryMode = "delivery"
	ModePickup   DeliveryMode = "pickup"
)

type PaymentType string

const (
	PaymentCash   PaymentType = "cash"
	PaymentOnline PaymentType = "online"
)

// OrderItem carries the price snapshotted at order time; it is never
// re-derived from current menu state.
type OrderItem struct {
	ItemID   string          `json:"item_id"`
	ItemName string          `json:"item_name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type Order struct {
	ID            string          `json:"id"`
	RestaurantID  string          `json:"restaurant_id"`
	Status        Status          `json:"status"`
	Mode          DeliveryMode    `json:"mode"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Address       string          `json:"address,omitempty"`
	PickupTime    string          `json:"pickup_time,omitempty"`
	Payment       PaymentType     `json:"payment,omitempty"`
	Items         []OrderItem     `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderDraft is what checkout submits; the backend owns pricing and returns
// the authoritative Order.
type OrderDraft struct {
	RestaurantCode string       `json:"restaurant_code"`
	Items          []OrderItem  `json:"items"`
	Mode           DeliveryMode `json:"mode"`
	PickupTime     string       `json:"pickup_time,omitempty"`
	Payment        PaymentType  `json:"payment"`
	CustomerName   string       `json:"customer_name"`
	CustomerPhone  string       `json:"customer_phone"`
	Address        string       `json:"address,omitempty"`
}
