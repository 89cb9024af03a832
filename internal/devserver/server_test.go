package devserver

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuisineberg/internal/backend"
	"cuisineberg/internal/cart"
	"cuisineberg/internal/checkout"
	"cuisineberg/internal/dispatch"
	"cuisineberg/internal/domain"
	"cuisineberg/internal/feed"
	"cuisineberg/internal/orders"
)

type scopeTokens string

func (s scopeTokens) Token() string { return string(s) }

func seedServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New()
	s.AddRestaurant(domain.Restaurant{
		PublicCode: "bella-napoli",
		Name:       "Bella Napoli",
		Address:    "1 Via Roma",
		Menu: []domain.MenuItem{
			{ID: "d1", Name: "Margherita", Price: decimal.RequireFromString("8.50"), Category: "pizza", Dietary: domain.DietaryVegetarian},
			{ID: "d2", Name: "Cola", Price: decimal.RequireFromString("1.25"), Category: "drinks"},
		},
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

// Full customer-to-retail loop: browse, cart, checkout, live push, action.
func TestEndToEndOrderFlow(t *testing.T) {
	server, ts := seedServer(t)
	ctx := context.Background()

	customer := backend.NewClient(ts.URL, nil, nil)
	retail := backend.NewClient(ts.URL, nil, scopeTokens("bella-napoli"))

	// Retail dashboard comes up first: empty board, live feed joined.
	board := orders.NewBoard()
	received := make(chan domain.Order, 1)
	sub := feed.NewSubscriber(retail, feed.NewWebsocketDialer(), wsURL(ts), board, func(o domain.Order) {
		received <- o
	})
	require.NoError(t, sub.Subscribe(ctx, "bella-napoli"))
	defer sub.Close()
	require.Eventually(t, func() bool {
		return server.FeedClients("bella-napoli") == 1
	}, 2*time.Second, 10*time.Millisecond, "join frame processed")

	// Customer browses the menu and checks out a pickup order.
	restaurant, err := customer.GetRestaurant(ctx, "bella-napoli")
	require.NoError(t, err)
	require.Len(t, restaurant.Menu, 2)

	basket := cart.New()
	basket.Add(restaurant.Menu[0])
	basket.Add(restaurant.Menu[0])
	basket.Add(restaurant.Menu[1])

	selector := checkout.NewSelector()
	selector.SetPickupTime("18:30")
	selector.SetPayment(domain.PaymentCash)
	draft, err := selector.Submit("bella-napoli", basket, "Ada", "555-0101")
	require.NoError(t, err)

	placed, err := customer.PlaceOrder(ctx, *draft)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, placed.Status)
	assert.True(t, placed.TotalAmount.Equal(decimal.RequireFromString("18.25")), "got %s", placed.TotalAmount)

	// The push lands on the retail board without any fetch.
	select {
	case pushed := <-received:
		assert.Equal(t, placed.ID, pushed.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no new-order push received")
	}
	require.Equal(t, 1, board.Len())
	assert.Equal(t, placed.ID, board.Snapshot()[0].ID)

	// Retail moves the order along; the server is the source of truth.
	dispatcher := dispatch.NewDispatcher(retail, board, 0)
	require.NoError(t, dispatcher.Dispatch(ctx, placed.ID, dispatch.ActionMarkPreparing))

	require.NoError(t, dispatcher.Refresh(ctx))
	got, ok := board.Get(placed.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPreparing, got.Status)

	// Cancel still works from preparing, with delete semantics upstream.
	require.NoError(t, dispatcher.Dispatch(ctx, placed.ID, dispatch.ActionCancel))
	require.NoError(t, dispatcher.Refresh(ctx))
	got, _ = board.Get(placed.ID)
	assert.Equal(t, domain.StatusCancelled, got.Status)
}

func TestRetailEndpointsRequireToken(t *testing.T) {
	_, ts := seedServer(t)

	anonymous := backend.NewClient(ts.URL, nil, nil)
	_, err := anonymous.ListOrders(context.Background())

	assert.ErrorIs(t, err, backend.ErrUnauthorized)
}

func TestUpdateStatusRejectsTerminalOrders(t *testing.T) {
	_, ts := seedServer(t)
	ctx := context.Background()

	customer := backend.NewClient(ts.URL, nil, nil)
	retail := backend.NewClient(ts.URL, nil, scopeTokens("bella-napoli"))

	placed, err := customer.PlaceOrder(ctx, domain.OrderDraft{
		RestaurantCode: "bella-napoli",
		Items:          []domain.OrderItem{{ItemID: "d1", ItemName: "Margherita", Quantity: 1, Price: decimal.RequireFromString("8.50")}},
		Mode:           domain.ModePickup,
		Payment:        domain.PaymentCash,
	})
	require.NoError(t, err)

	require.NoError(t, retail.CancelOrder(ctx, placed.ID))

	err = retail.UpdateOrderStatus(ctx, placed.ID, domain.StatusPreparing)
	assert.Error(t, err, "terminal orders cannot progress")
}

func TestFeedScopesAreIsolated(t *testing.T) {
	server, ts := seedServer(t)
	server.AddRestaurant(domain.Restaurant{PublicCode: "other-place", Name: "Other Place"})
	ctx := context.Background()

	health := backend.NewClient(ts.URL, nil, nil)
	board := orders.NewBoard()
	sub := feed.NewSubscriber(health, feed.NewWebsocketDialer(), wsURL(ts), board, nil)
	require.NoError(t, sub.Subscribe(ctx, "other-place"))
	defer sub.Close()
	require.Eventually(t, func() bool {
		return server.FeedClients("other-place") == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err := health.PlaceOrder(ctx, domain.OrderDraft{
		RestaurantCode: "bella-napoli",
		Items:          []domain.OrderItem{{ItemID: "d1", Quantity: 1, Price: decimal.RequireFromString("8.50")}},
	})
	require.NoError(t, err)

	// An order for bella-napoli must never reach the other-place board.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, board.Len())
}
