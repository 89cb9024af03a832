package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuisineberg/internal/domain"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestServer(t *testing.T) (*httptest.Server, *mux.Router) {
	t.Helper()
	router := mux.NewRouter()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, router
}

func TestClient_GetRestaurant(t *testing.T) {
	server, router := newTestServer(t)
	router.HandleFunc("/api/restaurants/{code}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bella-napoli", mux.Vars(r)["code"])
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		json.NewEncoder(w).Encode(domain.Restaurant{
			PublicCode: "bella-napoli",
			Name:       "Bella Napoli",
			Menu: []domain.MenuItem{
				{ID: "d1", Name: "Margherita", Price: decimal.RequireFromString("8.50")},
			},
		})
	}).Methods("GET")

	client := NewClient(server.URL, nil, nil)
	restaurant, err := client.GetRestaurant(context.Background(), "bella-napoli")

	require.NoError(t, err)
	assert.Equal(t, "Bella Napoli", restaurant.Name)
	require.Len(t, restaurant.Menu, 1)
	assert.True(t, restaurant.Menu[0].Price.Equal(decimal.RequireFromString("8.50")))
}

func TestClient_ListOrdersSendsBearerToken(t *testing.T) {
	server, router := newTestServer(t)
	router.HandleFunc("/api/retail/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode([]domain.Order{{ID: "o1", Status: domain.StatusPending}})
	}).Methods("GET")

	client := NewClient(server.URL, nil, staticTokens("secret-token"))
	orders, err := client.ListOrders(context.Background())

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}

func TestClient_ErrorMapping(t *testing.T) {
	server, router := newTestServer(t)
	router.HandleFunc("/api/retail/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	router.HandleFunc("/api/restaurants/{code}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client := NewClient(server.URL, nil, nil)

	_, err := client.ListOrders(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.GetRestaurant(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	err = client.Health(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_UpdateOrderStatus(t *testing.T) {
	server, router := newTestServer(t)
	var gotBody map[string]string
	router.HandleFunc("/api/retail/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "o7", mux.Vars(r)["id"])
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}).Methods("PATCH")

	client := NewClient(server.URL, nil, nil)
	err := client.UpdateOrderStatus(context.Background(), "o7", domain.StatusPreparing)

	require.NoError(t, err)
	assert.Equal(t, "preparing", gotBody["status"])
}

func TestClient_CancelOrderUsesDelete(t *testing.T) {
	server, router := newTestServer(t)
	called := false
	router.HandleFunc("/api/retail/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	}).Methods("DELETE")

	client := NewClient(server.URL, nil, nil)
	require.NoError(t, client.CancelOrder(context.Background(), "o3"))
	assert.True(t, called)
}

func TestClient_UploadImage(t *testing.T) {
	server, router := newTestServer(t)
	router.HandleFunc("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "menu.png", header.Filename)
		json.NewEncoder(w).Encode(map[string]string{"url": "/static/uploads/menu.png"})
	}).Methods("POST")

	client := NewClient(server.URL, nil, nil)
	url, err := client.UploadImage(context.Background(), "menu.png", strings.NewReader("not-really-a-png"))

	require.NoError(t, err)
	assert.Equal(t, "/static/uploads/menu.png", url)
}
