// Package backend is the typed client for the Cuisineberg REST API. All
// business logic lives behind these endpoints; the client only shapes
// requests and maps failures to readable errors.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"cuisineberg/internal/domain"
)

var (
	ErrUnauthorized = errors.New("not authorized; sign in again")
	ErrNotFound     = errors.New("resource not found")
	ErrUnavailable  = errors.New("service is not available right now")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token for retail endpoints. A nil source
// or empty token sends unauthenticated requests.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	client  HTTPClient
	tokens  TokenSource
}

func NewClient(baseURL string, client HTTPClient, tokens TokenSource) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, client: client, tokens: tokens}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w (%s %s: %d)", ErrUnavailable, req.Method, req.URL.Path, resp.StatusCode)
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s failed with status %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// Health probes backend readiness. The order feed refuses to dial until this
// succeeds.
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// GetRestaurant fetches the public menu snapshot for a restaurant code.
func (c *Client) GetRestaurant(ctx context.Context, publicCode string) (*domain.Restaurant, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/restaurants/"+publicCode, nil)
	if err != nil {
		return nil, err
	}
	var restaurant domain.Restaurant
	if err := c.do(req, &restaurant); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// ListOrders fetches the authenticated restaurant's current orders, newest
// first.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/retail/orders", nil)
	if err != nil {
		return nil, err
	}
	orders := []domain.Order{}
	if err := c.do(req, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PlaceOrder submits a draft; the backend prices it and returns the
// authoritative order.
func (c *Client) PlaceOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var order domain.Order
	if err := c.do(req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder uses deletion semantics server-side; the local mirror keeps
// the order, marked cancelled.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/retail/orders/"+orderID, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// UpdateOrderStatus moves an order along its status lifecycle.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status domain.Status) error {
	payload, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPatch, "/api/retail/orders/"+orderID+"/status", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

// UploadImage posts a single file and returns the resolvable URL the backend
// assigns to it.
func (c *Client) UploadImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result struct {
		URL string `json:"url"`
	}
	if err := c.do(req, &result); err != nil {
		return "", err
	}
	return result.URL, nil
}
