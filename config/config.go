package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads a .env file when one is present. Missing files are fine; real
// environments set variables directly.
func Load() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] skipping .env: %v", err)
	}
}

func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// BackendURL is the base URL of the Cuisineberg REST API.
func BackendURL() string {
	return Getenv("CUISINEBERG_API_URL", "http://localhost:8080")
}

// FeedURL is the websocket endpoint for the live order feed, derived from
// the backend URL unless set explicitly.
func FeedURL() string {
	if v := os.Getenv("CUISINEBERG_FEED_URL"); v != "" {
		return v
	}
	base := BackendURL()
	base = strings.Replace(base, "https://", "wss://", 1)
	base = strings.Replace(base, "http://", "ws://", 1)
	return base + "/ws"
}

// RetailToken is the bearer token for the retail session.
func RetailToken() string {
	return os.Getenv("CUISINEBERG_RETAIL_TOKEN")
}

// RestaurantCode scopes the retail dashboard and the customer app.
func RestaurantCode() string {
	return os.Getenv("CUISINEBERG_RESTAURANT_CODE")
}
