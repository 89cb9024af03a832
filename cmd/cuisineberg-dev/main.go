package main

import (
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"cuisineberg/config"
	"cuisineberg/internal/devserver"
	"cuisineberg/internal/domain"
)

func main() {
	config.Load()
	addr := ":" + config.Getenv("PORT", "8080")

	server := devserver.New()
	server.AddRestaurant(domain.Restaurant{
		PublicCode: "bella-napoli",
		Name:       "Bella Napoli",
		Address:    "1 Via Roma",
		Menu: []domain.MenuItem{
			{ID: "d1", Name: "Margherita Pizza", Price: decimal.RequireFromString("8.50"), Category: "pizza", Dietary: domain.DietaryVegetarian},
			{ID: "d2", Name: "Pepperoni Pizza", Price: decimal.RequireFromString("9.75"), Category: "pizza", Dietary: domain.DietaryNonVegetarian},
			{ID: "d3", Name: "Caesar Salad", Price: decimal.RequireFromString("6.00"), Category: "salads", Dietary: domain.DietaryVegetarian},
			{ID: "d4", Name: "Cola", Price: decimal.RequireFromString("1.25"), Category: "drinks"},
		},
	})

	log.Printf("[devserver] Cuisineberg dev backend starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, server.Handler()))
}
