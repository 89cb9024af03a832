// Customer-facing ordering app: browse a restaurant's menu, filter it, fill
// a cart and check a pickup order out against the backend.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"cuisineberg/config"
	"cuisineberg/internal/backend"
	"cuisineberg/internal/cart"
	"cuisineberg/internal/checkout"
	"cuisineberg/internal/domain"
	"cuisineberg/internal/menu"
)

func main() {
	config.Load()

	code := config.RestaurantCode()
	if len(os.Args) > 1 {
		code = os.Args[1]
	}
	if code == "" {
		log.Fatal("usage: cuisineberg-order <restaurant-code> (or set CUISINEBERG_RESTAURANT_CODE)")
	}

	client := backend.NewClient(config.BackendURL(), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	restaurant, err := client.GetRestaurant(ctx, code)
	cancel()
	if err != nil {
		log.Fatalf("[order-app] fetching %s: %v", code, err)
	}

	fmt.Printf("%s — %s\n", restaurant.Name, restaurant.Address)

	basket := cart.New()
	selector := checkout.NewSelector()
	visible := restaurant.Menu
	printMenu(visible)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		arg := strings.Join(fields[1:], " ")

		switch fields[0] {
		case "menu":
			visible = restaurant.Menu
			printMenu(visible)
		case "search":
			visible = menu.Filter(restaurant.Menu, arg)
			printMenu(visible)
		case "add":
			if item, ok := pick(visible, arg); ok {
				basket.Add(item)
				printCart(basket)
			}
		case "rm":
			if item, ok := pick(visible, arg); ok {
				basket.Remove(item.ID)
				printCart(basket)
			}
		case "cart":
			printCart(basket)
		case "time":
			selector.SetPickupTime(arg)
			fmt.Println("pickup at", arg, "— payment options: pay cash | pay online")
		case "pay":
			selector.SetPayment(domain.PaymentType(arg))
		case "checkout":
			placeOrder(client, selector, code, basket)
		case "quit", "exit":
			return
		default:
			fmt.Println("commands: menu | search <q> | add <n> | rm <n> | cart | time <hh:mm> | pay cash|online | checkout | quit")
		}
	}
}

func pick(visible []domain.MenuItem, arg string) (domain.MenuItem, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(visible) {
		fmt.Println("pick an item number from the list")
		return domain.MenuItem{}, false
	}
	return visible[n-1], true
}

func printMenu(items []domain.MenuItem) {
	if len(items) == 0 {
		fmt.Println("no matching items")
		return
	}
	for i, item := range items {
		tag := ""
		if item.Dietary == domain.DietaryVegetarian {
			tag = " (veg)"
		}
		fmt.Printf("%2d. %-24s %8s%s\n", i+1, item.Name, item.Price.StringFixed(2), tag)
	}
}

func printCart(c *cart.Cart) {
	if c.ItemCount() == 0 {
		// Zero items: the cart surface is hidden.
		return
	}
	for _, line := range c.Lines() {
		fmt.Printf("  %dx %-24s %8s\n", line.Quantity, line.Item.Name, line.Subtotal().StringFixed(2))
	}
	fmt.Printf("  %d items, total %s\n", c.ItemCount(), c.Total().StringFixed(2))
}

func placeOrder(client *backend.Client, selector *checkout.Selector, code string, basket *cart.Cart) {
	if !selector.CanSubmit() {
		fmt.Println("set a pickup time first: time <hh:mm>")
		return
	}
	draft, err := selector.Submit(code, basket, config.Getenv("CUISINEBERG_CUSTOMER_NAME", "guest"), config.Getenv("CUISINEBERG_CUSTOMER_PHONE", ""))
	if err != nil {
		fmt.Println(err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	order, err := client.PlaceOrder(ctx, *draft)
	if err != nil {
		fmt.Println("could not place the order:", err, "— try again")
		return
	}

	basket.Clear()
	fmt.Printf("order %s placed, total %s, pickup at %s\n", order.ID, order.TotalAmount.StringFixed(2), order.PickupTime)
}
