// Restaurant dashboard: live order feed with an audible bell, order status
// actions, and a QR code for the public menu link.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"cuisineberg/config"
	"cuisineberg/internal/backend"
	"cuisineberg/internal/dispatch"
	"cuisineberg/internal/domain"
	"cuisineberg/internal/feed"
	"cuisineberg/internal/orders"
	"cuisineberg/internal/session"
)

func main() {
	config.Load()

	scope := config.RestaurantCode()
	if scope == "" {
		log.Fatal("[retail-app] set CUISINEBERG_RESTAURANT_CODE")
	}

	tokens := session.NewStore()
	tokens.Init(config.RetailToken(), config.Getenv("CUISINEBERG_THEME", ""))

	client := backend.NewClient(config.BackendURL(), nil, tokens)
	board := orders.NewBoard()
	dispatcher := dispatch.NewDispatcher(client, board, 2*time.Second)

	ctx := context.Background()
	if err := dispatcher.Refresh(ctx); err != nil {
		log.Printf("[retail-app] initial order fetch failed: %v — retry with 'ls'", err)
	}

	sub := feed.NewSubscriber(client, feed.NewWebsocketDialer(), config.FeedURL(), board, func(order domain.Order) {
		// Bell plus a line; the board already holds the order.
		fmt.Printf("\a\nnew order %s — %s, total %s\n> ", order.ID, order.CustomerName, order.TotalAmount.StringFixed(2))
	})
	if err := sub.Subscribe(ctx, scope); err != nil {
		log.Printf("[retail-app] live feed unavailable: %v — orders still load via 'ls'", err)
	}
	defer sub.Close()

	printBoard(board)

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

		switch fields[0] {
		case "ls":
			if err := dispatcher.Refresh(ctx); err != nil {
				fmt.Println("could not refresh orders:", err)
			}
			printBoard(board)
		case "prep", "out", "done", "cancel":
			if len(fields) < 2 {
				fmt.Println("usage:", fields[0], "<order-id>")
				continue
			}
			act(ctx, dispatcher, fields[1], fields[0])
		case "qr":
			printMenuQR(scope)
		case "feed":
			fmt.Printf("feed: %s (scope %s)\n", sub.State(), sub.Scope())
		case "quit", "exit":
			return
		default:
			fmt.Println("commands: ls | prep <id> | out <id> | done <id> | cancel <id> | qr | feed | quit")
		}
	}
}

var actions = map[string]dispatch.Action{
	"prep":   dispatch.ActionMarkPreparing,
	"out":    dispatch.ActionMarkOutForDelivery,
	"done":   dispatch.ActionMarkDelivered,
	"cancel": dispatch.ActionCancel,
}

func act(ctx context.Context, dispatcher *dispatch.Dispatcher, orderID, verb string) {
	callCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := dispatcher.Dispatch(callCtx, orderID, actions[verb]); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("order", orderID, "→", verb)
}

func printBoard(board *orders.Board) {
	snapshot := board.Snapshot()
	if len(snapshot) == 0 {
		fmt.Println("no orders yet")
		return
	}
	for _, order := range snapshot {
		fmt.Printf("%s  %-16s %-8s %s  %s\n",
			order.CreatedAt.Format("15:04"), order.ID, order.Mode, order.Status, order.TotalAmount.StringFixed(2))
	}
}

// printMenuQR renders the public ordering link for the restaurant as a
// terminal QR code, for counter displays.
func printMenuQR(scope string) {
	link := config.Getenv("CUISINEBERG_PUBLIC_URL", "https://cuisineberg.app") + "/menu/" + scope
	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		fmt.Println("could not build QR code:", err)
		return
	}
	fmt.Println(link)
	fmt.Println(qr.ToSmallString(false))
}
