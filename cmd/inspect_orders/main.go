package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charleschow/coinone-dca/internal/core/tracking"
)

func main() {
	n := flag.Int("n", 10, "max orders to show")
	pretty := flag.Bool("pretty", false, "pretty-print the raw order response")
	dbPath := flag.String("db", "data/orders.db", "path to order store")
	flag.Parse()

	if _, err := os.Stat(*dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "order store %s: %v\n", *dbPath, err)
		os.Exit(1)
	}

	store, err := tracking.OpenStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	rows, err := store.Recent(*n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "query: %v\n", err)
		os.Exit(1)
	}

	for _, r := range rows {
		fmt.Printf("--- id=%d placed=%s %s/%s amount=%s limit=%s result=%s",
			r.ID, r.PlacedAt.Local().Format(time.DateTime), r.TargetCurrency, r.QuoteCurrency,
			r.Amount, r.LimitPrice, r.Result)
		if r.ErrorCode != "" {
			fmt.Printf(" error_code=%s", r.ErrorCode)
		}
		fmt.Println(" ---")
		fmt.Printf("user_order_id=%s order_id=%s\n", r.UserOrderID, r.OrderID)
		if r.Status != "" {
			fmt.Printf("status=%s executed_qty=%s avg_price=%s traded=%s fee=%s ordered=%s\n",
				r.Status, r.ExecutedQty, r.AverageExecutedPrice, r.TradedAmount, r.Fee,
				r.OrderedAt.Local().Format(time.DateTime))
		}

		raw := string(r.Raw)
		if *pretty {
			var buf bytes.Buffer
			if err := json.Indent(&buf, r.Raw, "", "  "); err == nil {
				raw = buf.String()
			}
		}
		if raw != "" {
			fmt.Println(raw)
		}
		fmt.Println()
	}
	if len(rows) == 0 {
		fmt.Println("(no orders recorded)")
	} else {
		fmt.Printf("(%d orders)\n", len(rows))
	}
}
