// Ping Coinone to measure how long each price source takes to answer.
//
// Times the public ticker (REST), the websocket orderbook snapshot, and,
// when API keys are configured, a signed balance query.
//
// Usage:
//
//	go run ./cmd/ping_coinone              # default: 10 requests per source
//	go run ./cmd/ping_coinone -n 30        # 30 requests per source
//	go run ./cmd/ping_coinone -ws=false    # skip the websocket snapshot
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charleschow/coinone-dca/internal/adapters/coinone_auth"
	"github.com/charleschow/coinone-dca/internal/adapters/inbound/coinone_ws"
	"github.com/charleschow/coinone-dca/internal/adapters/outbound/coinone_http"
	"github.com/charleschow/coinone-dca/internal/config"
	"github.com/charleschow/coinone-dca/internal/telemetry"
)

func main() {
	n := flag.Int("n", 10, "number of requests per source")
	ws := flag.Bool("ws", true, "also time the websocket orderbook snapshot")
	flag.Parse()

	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel("warn"))

	signer := coinone_auth.NewSigner(cfg.AccessKey, cfg.SecretKey)
	client := coinone_http.NewClient(cfg.CoinoneBaseURL, signer)
	quote, target := cfg.HoldCurrency, cfg.BuyCurrency

	fmt.Printf("\nPinging Coinone  %s/%s\n", target, quote)

	banner("REST ticker — " + cfg.CoinoneBaseURL)
	run(*n, "REST ticker", func(ctx context.Context) (string, error) {
		ask, err := client.BestAsk(ctx, quote, target)
		return "ask " + ask.String(), err
	})

	if *ws {
		wsClient := coinone_ws.NewClient(cfg.CoinoneWSURL, time.Duration(cfg.WSTimeoutSec)*time.Second)
		banner("WS orderbook — " + cfg.CoinoneWSURL)
		run(*n, "WS orderbook", func(ctx context.Context) (string, error) {
			ask, err := wsClient.BestAsk(ctx, quote, target)
			return "ask " + ask.String(), err
		})
	}

	if signer.Enabled() {
		banner("Signed balance — " + cfg.CoinoneBaseURL)
		run(*n, "Signed balance", func(ctx context.Context) (string, error) {
			bals, err := client.GetBalances(ctx, quote)
			return fmt.Sprintf("%d balances", len(bals)), err
		})
	} else {
		fmt.Println("\n  [!] API_ACCESS_KEY / API_SECRET_KEY not set, skipping signed request")
	}
	fmt.Println()
}

func banner(title string) {
	fmt.Printf("\n%s\n  %s\n%s\n", strings.Repeat("=", 55), title, strings.Repeat("=", 55))
}

func run(n int, label string, call func(ctx context.Context) (string, error)) {
	latencies := make([]float64, 0, n)
	pad := len(fmt.Sprintf("%d", n))
	for i := 1; i <= n; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		start := time.Now()
		detail, err := call(ctx)
		elapsed := time.Since(start)
		cancel()
		if err != nil {
			fmt.Printf("  [%*d/%d]  FAILED — %v\n", pad, i, n, err)
			continue
		}
		ms := float64(elapsed.Microseconds()) / 1000
		latencies = append(latencies, ms)
		fmt.Printf("  [%*d/%d]  %7.1f ms  (%s)\n", pad, i, n, ms, detail)
	}
	printStats(latencies, label)
}

func printStats(latencies []float64, label string) {
	if len(latencies) < 2 {
		fmt.Printf("\n  Not enough %s samples for statistics.\n", label)
		return
	}
	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	mean := 0.0
	for _, v := range latencies {
		mean += v
	}
	mean /= float64(len(latencies))

	variance := 0.0
	for _, v := range latencies {
		variance += (v - mean) * (v - mean)
	}
	stdev := math.Sqrt(variance / float64(len(latencies)-1))

	p95Idx := min(int(float64(len(sorted))*0.95), len(sorted)-1)

	fmt.Printf("\n  --- %s Stats (%d requests) ---\n", label, len(latencies))
	fmt.Printf("  Min:    %7.1f ms\n", sorted[0])
	fmt.Printf("  Max:    %7.1f ms\n", sorted[len(sorted)-1])
	fmt.Printf("  Mean:   %7.1f ms\n", mean)
	fmt.Printf("  Median: %7.1f ms\n", sorted[len(sorted)/2])
	fmt.Printf("  Stdev:  %7.1f ms\n", stdev)
	fmt.Printf("  p95:    %7.1f ms\n", sorted[p95Idx])
}
