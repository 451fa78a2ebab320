package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muhammadchandra19/exchange/pkg/auth"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type update struct {
	Type string `json:"type"`
	Data struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	} `json:"data"`
}

// eventTally counts status events per order id.
type eventTally struct {
	mu     sync.Mutex
	counts map[string]int
	status map[string]int
}

func (t *eventTally) add(orderID, status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[orderID]++
	t.status[status]++
}

func main() {
	var (
		gatewayURL  = flag.String("gateway", "http://localhost:3001", "Order gateway base URL")
		eventsURL   = flag.String("events", "", "Event broadcaster WebSocket URL, e.g. ws://localhost:3003/prices (optional)")
		secret      = flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "Secret used to sign user tokens")
		userID      = flag.String("user", "loadgen-user", "User id placed in the token")
		file        = flag.String("file", "", "JSON file with orders (optional, generates orders if not provided)")
		count       = flag.Int("count", 100, "Number of orders to generate")
		concurrency = flag.Int("concurrency", 4, "Concurrent submissions")
		delay       = flag.Duration("delay", 50*time.Millisecond, "Delay between submissions per worker")
		symbol      = flag.String("symbol", "BTCUSDT", "Symbol to trade")
		basePrice   = flag.String("base-price", "65000", "Base price for limit orders")
		priceSpread = flag.String("price-spread", "500", "Price spread range")
		wait        = flag.Duration("wait", 10*time.Second, "How long to wait for events after the last submission")
	)
	flag.Parse()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if *secret == "" {
		log.Error(fmt.Errorf("a JWT secret is required"), logger.Field{Key: "action", Value: "parse_flags"})
		os.Exit(2)
	}

	token, err := auth.NewJWT(*secret).Sign(*userID, time.Hour)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "sign_token"})
		os.Exit(1)
	}

	var orders []Order
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "read_file"})
			os.Exit(1)
		}
		if err := json.Unmarshal(data, &orders); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "parse_file"})
			os.Exit(1)
		}
	} else {
		base, err := decimal.NewFromString(*basePrice)
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "parse_base_price"})
			os.Exit(2)
		}
		spread, err := decimal.NewFromString(*priceSpread)
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "parse_price_spread"})
			os.Exit(2)
		}
		orders = generateOrders(rand.New(rand.NewSource(time.Now().UnixNano())), *count, *symbol, base, spread)
	}
	log.Info("Orders ready", logger.Field{Key: "count", Value: len(orders)})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tally := &eventTally{counts: map[string]int{}, status: map[string]int{}}
	if *eventsURL != "" {
		ws, _, err := websocket.DefaultDialer.DialContext(ctx, *eventsURL+"?token="+token, nil)
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "dial_events"})
			os.Exit(1)
		}
		defer ws.Close()

		go func() {
			for {
				var msg update
				if err := ws.ReadJSON(&msg); err != nil {
					return
				}
				if msg.Type == "ORDER_UPDATE" {
					tally.add(msg.Data.OrderID, msg.Data.Status)
				}
			}
		}()
	}

	client := &http.Client{Timeout: 10 * time.Second}
	var accepted, failed atomic.Int64
	start := time.Now()

	jobs := make(chan Order)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < *concurrency; w++ {
		g.Go(func() error {
			for order := range jobs {
				if err := submit(gctx, client, *gatewayURL, token, order); err != nil {
					failed.Add(1)
					log.Warn("order not accepted",
						logger.Field{Key: "side", Value: order.Side},
						logger.Field{Key: "type", Value: order.Type},
						logger.Field{Key: "error", Value: err.Error()},
					)
				} else {
					accepted.Add(1)
				}
				time.Sleep(*delay)
			}
			return nil
		})
	}
	for _, order := range orders {
		jobs <- order
	}
	close(jobs)
	_ = g.Wait()

	elapsed := time.Since(start)
	log.Info("Submission finished",
		logger.Field{Key: "accepted", Value: accepted.Load()},
		logger.Field{Key: "failed", Value: failed.Load()},
		logger.Field{Key: "elapsed", Value: elapsed.String()},
		logger.Field{Key: "orders_per_second", Value: float64(len(orders)) / elapsed.Seconds()},
	)

	if *eventsURL == "" {
		return
	}

	deadline := time.After(*wait)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
waitEvents:
	for {
		select {
		case <-ticker.C:
			tally.mu.Lock()
			seen := len(tally.counts)
			tally.mu.Unlock()
			if int64(seen) >= accepted.Load() {
				break waitEvents
			}
		case <-deadline:
			break waitEvents
		}
	}

	tally.mu.Lock()
	defer tally.mu.Unlock()
	duplicates := 0
	for _, n := range tally.counts {
		if n > 1 {
			duplicates++
		}
	}
	log.Info("Events received",
		logger.Field{Key: "orders_with_events", Value: len(tally.counts)},
		logger.Field{Key: "orders_with_duplicate_events", Value: duplicates},
		logger.Field{Key: "by_status", Value: tally.status},
	)
}

func submit(ctx context.Context, client *http.Client, baseURL, token string, order Order) error {
	body, err := json.Marshal(order)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/api/trading/orders", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
