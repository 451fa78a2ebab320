package main

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// Order is the gateway submit body.
type Order struct {
	Symbol   string           `json:"symbol"`
	Side     string           `json:"side"`
	Type     string           `json:"type"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// generateOrders creates count orders: 70% limit, 30% market, even sides.
// Limit bids sit below basePrice and asks above it.
func generateOrders(rng *rand.Rand, count int, symbol string, basePrice, priceSpread decimal.Decimal) []Order {
	orders := make([]Order, count)

	for i := range orders {
		side := "SELL"
		if rng.Float64() < 0.5 {
			side = "BUY"
		}

		// 0.001 to 0.100
		qty := decimal.New(int64(rng.Intn(100)+1), -3)

		order := Order{
			Symbol:   symbol,
			Side:     side,
			Type:     "MARKET",
			Quantity: qty,
		}

		if rng.Float64() >= 0.3 {
			offset := priceSpread.Mul(decimal.NewFromFloat(rng.Float64() * 0.8))
			price := basePrice.Add(offset)
			if side == "BUY" {
				price = basePrice.Sub(offset)
			}
			price = price.Round(1)
			if !price.IsPositive() {
				price = basePrice
			}
			order.Type = "LIMIT"
			order.Price = &price
		}

		orders[i] = order
	}

	return orders
}
