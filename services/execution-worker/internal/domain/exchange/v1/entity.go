package exchangev1

import "github.com/shopspring/decimal"

// Credentials are a user's exchange API keys.
type Credentials struct {
	APIKey    string
	SecretKey string
}

// Configured reports whether both keys are present.
func (c *Credentials) Configured() bool {
	return c != nil && c.APIKey != "" && c.SecretKey != ""
}

// Fill is one partial execution reported by the exchange.
type Fill struct {
	Price           decimal.Decimal `json:"price"`
	Qty             decimal.Decimal `json:"qty"`
	Commission      decimal.Decimal `json:"commission"`
	CommissionAsset string          `json:"commissionAsset"`
}

// OrderResponse is the subset of the exchange's order acknowledgement the
// worker reads.
type OrderResponse struct {
	Symbol        string          `json:"symbol"`
	OrderID       int64           `json:"orderId"`
	ClientOrderID string          `json:"clientOrderId"`
	Status        string          `json:"status"`
	Price         decimal.Decimal `json:"price"`
	ExecutedQty   decimal.Decimal `json:"executedQty"`
	Fills         []Fill          `json:"fills"`
}

// ExecutionPrice is the volume weighted average over the fills. Without
// fills it falls back to the order price, which is zero when absent.
func (r *OrderResponse) ExecutionPrice() decimal.Decimal {
	qty := decimal.Zero
	cost := decimal.Zero
	for _, f := range r.Fills {
		qty = qty.Add(f.Qty)
		cost = cost.Add(f.Price.Mul(f.Qty))
	}
	if qty.IsPositive() {
		return cost.Div(qty)
	}
	return r.Price
}

// APIError is the error body returned by the exchange.
type APIError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
