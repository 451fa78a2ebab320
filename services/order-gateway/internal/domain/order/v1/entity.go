package v1

import (
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	"github.com/shopspring/decimal"
)

// Response messages for accepted commands.
const (
	MessageOrderSubmitted  = "Order submitted for execution"
	MessageCancelSubmitted = "Cancel submitted for execution"
)

// SubmitOrderRequest is the body of POST /api/trading/orders. Order ids are
// always assigned by the gateway.
type SubmitOrderRequest struct {
	Symbol   string           `json:"symbol"`
	Side     string           `json:"side"`
	Type     string           `json:"type"`
	Quantity *decimal.Decimal `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// SubmitResult acknowledges an accepted command.
type SubmitResult struct {
	OrderID string          `json:"orderId"`
	Status  orderbus.Status `json:"status"`
	Message string          `json:"message"`
}

// ListOrdersRequest holds the optional query parameters of GET /api/trading/orders.
type ListOrdersRequest struct {
	Status string `form:"status"`
	Symbol string `form:"symbol"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// Position is the net holding of one symbol built from FILLED events.
type Position struct {
	Symbol    string          `json:"symbol"`
	Quantity  decimal.Decimal `json:"quantity"`
	AvgPrice  decimal.Decimal `json:"avgPrice"`
	TotalCost decimal.Decimal `json:"totalCost"`
}
