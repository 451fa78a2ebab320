package order

import (
	"time"

	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	"github.com/shopspring/decimal"
)

// Order is a row of order_commands.
type Order struct {
	OrderID   string              `json:"orderId"`
	UserID    string              `json:"userId"`
	Symbol    string              `json:"symbol"`
	Side      orderbus.Side       `json:"side"`
	Type      orderbus.OrderType  `json:"type"`
	Quantity  decimal.Decimal     `json:"quantity"`
	Price     decimal.NullDecimal `json:"price"`
	Status    orderbus.Status     `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// Command converts the record into the command published on the bus.
func (o *Order) Command() orderbus.OrderCommand {
	cmd := orderbus.OrderCommand{
		OrderID:   o.OrderID,
		UserID:    o.UserID,
		Symbol:    o.Symbol,
		Side:      o.Side,
		Type:      o.Type,
		Quantity:  o.Quantity,
		Timestamp: o.CreatedAt,
	}
	if o.Price.Valid {
		price := o.Price.Decimal
		cmd.Price = &price
	}
	return cmd
}

// Filter narrows a user's order listing.
type Filter struct {
	UserID string
	Status orderbus.Status
	Symbol string
	Limit  int
	Offset int
}

// FilledEvent is a FILLED row of order_events.
type FilledEvent struct {
	OrderID   string
	Symbol    string
	Side      orderbus.Side
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Timestamp time.Time
}
