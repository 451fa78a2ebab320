package orderbus

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/shopspring/decimal"
)

// Channels carrying the order pipeline traffic.
const (
	ChannelSubmit = "commands:order:submit"
	ChannelCancel = "commands:order:cancel"
	ChannelStatus = "events:order:status"
)

func init() {
	// Quantities and prices travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Side is the order direction.
type Side string

// OrderType is the exchange order type.
type OrderType string

// Status is the lifecycle state of an order record.
type Status string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"

	TypeMarket     OrderType = "MARKET"
	TypeLimit      OrderType = "LIMIT"
	TypeStopMarket OrderType = "STOP_MARKET"

	StatusPending   Status = "PENDING"
	StatusFilled    Status = "FILLED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is BUY or SELL.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Sign is +1 for BUY and -1 for SELL.
func (s Side) Sign() decimal.Decimal {
	if s == SideSell {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// Valid reports whether t is a supported order type.
func (t OrderType) Valid() bool {
	switch t {
	case TypeMarket, TypeLimit, TypeStopMarket:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusFilled || s == StatusRejected || s == StatusCancelled
}

// OrderCommand asks the execution worker to place an order.
type OrderCommand struct {
	OrderID   string           `json:"orderId"`
	UserID    string           `json:"userId"`
	Symbol    string           `json:"symbol"`
	Side      Side             `json:"side"`
	Type      OrderType        `json:"type"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// CancelCommand asks the execution worker to cancel a previously submitted order.
type CancelCommand struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
	Symbol  string `json:"symbol"`
}

// OrderEvent is the terminal outcome of a command.
type OrderEvent struct {
	OrderID   string          `json:"orderId"`
	UserID    string          `json:"userId"`
	Status    Status          `json:"status"`
	Symbol    string          `json:"symbol"`
	Side      Side            `json:"side,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
	Error     string          `json:"error,omitempty"`
}

// DecodeOrderCommand parses a submit payload. Commands without an order id,
// user id or symbol cannot be correlated and are refused.
func DecodeOrderCommand(payload []byte) (OrderCommand, error) {
	var cmd OrderCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return cmd, errors.NewTracer("malformed order command").Wrap(err)
	}
	if err := requireFields("order command", map[string]string{
		"orderId": cmd.OrderID,
		"userId":  cmd.UserID,
		"symbol":  cmd.Symbol,
	}); err != nil {
		return cmd, err
	}
	return cmd, nil
}

// DecodeCancelCommand parses a cancel payload.
func DecodeCancelCommand(payload []byte) (CancelCommand, error) {
	var cmd CancelCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return cmd, errors.NewTracer("malformed cancel command").Wrap(err)
	}
	if err := requireFields("cancel command", map[string]string{
		"orderId": cmd.OrderID,
		"userId":  cmd.UserID,
		"symbol":  cmd.Symbol,
	}); err != nil {
		return cmd, err
	}
	return cmd, nil
}

// DecodeOrderEvent parses a status event payload.
func DecodeOrderEvent(payload []byte) (OrderEvent, error) {
	var event OrderEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return event, errors.NewTracer("malformed order event").Wrap(err)
	}
	if err := requireFields("order event", map[string]string{
		"orderId": event.OrderID,
		"userId":  event.UserID,
	}); err != nil {
		return event, err
	}
	return event, nil
}

func requireFields(kind string, fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	base := errors.NewBaseError()
	for _, name := range missing {
		base.AddErrorDetails(errors.NewErrorDetails(kind+" is missing "+name, string(errors.InvalidCommand), name))
	}
	return base
}
