package order

import (
	"fmt"
	"strings"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	v1 "github.com/muhammadchandra19/exchange/services/order-gateway/internal/domain/order/v1"
	orderInfra "github.com/muhammadchandra19/exchange/services/order-gateway/internal/infrastructure/postgresql/order"
	"github.com/shopspring/decimal"
)

// maxSymbolLength matches the order_commands.symbol column.
const maxSymbolLength = 32

func invalid(message, field string) *errors.ErrorDetails {
	return errors.NewErrorDetails(message, string(errors.InvalidCommand), field)
}

// validateSubmit checks every field and returns the normalized record on
// success. All offending fields are reported at once.
func validateSubmit(req v1.SubmitOrderRequest) (*orderInfra.Order, error) {
	verr := errors.NewBaseError()
	record := &orderInfra.Order{
		Symbol: strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Side:   orderbus.Side(req.Side),
		Type:   orderbus.OrderType(req.Type),
	}

	switch {
	case record.Symbol == "":
		verr.AddErrorDetails(invalid("symbol is required", "symbol"))
	case len(record.Symbol) > maxSymbolLength:
		verr.AddErrorDetails(invalid(fmt.Sprintf("symbol must be at most %d characters", maxSymbolLength), "symbol"))
	}

	if !record.Side.Valid() {
		verr.AddErrorDetails(invalid("side must be one of BUY, SELL", "side"))
	}

	if !record.Type.Valid() {
		verr.AddErrorDetails(invalid("type must be one of MARKET, LIMIT, STOP_MARKET", "type"))
	}

	switch {
	case req.Quantity == nil:
		verr.AddErrorDetails(invalid("quantity is required", "quantity"))
	case !req.Quantity.IsPositive():
		verr.AddErrorDetails(invalid("quantity must be greater than 0", "quantity"))
	default:
		record.Quantity = *req.Quantity
	}

	switch {
	case req.Price == nil:
		if record.Type == orderbus.TypeLimit {
			verr.AddErrorDetails(invalid("price is required for LIMIT orders", "price"))
		}
	case !req.Price.IsPositive():
		verr.AddErrorDetails(invalid("price must be greater than 0", "price"))
	default:
		record.Price = decimal.NewNullDecimal(*req.Price)
	}

	if verr.HasDetails() {
		return nil, verr
	}

	return record, nil
}

func validateList(req v1.ListOrdersRequest) error {
	status := orderbus.Status(strings.ToUpper(req.Status))
	if status == "" || status == orderbus.StatusPending || status.Terminal() {
		return nil
	}
	return errors.NewBaseError(invalid("status must be one of PENDING, FILLED, REJECTED, CANCELLED", "status"))
}
