package execution

import (
	"context"

	"github.com/muhammadchandra19/exchange/pkg/orderbus"
)

//go:generate mockgen -source=interface.go -destination=mock/usecase_mock.go -package=execution_mock

// Usecase resolves order commands against the exchange.
type Usecase interface {
	// OnSubmit places the order and publishes exactly one terminal event,
	// unless the order was already attempted by an earlier delivery.
	OnSubmit(ctx context.Context, cmd orderbus.OrderCommand) string
	// OnCancel cancels the order. Failures leave the status unchanged, and an
	// order that is no longer pending produces no event.
	OnCancel(ctx context.Context, cmd orderbus.CancelCommand) string
}

// Outcomes reported by the usecase for each handled command.
const (
	OutcomeFilled    = "filled"
	OutcomeRejected  = "rejected"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
	OutcomeDuplicate = "duplicate"
	// OutcomeStale is a cancel confirmed by the exchange for an order that
	// had already reached another terminal status.
	OutcomeStale = "stale"
)
