package execution

import (
	"context"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
	"github.com/muhammadchandra19/exchange/pkg/util"
	exchangev1 "github.com/muhammadchandra19/exchange/services/execution-worker/internal/domain/exchange/v1"
	executionDomain "github.com/muhammadchandra19/exchange/services/execution-worker/internal/domain/execution"
	"github.com/muhammadchandra19/exchange/services/execution-worker/internal/infrastructure/postgresql/execution"
	"github.com/shopspring/decimal"
)

type usecase struct {
	repository execution.ExecutionRepository
	tx         postgresql.Transaction
	exchange   exchangev1.Exchange
	publisher  orderbus.Publisher
	logger     logger.Interface

	now func() time.Time
}

var _ executionDomain.Usecase = (*usecase)(nil)

// NewUsecase creates a new execution usecase.
func NewUsecase(
	repository execution.ExecutionRepository,
	tx postgresql.Transaction,
	exchange exchangev1.Exchange,
	publisher orderbus.Publisher,
	logger logger.Interface,
) *usecase {
	return &usecase{
		repository: repository,
		tx:         tx,
		exchange:   exchange,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// OnSubmit claims the order, places it and resolves it to FILLED or REJECTED.
func (u *usecase) OnSubmit(ctx context.Context, cmd orderbus.OrderCommand) string {
	ctx = util.WithOrderID(util.WithUserID(ctx, cmd.UserID), cmd.OrderID)

	claimed, err := u.repository.ClaimExecution(ctx, cmd.OrderID)
	if err != nil {
		u.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "claim_execution"})
		return u.reject(ctx, cmd, err)
	}
	if !claimed {
		u.logger.WarnContext(ctx, "duplicate submit delivery ignored")
		return executionDomain.OutcomeDuplicate
	}

	creds, err := u.repository.GetCredentials(ctx, cmd.UserID)
	if err != nil {
		return u.reject(ctx, cmd, err)
	}

	resp, err := u.exchange.PlaceOrder(ctx, creds, cmd)
	if err != nil {
		return u.reject(ctx, cmd, err)
	}

	event := orderbus.OrderEvent{
		OrderID:   cmd.OrderID,
		UserID:    cmd.UserID,
		Status:    orderbus.StatusFilled,
		Symbol:    cmd.Symbol,
		Side:      cmd.Side,
		Quantity:  cmd.Quantity,
		Price:     resp.ExecutionPrice(),
		Timestamp: u.now().UTC(),
	}

	err = postgresql.WithTx(ctx, u.tx, func(ctx context.Context) error {
		if _, err := u.repository.UpdateStatus(ctx, cmd.OrderID, orderbus.StatusFilled); err != nil {
			return err
		}
		return u.repository.StoreEvent(ctx, event)
	})
	if err != nil {
		u.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "persist_fill"})
	}

	u.publish(ctx, event)

	u.logger.InfoContext(ctx, "order filled",
		logger.Field{Key: "symbol", Value: cmd.Symbol},
		logger.Field{Key: "price", Value: event.Price.String()},
		logger.Field{Key: "exchange_order_id", Value: resp.OrderID},
	)
	return executionDomain.OutcomeFilled
}

func (u *usecase) reject(ctx context.Context, cmd orderbus.OrderCommand, cause error) string {
	u.logger.WarnContext(ctx, "order rejected", logger.Field{Key: "reason", Value: cause.Error()})

	if _, err := u.repository.UpdateStatus(ctx, cmd.OrderID, orderbus.StatusRejected); err != nil {
		u.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "persist_rejection"})
	}

	u.publish(ctx, orderbus.OrderEvent{
		OrderID:   cmd.OrderID,
		UserID:    cmd.UserID,
		Status:    orderbus.StatusRejected,
		Symbol:    cmd.Symbol,
		Side:      cmd.Side,
		Quantity:  cmd.Quantity,
		Price:     decimal.Zero,
		Timestamp: u.now().UTC(),
		Error:     cause.Error(),
	})
	return executionDomain.OutcomeRejected
}

// OnCancel cancels the order on the exchange. Only a confirmed cancel
// changes the stored status or produces an event.
func (u *usecase) OnCancel(ctx context.Context, cmd orderbus.CancelCommand) string {
	ctx = util.WithOrderID(util.WithUserID(ctx, cmd.UserID), cmd.OrderID)

	creds, err := u.repository.GetCredentials(ctx, cmd.UserID)
	if err != nil {
		u.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "get_credentials"})
		return executionDomain.OutcomeFailed
	}

	if err := u.exchange.CancelOrder(ctx, creds, cmd); err != nil {
		u.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "cancel_order"})
		return executionDomain.OutcomeFailed
	}

	rows, err := u.repository.UpdateStatus(ctx, cmd.OrderID, orderbus.StatusCancelled)
	switch {
	case err != nil:
		u.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "persist_cancel"})
	case rows == 0:
		u.logger.WarnContext(ctx, "cancelled order was no longer pending")
		return executionDomain.OutcomeStale
	}

	u.publish(ctx, orderbus.OrderEvent{
		OrderID:   cmd.OrderID,
		UserID:    cmd.UserID,
		Status:    orderbus.StatusCancelled,
		Symbol:    cmd.Symbol,
		Timestamp: u.now().UTC(),
	})

	u.logger.InfoContext(ctx, "order cancelled")
	return executionDomain.OutcomeCancelled
}

func (u *usecase) publish(ctx context.Context, event orderbus.OrderEvent) {
	if err := u.publisher.PublishEvent(ctx, event); err != nil {
		u.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "publish_event"},
			logger.Field{Key: "status", Value: event.Status},
		)
	}
}
