package order

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	"github.com/muhammadchandra19/exchange/pkg/util"
	orderDomain "github.com/muhammadchandra19/exchange/services/order-gateway/internal/domain/order"
	v1 "github.com/muhammadchandra19/exchange/services/order-gateway/internal/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-gateway/internal/infrastructure/postgresql/order"
)

type usecase struct {
	orderRepository order.OrderRepository
	publisher       orderbus.Publisher
	logger          logger.Interface

	now   func() time.Time
	newID func() string
}

var _ orderDomain.Usecase = (*usecase)(nil)

// NewUsecase creates a new order usecase.
func NewUsecase(orderRepository order.OrderRepository, publisher orderbus.Publisher, logger logger.Interface) *usecase {
	return &usecase{
		orderRepository: orderRepository,
		publisher:       publisher,
		logger:          logger,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// Submit validates the request, stores it as PENDING and publishes the
// command. Nothing is published when the record cannot be stored.
func (u *usecase) Submit(ctx context.Context, userID string, req v1.SubmitOrderRequest) (*v1.SubmitResult, error) {
	record, err := validateSubmit(req)
	if err != nil {
		return nil, err
	}

	record.OrderID = u.newID()
	now := u.now().UTC()
	record.UserID = userID
	record.Status = orderbus.StatusPending
	record.CreatedAt = now
	record.UpdatedAt = now

	ctx = util.WithOrderID(ctx, record.OrderID)

	if err := u.orderRepository.Store(ctx, record); err != nil {
		u.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "store_order",
		})
		return nil, errors.NewErrorDetails(err.Error(), string(errors.StorageUnavailable), "order")
	}

	if err := u.publisher.PublishSubmit(ctx, record.Command()); err != nil {
		u.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "publish_submit",
		})
	}

	u.logger.InfoContext(ctx, "order submitted",
		logger.Field{Key: "symbol", Value: record.Symbol},
		logger.Field{Key: "side", Value: record.Side},
		logger.Field{Key: "type", Value: record.Type},
	)

	return &v1.SubmitResult{
		OrderID: record.OrderID,
		Status:  orderbus.StatusPending,
		Message: v1.MessageOrderSubmitted,
	}, nil
}

// Cancel publishes a cancel command for an order the user owns.
func (u *usecase) Cancel(ctx context.Context, userID, orderID string) (*v1.SubmitResult, error) {
	ctx = util.WithOrderID(ctx, orderID)

	record, err := u.orderRepository.GetByID(ctx, orderID)
	if err != nil {
		if errors.ErrorCodeEquals(err, errors.OrderNotFound) {
			return nil, err
		}
		u.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "get_order",
		})
		return nil, errors.NewErrorDetails(err.Error(), string(errors.StorageUnavailable), "order")
	}

	// Another user's order is reported exactly like a missing one.
	if record.UserID != userID {
		return nil, errors.NewErrorDetails("order not found", string(errors.OrderNotFound), "orderId")
	}

	if record.Status == orderbus.StatusCancelled || record.Status == orderbus.StatusRejected {
		return nil, errors.NewBaseError(invalid("order is already "+strings.ToLower(string(record.Status)), "orderId"))
	}

	if err := u.publisher.PublishCancel(ctx, orderbus.CancelCommand{
		OrderID: record.OrderID,
		UserID:  record.UserID,
		Symbol:  record.Symbol,
	}); err != nil {
		u.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "publish_cancel",
		})
	}

	return &v1.SubmitResult{
		OrderID: record.OrderID,
		Status:  record.Status,
		Message: v1.MessageCancelSubmitted,
	}, nil
}

// ListOrders lists the user's orders, newest first.
func (u *usecase) ListOrders(ctx context.Context, userID string, req v1.ListOrdersRequest) ([]*order.Order, error) {
	if err := validateList(req); err != nil {
		return nil, err
	}

	return u.orderRepository.List(ctx, order.Filter{
		UserID: userID,
		Status: orderbus.Status(strings.ToUpper(req.Status)),
		Symbol: strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Limit:  req.Limit,
		Offset: req.Offset,
	})
}

// Positions aggregates the user's fills per symbol.
func (u *usecase) Positions(ctx context.Context, userID string) ([]*v1.Position, error) {
	events, err := u.orderRepository.ListFilledEvents(ctx, userID)
	if err != nil {
		return nil, err
	}

	return aggregatePositions(events), nil
}
