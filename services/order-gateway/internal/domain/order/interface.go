package order

import (
	"context"

	v1 "github.com/muhammadchandra19/exchange/services/order-gateway/internal/domain/order/v1"
	orderInfra "github.com/muhammadchandra19/exchange/services/order-gateway/internal/infrastructure/postgresql/order"
)

//go:generate mockgen -source=interface.go -destination=mock/usecase_mock.go -package=mock

// Usecase is the command publisher and read side of the order gateway.
type Usecase interface {
	Cancel(ctx context.Context, userID, orderID string) (*v1.SubmitResult, error)
	ListOrders(ctx context.Context, userID string, req v1.ListOrdersRequest) ([]*orderInfra.Order, error)
	Positions(ctx context.Context, userID string) ([]*v1.Position, error)
	Submit(ctx context.Context, userID string, req v1.SubmitOrderRequest) (*v1.SubmitResult, error)
}
