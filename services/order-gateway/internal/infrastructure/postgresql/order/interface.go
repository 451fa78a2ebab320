package order

import "context"

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// OrderRepository is the repository for order commands and their fills.
type OrderRepository interface {
	GetByID(ctx context.Context, orderID string) (*Order, error)
	List(ctx context.Context, filter Filter) ([]*Order, error)
	ListFilledEvents(ctx context.Context, userID string) ([]*FilledEvent, error)
	Store(ctx context.Context, order *Order) error
}
