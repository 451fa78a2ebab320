package exchangev1

import (
	"context"

	"github.com/muhammadchandra19/exchange/pkg/orderbus"
)

//go:generate mockgen -source=interface.go -destination=mock/exchange_mock.go -package=exchangev1_mock

// Exchange places and cancels orders on behalf of a user.
type Exchange interface {
	PlaceOrder(ctx context.Context, creds *Credentials, cmd orderbus.OrderCommand) (*OrderResponse, error)
	CancelOrder(ctx context.Context, creds *Credentials, cmd orderbus.CancelCommand) error
}
