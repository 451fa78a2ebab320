package execution

import (
	"context"

	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	v1 "github.com/muhammadchandra19/exchange/services/execution-worker/internal/domain/exchange/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// ExecutionRepository is the worker's view of order records and credentials.
type ExecutionRepository interface {
	// ClaimExecution marks the order as attempted. It returns false when a
	// previous delivery already claimed it.
	ClaimExecution(ctx context.Context, orderID string) (bool, error)
	GetCredentials(ctx context.Context, userID string) (*v1.Credentials, error)
	// UpdateStatus moves a PENDING order to status and returns the rows changed.
	UpdateStatus(ctx context.Context, orderID string, status orderbus.Status) (int64, error)
	StoreEvent(ctx context.Context, event orderbus.OrderEvent) error
}
