package execution

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
	v1 "github.com/muhammadchandra19/exchange/services/execution-worker/internal/domain/exchange/v1"
)

const (
	claimQuery = `UPDATE order_commands SET execution_attempted_at = NOW() WHERE order_id = $1 AND execution_attempted_at IS NULL`

	// A terminal status is never overwritten by a different one.
	updateStatusQuery = `UPDATE order_commands SET status = $1, updated_at = NOW() WHERE order_id = $2 AND (status = 'PENDING' OR status = $1)`

	insertEventQuery = `INSERT INTO order_events (order_id, user_id, status, symbol, side, quantity, price, timestamp) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

// NewRepository creates a new repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) ExecutionRepository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

func (r *repository) ClaimExecution(ctx context.Context, orderID string) (bool, error) {
	cmd, err := r.db.Exec(ctx, claimQuery, orderID)
	if err != nil {
		return false, errors.TracerFromError(err)
	}
	return cmd.RowsAffected() == 1, nil
}

// GetCredentials returns a CredentialsNotConfigured error when the user is
// unknown or either key is missing.
func (r *repository) GetCredentials(ctx context.Context, userID string) (*v1.Credentials, error) {
	query, args := postgresql.NewSelectBuilder().
		Select("binance_api_key", "binance_secret_key").
		From("users").
		Where("id = ?", userID).
		Build()

	var apiKey, secretKey *string
	err := r.db.QueryRow(ctx, query, args...).Scan(&apiKey, &secretKey)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, notConfigured()
	}
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	creds := &v1.Credentials{}
	if apiKey != nil {
		creds.APIKey = *apiKey
	}
	if secretKey != nil {
		creds.SecretKey = *secretKey
	}
	if !creds.Configured() {
		return nil, notConfigured()
	}
	return creds, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID string, status orderbus.Status) (int64, error) {
	cmd, err := r.db.Exec(ctx, updateStatusQuery, status, orderID)
	if err != nil {
		return 0, errors.TracerFromError(err)
	}

	r.logger.DebugContext(ctx, "Updated order status", logger.Field{
		Key:   "commandTag",
		Value: cmd.String(),
	})

	return cmd.RowsAffected(), nil
}

func (r *repository) StoreEvent(ctx context.Context, event orderbus.OrderEvent) error {
	_, err := r.db.Exec(ctx, insertEventQuery,
		event.OrderID,
		event.UserID,
		event.Status,
		event.Symbol,
		event.Side,
		event.Quantity,
		event.Price,
		event.Timestamp,
	)
	if err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}

func notConfigured() error {
	return errors.NewErrorDetails("exchange credentials not configured", string(errors.CredentialsNotConfigured), "userId")
}
