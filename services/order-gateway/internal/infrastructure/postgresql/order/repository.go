package order

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
)

var orderColumns = []string{
	"order_id",
	"user_id",
	"symbol",
	"side",
	"type",
	"quantity",
	"price",
	"status",
	"created_at",
	"updated_at",
}

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

// NewRepository creates a new repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) OrderRepository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Store inserts a new PENDING order.
func (r *repository) Store(ctx context.Context, order *Order) error {
	query := `INSERT INTO order_commands (order_id, user_id, symbol, side, type, quantity, price, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	cmd, err := r.db.Exec(ctx, query,
		order.OrderID,
		order.UserID,
		order.Symbol,
		order.Side,
		order.Type,
		order.Quantity,
		order.Price,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.DebugContext(ctx, "Inserted order", logger.Field{
		Key:   "commandTag",
		Value: cmd.String(),
	})

	return nil
}

// GetByID gets an order by ID.
func (r *repository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	query, args := postgresql.NewSelectBuilder().
		Select(orderColumns...).
		From("order_commands").
		Where("order_id = ?", orderID).
		Build()

	order, err := scanOrder(r.db.QueryRow(ctx, query, args...))
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NewErrorDetails("order not found", string(errors.OrderNotFound), "orderId")
	}
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	return order, nil
}

// List lists a user's orders, newest first.
func (r *repository) List(ctx context.Context, filter Filter) ([]*Order, error) {
	qb := postgresql.NewSelectBuilder().
		Select(orderColumns...).
		From("order_commands").
		Where("user_id = ?", filter.UserID)

	if filter.Status != "" {
		qb = qb.Where("status = ?", filter.Status)
	}
	if filter.Symbol != "" {
		qb = qb.Where("symbol = ?", filter.Symbol)
	}

	qb = qb.OrderBy("created_at", true)

	if filter.Limit > 0 {
		qb = qb.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		qb = qb.Offset(filter.Offset)
	}

	query, args := qb.Build()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return orders, nil
}

// ListFilledEvents lists a user's fills in chronological order.
func (r *repository) ListFilledEvents(ctx context.Context, userID string) ([]*FilledEvent, error) {
	query, args := postgresql.NewSelectBuilder().
		Select("order_id", "symbol", "side", "quantity", "price", "timestamp").
		From("order_events").
		Where("user_id = ?", userID).
		Where("status = ?", orderbus.StatusFilled).
		OrderBy("timestamp").
		OrderBy("id").
		Build()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	events := []*FilledEvent{}
	for rows.Next() {
		event := &FilledEvent{}
		if err := rows.Scan(
			&event.OrderID,
			&event.Symbol,
			&event.Side,
			&event.Quantity,
			&event.Price,
			&event.Timestamp,
		); err != nil {
			return nil, errors.TracerFromError(err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return events, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*Order, error) {
	order := &Order{}
	err := row.Scan(
		&order.OrderID,
		&order.UserID,
		&order.Symbol,
		&order.Side,
		&order.Type,
		&order.Quantity,
		&order.Price,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}
