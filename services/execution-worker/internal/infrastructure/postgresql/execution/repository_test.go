package execution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pkgErrors "github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	mockPg "github.com/muhammadchandra19/exchange/pkg/postgresql/mock"
	v1 "github.com/muhammadchandra19/exchange/services/execution-worker/internal/domain/exchange/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

func strPtr(s string) *string { return &s }

func keys(apiKey, secretKey *string) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(**string) = apiKey
		*dest[1].(**string) = secretKey
		return nil
	}
}

func TestExecution_ClaimExecution(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		tag      pgconn.CommandTag
		err      error
		assertFn func(t *testing.T, claimed bool, err error)
	}{
		{
			name: "first delivery",
			tag:  pgconn.NewCommandTag("UPDATE 1"),
			assertFn: func(t *testing.T, claimed bool, err error) {
				require.NoError(t, err)
				assert.True(t, claimed)
			},
		},
		{
			name: "already attempted",
			tag:  pgconn.NewCommandTag("UPDATE 0"),
			assertFn: func(t *testing.T, claimed bool, err error) {
				require.NoError(t, err)
				assert.False(t, claimed)
			},
		},
		{
			name: "error",
			err:  errors.New("connection refused"),
			assertFn: func(t *testing.T, claimed bool, err error) {
				assert.False(t, claimed)
				assert.ErrorContains(t, err, "connection refused")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			pg.EXPECT().Exec(ctx, claimQuery, "o-1").Return(tc.tag, tc.err)

			claimed, err := NewRepository(pg, logger.NewNop()).ClaimExecution(ctx, "o-1")
			tc.assertFn(t, claimed, err)
		})
	}
}

func TestExecution_GetCredentials(t *testing.T) {
	ctx := context.Background()
	query := `SELECT binance_api_key, binance_secret_key FROM users WHERE id = $1`

	testCases := []struct {
		name     string
		scan     func(dest ...any) error
		assertFn func(t *testing.T, creds *v1.Credentials, err error)
	}{
		{
			name: "configured",
			scan: keys(strPtr("key"), strPtr("secret")),
			assertFn: func(t *testing.T, creds *v1.Credentials, err error) {
				require.NoError(t, err)
				assert.Equal(t, &v1.Credentials{APIKey: "key", SecretKey: "secret"}, creds)
			},
		},
		{
			name: "unknown user",
			scan: func(...any) error { return pgx.ErrNoRows },
			assertFn: func(t *testing.T, creds *v1.Credentials, err error) {
				assert.Nil(t, creds)
				assert.True(t, pkgErrors.ErrorCodeEquals(err, pkgErrors.CredentialsNotConfigured))
				assert.EqualError(t, err, "exchange credentials not configured")
			},
		},
		{
			name: "missing secret",
			scan: keys(strPtr("key"), nil),
			assertFn: func(t *testing.T, creds *v1.Credentials, err error) {
				assert.Nil(t, creds)
				assert.True(t, pkgErrors.ErrorCodeEquals(err, pkgErrors.CredentialsNotConfigured))
			},
		},
		{
			name: "empty api key",
			scan: keys(strPtr(""), strPtr("secret")),
			assertFn: func(t *testing.T, creds *v1.Credentials, err error) {
				assert.True(t, pkgErrors.ErrorCodeEquals(err, pkgErrors.CredentialsNotConfigured))
			},
		},
		{
			name: "query error",
			scan: func(...any) error { return errors.New("timeout") },
			assertFn: func(t *testing.T, creds *v1.Credentials, err error) {
				assert.ErrorContains(t, err, "timeout")
				assert.False(t, pkgErrors.ErrorCodeEquals(err, pkgErrors.CredentialsNotConfigured))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			pg.EXPECT().QueryRow(ctx, query, "u1").Return(fakeRow{scan: tc.scan})

			creds, err := NewRepository(pg, logger.NewNop()).GetCredentials(ctx, "u1")
			tc.assertFn(t, creds, err)
		})
	}
}

func TestExecution_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pg := mockPg.NewMockPostgreSQLClient(ctrl)
	pg.EXPECT().
		Exec(ctx, updateStatusQuery, orderbus.StatusFilled, "o-1").
		Return(pgconn.NewCommandTag("UPDATE 1"), nil)
	pg.EXPECT().
		Exec(ctx, updateStatusQuery, orderbus.StatusCancelled, "o-2").
		Return(pgconn.CommandTag{}, errors.New("deadlock"))

	repo := NewRepository(pg, logger.NewNop())

	rows, err := repo.UpdateStatus(ctx, "o-1", orderbus.StatusFilled)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	_, err = repo.UpdateStatus(ctx, "o-2", orderbus.StatusCancelled)
	assert.ErrorContains(t, err, "deadlock")
}

func TestExecution_StoreEvent(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	event := orderbus.OrderEvent{
		OrderID:   "o-1",
		UserID:    "u1",
		Status:    orderbus.StatusFilled,
		Symbol:    "BTCUSDT",
		Side:      orderbus.SideBuy,
		Quantity:  decimal.RequireFromString("0.5"),
		Price:     decimal.RequireFromString("42000"),
		Timestamp: time.Now(),
	}

	pg := mockPg.NewMockPostgreSQLClient(ctrl)
	pg.EXPECT().
		Exec(ctx, insertEventQuery,
			event.OrderID,
			event.UserID,
			event.Status,
			event.Symbol,
			event.Side,
			event.Quantity,
			event.Price,
			event.Timestamp,
		).Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	require.NoError(t, NewRepository(pg, logger.NewNop()).StoreEvent(ctx, event))
}
