package order

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	pkgErrors "github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	orderbus_mock "github.com/muhammadchandra19/exchange/pkg/orderbus/mock"
	v1 "github.com/muhammadchandra19/exchange/services/order-gateway/internal/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-gateway/internal/infrastructure/postgresql/order"
	"github.com/muhammadchandra19/exchange/services/order-gateway/internal/infrastructure/postgresql/order/mock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newTestUsecase(repo order.OrderRepository, publisher orderbus.Publisher, now time.Time) *usecase {
	u := NewUsecase(repo, publisher, logger.NewNop())
	u.now = func() time.Time { return now }
	u.newID = func() string { return "generated-id" }
	return u
}

func detailFields(t *testing.T, err error) []string {
	t.Helper()
	var base *pkgErrors.BaseError
	require.ErrorAs(t, err, &base)

	fields := []string{}
	for _, d := range base.GetDetails() {
		assert.Equal(t, string(pkgErrors.InvalidCommand), d.Code)
		fields = append(fields, d.Field)
	}
	return fields
}

func TestUsecase_Submit(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		req      v1.SubmitOrderRequest
		mockFn   func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher)
		assertFn func(t *testing.T, res *v1.SubmitResult, err error)
	}{
		{
			name: "market order is stored then published",
			req:  v1.SubmitOrderRequest{Symbol: " btcusdt ", Side: "BUY", Type: "MARKET", Quantity: dec("0.01")},
			mockFn: func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher) {
				gomock.InOrder(
					repo.EXPECT().Store(gomock.Any(), &order.Order{
						OrderID:   "generated-id",
						UserID:    "u1",
						Symbol:    "BTCUSDT",
						Side:      orderbus.SideBuy,
						Type:      orderbus.TypeMarket,
						Quantity:  *dec("0.01"),
						Status:    orderbus.StatusPending,
						CreatedAt: now,
						UpdatedAt: now,
					}).Return(nil),
					pub.EXPECT().PublishSubmit(gomock.Any(), orderbus.OrderCommand{
						OrderID:   "generated-id",
						UserID:    "u1",
						Symbol:    "BTCUSDT",
						Side:      orderbus.SideBuy,
						Type:      orderbus.TypeMarket,
						Quantity:  *dec("0.01"),
						Timestamp: now,
					}).Return(nil),
				)
			},
			assertFn: func(t *testing.T, res *v1.SubmitResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, &v1.SubmitResult{
					OrderID: "generated-id",
					Status:  orderbus.StatusPending,
					Message: "Order submitted for execution",
				}, res)
			},
		},
		{
			name: "limit order gets a generated id and keeps its price",
			req:  v1.SubmitOrderRequest{Symbol: "ETHUSDT", Side: "SELL", Type: "LIMIT", Quantity: dec("1"), Price: dec("3000")},
			mockFn: func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher) {
				repo.EXPECT().Store(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *order.Order) error {
						assert.Equal(t, "generated-id", o.OrderID)
						return nil
					})
				pub.EXPECT().PublishSubmit(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, cmd orderbus.OrderCommand) error {
						assert.Equal(t, "generated-id", cmd.OrderID)
						require.NotNil(t, cmd.Price)
						assert.Equal(t, "3000", cmd.Price.String())
						return nil
					})
			},
			assertFn: func(t *testing.T, res *v1.SubmitResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, "generated-id", res.OrderID)
			},
		},
		{
			name:   "symbol longer than the column",
			req:    v1.SubmitOrderRequest{Symbol: strings.Repeat("X", 33), Side: "BUY", Type: "MARKET", Quantity: dec("1")},
			mockFn: func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher) {},
			assertFn: func(t *testing.T, res *v1.SubmitResult, err error) {
				assert.Nil(t, res)
				assert.Equal(t, []string{"symbol"}, detailFields(t, err))
			},
		},
		{
			name:   "every invalid field is reported",
			req:    v1.SubmitOrderRequest{Symbol: "  ", Side: "HOLD", Type: "OCO", Quantity: dec("0"), Price: dec("-1")},
			mockFn: func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher) {},
			assertFn: func(t *testing.T, res *v1.SubmitResult, err error) {
				assert.Nil(t, res)
				assert.Equal(t, []string{"symbol", "side", "type", "quantity", "price"}, detailFields(t, err))
			},
		},
		{
			name:   "limit order requires a price",
			req:    v1.SubmitOrderRequest{Symbol: "BTCUSDT", Side: "BUY", Type: "LIMIT", Quantity: dec("1")},
			mockFn: func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher) {},
			assertFn: func(t *testing.T, res *v1.SubmitResult, err error) {
				assert.Equal(t, []string{"price"}, detailFields(t, err))
			},
		},
		{
			name:   "missing quantity",
			req:    v1.SubmitOrderRequest{Symbol: "BTCUSDT", Side: "BUY", Type: "MARKET"},
			mockFn: func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher) {},
			assertFn: func(t *testing.T, res *v1.SubmitResult, err error) {
				assert.Equal(t, []string{"quantity"}, detailFields(t, err))
			},
		},
		{
			name: "storage failure skips publish",
			req:  v1.SubmitOrderRequest{Symbol: "BTCUSDT", Side: "BUY", Type: "MARKET", Quantity: dec("1")},
			mockFn: func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher) {
				repo.EXPECT().Store(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			assertFn: func(t *testing.T, res *v1.SubmitResult, err error) {
				assert.Nil(t, res)
				assert.True(t, pkgErrors.ErrorCodeEquals(err, pkgErrors.StorageUnavailable))
			},
		},
		{
			name: "publish failure still accepts",
			req:  v1.SubmitOrderRequest{Symbol: "BTCUSDT", Side: "BUY", Type: "STOP_MARKET", Quantity: dec("1"), Price: dec("60000")},
			mockFn: func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher) {
				repo.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
				pub.EXPECT().PublishSubmit(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
			},
			assertFn: func(t *testing.T, res *v1.SubmitResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, orderbus.StatusPending, res.Status)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mock.NewMockOrderRepository(ctrl)
			pub := orderbus_mock.NewMockPublisher(ctrl)
			tc.mockFn(repo, pub)

			res, err := newTestUsecase(repo, pub, now).Submit(context.Background(), "u1", tc.req)
			tc.assertFn(t, res, err)
		})
	}
}

func TestUsecase_Cancel(t *testing.T) {
	stored := func(userID string, status orderbus.Status) *order.Order {
		return &order.Order{OrderID: "o-1", UserID: userID, Symbol: "BTCUSDT", Status: status}
	}

	testCases := []struct {
		name     string
		mockFn   func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher)
		assertFn func(t *testing.T, res *v1.SubmitResult, err error)
	}{
		{
			name: "publishes cancel command",
			mockFn: func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher) {
				repo.EXPECT().GetByID(gomock.Any(), "o-1").Return(stored("u1", orderbus.StatusPending), nil)
				pub.EXPECT().PublishCancel(gomock.Any(), orderbus.CancelCommand{OrderID: "o-1", UserID: "u1", Symbol: "BTCUSDT"}).Return(nil)
			},
			assertFn: func(t *testing.T, res *v1.SubmitResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, &v1.SubmitResult{OrderID: "o-1", Status: orderbus.StatusPending, Message: "Cancel submitted for execution"}, res)
			},
		},
		{
			name: "missing order",
			mockFn: func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher) {
				repo.EXPECT().GetByID(gomock.Any(), "o-1").
					Return(nil, pkgErrors.NewErrorDetails("order not found", string(pkgErrors.OrderNotFound), "orderId"))
			},
			assertFn: func(t *testing.T, res *v1.SubmitResult, err error) {
				assert.True(t, pkgErrors.ErrorCodeEquals(err, pkgErrors.OrderNotFound))
			},
		},
		{
			name: "other user's order looks missing",
			mockFn: func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher) {
				repo.EXPECT().GetByID(gomock.Any(), "o-1").Return(stored("u2", orderbus.StatusPending), nil)
			},
			assertFn: func(t *testing.T, res *v1.SubmitResult, err error) {
				assert.True(t, pkgErrors.ErrorCodeEquals(err, pkgErrors.OrderNotFound))
			},
		},
		{
			name: "already cancelled",
			mockFn: func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher) {
				repo.EXPECT().GetByID(gomock.Any(), "o-1").Return(stored("u1", orderbus.StatusCancelled), nil)
			},
			assertFn: func(t *testing.T, res *v1.SubmitResult, err error) {
				assert.Equal(t, []string{"orderId"}, detailFields(t, err))
			},
		},
		{
			name: "repository failure",
			mockFn: func(repo *mock.MockOrderRepository, pub *orderbus_mock.MockPublisher) {
				repo.EXPECT().GetByID(gomock.Any(), "o-1").Return(nil, errors.New("db down"))
			},
			assertFn: func(t *testing.T, res *v1.SubmitResult, err error) {
				assert.True(t, pkgErrors.ErrorCodeEquals(err, pkgErrors.StorageUnavailable))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mock.NewMockOrderRepository(ctrl)
			pub := orderbus_mock.NewMockPublisher(ctrl)
			tc.mockFn(repo, pub)

			res, err := newTestUsecase(repo, pub, time.Now()).Cancel(context.Background(), "u1", "o-1")
			tc.assertFn(t, res, err)
		})
	}
}

func TestUsecase_ListOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockOrderRepository(ctrl)
	u := newTestUsecase(repo, orderbus_mock.NewMockPublisher(ctrl), time.Now())

	repo.EXPECT().List(gomock.Any(), order.Filter{UserID: "u1", Status: orderbus.StatusFilled, Symbol: "BTCUSDT", Limit: 5}).
		Return([]*order.Order{{OrderID: "o-1"}}, nil)

	orders, err := u.ListOrders(context.Background(), "u1", v1.ListOrdersRequest{Status: "filled", Symbol: "btcusdt", Limit: 5})
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = u.ListOrders(context.Background(), "u1", v1.ListOrdersRequest{Status: "open"})
	assert.Equal(t, []string{"status"}, detailFields(t, err))
}

func TestUsecase_Positions(t *testing.T) {
	fill := func(symbol string, side orderbus.Side, qty, price string) *order.FilledEvent {
		return &order.FilledEvent{Symbol: symbol, Side: side, Quantity: *dec(qty), Price: *dec(price)}
	}

	testCases := []struct {
		name     string
		events   []*order.FilledEvent
		assertFn func(t *testing.T, positions []*v1.Position)
	}{
		{
			name:   "no fills",
			events: []*order.FilledEvent{},
			assertFn: func(t *testing.T, positions []*v1.Position) {
				assert.NotNil(t, positions)
				assert.Empty(t, positions)
			},
		},
		{
			name: "buys and sells net out per symbol",
			events: []*order.FilledEvent{
				fill("ETHUSDT", orderbus.SideBuy, "2", "100"),
				fill("BTCUSDT", orderbus.SideBuy, "1", "10"),
				fill("ETHUSDT", orderbus.SideSell, "1", "130"),
			},
			assertFn: func(t *testing.T, positions []*v1.Position) {
				require.Len(t, positions, 2)
				assert.Equal(t, "BTCUSDT", positions[0].Symbol)
				assert.Equal(t, "10", positions[0].AvgPrice.String())

				eth := positions[1]
				assert.Equal(t, "1", eth.Quantity.String())
				assert.Equal(t, "70", eth.TotalCost.String())
				assert.Equal(t, "70", eth.AvgPrice.String())
			},
		},
		{
			name: "flat position keeps last average",
			events: []*order.FilledEvent{
				fill("BTCUSDT", orderbus.SideBuy, "1", "100"),
				fill("BTCUSDT", orderbus.SideSell, "1", "120"),
			},
			assertFn: func(t *testing.T, positions []*v1.Position) {
				require.Len(t, positions, 1)
				assert.True(t, positions[0].Quantity.IsZero())
				assert.Equal(t, "-20", positions[0].TotalCost.String())
				assert.Equal(t, "100", positions[0].AvgPrice.String())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mock.NewMockOrderRepository(ctrl)
			repo.EXPECT().ListFilledEvents(gomock.Any(), "u1").Return(tc.events, nil)

			positions, err := newTestUsecase(repo, orderbus_mock.NewMockPublisher(ctrl), time.Now()).Positions(context.Background(), "u1")
			require.NoError(t, err)
			tc.assertFn(t, positions)
		})
	}
}
