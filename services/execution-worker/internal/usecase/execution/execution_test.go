package execution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	pkgErrors "github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	mockLogger "github.com/muhammadchandra19/exchange/pkg/logger/mock"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	orderbus_mock "github.com/muhammadchandra19/exchange/pkg/orderbus/mock"
	mockPg "github.com/muhammadchandra19/exchange/pkg/postgresql/mock"
	exchangev1 "github.com/muhammadchandra19/exchange/services/execution-worker/internal/domain/exchange/v1"
	exchangev1_mock "github.com/muhammadchandra19/exchange/services/execution-worker/internal/domain/exchange/v1/mock"
	executionDomain "github.com/muhammadchandra19/exchange/services/execution-worker/internal/domain/execution"
	mockRepo "github.com/muhammadchandra19/exchange/services/execution-worker/internal/infrastructure/postgresql/execution/mock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

type mocks struct {
	repo      *mockRepo.MockExecutionRepository
	tx        *mockPg.MockTransaction
	exchange  *exchangev1_mock.MockExchange
	publisher *orderbus_mock.MockPublisher
}

func newUsecase(ctrl *gomock.Controller, log logger.Interface) (*usecase, mocks) {
	m := mocks{
		repo:      mockRepo.NewMockExecutionRepository(ctrl),
		tx:        mockPg.NewMockTransaction(ctrl),
		exchange:  exchangev1_mock.NewMockExchange(ctrl),
		publisher: orderbus_mock.NewMockPublisher(ctrl),
	}
	u := NewUsecase(m.repo, m.tx, m.exchange, m.publisher, log)
	u.now = func() time.Time { return fixedNow }
	return u, m
}

func passthroughTx(tx *mockPg.MockTransaction) {
	tx.EXPECT().Begin(gomock.Any()).DoAndReturn(func(ctx context.Context) (context.Context, error) {
		return ctx, nil
	})
}

func TestExecution_OnSubmit(t *testing.T) {
	creds := &exchangev1.Credentials{APIKey: "k", SecretKey: "s"}
	cmd := orderbus.OrderCommand{
		OrderID:   "o-1",
		UserID:    "u1",
		Symbol:    "BTCUSDT",
		Side:      orderbus.SideBuy,
		Type:      orderbus.TypeMarket,
		Quantity:  decimal.RequireFromString("300"),
		Timestamp: fixedNow.Add(-time.Second),
	}
	rejected := func(reason string) orderbus.OrderEvent {
		return orderbus.OrderEvent{
			OrderID:   "o-1",
			UserID:    "u1",
			Status:    orderbus.StatusRejected,
			Symbol:    "BTCUSDT",
			Side:      orderbus.SideBuy,
			Quantity:  cmd.Quantity,
			Price:     decimal.Zero,
			Timestamp: fixedNow,
			Error:     reason,
		}
	}
	filledResponse := &exchangev1.OrderResponse{
		OrderID: 77,
		Fills: []exchangev1.Fill{
			{Price: decimal.NewFromInt(10), Qty: decimal.NewFromInt(100)},
			{Price: decimal.NewFromInt(20), Qty: decimal.NewFromInt(200)},
		},
	}
	assertFilled := func(t *testing.T) func(_ context.Context, event orderbus.OrderEvent) error {
		return func(_ context.Context, event orderbus.OrderEvent) error {
			assert.Equal(t, orderbus.StatusFilled, event.Status)
			assert.Equal(t, "o-1", event.OrderID)
			assert.Equal(t, orderbus.SideBuy, event.Side)
			assert.Equal(t, "16.67", event.Price.StringFixed(2))
			assert.Equal(t, fixedNow, event.Timestamp)
			assert.Empty(t, event.Error)
			return nil
		}
	}

	testCases := []struct {
		name     string
		mockFn   func(t *testing.T, m mocks)
		expected string
	}{
		{
			name: "filled with volume weighted price",
			mockFn: func(t *testing.T, m mocks) {
				m.repo.EXPECT().ClaimExecution(gomock.Any(), "o-1").Return(true, nil)
				m.repo.EXPECT().GetCredentials(gomock.Any(), "u1").Return(creds, nil)
				m.exchange.EXPECT().PlaceOrder(gomock.Any(), creds, cmd).Return(filledResponse, nil)
				gomock.InOrder(
					m.tx.EXPECT().Begin(gomock.Any()).DoAndReturn(func(ctx context.Context) (context.Context, error) { return ctx, nil }),
					m.repo.EXPECT().UpdateStatus(gomock.Any(), "o-1", orderbus.StatusFilled).Return(int64(1), nil),
					m.repo.EXPECT().StoreEvent(gomock.Any(), gomock.Any()).DoAndReturn(assertFilled(t)),
					m.tx.EXPECT().Commit(gomock.Any()).Return(nil),
					m.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).DoAndReturn(assertFilled(t)),
				)
			},
			expected: executionDomain.OutcomeFilled,
		},
		{
			name: "duplicate delivery is ignored",
			mockFn: func(t *testing.T, m mocks) {
				m.repo.EXPECT().ClaimExecution(gomock.Any(), "o-1").Return(false, nil)
			},
			expected: executionDomain.OutcomeDuplicate,
		},
		{
			name: "claim failure rejects without calling the exchange",
			mockFn: func(t *testing.T, m mocks) {
				m.repo.EXPECT().ClaimExecution(gomock.Any(), "o-1").Return(false, errors.New("db down"))
				m.repo.EXPECT().UpdateStatus(gomock.Any(), "o-1", orderbus.StatusRejected).Return(int64(0), errors.New("db down"))
				m.publisher.EXPECT().PublishEvent(gomock.Any(), rejected("db down")).Return(nil)
			},
			expected: executionDomain.OutcomeRejected,
		},
		{
			name: "missing credentials",
			mockFn: func(t *testing.T, m mocks) {
				m.repo.EXPECT().ClaimExecution(gomock.Any(), "o-1").Return(true, nil)
				m.repo.EXPECT().GetCredentials(gomock.Any(), "u1").Return(nil,
					pkgErrors.NewErrorDetails("exchange credentials not configured", string(pkgErrors.CredentialsNotConfigured), "userId"))
				m.repo.EXPECT().UpdateStatus(gomock.Any(), "o-1", orderbus.StatusRejected).Return(int64(1), nil)
				m.publisher.EXPECT().PublishEvent(gomock.Any(), rejected("exchange credentials not configured")).Return(nil)
			},
			expected: executionDomain.OutcomeRejected,
		},
		{
			name: "exchange rejects the order",
			mockFn: func(t *testing.T, m mocks) {
				m.repo.EXPECT().ClaimExecution(gomock.Any(), "o-1").Return(true, nil)
				m.repo.EXPECT().GetCredentials(gomock.Any(), "u1").Return(creds, nil)
				m.exchange.EXPECT().PlaceOrder(gomock.Any(), creds, cmd).Return(nil,
					pkgErrors.NewErrorDetails("Account has insufficient balance for requested action.", string(pkgErrors.ExchangeRequestError), "exchange"))
				m.repo.EXPECT().UpdateStatus(gomock.Any(), "o-1", orderbus.StatusRejected).Return(int64(1), nil)
				m.publisher.EXPECT().PublishEvent(gomock.Any(), rejected("Account has insufficient balance for requested action.")).Return(nil)
			},
			expected: executionDomain.OutcomeRejected,
		},
		{
			name: "persistence failure still publishes the fill",
			mockFn: func(t *testing.T, m mocks) {
				m.repo.EXPECT().ClaimExecution(gomock.Any(), "o-1").Return(true, nil)
				m.repo.EXPECT().GetCredentials(gomock.Any(), "u1").Return(creds, nil)
				m.exchange.EXPECT().PlaceOrder(gomock.Any(), creds, cmd).Return(filledResponse, nil)
				passthroughTx(m.tx)
				m.repo.EXPECT().UpdateStatus(gomock.Any(), "o-1", orderbus.StatusFilled).Return(int64(0), errors.New("conn reset"))
				m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
				m.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).DoAndReturn(assertFilled(t))
			},
			expected: executionDomain.OutcomeFilled,
		},
		{
			name: "publish failure does not change the outcome",
			mockFn: func(t *testing.T, m mocks) {
				m.repo.EXPECT().ClaimExecution(gomock.Any(), "o-1").Return(true, nil)
				m.repo.EXPECT().GetCredentials(gomock.Any(), "u1").Return(creds, nil)
				m.exchange.EXPECT().PlaceOrder(gomock.Any(), creds, cmd).Return(&exchangev1.OrderResponse{Price: decimal.NewFromInt(5)}, nil)
				passthroughTx(m.tx)
				m.repo.EXPECT().UpdateStatus(gomock.Any(), "o-1", orderbus.StatusFilled).Return(int64(1), nil)
				m.repo.EXPECT().StoreEvent(gomock.Any(), gomock.Any()).Return(nil)
				m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
				m.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
			},
			expected: executionDomain.OutcomeFilled,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			u, m := newUsecase(ctrl, logger.NewNop())
			tc.mockFn(t, m)

			assert.Equal(t, tc.expected, u.OnSubmit(context.Background(), cmd))
		})
	}
}

func TestExecution_OnSubmit_LogsDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := mockLogger.NewMockInterface(ctrl)
	u, m := newUsecase(ctrl, log)

	m.repo.EXPECT().ClaimExecution(gomock.Any(), "o-1").Return(false, nil)
	log.EXPECT().WarnContext(gomock.Any(), "duplicate submit delivery ignored")

	outcome := u.OnSubmit(context.Background(), orderbus.OrderCommand{OrderID: "o-1", UserID: "u1", Symbol: "BTCUSDT"})
	require.Equal(t, executionDomain.OutcomeDuplicate, outcome)
}

func TestExecution_OnCancel(t *testing.T) {
	creds := &exchangev1.Credentials{APIKey: "k", SecretKey: "s"}
	cmd := orderbus.CancelCommand{OrderID: "o-1", UserID: "u1", Symbol: "BTCUSDT"}
	cancelled := orderbus.OrderEvent{
		OrderID:   "o-1",
		UserID:    "u1",
		Status:    orderbus.StatusCancelled,
		Symbol:    "BTCUSDT",
		Timestamp: fixedNow,
	}

	testCases := []struct {
		name     string
		mockFn   func(m mocks)
		expected string
	}{
		{
			name: "cancelled",
			mockFn: func(m mocks) {
				m.repo.EXPECT().GetCredentials(gomock.Any(), "u1").Return(creds, nil)
				m.exchange.EXPECT().CancelOrder(gomock.Any(), creds, cmd).Return(nil)
				m.repo.EXPECT().UpdateStatus(gomock.Any(), "o-1", orderbus.StatusCancelled).Return(int64(1), nil)
				m.publisher.EXPECT().PublishEvent(gomock.Any(), cancelled).Return(nil)
			},
			expected: executionDomain.OutcomeCancelled,
		},
		{
			name: "no credentials leaves the order untouched",
			mockFn: func(m mocks) {
				m.repo.EXPECT().GetCredentials(gomock.Any(), "u1").Return(nil,
					pkgErrors.NewErrorDetails("exchange credentials not configured", string(pkgErrors.CredentialsNotConfigured), "userId"))
			},
			expected: executionDomain.OutcomeFailed,
		},
		{
			name: "exchange failure leaves the order untouched",
			mockFn: func(m mocks) {
				m.repo.EXPECT().GetCredentials(gomock.Any(), "u1").Return(creds, nil)
				m.exchange.EXPECT().CancelOrder(gomock.Any(), creds, cmd).Return(errors.New("Unknown order sent."))
			},
			expected: executionDomain.OutcomeFailed,
		},
		{
			name: "order no longer pending publishes nothing",
			mockFn: func(m mocks) {
				m.repo.EXPECT().GetCredentials(gomock.Any(), "u1").Return(creds, nil)
				m.exchange.EXPECT().CancelOrder(gomock.Any(), creds, cmd).Return(nil)
				m.repo.EXPECT().UpdateStatus(gomock.Any(), "o-1", orderbus.StatusCancelled).Return(int64(0), nil)
				m.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Times(0)
			},
			expected: executionDomain.OutcomeStale,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			u, m := newUsecase(ctrl, logger.NewNop())
			tc.mockFn(m)

			assert.Equal(t, tc.expected, u.OnCancel(context.Background(), cmd))
		})
	}
}
