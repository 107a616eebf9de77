package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
)

// nopLogger глушит логи в тестах.
type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...interface{})            {}
func (nopLogger) Infof(format string, args ...interface{})             {}
func (nopLogger) Warnf(format string, args ...interface{})             {}
func (nopLogger) Errorf(err error, format string, args ...interface{}) {}

type mockOrderUC struct {
	mock.Mock
}

func (m *mockOrderUC) PlaceOrder(ctx context.Context, req *usecase.PlaceOrderReq) (*usecase.PlaceOrderRes, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PlaceOrderRes), args.Error(1)
}

func (m *mockOrderUC) ListOrdersForUser(ctx context.Context, userID int64) ([]usecase.OrderRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.OrderRow), args.Error(1)
}

func (m *mockOrderUC) ListOrdersForAdmin(ctx context.Context) ([]usecase.OrderRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.OrderRow), args.Error(1)
}

func (m *mockOrderUC) UpdateOrderStatus(ctx context.Context, req *usecase.UpdateOrderStatusReq) error {
	return m.Called(ctx, req).Error(0)
}

type mockUserUC struct {
	mock.Mock
}

func (m *mockUserUC) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserUC) SetBanned(ctx context.Context, userID int64, banned bool) error {
	return m.Called(ctx, userID, banned).Error(0)
}

func (m *mockUserUC) UpdateByAdmin(ctx context.Context, req *usecase.UpdateUserReq) error {
	return m.Called(ctx, req).Error(0)
}
