package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/ids"
)

type orderFixture struct {
	orderRepo  *mockOrderRepo
	outboxRepo *mockOutboxRepo
	db         *stubTransactional
	uc         *OrderUseCase
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	idGen, err := ids.NewGenerator(1)
	require.NoError(t, err)

	f := &orderFixture{
		orderRepo:  &mockOrderRepo{},
		outboxRepo: &mockOutboxRepo{},
		db:         newStubTransactional(),
	}
	f.uc = NewOrderUC(f.orderRepo, f.outboxRepo, f.db, idGen, nopLogger{})

	return f
}

func TestPlaceOrder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *PlaceOrderReq
		wantErr error
	}{
		{
			name:    "missing user id",
			req:     NewPlaceOrderReq(0, []OrderLineReq{{ProductID: 1, Quantity: 1, Price: 100}}),
			wantErr: e.ErrUserIDRequired,
		},
		{
			name:    "no lines",
			req:     NewPlaceOrderReq(1, nil),
			wantErr: e.ErrOrderLinesRequired,
		},
		{
			name:    "zero quantity",
			req:     NewPlaceOrderReq(1, []OrderLineReq{{ProductID: 1, Quantity: 0, Price: 100}}),
			wantErr: e.ErrQuantityNotPositive,
		},
		{
			name:    "negative price",
			req:     NewPlaceOrderReq(1, []OrderLineReq{{ProductID: 1, Quantity: 1, Price: -100}}),
			wantErr: e.ErrPriceNegative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)

			_, err := f.uc.PlaceOrder(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestPlaceOrder_RollsBackOnCreateFailure(t *testing.T) {
	f := newOrderFixture(t)

	f.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(errors.New("insert failed"))

	_, err := f.uc.PlaceOrder(context.Background(), NewPlaceOrderReq(1, []OrderLineReq{
		{ProductID: 2, Quantity: 1, Price: 59999},
	}))

	require.Error(t, err)
	assert.True(t, f.db.tx.rolledBack)
	assert.False(t, f.db.tx.committed)
	f.outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPlaceOrder_Success(t *testing.T) {
	f := newOrderFixture(t)

	f.orderRepo.On("Create", mock.Anything, mock.MatchedBy(func(order *domain.Order) bool {
		return order.UserID == 1 && order.Status == domain.StatusPending && len(order.Lines) == 2
	})).Return(nil)
	f.outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(ev *OutboxEvent) bool {
		return ev.EventType == OrderPlaced
	})).Return(&OutboxEvent{}, nil)

	res, err := f.uc.PlaceOrder(context.Background(), NewPlaceOrderReq(1, []OrderLineReq{
		{ProductID: 2, Quantity: 1, Price: 59999},
		{ProductID: 3, Quantity: 4, Price: 1250},
	}))

	require.NoError(t, err)
	assert.Positive(t, res.OrderID)
	assert.True(t, f.db.tx.committed)
	assert.False(t, f.db.tx.rolledBack)
	f.orderRepo.AssertExpectations(t)
	f.outboxRepo.AssertExpectations(t)
}

func TestListOrdersForUser_RequiresUserID(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.ListOrdersForUser(context.Background(), 0)

	assert.ErrorIs(t, err, e.ErrUserIDRequired)
	f.orderRepo.AssertNotCalled(t, "ListForUser", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_UnknownStatus(t *testing.T) {
	f := newOrderFixture(t)

	err := f.uc.UpdateOrderStatus(context.Background(), NewUpdateOrderStatusReq(1, "Cancelled"))

	assert.ErrorIs(t, err, e.ErrUnknownOrderStatus)
	f.orderRepo.AssertNotCalled(t, "GetStatus", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_OrderNotFound(t *testing.T) {
	f := newOrderFixture(t)
	f.orderRepo.On("GetStatus", mock.Anything, int64(1)).
		Return(domain.OrderStatus(""), e.ErrOrderNotFound)

	err := f.uc.UpdateOrderStatus(context.Background(), NewUpdateOrderStatusReq(1, "Preparing"))

	assert.ErrorIs(t, err, e.ErrOrderNotFound)
}

func TestUpdateOrderStatus_InvalidTransition(t *testing.T) {
	f := newOrderFixture(t)
	f.orderRepo.On("GetStatus", mock.Anything, int64(1)).Return(domain.StatusPending, nil)

	// Pending не может перейти сразу в Delivered
	err := f.uc.UpdateOrderStatus(context.Background(), NewUpdateOrderStatusReq(1, "Delivered"))

	assert.ErrorIs(t, err, e.ErrInvalidTransition)
	f.orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_LostRace(t *testing.T) {
	f := newOrderFixture(t)

	f.orderRepo.On("GetStatus", mock.Anything, int64(1)).Return(domain.StatusPending, nil)
	// Между чтением и обновлением статус успел смениться
	f.orderRepo.On("UpdateStatus", mock.Anything, int64(1), domain.StatusPending, domain.StatusPreparing).
		Return(false, nil)

	err := f.uc.UpdateOrderStatus(context.Background(), NewUpdateOrderStatusReq(1, "Preparing"))

	assert.ErrorIs(t, err, e.ErrInvalidTransition)
	assert.True(t, f.db.tx.rolledBack)
	assert.False(t, f.db.tx.committed)
	f.outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_Success(t *testing.T) {
	f := newOrderFixture(t)

	f.orderRepo.On("GetStatus", mock.Anything, int64(1)).Return(domain.StatusShipping, nil)
	f.orderRepo.On("UpdateStatus", mock.Anything, int64(1), domain.StatusShipping, domain.StatusDelivered).
		Return(true, nil)
	f.outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(ev *OutboxEvent) bool {
		return ev.EventType == OrderStatusChanged && ev.AggregateID == 1
	})).Return(&OutboxEvent{}, nil)

	err := f.uc.UpdateOrderStatus(context.Background(), NewUpdateOrderStatusReq(1, "Delivered"))

	require.NoError(t, err)
	assert.True(t, f.db.tx.committed)
	f.orderRepo.AssertExpectations(t)
	f.outboxRepo.AssertExpectations(t)
}
