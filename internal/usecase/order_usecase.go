package usecase

import (
	"context"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/ids"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

// OrderUseCase реализует оформление заказов и серверную машину статусов.
type OrderUseCase struct {
	orderRepo  OrderRepository
	outboxRepo OutboxRepository
	dbPool     transaction.Transactional
	ids        *ids.Generator
	logger     logger.Logger
}

func NewOrderUC(
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	idGen *ids.Generator,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		dbPool:     dbPool,
		ids:        idGen,
		logger:     logger,
	}
}

// PlaceOrder создаёт шапку заказа и все позиции в одной транзакции:
// либо существуют все строки, либо ни одной. Цена каждой позиции
// фиксируется из запроса и дальше не пересчитывается.
// Остаток товара при оформлении не списывается.
func (o *OrderUseCase) PlaceOrder(ctx context.Context, req *PlaceOrderReq) (*PlaceOrderRes, error) {
	const op = "OrderUseCase.PlaceOrder"

	var err error
	if err = o.validateOrder(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	lines := make([]domain.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, domain.NewOrderLine(line.ProductID, line.Quantity, line.Price))
	}
	order := domain.NewOrder(o.ids.NextID(), req.UserID, lines)

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, o.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = o.orderRepo.Create(ctx, order); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = o.writeOrderPlacedEvent(ctx, order); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewPlaceOrderRes(order.ID), nil
}

// ListOrdersForUser возвращает денормализованные строки заказов одного пользователя.
func (o *OrderUseCase) ListOrdersForUser(ctx context.Context, userID int64) ([]OrderRow, error) {
	const op = "OrderUseCase.ListOrdersForUser"

	if userID <= 0 {
		return nil, e.Wrap(op, e.ErrUserIDRequired)
	}

	rows, err := o.orderRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return rows, nil
}

// ListOrdersForAdmin возвращает денормализованные строки всех заказов.
func (o *OrderUseCase) ListOrdersForAdmin(ctx context.Context) ([]OrderRow, error) {
	const op = "OrderUseCase.ListOrdersForAdmin"

	rows, err := o.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return rows, nil
}

// UpdateOrderStatus переводит заказ в новый статус по машине состояний.
// Запись обновляется условно (WHERE status = текущий), поэтому конкурентный
// переход не может перескочить состояние.
func (o *OrderUseCase) UpdateOrderStatus(ctx context.Context, req *UpdateOrderStatusReq) error {
	const op = "OrderUseCase.UpdateOrderStatus"

	next, ok := domain.ParseOrderStatus(req.NewStatus)
	if !ok {
		return e.Wrap(op, e.ErrUnknownOrderStatus)
	}

	current, err := o.orderRepo.GetStatus(ctx, req.OrderID)
	if err != nil {
		return e.Wrap(op, err)
	}

	if !current.CanTransitionTo(next) {
		return e.Wrap(op, e.ErrInvalidTransition)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, o.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	updated, err := o.orderRepo.UpdateStatus(ctx, req.OrderID, current, next)
	if err != nil {
		return e.Wrap(op, err)
	}
	if !updated {
		// Статус сменился между чтением и обновлением
		err = e.ErrInvalidTransition
		return e.Wrap(op, err)
	}

	event, evErr := newOutboxEvent(OrderStatusChanged, req.OrderID, orderStatusPayload{
		OrderID: formatID(req.OrderID),
		From:    string(current),
		To:      string(next),
	})
	if evErr != nil {
		err = evErr
		return e.Wrap(op, err)
	}

	if _, err = o.outboxRepo.Create(ctx, event); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// writeOrderPlacedEvent записывает событие оформления заказа в outbox.
func (o *OrderUseCase) writeOrderPlacedEvent(ctx context.Context, order *domain.Order) error {
	lines := make([]orderEventLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, orderEventLine{
			ProductID: formatID(line.ProductID),
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	event, err := newOutboxEvent(OrderPlaced, order.ID, orderPlacedPayload{
		OrderID: formatID(order.ID),
		UserID:  formatID(order.UserID),
		Lines:   lines,
	})
	if err != nil {
		return err
	}

	_, err = o.outboxRepo.Create(ctx, event)
	return err
}

// validateOrder проверяет входные данные оформления заказа.
func (o *OrderUseCase) validateOrder(req *PlaceOrderReq) error {
	if req.UserID <= 0 {
		return e.ErrUserIDRequired
	}

	if len(req.Lines) == 0 {
		return e.ErrOrderLinesRequired
	}

	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return e.ErrQuantityNotPositive
		}
		if line.Price < 0 {
			return e.ErrPriceNegative
		}
	}

	return nil
}
