package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/tr"
)

// OrderRepo реализует репозиторий заказов поверх PostgreSQL.
type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{
		pool: pool,
	}
}

// Create вставляет шапку заказа и все позиции внутри текущей транзакции.
func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	headerQuery := `
		INSERT INTO orders (id, user_id, status)
		VALUES ($1, $2, $3);
	`

	if _, err = tx.Exec(ctx, headerQuery, order.ID, order.UserID, string(order.Status)); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	lineQuery := `
		INSERT INTO order_products (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4);
	`

	for _, line := range order.Lines {
		if _, err = tx.Exec(ctx, lineQuery, order.ID, line.ProductID, line.Quantity, line.Price); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return nil
}

// GetStatus возвращает текущий статус заказа.
func (o *OrderRepo) GetStatus(ctx context.Context, id int64) (domain.OrderStatus, error) {
	query := `SELECT status FROM orders WHERE id = $1;`

	var raw string
	err := o.pool.QueryRow(ctx, query, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
		}

		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	status, ok := domain.ParseOrderStatus(raw)
	if !ok {
		return "", e.Wrap(whereami.WhereAmI(), e.ErrUnknownOrderStatus)
	}

	return status, nil
}

// UpdateStatus выполняет условный переход from -> to внутри текущей
// транзакции. false означает, что статус успел измениться конкурентно.
func (o *OrderRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2;
	`

	result, err := tx.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return result.RowsAffected() == 1, nil
}

// ListForUser возвращает денормализованные строки заказов пользователя:
// по строке на каждую позицию, с данными покупателя и товара.
func (o *OrderRepo) ListForUser(ctx context.Context, userID int64) ([]usecase.OrderRow, error) {
	rows, err := o.pool.Query(ctx, orderRowsQuery+` WHERE u.id = $1 `+orderRowsOrder, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return scanOrderRows(rows)
}

// ListAll возвращает денормализованные строки всех заказов.
func (o *OrderRepo) ListAll(ctx context.Context) ([]usecase.OrderRow, error) {
	rows, err := o.pool.Query(ctx, orderRowsQuery+orderRowsOrder)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return scanOrderRows(rows)
}

// Цена берётся из order_products: она зафиксирована на момент оформления
// и не зависит от текущей цены товара.
const orderRowsQuery = `
	SELECT
		o.id, u.name, u.email, u.phone, u.address, o.status,
		pr.id, pr.name, pr.image, op.quantity, op.price
	FROM orders o
	JOIN users u ON u.id = o.user_id
	JOIN order_products op ON op.order_id = o.id
	JOIN products pr ON pr.id = op.product_id
`

const orderRowsOrder = ` ORDER BY o.created_at DESC, o.id, pr.id;`

func scanOrderRows(rows pgx.Rows) ([]usecase.OrderRow, error) {
	result := make([]usecase.OrderRow, 0)
	for rows.Next() {
		var row usecase.OrderRow
		err := rows.Scan(
			&row.OrderID, &row.CustomerName, &row.Email, &row.Phone, &row.Address, &row.Status,
			&row.ProductID, &row.ProductName, &row.ImageKey, &row.Quantity, &row.Price,
		)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
