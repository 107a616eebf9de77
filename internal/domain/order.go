package domain

import "time"

// OrderStatus — статус заказа. Переходы между статусами фиксированы
// и проверяются на сервере, терминальные статусы не покидаются.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusShipping  OrderStatus = "Shipping"
	StatusDelivered OrderStatus = "Delivered"
	StatusRefuse    OrderStatus = "Refuse"
	StatusRejected  OrderStatus = "Rejected"
)

// transitions перечисляет допустимые переходы статусов.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPreparing, StatusRejected},
	StatusPreparing: {StatusShipping},
	StatusShipping:  {StatusDelivered, StatusRefuse},
}

// ParseOrderStatus возвращает статус по строковому представлению.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusPreparing, StatusShipping, StatusDelivered, StatusRefuse, StatusRejected:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

// IsTerminal сообщает, является ли статус конечным.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusRefuse || s == StatusRejected
}

// CanTransitionTo проверяет допустимость перехода s -> next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Order описывает заказ покупателя. Заказ всегда содержит хотя бы одну позицию.
type Order struct {
	ID        int64
	UserID    int64
	Status    OrderStatus
	Lines     []OrderLine
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// OrderLine — позиция заказа. Price фиксируется в момент оформления
// и никогда не пересчитывается из текущей цены товара.
type OrderLine struct {
	ProductID int64
	Quantity  int
	Price     int64 // Цена в центах на момент заказа
}

func NewOrder(id int64, userID int64, lines []OrderLine) *Order {
	return &Order{
		ID:     id,
		UserID: userID,
		Status: StatusPending,
		Lines:  lines,
	}
}

func NewOrderLine(productID int64, quantity int, price int64) OrderLine {
	return OrderLine{
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
	}
}
