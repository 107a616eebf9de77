package usecase

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Payload-структуры событий. Идентификаторы сериализуются строками,
// как и на HTTP-границе.

type productEventPayload struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Stock       int     `json:"stock"`
	Price       int64   `json:"price"`
	Description *string `json:"description,omitempty"`
	ImageKey    *string `json:"image_key,omitempty"`
}

type productDeletedPayload struct {
	ProductID string `json:"product_id"`
}

type orderEventLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

type orderPlacedPayload struct {
	OrderID string           `json:"order_id"`
	UserID  string           `json:"user_id"`
	Lines   []orderEventLine `json:"lines"`
}

type orderStatusPayload struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// newOutboxEvent собирает событие для записи в outbox в текущей транзакции.
func newOutboxEvent(eventType OutboxEventType, aggregateID int64, payload any) (*OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     data,
		Status:      Pending,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
