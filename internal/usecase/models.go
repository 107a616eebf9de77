package usecase

import "time"

// CATALOG USECASE

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// AddCategoryReq — запрос на создание категории.
type AddCategoryReq struct {
	Name string
}

// UpdateCategoryReq — запрос на переименование категории.
type UpdateCategoryReq struct {
	ID   int64
	Name string
}

// AddProductReq — запрос на добавление нового товара.
type AddProductReq struct {
	Name        string
	Stock       int
	Price       int64 // в центах
	Description *string
	CategoryIDs []int64
	Image       *ProductImage
}

// UpdateProductReq — запрос на обновление товара.
// Nil-поля означают «оставить текущее значение».
type UpdateProductReq struct {
	ID          int64
	Name        *string
	Stock       *int
	Price       *int64
	Description *string
	CategoryIDs []int64
	Image       *ProductImage
}

// CategoryRef — пара (id, имя) категории внутри листинга товаров.
type CategoryRef struct {
	ID   int64
	Name string
}

// ProductWithCategories — строка листинга товаров с набором категорий.
type ProductWithCategories struct {
	ID          int64
	Name        string
	Stock       int
	Price       int64
	ImageKey    *string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	Categories  []CategoryRef
}

// FeaturedProduct — строка витрины главной страницы.
type FeaturedProduct struct {
	ProductID    int64
	ImageKey     *string
	CategoryID   int64
	CategoryName string
}

// ORDER USECASE

// OrderLineReq — входная позиция заказа. Цена передаётся клиентом
// на момент оформления и фиксируется как есть.
type OrderLineReq struct {
	ProductID int64
	Quantity  int
	Price     int64
}

// PlaceOrderReq — запрос на оформление заказа.
type PlaceOrderReq struct {
	UserID int64
	Lines  []OrderLineReq
}

// PlaceOrderRes — результат оформления заказа.
type PlaceOrderRes struct {
	OrderID int64
}

// OrderRow — денормализованная строка листинга заказов:
// одна строка на пару (заказ, позиция); группировку делает вызывающая сторона.
type OrderRow struct {
	OrderID      int64
	CustomerName string
	Email        string
	Phone        *string
	Address      *string
	Status       string
	ProductID    int64
	ProductName  string
	ImageKey     *string
	Quantity     int
	Price        int64
}

// UpdateOrderStatusReq — запрос на перевод заказа в новый статус.
type UpdateOrderStatusReq struct {
	OrderID   int64
	NewStatus string
}

// USER USECASE

// UpdateUserReq — админское обновление контактных полей пользователя.
type UpdateUserReq struct {
	ID      int64
	Name    string
	Address *string
	Phone   *string
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductCreated     OutboxEventType = "product.created"
	ProductUpdated     OutboxEventType = "product.updated"
	ProductDeleted     OutboxEventType = "product.deleted"
	OrderPlaced        OutboxEventType = "order.placed"
	OrderStatusChanged OutboxEventType = "order.status_changed"
)

// OutboxEvent — событие, записанное в той же транзакции, что и мутация.
// Воркер публикует Payload в Kafka как есть (at-least-once).
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// INFRASTRUCTURE

// UploadImageReq — запрос на загрузку изображения товара.
type UploadImageReq struct {
	Name  string // имя товара, используется как префикс ключа объекта
	Image ProductImage
}

// WriteRawMessageReq — публикация готового payload в брокер.
type WriteRawMessageReq struct {
	AggregateID int64
	Payload     []byte
}

// MAPPERS

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewAddCategoryReq(name string) *AddCategoryReq {
	return &AddCategoryReq{Name: name}
}

func NewUpdateCategoryReq(id int64, name string) *UpdateCategoryReq {
	return &UpdateCategoryReq{ID: id, Name: name}
}

func NewAddProductReq(name string, stock int, price int64, description *string, categoryIDs []int64, image *ProductImage) *AddProductReq {
	return &AddProductReq{
		Name:        name,
		Stock:       stock,
		Price:       price,
		Description: description,
		CategoryIDs: categoryIDs,
		Image:       image,
	}
}

func NewPlaceOrderReq(userID int64, lines []OrderLineReq) *PlaceOrderReq {
	return &PlaceOrderReq{
		UserID: userID,
		Lines:  lines,
	}
}

func NewPlaceOrderRes(orderID int64) *PlaceOrderRes {
	return &PlaceOrderRes{OrderID: orderID}
}

func NewUpdateOrderStatusReq(orderID int64, newStatus string) *UpdateOrderStatusReq {
	return &UpdateOrderStatusReq{
		OrderID:   orderID,
		NewStatus: newStatus,
	}
}

func NewUpdateUserReq(id int64, name string, address *string, phone *string) *UpdateUserReq {
	return &UpdateUserReq{
		ID:      id,
		Name:    name,
		Address: address,
		Phone:   phone,
	}
}

func NewUploadImageReq(name string, image ProductImage) *UploadImageReq {
	return &UploadImageReq{
		Name:  name,
		Image: image,
	}
}

func NewWriteRawMessageReq(aggregateID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		AggregateID: aggregateID,
		Payload:     payload,
	}
}
