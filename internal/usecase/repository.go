package usecase

import (
	"context"

	"github.com/DRSN-tech/shop-backend/internal/domain"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	UpdateName(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	// CountByIDs возвращает число существующих категорий из переданного набора.
	CountByIDs(ctx context.Context, ids []int64) (int, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	UpdateDescription(ctx context.Context, id int64, description string) error
	Delete(ctx context.Context, id int64) error
	// ReplaceCategories полностью заменяет набор связей товар-категория.
	ReplaceCategories(ctx context.Context, productID int64, categoryIDs []int64) error
	ListWithCategories(ctx context.Context) ([]ProductWithCategories, error)
	ListFeatured(ctx context.Context, categoryIDs []int64) ([]FeaturedProduct, error)
}

type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	SetBanned(ctx context.Context, id int64, banned bool) error
	UpdateByAdmin(ctx context.Context, req *UpdateUserReq) error
}

type OrderRepository interface {
	// Create вставляет шапку заказа и все позиции в рамках транзакции из контекста.
	Create(ctx context.Context, order *domain.Order) error
	GetStatus(ctx context.Context, id int64) (domain.OrderStatus, error)
	// UpdateStatus выполняет условный переход from -> to; false — строка не затронута.
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]OrderRow, error)
	ListAll(ctx context.Context) ([]OrderRow, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

type CacheRepository interface {
	// GetProductListing возвращает (listing, true) при попадании в кэш.
	GetProductListing(ctx context.Context) ([]ProductWithCategories, bool, error)
	SetProductListing(ctx context.Context, products []ProductWithCategories) error
	InvalidateListing(ctx context.Context) error
}
