package usecase

import (
	"context"

	"github.com/DRSN-tech/shop-backend/internal/domain"
)

type CatalogUC interface {
	AddCategory(ctx context.Context, req *AddCategoryReq) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, req *UpdateCategoryReq) error
	DeleteCategory(ctx context.Context, id int64) error

	AddProduct(ctx context.Context, req *AddProductReq) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	UpdateProduct(ctx context.Context, req *UpdateProductReq) error
	UpdateDescription(ctx context.Context, id int64, description string) error
	DeleteProduct(ctx context.Context, id int64) error
	ListProductsWithCategories(ctx context.Context) ([]ProductWithCategories, error)
	ListHomepageFeatured(ctx context.Context) ([]FeaturedProduct, error)
}

type OrderUC interface {
	PlaceOrder(ctx context.Context, req *PlaceOrderReq) (*PlaceOrderRes, error)
	ListOrdersForUser(ctx context.Context, userID int64) ([]OrderRow, error)
	ListOrdersForAdmin(ctx context.Context) ([]OrderRow, error)
	UpdateOrderStatus(ctx context.Context, req *UpdateOrderStatusReq) error
}

type UserUC interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	SetBanned(ctx context.Context, userID int64, banned bool) error
	UpdateByAdmin(ctx context.Context, req *UpdateUserReq) error
}
