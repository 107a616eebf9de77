package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/ids"
)

type catalogFixture struct {
	categoryRepo *mockCategoryRepo
	productRepo  *mockProductRepo
	outboxRepo   *mockOutboxRepo
	cacheRepo    *mockCacheRepo
	imagesInfra  *mockImagesInfra
	db           *stubTransactional
	uc           *CatalogUseCase
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()

	idGen, err := ids.NewGenerator(1)
	require.NoError(t, err)

	f := &catalogFixture{
		categoryRepo: &mockCategoryRepo{},
		productRepo:  &mockProductRepo{},
		outboxRepo:   &mockOutboxRepo{},
		cacheRepo:    &mockCacheRepo{},
		imagesInfra:  &mockImagesInfra{},
		db:           newStubTransactional(),
	}
	f.uc = NewCatalogUC(
		f.categoryRepo,
		f.productRepo,
		f.outboxRepo,
		f.cacheRepo,
		f.imagesInfra,
		f.db,
		idGen,
		nil,
		nopLogger{},
	)

	return f
}

func TestAddCategory_EmptyName(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.uc.AddCategory(context.Background(), NewAddCategoryReq("   "))

	assert.ErrorIs(t, err, e.ErrCategoryNameRequired)
	f.categoryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddCategory_DuplicateName(t *testing.T) {
	f := newCatalogFixture(t)
	f.categoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Category")).
		Return(nil, e.ErrCategoryNameTaken)

	_, err := f.uc.AddCategory(context.Background(), NewAddCategoryReq("Electronics"))

	assert.ErrorIs(t, err, e.ErrCategoryNameTaken)
}

func TestAddCategory_TrimsName(t *testing.T) {
	f := newCatalogFixture(t)
	f.categoryRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Category) bool {
		return c.Name == "Books" && c.ID > 0
	})).Return(&domain.Category{ID: 42, Name: "Books"}, nil)

	category, err := f.uc.AddCategory(context.Background(), NewAddCategoryReq("  Books  "))

	require.NoError(t, err)
	assert.Equal(t, "Books", category.Name)
	f.categoryRepo.AssertExpectations(t)
}

func TestAddProduct_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *AddProductReq
		wantErr error
	}{
		{
			name:    "empty name",
			req:     NewAddProductReq("  ", 1, 100, nil, []int64{1}, nil),
			wantErr: e.ErrProductNameRequired,
		},
		{
			name:    "negative stock",
			req:     NewAddProductReq("Phone", -1, 100, nil, []int64{1}, nil),
			wantErr: e.ErrStockNegative,
		},
		{
			name:    "negative price",
			req:     NewAddProductReq("Phone", 1, -100, nil, []int64{1}, nil),
			wantErr: e.ErrPriceNegative,
		},
		{
			name:    "no categories",
			req:     NewAddProductReq("Phone", 1, 100, nil, nil, nil),
			wantErr: e.ErrCategoriesRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCatalogFixture(t)

			_, err := f.uc.AddProduct(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			f.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAddProduct_UnknownCategoryRollsBackAndCleansImage(t *testing.T) {
	f := newCatalogFixture(t)

	image := NewProductImage([]byte("img"), "image/png", 3, "phone.png")
	f.imagesInfra.On("UploadImage", mock.Anything, mock.AnythingOfType("*usecase.UploadImageReq")).
		Return("Phone/phone-abc.png", nil)
	// Одна из двух категорий не существует
	f.categoryRepo.On("CountByIDs", mock.Anything, mock.Anything).Return(1, nil)
	f.imagesInfra.On("CleanupImages", []string{"Phone/phone-abc.png"}).Return()

	_, err := f.uc.AddProduct(context.Background(), NewAddProductReq("Phone", 1, 100, nil, []int64{1, 2}, image))

	assert.ErrorIs(t, err, e.ErrCategoryUnknown)
	assert.True(t, f.db.tx.rolledBack)
	assert.False(t, f.db.tx.committed)
	f.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.imagesInfra.AssertExpectations(t)
}

func TestAddProduct_Success(t *testing.T) {
	f := newCatalogFixture(t)

	f.categoryRepo.On("CountByIDs", mock.Anything, mock.Anything).Return(2, nil)
	f.productRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
	f.productRepo.On("ReplaceCategories", mock.Anything, mock.AnythingOfType("int64"), []int64{1, 2}).Return(nil)
	f.outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(ev *OutboxEvent) bool {
		return ev.EventType == ProductCreated
	})).Return(&OutboxEvent{}, nil)
	f.cacheRepo.On("InvalidateListing", mock.Anything).Return(nil)

	product, err := f.uc.AddProduct(context.Background(), NewAddProductReq("Phone", 3, 59999, nil, []int64{1, 2}, nil))

	require.NoError(t, err)
	assert.Equal(t, "Phone", product.Name)
	assert.True(t, f.db.tx.committed)
	assert.False(t, f.db.tx.rolledBack)
	f.productRepo.AssertExpectations(t)
	f.outboxRepo.AssertExpectations(t)
	f.cacheRepo.AssertExpectations(t)
}

func TestAddProduct_EventKeepsZeroStockAndPrice(t *testing.T) {
	f := newCatalogFixture(t)

	f.categoryRepo.On("CountByIDs", mock.Anything, mock.Anything).Return(1, nil)
	f.productRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
	f.productRepo.On("ReplaceCategories", mock.Anything, mock.AnythingOfType("int64"), []int64{1}).Return(nil)

	var payload []byte
	f.outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(ev *OutboxEvent) bool {
		payload = ev.Payload
		return ev.EventType == ProductCreated
	})).Return(&OutboxEvent{}, nil)
	f.cacheRepo.On("InvalidateListing", mock.Anything).Return(nil)

	// Бесплатный товар с нулевым остатком: нули обязаны попасть в событие
	_, err := f.uc.AddProduct(context.Background(), NewAddProductReq("Freebie", 0, 0, nil, []int64{1}, nil))

	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Contains(t, decoded, "stock")
	require.Contains(t, decoded, "price")
	assert.EqualValues(t, 0, decoded["stock"])
	assert.EqualValues(t, 0, decoded["price"])
}

func TestUpdateProduct_RequiresCategories(t *testing.T) {
	f := newCatalogFixture(t)

	err := f.uc.UpdateProduct(context.Background(), &UpdateProductReq{ID: 1})

	assert.ErrorIs(t, err, e.ErrCategoriesRequired)
	f.productRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	f := newCatalogFixture(t)
	f.productRepo.On("GetByID", mock.Anything, int64(7)).Return(nil, e.ErrProductNotFound)

	err := f.uc.UpdateProduct(context.Background(), &UpdateProductReq{ID: 7, CategoryIDs: []int64{1}})

	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestUpdateProduct_MergesOnlyProvidedFields(t *testing.T) {
	f := newCatalogFixture(t)

	desc := "old description"
	current := &domain.Product{ID: 7, Name: "Phone", Stock: 3, Price: 59999, Description: &desc}
	newPrice := int64(49999)

	f.productRepo.On("GetByID", mock.Anything, int64(7)).Return(current, nil)
	f.categoryRepo.On("CountByIDs", mock.Anything, mock.Anything).Return(1, nil)
	f.productRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		// Цена заменена, остальные поля сохранены
		return p.Price == newPrice && p.Name == "Phone" && p.Stock == 3 && p.Description == &desc
	})).Return(nil)
	f.productRepo.On("ReplaceCategories", mock.Anything, int64(7), []int64{1}).Return(nil)
	f.outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(ev *OutboxEvent) bool {
		return ev.EventType == ProductUpdated
	})).Return(&OutboxEvent{}, nil)
	f.cacheRepo.On("InvalidateListing", mock.Anything).Return(nil)

	err := f.uc.UpdateProduct(context.Background(), &UpdateProductReq{
		ID:          7,
		Price:       &newPrice,
		CategoryIDs: []int64{1},
	})

	require.NoError(t, err)
	assert.True(t, f.db.tx.committed)
	f.productRepo.AssertExpectations(t)
}

func TestUpdateDescription_Empty(t *testing.T) {
	f := newCatalogFixture(t)

	err := f.uc.UpdateDescription(context.Background(), 1, "  ")

	assert.ErrorIs(t, err, e.ErrDescriptionRequired)
}

func TestDeleteProduct_CleansImageAfterCommit(t *testing.T) {
	f := newCatalogFixture(t)

	imageKey := "Phone/phone-abc.png"
	current := &domain.Product{ID: 7, Name: "Phone", ImageKey: &imageKey}

	f.productRepo.On("GetByID", mock.Anything, int64(7)).Return(current, nil)
	f.productRepo.On("Delete", mock.Anything, int64(7)).Return(nil)
	f.outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(ev *OutboxEvent) bool {
		return ev.EventType == ProductDeleted
	})).Return(&OutboxEvent{}, nil)
	f.imagesInfra.On("CleanupImages", []string{imageKey}).Return()
	f.cacheRepo.On("InvalidateListing", mock.Anything).Return(nil)

	err := f.uc.DeleteProduct(context.Background(), 7)

	require.NoError(t, err)
	assert.True(t, f.db.tx.committed)
	f.imagesInfra.AssertExpectations(t)
}

func TestListProductsWithCategories_CacheHit(t *testing.T) {
	f := newCatalogFixture(t)

	cached := []ProductWithCategories{{ID: 1, Name: "Phone"}}
	f.cacheRepo.On("GetProductListing", mock.Anything).Return(cached, true, nil)

	products, err := f.uc.ListProductsWithCategories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, cached, products)
	f.productRepo.AssertNotCalled(t, "ListWithCategories", mock.Anything)
}

func TestListProductsWithCategories_CacheMiss(t *testing.T) {
	f := newCatalogFixture(t)

	fromDB := []ProductWithCategories{{ID: 1, Name: "Phone", Categories: []CategoryRef{{ID: 2, Name: "Electronics"}}}}
	f.cacheRepo.On("GetProductListing", mock.Anything).Return(nil, false, nil)
	f.productRepo.On("ListWithCategories", mock.Anything).Return(fromDB, nil)
	f.cacheRepo.On("SetProductListing", mock.Anything, fromDB).Return(nil).Maybe()

	products, err := f.uc.ListProductsWithCategories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, fromDB, products)

	// Даём фоновому наполнению кэша шанс отработать
	time.Sleep(50 * time.Millisecond)
}

func TestListHomepageFeatured_NoConfiguredCategories(t *testing.T) {
	f := newCatalogFixture(t)

	featured, err := f.uc.ListHomepageFeatured(context.Background())

	require.NoError(t, err)
	assert.Empty(t, featured)
	f.productRepo.AssertNotCalled(t, "ListFeatured", mock.Anything, mock.Anything)
}
