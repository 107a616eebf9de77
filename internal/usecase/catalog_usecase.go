package usecase

import (
	"context"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/ids"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

// CatalogUseCase реализует бизнес-логику каталога: категории, товары,
// связи товар-категория, изображения и листинги.
type CatalogUseCase struct {
	categoryRepo CategoryRepository
	productRepo  ProductRepository
	outboxRepo   OutboxRepository
	cacheRepo    CacheRepository
	imagesInfra  ImagesInfra
	dbPool       transaction.Transactional
	ids          *ids.Generator
	featuredIDs  []int64
	logger       logger.Logger
}

func NewCatalogUC(
	categoryRepo CategoryRepository,
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	imagesInfra ImagesInfra,
	dbPool transaction.Transactional,
	idGen *ids.Generator,
	featuredIDs []int64,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		outboxRepo:   outboxRepo,
		cacheRepo:    cacheRepo,
		imagesInfra:  imagesInfra,
		dbPool:       dbPool,
		ids:          idGen,
		featuredIDs:  featuredIDs,
		logger:       logger,
	}
}

// AddCategory создаёт категорию с уникальным именем.
func (c *CatalogUseCase) AddCategory(ctx context.Context, req *AddCategoryReq) (*domain.Category, error) {
	const op = "CatalogUseCase.AddCategory"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.Wrap(op, e.ErrCategoryNameRequired)
	}

	category, err := c.categoryRepo.Create(ctx, domain.NewCategory(c.ids.NextID(), name))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return category, nil
}

// ListCategories возвращает все категории.
func (c *CatalogUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "CatalogUseCase.ListCategories"

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

// UpdateCategory переименовывает категорию. Новое имя обязано остаться уникальным.
func (c *CatalogUseCase) UpdateCategory(ctx context.Context, req *UpdateCategoryReq) error {
	const op = "CatalogUseCase.UpdateCategory"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return e.Wrap(op, e.ErrCategoryNameRequired)
	}

	if err := c.categoryRepo.UpdateName(ctx, req.ID, name); err != nil {
		return e.Wrap(op, err)
	}

	c.invalidateListing(ctx, op)
	return nil
}

// DeleteCategory удаляет категорию. Связи с товарами снимает каскад по FK,
// сами товары не трогаются.
func (c *CatalogUseCase) DeleteCategory(ctx context.Context, id int64) error {
	const op = "CatalogUseCase.DeleteCategory"

	if err := c.categoryRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	c.invalidateListing(ctx, op)
	return nil
}

// AddProduct создаёт товар вместе со связями категорий в одной транзакции.
// Изображение загружается в S3 до коммита; при откате загруженный объект
// зачищается фоновой компенсацией.
func (c *CatalogUseCase) AddProduct(ctx context.Context, req *AddProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.AddProduct"

	var err error
	if err = c.validateNewProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	var imageKey *string
	if req.Image != nil {
		key, upErr := c.imagesInfra.UploadImage(ctx, NewUploadImageReq(req.Name, *req.Image))
		if upErr != nil {
			return nil, e.Wrap(op, upErr)
		}
		imageKey = &key
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции и очистка загруженного изображения
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if imageKey != nil {
				c.logger.Warnf("Cleaning up orphaned image after transaction failure. product_name: %s, error: %v",
					req.Name, e.Wrap(op, err))
				c.imagesInfra.CleanupImages([]string{*imageKey})
			}
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = c.ensureCategoriesExist(ctx, req.CategoryIDs); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(c.ids.NextID(), strings.TrimSpace(req.Name), req.Stock, req.Price, imageKey, req.Description)
	if err = c.productRepo.Create(ctx, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = c.productRepo.ReplaceCategories(ctx, product.ID, req.CategoryIDs); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = c.writeProductEvent(ctx, ProductCreated, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateListing(ctx, op)
	return product, nil
}

// GetProduct возвращает товар по идентификатору.
func (c *CatalogUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "CatalogUseCase.GetProduct"

	product, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// UpdateProduct обновляет поля товара и полностью заменяет набор категорий
// в одной транзакции, поэтому два конкурентных обновления не могут оставить
// смешанный набор связей. Старое изображение удаляется после коммита.
func (c *CatalogUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq) error {
	const op = "CatalogUseCase.UpdateProduct"

	// Набор категорий обязателен: UI каталога не позволяет товар без категории.
	if len(req.CategoryIDs) == 0 {
		return e.Wrap(op, e.ErrCategoriesRequired)
	}
	if req.Stock != nil && *req.Stock < 0 {
		return e.Wrap(op, e.ErrStockNegative)
	}
	if req.Price != nil && *req.Price < 0 {
		return e.Wrap(op, e.ErrPriceNegative)
	}

	current, err := c.productRepo.GetByID(ctx, req.ID)
	if err != nil {
		return e.Wrap(op, err)
	}

	var newImageKey *string
	if req.Image != nil {
		name := current.Name
		if req.Name != nil {
			name = *req.Name
		}
		key, upErr := c.imagesInfra.UploadImage(ctx, NewUploadImageReq(name, *req.Image))
		if upErr != nil {
			return e.Wrap(op, upErr)
		}
		newImageKey = &key
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if newImageKey != nil {
				c.imagesInfra.CleanupImages([]string{*newImageKey})
			}
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = c.ensureCategoriesExist(ctx, req.CategoryIDs); err != nil {
		return e.Wrap(op, err)
	}

	updated := c.mergeProduct(current, req, newImageKey)
	if err = c.productRepo.Update(ctx, updated); err != nil {
		return e.Wrap(op, err)
	}

	if err = c.productRepo.ReplaceCategories(ctx, req.ID, req.CategoryIDs); err != nil {
		return e.Wrap(op, err)
	}

	if err = c.writeProductEvent(ctx, ProductUpdated, updated); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	// Заменённое изображение больше никем не используется
	if newImageKey != nil && current.ImageKey != nil {
		c.imagesInfra.CleanupImages([]string{*current.ImageKey})
	}

	c.invalidateListing(ctx, op)
	return nil
}

// UpdateDescription обновляет только описание товара.
func (c *CatalogUseCase) UpdateDescription(ctx context.Context, id int64, description string) error {
	const op = "CatalogUseCase.UpdateDescription"

	if strings.TrimSpace(description) == "" {
		return e.Wrap(op, e.ErrDescriptionRequired)
	}

	if err := c.productRepo.UpdateDescription(ctx, id, description); err != nil {
		return e.Wrap(op, err)
	}

	c.invalidateListing(ctx, op)
	return nil
}

// DeleteProduct удаляет товар и его связи в одной транзакции;
// объект изображения удаляется после коммита фоновой компенсацией.
func (c *CatalogUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "CatalogUseCase.DeleteProduct"

	current, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = c.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err = c.writeProductEvent(ctx, ProductDeleted, current); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	if current.ImageKey != nil {
		c.imagesInfra.CleanupImages([]string{*current.ImageKey})
	}

	c.invalidateListing(ctx, op)
	return nil
}

// ListProductsWithCategories возвращает листинг товаров с наборами категорий,
// сперва пробуя кэш.
func (c *CatalogUseCase) ListProductsWithCategories(ctx context.Context) ([]ProductWithCategories, error) {
	const op = "CatalogUseCase.ListProductsWithCategories"

	cached, ok, err := c.cacheRepo.GetProductListing(ctx)
	if err != nil {
		c.logger.Warnf("Listing cache read failed: %v", e.Wrap(op, err))
	}
	if ok {
		return cached, nil
	}

	products, err := c.productRepo.ListWithCategories(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое наполнение кэша
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := c.cacheRepo.SetProductListing(bgCtx, products); err != nil {
			c.logger.Warnf("Failed to cache product listing in background: %v", e.Wrap(op, err))
		}
	}()

	return products, nil
}

// ListHomepageFeatured возвращает товары витрины из фиксированного набора категорий.
func (c *CatalogUseCase) ListHomepageFeatured(ctx context.Context) ([]FeaturedProduct, error) {
	const op = "CatalogUseCase.ListHomepageFeatured"

	if len(c.featuredIDs) == 0 {
		return []FeaturedProduct{}, nil
	}

	featured, err := c.productRepo.ListFeatured(ctx, c.featuredIDs)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return featured, nil
}

// ensureCategoriesExist проверяет, что каждый переданный идентификатор категории существует.
func (c *CatalogUseCase) ensureCategoriesExist(ctx context.Context, categoryIDs []int64) error {
	unique := make(map[int64]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		unique[id] = struct{}{}
	}

	deduped := make([]int64, 0, len(unique))
	for id := range unique {
		deduped = append(deduped, id)
	}

	count, err := c.categoryRepo.CountByIDs(ctx, deduped)
	if err != nil {
		return err
	}

	if count != len(deduped) {
		return e.ErrCategoryUnknown
	}

	return nil
}

// mergeProduct накладывает заполненные поля запроса на текущее состояние товара.
func (c *CatalogUseCase) mergeProduct(current *domain.Product, req *UpdateProductReq, newImageKey *string) *domain.Product {
	merged := *current

	if req.Name != nil {
		merged.Name = strings.TrimSpace(*req.Name)
	}
	if req.Stock != nil {
		merged.Stock = *req.Stock
	}
	if req.Price != nil {
		merged.Price = *req.Price
	}
	if req.Description != nil {
		merged.Description = req.Description
	}
	if newImageKey != nil {
		merged.ImageKey = newImageKey
	}

	return &merged
}

// writeProductEvent записывает событие каталога в outbox в текущей транзакции.
func (c *CatalogUseCase) writeProductEvent(ctx context.Context, eventType OutboxEventType, product *domain.Product) error {
	var payload any
	if eventType == ProductDeleted {
		payload = productDeletedPayload{ProductID: formatID(product.ID)}
	} else {
		payload = productEventPayload{
			ProductID:   formatID(product.ID),
			Name:        product.Name,
			Stock:       product.Stock,
			Price:       product.Price,
			Description: product.Description,
			ImageKey:    product.ImageKey,
		}
	}

	event, err := newOutboxEvent(eventType, product.ID, payload)
	if err != nil {
		return err
	}

	_, err = c.outboxRepo.Create(ctx, event)
	return err
}

// validateProduct проверяет корректность входных данных запроса на добавление товара.
func (c *CatalogUseCase) validateNewProduct(req *AddProductReq) error {
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if req.Stock < 0 {
		return e.ErrStockNegative
	}

	if req.Price < 0 {
		return e.ErrPriceNegative
	}

	if len(req.CategoryIDs) == 0 {
		return e.ErrCategoriesRequired
	}

	return nil
}

// invalidateListing сбрасывает кэш листинга; промах кэша не считается ошибкой операции.
func (c *CatalogUseCase) invalidateListing(ctx context.Context, op string) {
	if err := c.cacheRepo.InvalidateListing(ctx); err != nil {
		c.logger.Warnf("Failed to invalidate listing cache: %v", e.Wrap(op, err))
	}
}
