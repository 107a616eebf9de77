package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/DRSN-tech/shop-backend/internal/cfg"
	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

type CatalogHandler struct {
	catalogUC usecase.CatalogUC
	validate  *validator.Validate
	minioCfg  *cfg.MinIOCfg
	logger    logger.Logger
}

func NewCatalogHandler(catalogUC usecase.CatalogUC, validate *validator.Validate, minioCfg *cfg.MinIOCfg, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: catalogUC,
		validate:  validate,
		minioCfg:  minioCfg,
		logger:    logger,
	}
}

type addCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type productResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Stock       int                `json:"stock"`
	Price       string             `json:"price"`
	ImageURL    *string            `json:"image_url,omitempty"`
	Description *string            `json:"description,omitempty"`
	Categories  []categoryResponse `json:"categories,omitempty"`
}

type featuredProductResponse struct {
	ProductID    string  `json:"product_id"`
	ImageURL     *string `json:"image_url,omitempty"`
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
}

// addCategory
//
//	@Summary		Создание категории
//	@Description	Добавляет новую категорию каталога
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body		addCategoryRequest	true	"Имя категории"
//	@Success		201		{object}	SuccessResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/addcategory [post]
func (c *CatalogHandler) addCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if err := c.validate.Struct(&req); err != nil {
		WriteError(w, e.ErrCategoryNameRequired)
		return
	}

	category, err := c.catalogUC.AddCategory(r.Context(), usecase.NewAddCategoryReq(req.Name))
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, categoryResponse{
		ID:   formatID(category.ID),
		Name: category.Name,
	})
}

// listCategories
//
//	@Summary	Список категорий
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/categories [get]
func (c *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalogUC.ListCategories(r.Context())
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		result = append(result, categoryResponse{
			ID:   formatID(category.ID),
			Name: category.Name,
		})
	}

	WriteSuccess(w, http.StatusOK, result)
}

// updateCategory
//
//	@Summary	Переименование категории
//	@Tags		catalog
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"ID категории"
//	@Param		request	body		addCategoryRequest	true	"Новое имя"
//	@Success	200		{object}	SuccessResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/updatecategory/{id} [put]
func (c *CatalogHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req addCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if err := c.validate.Struct(&req); err != nil {
		WriteError(w, e.ErrCategoryNameRequired)
		return
	}

	if err := c.catalogUC.UpdateCategory(r.Context(), usecase.NewUpdateCategoryReq(id, req.Name)); err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccessMessage(w, http.StatusOK, "category updated")
}

// deleteCategory
//
//	@Summary	Удаление категории
//	@Tags		catalog
//	@Produce	json
//	@Param		id	path		string	true	"ID категории"
//	@Success	200	{object}	SuccessResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/deletecategory/{id} [delete]
func (c *CatalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := c.catalogUC.DeleteCategory(r.Context(), id); err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccessMessage(w, http.StatusOK, "category deleted")
}

// addProduct
//
//	@Summary		Добавление товара
//	@Description	Создаёт товар с категориями и опциональным изображением
//	@Tags			catalog
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name			formData	string	true	"Название товара"
//	@Param			stock			formData	integer	true	"Остаток"
//	@Param			price			formData	string	true	"Цена, например 599.99"
//	@Param			categories[]	formData	string	true	"ID категории (повторяющееся поле)"
//	@Param			description		formData	string	false	"Описание"
//	@Param			image			formData	file	false	"Изображение (jpg/jpeg/png, до 2MB)"
//	@Success		201				{object}	SuccessResponse
//	@Failure		400				{object}	ErrorResponse
//	@Router			/addproducts [post]
func (c *CatalogHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 4 << 20
		maxMemory           = 4 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	meta, err := c.parseProductForm(r)
	if err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	image, err := parseImage(r.MultipartForm.File["image"], c.minioCfg.MaxImageSize)
	if err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := c.catalogUC.AddProduct(r.Context(), usecase.NewAddProductReq(
		meta.Name, meta.Stock, meta.Price, meta.Description, meta.CategoryIDs, image,
	))
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, c.toProductResponse(product))
}

// getProduct
//
//	@Summary	Товар по ID
//	@Tags		catalog
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	SuccessResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (c *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := c.catalogUC.GetProduct(r.Context(), id)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, c.toProductResponse(product))
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Description	Обновляет поля товара и полностью заменяет набор категорий
//	@Tags			catalog
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id				path		string	true	"ID товара"
//	@Param			name			formData	string	false	"Название"
//	@Param			stock			formData	integer	false	"Остаток"
//	@Param			price			formData	string	false	"Цена"
//	@Param			categories[]	formData	string	true	"ID категории (повторяющееся поле)"
//	@Param			description		formData	string	false	"Описание"
//	@Param			image			formData	file	false	"Новое изображение"
//	@Success		200				{object}	SuccessResponse
//	@Failure		400				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Router			/updateproduct/{id} [put]
func (c *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 4 << 20

	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMemory)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	req, err := c.parseUpdateProductForm(r, id)
	if err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	if err := c.catalogUC.UpdateProduct(r.Context(), req); err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccessMessage(w, http.StatusOK, "product updated")
}

// addDescription
//
//	@Summary	Обновление описания товара
//	@Tags		catalog
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"ID товара"
//	@Param		request	body		descriptionRequest	true	"Описание"
//	@Success	200		{object}	SuccessResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/adddescriptionproducts/{id} [put]
func (c *CatalogHandler) addDescription(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req descriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if err := c.validate.Struct(&req); err != nil {
		WriteError(w, e.ErrDescriptionRequired)
		return
	}

	if err := c.catalogUC.UpdateDescription(r.Context(), id, req.Description); err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccessMessage(w, http.StatusOK, "description updated")
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		catalog
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	SuccessResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (c *CatalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := c.catalogUC.DeleteProduct(r.Context(), id); err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccessMessage(w, http.StatusOK, "product deleted")
}

// listProductsWithCategories
//
//	@Summary	Листинг товаров с категориями
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/products-with-categories [get]
func (c *CatalogHandler) listProductsWithCategories(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalogUC.ListProductsWithCategories(r.Context())
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]productResponse, 0, len(products))
	for _, product := range products {
		categories := make([]categoryResponse, 0, len(product.Categories))
		for _, cat := range product.Categories {
			categories = append(categories, categoryResponse{
				ID:   formatID(cat.ID),
				Name: cat.Name,
			})
		}

		result = append(result, productResponse{
			ID:          formatID(product.ID),
			Name:        product.Name,
			Stock:       product.Stock,
			Price:       formatCents(product.Price),
			ImageURL:    c.imageURL(product.ImageKey),
			Description: product.Description,
			Categories:  categories,
		})
	}

	WriteSuccess(w, http.StatusOK, result)
}

// productForHomepage
//
//	@Summary	Витрина главной страницы
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/productforhomepage [get]
func (c *CatalogHandler) productForHomepage(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalogUC.ListHomepageFeatured(r.Context())
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]featuredProductResponse, 0, len(products))
	for _, product := range products {
		result = append(result, featuredProductResponse{
			ProductID:    formatID(product.ProductID),
			ImageURL:     c.imageURL(product.ImageKey),
			CategoryID:   formatID(product.CategoryID),
			CategoryName: product.CategoryName,
		})
	}

	WriteSuccess(w, http.StatusOK, result)
}

type descriptionRequest struct {
	Description string `json:"description" validate:"required"`
}

type productFormMeta struct {
	Name        string
	Stock       int
	Price       int64
	Description *string
	CategoryIDs []int64
}

// parseProductForm читает обязательные поля формы создания товара.
func (c *CatalogHandler) parseProductForm(r *http.Request) (*productFormMeta, error) {
	name := r.FormValue("name")
	stockStr := r.FormValue("stock")
	priceStr := r.FormValue("price")
	categories := categoryValues(r.MultipartForm)

	if name == "" || stockStr == "" || priceStr == "" || len(categories) == 0 {
		return nil, e.ErrMissingFields
	}

	stock, err := parseStock(stockStr)
	if err != nil {
		return nil, err
	}

	price, err := parsePriceToCents(priceStr)
	if err != nil {
		return nil, err
	}

	categoryIDs, err := parseCategoryIDs(categories)
	if err != nil {
		return nil, err
	}

	var description *string
	if d := r.FormValue("description"); d != "" {
		description = &d
	}

	return &productFormMeta{
		Name:        name,
		Stock:       stock,
		Price:       price,
		Description: description,
		CategoryIDs: categoryIDs,
	}, nil
}

// parseUpdateProductForm читает форму обновления: незаполненные поля
// остаются nil и не трогают текущие значения.
func (c *CatalogHandler) parseUpdateProductForm(r *http.Request, id int64) (*usecase.UpdateProductReq, error) {
	req := &usecase.UpdateProductReq{ID: id}

	if name := r.FormValue("name"); name != "" {
		req.Name = &name
	}

	if stockStr := r.FormValue("stock"); stockStr != "" {
		stock, err := parseStock(stockStr)
		if err != nil {
			return nil, err
		}
		req.Stock = &stock
	}

	if priceStr := r.FormValue("price"); priceStr != "" {
		price, err := parsePriceToCents(priceStr)
		if err != nil {
			return nil, err
		}
		req.Price = &price
	}

	if d := r.FormValue("description"); d != "" {
		req.Description = &d
	}

	categoryIDs, err := parseCategoryIDs(categoryValues(r.MultipartForm))
	if err != nil {
		return nil, err
	}
	req.CategoryIDs = categoryIDs

	image, err := parseImage(r.MultipartForm.File["image"], c.minioCfg.MaxImageSize)
	if err != nil {
		return nil, err
	}
	req.Image = image

	return req, nil
}

func (c *CatalogHandler) toProductResponse(product *domain.Product) productResponse {
	return productResponse{
		ID:          formatID(product.ID),
		Name:        product.Name,
		Stock:       product.Stock,
		Price:       formatCents(product.Price),
		ImageURL:    c.imageURL(product.ImageKey),
		Description: product.Description,
	}
}

// imageURL собирает публичный URL изображения из базы в конфиге и ключа объекта.
func (c *CatalogHandler) imageURL(key *string) *string {
	if key == nil || *key == "" {
		return nil
	}

	url := strings.TrimSuffix(c.minioCfg.PublicBaseURL, "/") + "/" + *key
	return &url
}
