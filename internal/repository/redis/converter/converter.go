package converter

import (
	"github.com/DRSN-tech/shop-backend/internal/usecase"
)

// ProductListingConverter преобразует строки листинга между usecase и моделью кэша.
type ProductListingConverter interface {
	ToArrRedisModel(entities []usecase.ProductWithCategories) []ProductListingRedisModel
	ToArrUseCase(models []ProductListingRedisModel) []usecase.ProductWithCategories
}

type ProductListingConverterImpl struct{}

func NewProductListingConverterImpl() *ProductListingConverterImpl {
	return &ProductListingConverterImpl{}
}

func (c *ProductListingConverterImpl) ToArrRedisModel(entities []usecase.ProductWithCategories) []ProductListingRedisModel {
	result := make([]ProductListingRedisModel, 0, len(entities))
	for _, entity := range entities {
		categories := make([]CategoryRefRedisModel, 0, len(entity.Categories))
		for _, cat := range entity.Categories {
			categories = append(categories, CategoryRefRedisModel{ID: cat.ID, Name: cat.Name})
		}

		result = append(result, ProductListingRedisModel{
			ID:          entity.ID,
			Name:        entity.Name,
			Stock:       entity.Stock,
			Price:       entity.Price,
			ImageKey:    entity.ImageKey,
			Description: entity.Description,
			CreatedAt:   entity.CreatedAt,
			UpdatedAt:   entity.UpdatedAt,
			Categories:  categories,
		})
	}

	return result
}

func (c *ProductListingConverterImpl) ToArrUseCase(models []ProductListingRedisModel) []usecase.ProductWithCategories {
	result := make([]usecase.ProductWithCategories, 0, len(models))
	for _, model := range models {
		categories := make([]usecase.CategoryRef, 0, len(model.Categories))
		for _, cat := range model.Categories {
			categories = append(categories, usecase.CategoryRef{ID: cat.ID, Name: cat.Name})
		}

		result = append(result, usecase.ProductWithCategories{
			ID:          model.ID,
			Name:        model.Name,
			Stock:       model.Stock,
			Price:       model.Price,
			ImageKey:    model.ImageKey,
			Description: model.Description,
			CreatedAt:   model.CreatedAt,
			UpdatedAt:   model.UpdatedAt,
			Categories:  categories,
		})
	}

	return result
}
