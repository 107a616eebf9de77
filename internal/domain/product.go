package domain

import "time"

// Product описывает товар каталога
type Product struct {
	ID          int64
	Name        string
	Stock       int
	Price       int64   // Цена хранится в центах
	ImageKey    *string // Ключ объекта в S3, nil если изображения нет
	Description *string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewProduct(id int64, name string, stock int, price int64, imageKey *string, description *string) *Product {
	return &Product{
		ID:          id,
		Name:        name,
		Stock:       stock,
		Price:       price,
		ImageKey:    imageKey,
		Description: description,
	}
}
