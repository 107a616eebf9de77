package converter

import "time"

// CategoryRefRedisModel — категория товара в кэшированном листинге.
type CategoryRefRedisModel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductListingRedisModel — строка кэшированного листинга товаров.
type ProductListingRedisModel struct {
	ID          int64                   `json:"id"`
	Name        string                  `json:"name"`
	Stock       int                     `json:"stock"`
	Price       int64                   `json:"price"`
	ImageKey    *string                 `json:"image_key,omitempty"`
	Description *string                 `json:"description,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   *time.Time              `json:"updated_at,omitempty"`
	Categories  []CategoryRefRedisModel `json:"categories"`
}
