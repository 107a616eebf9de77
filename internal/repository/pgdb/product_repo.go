package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/tr"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет товар внутри текущей транзакции.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (id, name, stock, price, image, description)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	_, err = tx.Exec(ctx, query,
		model.ID, model.Name, model.Stock, model.Price, model.Image, model.Description,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetByID возвращает товар по идентификатору.
func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, stock, price, image, description, created_at, updated_at
		FROM products
		WHERE id = $1;
	`

	var model converter.ProductModel
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&model.ID, &model.Name, &model.Stock, &model.Price,
		&model.Image, &model.Description, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// Update перезаписывает все изменяемые поля товара внутри текущей транзакции.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model := p.conv.ToModel(product)
	query := `
		UPDATE products
		SET name = $2, stock = $3, price = $4, image = $5, description = $6, updated_at = NOW()
		WHERE id = $1;
	`

	result, err := tx.Exec(ctx, query,
		model.ID, model.Name, model.Stock, model.Price, model.Image, model.Description,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// UpdateDescription меняет только описание товара.
func (p *ProductRepo) UpdateDescription(ctx context.Context, id int64, description string) error {
	query := `
		UPDATE products
		SET description = $2, updated_at = NOW()
		WHERE id = $1;
	`

	result, err := p.pool.Exec(ctx, query, id, description)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// Delete удаляет товар внутри текущей транзакции. Связи в category_product
// снимаются каскадом.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// ReplaceCategories полностью заменяет набор связей товара с категориями
// внутри текущей транзакции.
func (p *ProductRepo) ReplaceCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM category_product WHERE product_id = $1;`, productID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO category_product (product_id, category_id)
		SELECT $1, unnest($2::bigint[]);
	`

	if _, err = tx.Exec(ctx, query, productID, categoryIDs); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// ListWithCategories возвращает все товары с агрегированными категориями.
// Категории собираются через array_agg, а не склейку строк, поэтому имена
// с запятыми не ломают результат.
func (p *ProductRepo) ListWithCategories(ctx context.Context) ([]usecase.ProductWithCategories, error) {
	query := `
		SELECT
			pr.id, pr.name, pr.stock, pr.price, pr.image, pr.description,
			pr.created_at, pr.updated_at,
			COALESCE(array_agg(cat.id ORDER BY cat.id) FILTER (WHERE cat.id IS NOT NULL), '{}'),
			COALESCE(array_agg(cat.name ORDER BY cat.id) FILTER (WHERE cat.id IS NOT NULL), '{}')
		FROM products pr
		LEFT JOIN category_product cp ON cp.product_id = pr.id
		LEFT JOIN categories cat ON cat.id = cp.category_id
		GROUP BY pr.id
		ORDER BY pr.id;
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.ProductWithCategories, 0)
	for rows.Next() {
		var item usecase.ProductWithCategories
		var catIDs []int64
		var catNames []string

		err := rows.Scan(
			&item.ID, &item.Name, &item.Stock, &item.Price, &item.ImageKey, &item.Description,
			&item.CreatedAt, &item.UpdatedAt, &catIDs, &catNames,
		)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		item.Categories = make([]usecase.CategoryRef, 0, len(catIDs))
		for i := range catIDs {
			item.Categories = append(item.Categories, usecase.CategoryRef{
				ID:   catIDs[i],
				Name: catNames[i],
			})
		}

		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// ListFeatured возвращает товары из заданных категорий для витрины
// главной страницы.
func (p *ProductRepo) ListFeatured(ctx context.Context, categoryIDs []int64) ([]usecase.FeaturedProduct, error) {
	query := `
		SELECT pr.id, pr.image, cat.id, cat.name
		FROM products pr
		JOIN category_product cp ON cp.product_id = pr.id
		JOIN categories cat ON cat.id = cp.category_id
		WHERE cat.id = ANY($1)
		ORDER BY cat.id, pr.id;
	`

	rows, err := p.pool.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.FeaturedProduct, 0)
	for rows.Next() {
		var item usecase.FeaturedProduct
		if err := rows.Scan(&item.ProductID, &item.ImageKey, &item.CategoryID, &item.CategoryName); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
