package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
)

// UserRepo реализует репозиторий пользователей поверх PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
	conv converter.UserConverter
}

func NewUserRepo(pool *pgxpool.Pool, conv converter.UserConverter) *UserRepo {
	return &UserRepo{
		pool: pool,
		conv: conv,
	}
}

// List возвращает всех пользователей.
func (u *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT id, name, email, address, phone, banned, created_at, updated_at
		FROM users
		ORDER BY id;
	`

	rows, err := u.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.User, 0)
	for rows.Next() {
		var model converter.UserModel
		err := rows.Scan(
			&model.ID, &model.Name, &model.Email, &model.Address,
			&model.Phone, &model.Banned, &model.CreatedAt, &model.UpdatedAt,
		)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *u.conv.ToEntity(&model))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// SetBanned выставляет флаг бана. Повторная установка того же значения
// тоже затрагивает строку, поэтому операция остаётся идемпотентной.
func (u *UserRepo) SetBanned(ctx context.Context, id int64, banned bool) error {
	query := `
		UPDATE users
		SET banned = $2, updated_at = NOW()
		WHERE id = $1;
	`

	result, err := u.pool.Exec(ctx, query, id, banned)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
	}

	return nil
}

// UpdateByAdmin обновляет контактные поля пользователя. Строка затрагивается
// только при реальном изменении значений; нулевой результат разводится на
// e.ErrUserNotFound и e.ErrNoChanges отдельной проверкой существования.
func (u *UserRepo) UpdateByAdmin(ctx context.Context, req *usecase.UpdateUserReq) error {
	query := `
		UPDATE users
		SET name = $2, address = $3, phone = $4, updated_at = NOW()
		WHERE id = $1
		  AND (
			name IS DISTINCT FROM $2 OR
			address IS DISTINCT FROM $3 OR
			phone IS DISTINCT FROM $4
		  );
	`

	result, err := u.pool.Exec(ctx, query, req.ID, req.Name, req.Address, req.Phone)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = u.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1);`, req.ID).Scan(&exists)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if !exists {
		return e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
	}

	return e.Wrap(whereami.WhereAmI(), e.ErrNoChanges)
}
