package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

// UserUseCase реализует админские операции над пользователями.
type UserUseCase struct {
	userRepo UserRepository
	logger   logger.Logger
}

func NewUserUC(userRepo UserRepository, logger logger.Logger) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListUsers возвращает всех пользователей.
func (u *UserUseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	const op = "UserUseCase.ListUsers"

	users, err := u.userRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return users, nil
}

// SetBanned выставляет флаг бана. Операция идемпотентна: повторная установка
// того же значения завершается успехом.
func (u *UserUseCase) SetBanned(ctx context.Context, userID int64, banned bool) error {
	const op = "UserUseCase.SetBanned"

	if userID <= 0 {
		return e.Wrap(op, e.ErrUserIDRequired)
	}

	if err := u.userRepo.SetBanned(ctx, userID, banned); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// UpdateByAdmin обновляет контактные поля пользователя. Отличает
// «пользователь не найден» от «значения не изменились».
func (u *UserUseCase) UpdateByAdmin(ctx context.Context, req *UpdateUserReq) error {
	const op = "UserUseCase.UpdateByAdmin"

	if req.ID <= 0 {
		return e.Wrap(op, e.ErrUserIDRequired)
	}

	if strings.TrimSpace(req.Name) == "" {
		return e.Wrap(op, e.ErrUserNameRequired)
	}

	if err := u.userRepo.UpdateByAdmin(ctx, req); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
