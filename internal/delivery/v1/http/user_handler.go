package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

type UserHandler struct {
	userUC   usecase.UserUC
	validate *validator.Validate
	logger   logger.Logger
}

func NewUserHandler(userUC usecase.UserUC, validate *validator.Validate, logger logger.Logger) *UserHandler {
	return &UserHandler{
		userUC:   userUC,
		validate: validate,
		logger:   logger,
	}
}

type setBannedRequest struct {
	ID string `json:"id" validate:"required"`
}

type updateUserRequest struct {
	ID      string  `json:"id" validate:"required"`
	Name    string  `json:"name" validate:"required"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type userResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Banned  bool    `json:"banned"`
}

// getUsers
//
//	@Summary	Список пользователей (админ)
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/getusers [get]
func (u *UserHandler) getUsers(w http.ResponseWriter, r *http.Request) {
	users, err := u.userUC.ListUsers(r.Context())
	if err != nil {
		u.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]userResponse, 0, len(users))
	for _, user := range users {
		result = append(result, userResponse{
			ID:      formatID(user.ID),
			Name:    user.Name,
			Email:   user.Email,
			Address: user.Address,
			Phone:   user.Phone,
			Banned:  user.Banned,
		})
	}

	WriteSuccess(w, http.StatusOK, result)
}

// banUser
//
//	@Summary	Бан пользователя
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		setBannedRequest	true	"ID пользователя"
//	@Success	200		{object}	SuccessResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/updatebanneduserstrue [post]
func (u *UserHandler) banUser(w http.ResponseWriter, r *http.Request) {
	u.setBanned(w, r, true, "user banned")
}

// unbanUser
//
//	@Summary	Снятие бана с пользователя
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		setBannedRequest	true	"ID пользователя"
//	@Success	200		{object}	SuccessResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/updatebannedusersfalse [post]
func (u *UserHandler) unbanUser(w http.ResponseWriter, r *http.Request) {
	u.setBanned(w, r, false, "user unbanned")
}

func (u *UserHandler) setBanned(w http.ResponseWriter, r *http.Request, banned bool, message string) {
	var req setBannedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if err := u.validate.Struct(&req); err != nil {
		WriteError(w, e.ErrUserIDRequired)
		return
	}

	userID, err := parseIDString(req.ID)
	if err != nil {
		WriteError(w, e.ErrUserIDRequired)
		return
	}

	if err := u.userUC.SetBanned(r.Context(), userID, banned); err != nil {
		u.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccessMessage(w, http.StatusOK, message)
}

// updateUserByAdmin
//
//	@Summary		Админское обновление пользователя
//	@Description	Обновляет имя/адрес/телефон; различает «не найден» и «нет изменений»
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		updateUserRequest	true	"Данные пользователя"
//	@Success		200		{object}	SuccessResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/updateusersbyadmin [put]
func (u *UserHandler) updateUserByAdmin(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if err := u.validate.Struct(&req); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	userID, err := parseIDString(req.ID)
	if err != nil {
		WriteError(w, e.ErrUserIDRequired)
		return
	}

	if err := u.userUC.UpdateByAdmin(r.Context(), usecase.NewUpdateUserReq(userID, req.Name, req.Address, req.Phone)); err != nil {
		u.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccessMessage(w, http.StatusOK, "user updated")
}
