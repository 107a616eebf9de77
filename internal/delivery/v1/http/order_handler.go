package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

type OrderHandler struct {
	orderUC  usecase.OrderUC
	validate *validator.Validate
	logger   logger.Logger
}

func NewOrderHandler(orderUC usecase.OrderUC, validate *validator.Validate, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderUC:  orderUC,
		validate: validate,
		logger:   logger,
	}
}

type orderLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required"`
	Price     string `json:"price" validate:"required"`
}

type addOrderRequest struct {
	UserID   string             `json:"user_id" validate:"required"`
	Products []orderLineRequest `json:"products" validate:"required,min=1,dive"`
}

type ordersForUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type orderRowResponse struct {
	OrderID      string  `json:"order_id"`
	CustomerName string  `json:"customer_name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	Status       string  `json:"status"`
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ImageKey     *string `json:"image_key,omitempty"`
	Quantity     int     `json:"quantity"`
	Price        string  `json:"price"`
}

// addOrder
//
//	@Summary		Оформление заказа
//	@Description	Создаёт заказ с позициями атомарно, начальный статус Pending
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		addOrderRequest	true	"Заказ"
//	@Success		201		{object}	SuccessResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/addorder [post]
func (o *OrderHandler) addOrder(w http.ResponseWriter, r *http.Request) {
	var req addOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if err := o.validate.Struct(&req); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	userID, err := parseIDString(req.UserID)
	if err != nil {
		WriteError(w, e.ErrUserIDRequired)
		return
	}

	lines := make([]usecase.OrderLineReq, 0, len(req.Products))
	for _, line := range req.Products {
		productID, err := parseIDString(line.ProductID)
		if err != nil {
			WriteError(w, err)
			return
		}

		price, err := parsePriceToCents(line.Price)
		if err != nil {
			WriteError(w, err)
			return
		}

		lines = append(lines, usecase.OrderLineReq{
			ProductID: productID,
			Quantity:  line.Quantity,
			Price:     price,
		})
	}

	res, err := o.orderUC.PlaceOrder(r.Context(), usecase.NewPlaceOrderReq(userID, lines))
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]string{
		"order_id": formatID(res.OrderID),
	})
}

// getOrderForUser
//
//	@Summary	Заказы пользователя
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		request	body		ordersForUserRequest	true	"ID пользователя"
//	@Success	200		{object}	SuccessResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/getorderforuser [post]
func (o *OrderHandler) getOrderForUser(w http.ResponseWriter, r *http.Request) {
	var req ordersForUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if err := o.validate.Struct(&req); err != nil {
		WriteError(w, e.ErrUserIDRequired)
		return
	}

	userID, err := parseIDString(req.UserID)
	if err != nil {
		WriteError(w, e.ErrUserIDRequired)
		return
	}

	rows, err := o.orderUC.ListOrdersForUser(r.Context(), userID)
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderRowResponses(rows))
}

// getOrderForAdmin
//
//	@Summary	Все заказы (админ)
//	@Tags		orders
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/getorderforadmin [post]
func (o *OrderHandler) getOrderForAdmin(w http.ResponseWriter, r *http.Request) {
	rows, err := o.orderUC.ListOrdersForAdmin(r.Context())
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderRowResponses(rows))
}

// updateOrderStatus
//
//	@Summary		Смена статуса заказа
//	@Description	Переводит заказ по машине статусов, невалидный переход — 400
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"ID заказа"
//	@Param			request	body		updateOrderStatusRequest	true	"Новый статус"
//	@Success		200		{object}	SuccessResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/updateorderstatus/{id} [put]
func (o *OrderHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if err := o.validate.Struct(&req); err != nil {
		WriteError(w, e.ErrUnknownOrderStatus)
		return
	}

	if err := o.orderUC.UpdateOrderStatus(r.Context(), usecase.NewUpdateOrderStatusReq(id, req.Status)); err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccessMessage(w, http.StatusOK, "order status updated")
}

func toOrderRowResponses(rows []usecase.OrderRow) []orderRowResponse {
	result := make([]orderRowResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, orderRowResponse{
			OrderID:      formatID(row.OrderID),
			CustomerName: row.CustomerName,
			Email:        row.Email,
			Phone:        row.Phone,
			Address:      row.Address,
			Status:       row.Status,
			ProductID:    formatID(row.ProductID),
			ProductName:  row.ProductName,
			ImageKey:     row.ImageKey,
			Quantity:     row.Quantity,
			Price:        formatCents(row.Price),
		})
	}

	return result
}
