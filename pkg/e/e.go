package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// 400 Bad Request — валидация
	ErrCategoryNameRequired = fmt.Errorf("category name is required")
	ErrCategoryNameTaken    = fmt.Errorf("category name already exists")
	ErrProductNameRequired  = fmt.Errorf("product name is required")
	ErrStockNegative        = fmt.Errorf("stock must not be negative")
	ErrPriceNegative        = fmt.Errorf("price must not be negative")
	ErrInvalidPrice         = fmt.Errorf("invalid price format")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrCategoriesRequired   = fmt.Errorf("at least one category is required")
	ErrCategoryUnknown      = fmt.Errorf("referenced category does not exist")
	ErrUserIDRequired       = fmt.Errorf("user id is required")
	ErrUserNameRequired     = fmt.Errorf("user name is required")
	ErrOrderLinesRequired   = fmt.Errorf("order must contain at least one line")
	ErrQuantityNotPositive  = fmt.Errorf("quantity must be positive")
	ErrDescriptionRequired  = fmt.Errorf("description is required")
	ErrUnknownOrderStatus   = fmt.Errorf("unknown order status")
	ErrInvalidTransition    = fmt.Errorf("order status transition is not allowed")
	ErrNoChanges            = fmt.Errorf("no fields were changed")

	// 400 Bad Request — транспорт
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("required fields are missing")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrFileTooLarge         = fmt.Errorf("file is too large")

	// 404 Not Found
	ErrCategoryNotFound = fmt.Errorf("category not found")
	ErrProductNotFound  = fmt.Errorf("product not found")
	ErrUserNotFound     = fmt.Errorf("user not found")
	ErrOrderNotFound    = fmt.Errorf("order not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
