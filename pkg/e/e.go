package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// 400 Bad Request
	ErrInvalidThresholds      = fmt.Errorf("critical threshold must be less than reorder threshold")
	ErrNonPositiveQuantity    = fmt.Errorf("quantity must be positive")
	ErrDuplicateSnapshotEntry = fmt.Errorf("duplicate product id in snapshot")
	ErrProductNameRequired    = fmt.Errorf("product name is required")
	ErrInvalidPrice           = fmt.Errorf("price is invalid")
	ErrPricePrecision         = fmt.Errorf("price must have at most 2 decimal places")
	ErrMissingFields          = fmt.Errorf("required fields are missing")
	ErrStatusBadRequest       = fmt.Errorf("bad request")

	// Ошибки состояния инвентаря
	ErrInsufficientStock = fmt.Errorf("insufficient stock")
	ErrProductNotFound   = fmt.Errorf("product not found")
	ErrProductArchived   = fmt.Errorf("product is archived")
	ErrLocationNotFound  = fmt.Errorf("location not found")
	ErrEntryNotFound     = fmt.Errorf("stock entry not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
