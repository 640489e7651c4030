package helpers

import (
	"errors"
	"fmt"
)

// Business-rule errors. Handlers map anything matching one of these to a
// 400 response with the error's message; everything else is 404/500.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidAddress    = errors.New("invalid shipping address")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInsufficientStock = errors.New("insufficient product stock")
	ErrPaymentFailed     = errors.New("payment failed")
	ErrDuplicateSlug     = errors.New("a record with this name already exists")
	ErrAddressInUse      = errors.New("address is referenced by an existing order")
	ErrCategoryInUse     = errors.New("category still has products")
	ErrOrderAlreadyPaid  = errors.New("order already paid")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrProfileExists     = errors.New("profile already exists")
)

// ErrNotFound is scoped to the requesting user where ownership applies, so a
// foreign resource reads the same as a missing one.
var ErrNotFound = errors.New("not found")

var businessErrors = []error{
	ErrEmptyCart,
	ErrInvalidAddress,
	ErrOutOfStock,
	ErrInsufficientStock,
	ErrPaymentFailed,
	ErrDuplicateSlug,
	ErrAddressInUse,
	ErrCategoryInUse,
	ErrOrderAlreadyPaid,
	ErrInvalidStatus,
	ErrProfileExists,
}

func IsBusinessError(err error) bool {
	for _, be := range businessErrors {
		if errors.Is(err, be) {
			return true
		}
	}
	return false
}

// StockError reports which product ran short and how many units remain.
type StockError struct {
	ProductName string
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("only %d items available for %s", e.Available, e.ProductName)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
