package contract

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that are recovered into a spoken sentence.
// Anything not in this taxonomy surfaces as an opaque internal error.
var (
	ErrDateUnparseable    = errors.New("date could not be parsed")
	ErrSlotConflict       = errors.New("appointment slot is taken")
	ErrServiceUnavailable = errors.New("language service unavailable")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("record not found")
)

// ProductNotFoundError aborts an order naming the item that failed to
// resolve. No partial order survives it.
type ProductNotFoundError struct {
	Name string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %q not found", e.Name)
}

// InsufficientStockError aborts an order naming the product and how many
// units remain.
type InsufficientStockError struct {
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested=%d available=%d",
		e.Name, e.Requested, e.Available)
}
