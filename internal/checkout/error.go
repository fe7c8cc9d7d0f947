package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrCartEmpty    = errors.New("cart is empty")
	ErrUnauthorized = errors.New("unauthorized")
)

// InsufficientStockError aborts a checkout before anything is written.
// It names the offending product so the shopper knows which line to
// fix; Available is zero when the product no longer exists.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"product %q does not have enough stock: requested %d, available %d",
		e.Name, e.Requested, e.Available,
	)
}

// PersistenceError hides storage detail from the shopper; the cause is
// kept for logs.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist order (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
