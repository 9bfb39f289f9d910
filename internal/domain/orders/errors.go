package orders

import (
	"errors"
	"fmt"
)

// ErrInsufficientStock matches any *InsufficientStockError via errors.Is.
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError reports that a save would reserve more units of a phone
// than are available. Nothing was written when it is returned.
type InsufficientStockError struct {
	PhoneID   int64
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for phone %d: requested %d, available %d", e.PhoneID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
