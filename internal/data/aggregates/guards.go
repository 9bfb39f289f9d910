package aggregates

import (
	"github.com/yungbote/phoneshop-backend/internal/domain/orders"
	"github.com/yungbote/phoneshop-backend/internal/domain/stock"
	pkgerrors "github.com/yungbote/phoneshop-backend/internal/pkg/errors"
)

// RequireRowsAffected turns a zero-row guarded write into a not-found error.
func RequireRowsAffected(n int64, what string) error {
	if n > 0 {
		return nil
	}
	return pkgerrors.NotFound("%s", what)
}

// RequireAvailable checks that a locked stock row exists and can absorb a
// positive delta. Releases only need the row to exist.
func RequireAvailable(row *stock.Stock, phoneID, delta int64) error {
	if row == nil {
		return pkgerrors.NotFound("stock for phone %d", phoneID)
	}
	if delta <= 0 {
		return nil
	}
	if avail := row.Available(); avail < delta {
		return &orders.InsufficientStockError{PhoneID: phoneID, Requested: delta, Available: avail}
	}
	return nil
}

// RequireStatus rejects an empty status after defaulting.
func RequireStatus(s orders.Status) error {
	if s == "" {
		return ValidationError("order status is required")
	}
	return nil
}
