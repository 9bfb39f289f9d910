package aggregates

import (
	"context"

	"github.com/yungbote/phoneshop-backend/internal/domain/orders"
)

var OrderAggregateContract = Contract{
	Name:             "Orders.OrderAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyTableRepoQueries,
	Notes:            "Owns atomic order header + line item persistence together with stock reservations.",
}

// OrderAggregate owns the order save invariants.
//
// Save failures are either *orders.InsufficientStockError (returned unchanged) or
// *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeInvariantViolation, CodeConflict, CodeRetryable, CodeInternal.
type OrderAggregate interface {
	Aggregate

	// Save atomically inserts or updates the order header, syncs its line items with
	// the persisted ones and moves stock reservations by the resulting deltas.
	Save(ctx context.Context, in SaveOrderInput) (SaveOrderResult, error)
}

type SaveOrderInput struct {
	// Order is read inside the transaction and only mutated (ids) after commit.
	Order *orders.Order
}

type SaveOrderResult struct {
	OrderID  int64
	Inserted bool

	InsertedItemIDs []int64
	UpdatedItemIDs  []int64
	RemovedItemIDs  []int64

	// ReservedDeltas is the net reservation change applied per phone id.
	ReservedDeltas map[int64]int64
}
