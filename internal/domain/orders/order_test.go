package orders

import (
	"errors"
	"fmt"
	"testing"
)

func TestInsufficientStockErrorMatchesSentinel(t *testing.T) {
	var err error = &InsufficientStockError{PhoneID: 3, Requested: 5, Available: 2}
	wrapped := fmt.Errorf("save: %w", err)
	if !errors.Is(wrapped, ErrInsufficientStock) {
		t.Fatalf("errors.Is: expected sentinel match")
	}
	var target *InsufficientStockError
	if !errors.As(wrapped, &target) {
		t.Fatalf("errors.As: expected typed match")
	}
	if target.PhoneID != 3 || target.Requested != 5 || target.Available != 2 {
		t.Fatalf("unexpected fields: %+v", target)
	}
}

func TestItemKeysSkipsNil(t *testing.T) {
	o := &Order{Items: []*OrderItem{{PhoneID: 1, Quantity: 2}, nil, {PhoneID: 4, Quantity: 1}}}
	keys := o.ItemKeys()
	if len(keys) != 2 {
		t.Fatalf("len: want=2 got=%d", len(keys))
	}
	if keys[1] != (ItemKey{PhoneID: 4, Quantity: 1}) {
		t.Fatalf("unexpected key: %+v", keys[1])
	}
	var nilOrder *Order
	if nilOrder.ItemKeys() != nil {
		t.Fatalf("nil order should yield nil keys")
	}
}
