package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/phoneshop-backend/internal/data/repos/testutil"
	"github.com/yungbote/phoneshop-backend/internal/domain/orders"
	types "github.com/yungbote/phoneshop-backend/internal/domain/stock"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/phoneshop-backend/internal/pkg/errors"
)

func TestStockRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	p1 := testutil.SeedPhone(t, ctx, db, "Apple", "10.00")
	p2 := testutil.SeedPhone(t, ctx, db, "Nokia", "10.00")

	repo := NewStockRepo(db, testutil.Logger(t))
	if err := repo.Upsert(dbc, []*types.Stock{
		{PhoneID: p1.ID, Stock: 10, Reserved: 2},
		{PhoneID: p2.ID, Stock: 1},
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(dbc, []*types.Stock{{PhoneID: p2.ID, Stock: 3}}); err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}
	if err := repo.Upsert(dbc, []*types.Stock{{PhoneID: p2.ID, Stock: 1, Reserved: 2}}); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("Upsert (reserved > stock): expected invalid argument, got %v", err)
	}

	avail, err := repo.AvailableQuantity(dbc, p1.ID)
	if err != nil {
		t.Fatalf("AvailableQuantity: %v", err)
	}
	if avail != 8 {
		t.Fatalf("AvailableQuantity: expected 8, got %d", avail)
	}
	if _, err := repo.AvailableQuantity(dbc, p2.ID+100); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("AvailableQuantity (missing): expected not found, got %v", err)
	}

	locked, err := repo.LockByPhoneIDs(dbc, []int64{p2.ID, p1.ID, p2.ID, p2.ID + 100})
	if err != nil {
		t.Fatalf("LockByPhoneIDs: %v", err)
	}
	if len(locked) != 2 || locked[p2.ID].Stock != 3 {
		t.Fatalf("LockByPhoneIDs: unexpected result: %+v", locked)
	}

	if err := repo.Reserve(dbc, p1.ID, 8); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	err = repo.Reserve(dbc, p1.ID, 1)
	var ise *orders.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("Reserve (over): expected InsufficientStockError, got %v", err)
	}
	if ise.PhoneID != p1.ID || ise.Requested != 1 || ise.Available != 0 {
		t.Fatalf("Reserve (over): unexpected error fields: %+v", ise)
	}
	if err := repo.Reserve(dbc, p1.ID, -10); err != nil {
		t.Fatalf("Reserve (release): %v", err)
	}
	if err := repo.Reserve(dbc, p1.ID, -1); !errors.Is(err, ErrReservedUnderflow) {
		t.Fatalf("Reserve (underflow): expected ErrReservedUnderflow, got %v", err)
	}
	if err := repo.Reserve(dbc, p2.ID+100, 1); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("Reserve (missing): expected not found, got %v", err)
	}

	byPhone, err := repo.GetByPhoneIDs(dbc, []int64{p1.ID, p2.ID, p2.ID + 100})
	if err != nil {
		t.Fatalf("GetByPhoneIDs: %v", err)
	}
	if len(byPhone) != 2 || byPhone[p1.ID].Stock != 10 || byPhone[p2.ID].Stock != 3 {
		t.Fatalf("GetByPhoneIDs: unexpected rows: %+v", byPhone)
	}
	if empty, err := repo.GetByPhoneIDs(dbc, nil); err != nil || len(empty) != 0 {
		t.Fatalf("GetByPhoneIDs(nil): rows=%+v err=%v", empty, err)
	}

	got, err := repo.GetByPhoneID(dbc, p1.ID)
	if err != nil {
		t.Fatalf("GetByPhoneID: %v", err)
	}
	if got == nil || got.Reserved != 0 || got.Stock != 10 {
		t.Fatalf("GetByPhoneID: unexpected row: %+v", got)
	}
}
