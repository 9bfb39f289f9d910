package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/phoneshop-backend/internal/data/repos/testutil"
	types "github.com/yungbote/phoneshop-backend/internal/domain/orders"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
)

func TestOrderRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	p1 := testutil.SeedPhone(t, ctx, db, "Apple", "100.00")
	p2 := testutil.SeedPhone(t, ctx, db, "Nokia", "50.00")

	repo := NewOrderRepo(db, testutil.Logger(t))
	items := NewOrderItemRepo(db, testutil.Logger(t))

	first := testutil.NewOrder()
	if err := repo.Create(dbc, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("Create: expected id to be assigned")
	}
	created, err := items.Create(dbc, []*types.OrderItem{
		{OrderID: first.ID, PhoneID: p1.ID, Quantity: 2},
		{OrderID: first.ID, PhoneID: p2.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("Items.Create: %v", err)
	}

	empty := testutil.NewOrder()
	if err := repo.Create(dbc, empty); err != nil {
		t.Fatalf("Create (empty): %v", err)
	}

	got, err := repo.GetByID(dbc, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || len(got.Items) != 2 {
		t.Fatalf("GetByID: unexpected result: %+v", got)
	}
	if got.Items[0].ID != created[0].ID || got.Items[0].PhoneID != p1.ID || got.Items[0].Quantity != 2 {
		t.Fatalf("GetByID: unexpected first item: %+v", got.Items[0])
	}
	if got.Items[1].OrderID != first.ID || got.Items[1].PhoneID != p2.ID {
		t.Fatalf("GetByID: unexpected second item: %+v", got.Items[1])
	}
	if !got.TotalPrice.Equal(decimal.RequireFromString("205")) {
		t.Fatalf("GetByID: total = %s", got.TotalPrice)
	}
	if got.SecureID != first.SecureID {
		t.Fatalf("GetByID: secure id mismatch")
	}

	gotEmpty, err := repo.GetByID(dbc, empty.ID)
	if err != nil {
		t.Fatalf("GetByID (empty): %v", err)
	}
	if gotEmpty == nil || gotEmpty.Items == nil || len(gotEmpty.Items) != 0 {
		t.Fatalf("GetByID (empty): expected order with no items, got %+v", gotEmpty)
	}

	bySecure, err := repo.GetBySecureID(dbc, first.SecureID)
	if err != nil {
		t.Fatalf("GetBySecureID: %v", err)
	}
	if bySecure == nil || bySecure.ID != first.ID {
		t.Fatalf("GetBySecureID: unexpected result: %+v", bySecure)
	}
	if none, err := repo.GetBySecureID(dbc, uuid.New()); err != nil || none != nil {
		t.Fatalf("GetBySecureID (missing): got %+v, %v", none, err)
	}

	first.Status = types.StatusDelivered
	first.FirstName = "Grace"
	n, err := repo.UpdateHeader(dbc, first)
	if err != nil {
		t.Fatalf("UpdateHeader: %v", err)
	}
	if n != 1 {
		t.Fatalf("UpdateHeader: expected 1 row, got %d", n)
	}
	n, err = repo.UpdateHeader(dbc, &types.Order{ID: empty.ID + 100})
	if err != nil {
		t.Fatalf("UpdateHeader (missing): %v", err)
	}
	if n != 0 {
		t.Fatalf("UpdateHeader (missing): expected 0 rows, got %d", n)
	}

	page, err := repo.ListPage(dbc, 0, 10)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(page) != 2 || page[0].ID != first.ID || page[1].ID != empty.ID {
		t.Fatalf("ListPage: unexpected page: %+v", page)
	}
	if page[0].Status != types.StatusDelivered || page[0].FirstName != "Grace" {
		t.Fatalf("ListPage: header update not visible: %+v", page[0])
	}
	if page, err = repo.ListPage(dbc, -5, 1); err != nil || len(page) != 1 || page[0].ID != first.ID {
		t.Fatalf("ListPage (negative offset): got %+v, %v", page, err)
	}
	if page, err = repo.ListPage(dbc, 0, 0); err != nil || len(page) != 0 {
		t.Fatalf("ListPage (zero limit): got %+v, %v", page, err)
	}
	if page, err = repo.ListPage(dbc, 5, 10); err != nil || len(page) != 0 {
		t.Fatalf("ListPage (past end): got %+v, %v", page, err)
	}

	count, err := repo.Count(dbc)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Fatalf("Count: expected 2, got %d", count)
	}
}

func TestOrderItemRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	p1 := testutil.SeedPhone(t, ctx, db, "Apple", "100.00")
	p2 := testutil.SeedPhone(t, ctx, db, "Nokia", "50.00")
	o := testutil.SeedOrder(t, ctx, db,
		&types.OrderItem{PhoneID: p1.ID, Quantity: 1},
		&types.OrderItem{PhoneID: p2.ID, Quantity: 4},
	)

	repo := NewOrderItemRepo(db, testutil.Logger(t))
	if err := repo.UpdateFields(dbc, o.Items[0].ID, map[string]interface{}{"quantity": 3}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if err := repo.DeleteByIDs(dbc, []int64{o.Items[1].ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}

	got, err := repo.ListByOrderID(dbc, o.ID)
	if err != nil {
		t.Fatalf("ListByOrderID: %v", err)
	}
	if len(got) != 1 || got[0].ID != o.Items[0].ID || got[0].Quantity != 3 {
		t.Fatalf("ListByOrderID: unexpected result: %+v", got)
	}
}
