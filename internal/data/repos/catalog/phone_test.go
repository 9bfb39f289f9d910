package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yungbote/phoneshop-backend/internal/data/repos/testutil"
	types "github.com/yungbote/phoneshop-backend/internal/domain/catalog"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
	"github.com/yungbote/phoneshop-backend/internal/pkg/pointers"
)

func TestPhoneRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	colors := NewColorRepo(db, testutil.Logger(t))
	byCode, err := colors.EnsureCodes(dbc, []string{"black", " white ", "black", ""})
	if err != nil {
		t.Fatalf("EnsureCodes: %v", err)
	}
	if len(byCode) != 2 {
		t.Fatalf("EnsureCodes: expected 2 colors, got %d", len(byCode))
	}
	again, err := colors.EnsureCodes(dbc, []string{"white"})
	if err != nil {
		t.Fatalf("EnsureCodes (again): %v", err)
	}
	if again["white"].ID != byCode["white"].ID {
		t.Fatalf("EnsureCodes: expected existing white to be reused")
	}

	repo := NewPhoneRepo(db, testutil.Logger(t))
	created, err := repo.Create(dbc, []*types.Phone{
		{
			Brand:  "Apple",
			Model:  "iPhone 15",
			Price:  decimal.RequireFromString("999.00"),
			Colors: []types.Color{*byCode["white"], *byCode["black"]},

			WeightGr:   pointers.Int(171),
			DeviceType: "smartphone",
		},
		{
			Brand: "Nokia",
			Model: "3310",
			Price: decimal.RequireFromString("49.99"),
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 2 || created[0].ID == 0 || created[1].ID == 0 {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Model != "iPhone 15" {
		t.Fatalf("GetByID: unexpected result: %+v", got)
	}
	if len(got.Colors) != 2 {
		t.Fatalf("GetByID: expected 2 colors, got %d", len(got.Colors))
	}
	if !got.HasColor(byCode["black"].ID) || !got.HasColor(byCode["white"].ID) {
		t.Fatalf("GetByID: missing color: %+v", got.Colors)
	}
	if !got.Price.Equal(decimal.RequireFromString("999")) {
		t.Fatalf("GetByID: price = %s", got.Price)
	}
	if pointers.Deref(got.WeightGr) != 171 || got.DeviceType != "smartphone" {
		t.Fatalf("GetByID: specs not persisted: weight=%v device=%q", got.WeightGr, got.DeviceType)
	}

	plain, err := repo.GetByID(dbc, created[1].ID)
	if err != nil {
		t.Fatalf("GetByID (no colors): %v", err)
	}
	if plain == nil || plain.Colors == nil || len(plain.Colors) != 0 {
		t.Fatalf("GetByID (no colors): expected empty color set, got %+v", plain)
	}

	byName, err := repo.GetByBrandModel(dbc, "Nokia", "3310")
	if err != nil {
		t.Fatalf("GetByBrandModel: %v", err)
	}
	if byName == nil || byName.ID != created[1].ID {
		t.Fatalf("GetByBrandModel: unexpected result: %+v", byName)
	}

	missing, err := repo.GetByID(dbc, created[1].ID+100)
	if err != nil {
		t.Fatalf("GetByID (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByID (missing): expected nil")
	}

	page, err := repo.List(dbc, 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 1 || page[0].ID != created[1].ID {
		t.Fatalf("List: unexpected page: %+v", page)
	}

	n, err := repo.Count(dbc)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Fatalf("Count: expected 2, got %d", n)
	}
}
