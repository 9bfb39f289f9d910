package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/phoneshop-backend/internal/data/db"
	"github.com/yungbote/phoneshop-backend/internal/domain/orders"
	"github.com/yungbote/phoneshop-backend/internal/observability"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
)

const appSeed = `phones:
  - brand: Fairphone
    model: "5"
    price: "699.00"
    colors: [blue]
    stock: 2
`

func TestNewWiresSQLiteApp(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(seedPath, []byte(appSeed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	cfg := defaultConfig()
	cfg.LogMode = "test"
	cfg.Database.Driver = db.DriverSQLite
	cfg.Database.SQLitePath = filepath.Join(dir, "shop.db")
	cfg.CatalogSeedFile = seedPath

	ctx := context.Background()
	a, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	phone, err := a.Repos.Phone.GetByBrandModel(dbctx.Context{Ctx: ctx}, "Fairphone", "5")
	if err != nil || phone == nil {
		t.Fatalf("seeded phone missing: %v", err)
	}

	o := &orders.Order{
		FirstName:       "Grace",
		LastName:        "Hopper",
		DeliveryAddress: "1 Navy Way",
		ContactPhoneNo:  "555-0100",
		Items:           []*orders.OrderItem{{PhoneID: phone.ID, Quantity: 2}},
	}
	if _, err := a.Services.Orders.Save(ctx, o); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if o.Status != orders.StatusNew {
		t.Fatalf("expected default status NEW, got %q", o.Status)
	}

	listing, found, err := a.Services.Phones.Get(ctx, phone.ID)
	if err != nil || !found || listing.Available != 0 {
		t.Fatalf("expected phone sold out, found=%v err=%v listing=%+v", found, err, listing)
	}

	again := &orders.Order{
		FirstName:       "Grace",
		LastName:        "Hopper",
		DeliveryAddress: "1 Navy Way",
		ContactPhoneNo:  "555-0100",
		Items:           []*orders.OrderItem{{PhoneID: phone.ID, Quantity: 1}},
	}
	if _, err := a.Services.Orders.Save(ctx, again); !errors.Is(err, orders.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	n, err := a.Services.Orders.OrderCount(ctx)
	if err != nil || n != 1 {
		t.Fatalf("OrderCount: n=%d err=%v", n, err)
	}
}

func TestNewShutsDownTracingWhenStartupFails(t *testing.T) {
	shutdowns := 0
	prev := initOTel
	initOTel = func(context.Context, *logger.Logger, observability.OtelConfig) func(context.Context) error {
		return func(context.Context) error {
			shutdowns++
			return nil
		}
	}
	t.Cleanup(func() { initOTel = prev })

	dir := t.TempDir()
	cfg := defaultConfig()
	cfg.LogMode = "test"
	cfg.Database.Driver = db.DriverSQLite
	cfg.Database.SQLitePath = filepath.Join(dir, "shop.db")
	cfg.CatalogSeedFile = filepath.Join(dir, "missing.yaml")

	a, err := New(context.Background(), cfg)
	if err == nil {
		_ = a.Close(context.Background())
		t.Fatalf("expected seed failure")
	}
	if shutdowns != 1 {
		t.Fatalf("expected tracing shut down once, got %d", shutdowns)
	}
}
