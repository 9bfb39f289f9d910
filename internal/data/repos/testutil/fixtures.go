package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/yungbote/phoneshop-backend/internal/domain"
)

var phoneSeq atomic.Int64

func SeedColor(tb testing.TB, ctx context.Context, tx *gorm.DB, code string) *types.Color {
	tb.Helper()
	c := &types.Color{Code: code}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed color: %v", err)
	}
	return c
}

// SeedPhone inserts a phone with a unique model name and links the given colors.
func SeedPhone(tb testing.TB, ctx context.Context, tx *gorm.DB, brand string, price string, colors ...*types.Color) *types.Phone {
	tb.Helper()
	p := &types.Phone{
		Brand: brand,
		Model: fmt.Sprintf("model-%d", phoneSeq.Add(1)),
		Price: decimal.RequireFromString(price),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed phone: %v", err)
	}
	for _, c := range colors {
		link := &types.PhoneColor{PhoneID: p.ID, ColorID: c.ID}
		if err := tx.WithContext(ctx).Create(link).Error; err != nil {
			tb.Fatalf("seed phone color: %v", err)
		}
		p.Colors = append(p.Colors, *c)
	}
	return p
}

func SeedStock(tb testing.TB, ctx context.Context, tx *gorm.DB, phoneID, stock, reserved int64) *types.Stock {
	tb.Helper()
	s := &types.Stock{PhoneID: phoneID, Stock: stock, Reserved: reserved}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed stock: %v", err)
	}
	return s
}

// SeedOrder writes an order header and its items directly, bypassing stock.
func SeedOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, items ...*types.OrderItem) *types.Order {
	tb.Helper()
	o := NewOrder()
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	for _, it := range items {
		it.OrderID = o.ID
		if err := tx.WithContext(ctx).Create(it).Error; err != nil {
			tb.Fatalf("seed order item: %v", err)
		}
	}
	o.Items = items
	return o
}

// NewOrder builds an unsaved order with a filled header and no items.
func NewOrder(items ...*types.OrderItem) *types.Order {
	return &types.Order{
		SecureID:        uuid.New(),
		FirstName:       "Ada",
		LastName:        "Lovelace",
		DeliveryAddress: "12 St James's Square",
		ContactPhoneNo:  "+44 20 7946 0000",
		Subtotal:        decimal.RequireFromString("200.00"),
		DeliveryPrice:   decimal.RequireFromString("5.00"),
		TotalPrice:      decimal.RequireFromString("205.00"),
		Status:          types.OrderStatusNew,
		Items:           items,
	}
}

func StockOf(tb testing.TB, ctx context.Context, tx *gorm.DB, phoneID int64) *types.Stock {
	tb.Helper()
	var s types.Stock
	if err := tx.WithContext(ctx).Where("phone_id = ?", phoneID).First(&s).Error; err != nil {
		tb.Fatalf("load stock %d: %v", phoneID, err)
	}
	return &s
}
