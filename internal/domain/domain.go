package domain

import (
	"github.com/yungbote/phoneshop-backend/internal/domain/catalog"
	"github.com/yungbote/phoneshop-backend/internal/domain/orders"
	"github.com/yungbote/phoneshop-backend/internal/domain/stock"
)

const (
	OrderStatusNew       = orders.StatusNew
	OrderStatusDelivered = orders.StatusDelivered
	OrderStatusRejected  = orders.StatusRejected
)

type Phone = catalog.Phone
type Color = catalog.Color
type PhoneColor = catalog.PhoneColor

type Order = orders.Order
type OrderItem = orders.OrderItem
type OrderStatus = orders.Status
type InsufficientStockError = orders.InsufficientStockError

type Stock = stock.Stock

var ErrInsufficientStock = orders.ErrInsufficientStock

// Models lists every persisted row type in migration order.
func Models() []interface{} {
	return []interface{}{
		&catalog.Color{},
		&catalog.Phone{},
		&catalog.PhoneColor{},
		&stock.Stock{},
		&orders.Order{},
		&orders.OrderItem{},
	}
}
