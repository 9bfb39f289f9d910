package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/phoneshop-backend/internal/data/repos/catalog"
	"github.com/yungbote/phoneshop-backend/internal/data/repos/orders"
	"github.com/yungbote/phoneshop-backend/internal/data/repos/stock"
	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
)

type PhoneRepo = catalog.PhoneRepo
type ColorRepo = catalog.ColorRepo

type StockRepo = stock.StockRepo

type OrderRepo = orders.OrderRepo
type OrderItemRepo = orders.OrderItemRepo

var ErrReservedUnderflow = stock.ErrReservedUnderflow

func NewPhoneRepo(db *gorm.DB, baseLog *logger.Logger) PhoneRepo {
	return catalog.NewPhoneRepo(db, baseLog)
}
func NewColorRepo(db *gorm.DB, baseLog *logger.Logger) ColorRepo {
	return catalog.NewColorRepo(db, baseLog)
}

func NewStockRepo(db *gorm.DB, baseLog *logger.Logger) StockRepo {
	return stock.NewStockRepo(db, baseLog)
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return orders.NewOrderRepo(db, baseLog)
}
func NewOrderItemRepo(db *gorm.DB, baseLog *logger.Logger) OrderItemRepo {
	return orders.NewOrderItemRepo(db, baseLog)
}
