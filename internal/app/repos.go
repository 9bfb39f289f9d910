package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/phoneshop-backend/internal/data/repos"
	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
)

type Repos struct {
	Phone     repos.PhoneRepo
	Color     repos.ColorRepo
	Stock     repos.StockRepo
	Order     repos.OrderRepo
	OrderItem repos.OrderItemRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Phone:     repos.NewPhoneRepo(db, log),
		Color:     repos.NewColorRepo(db, log),
		Stock:     repos.NewStockRepo(db, log),
		Order:     repos.NewOrderRepo(db, log),
		OrderItem: repos.NewOrderItemRepo(db, log),
	}
}
