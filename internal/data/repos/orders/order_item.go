package orders

import (
	"gorm.io/gorm"

	types "github.com/yungbote/phoneshop-backend/internal/domain/orders"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
)

type OrderItemRepo interface {
	Create(dbc dbctx.Context, rows []*types.OrderItem) ([]*types.OrderItem, error)
	ListByOrderID(dbc dbctx.Context, orderID int64) ([]*types.OrderItem, error)
	UpdateFields(dbc dbctx.Context, id int64, updates map[string]interface{}) error
	DeleteByIDs(dbc dbctx.Context, ids []int64) error
}

type orderItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderItemRepo(db *gorm.DB, baseLog *logger.Logger) OrderItemRepo {
	return &orderItemRepo{db: db, log: baseLog.With("repo", "OrderItemRepo")}
}

func (r *orderItemRepo) Create(dbc dbctx.Context, rows []*types.OrderItem) ([]*types.OrderItem, error) {
	t := dbc.DB(r.db)
	if len(rows) == 0 {
		return []*types.OrderItem{}, nil
	}
	if err := t.Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *orderItemRepo) ListByOrderID(dbc dbctx.Context, orderID int64) ([]*types.OrderItem, error) {
	t := dbc.DB(r.db)
	var out []*types.OrderItem
	if orderID <= 0 {
		return out, nil
	}
	if err := t.
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderItemRepo) UpdateFields(dbc dbctx.Context, id int64, updates map[string]interface{}) error {
	t := dbc.DB(r.db)
	if id <= 0 || len(updates) == 0 {
		return nil
	}
	return t.
		Model(&types.OrderItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *orderItemRepo) DeleteByIDs(dbc dbctx.Context, ids []int64) error {
	t := dbc.DB(r.db)
	if len(ids) == 0 {
		return nil
	}
	return t.
		Where("id IN ?", ids).
		Delete(&types.OrderItem{}).Error
}
