package orders

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/phoneshop-backend/internal/data/rowfold"
	types "github.com/yungbote/phoneshop-backend/internal/domain/orders"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
)

type OrderRepo interface {
	// Create inserts the order header only; Items are written by OrderItemRepo.
	Create(dbc dbctx.Context, o *types.Order) error

	// UpdateHeader rewrites the mutable header columns, stamps o.UpdatedAt and
	// reports rows affected.
	UpdateHeader(dbc dbctx.Context, o *types.Order) (int64, error)

	GetByID(dbc dbctx.Context, id int64) (*types.Order, error)
	GetBySecureID(dbc dbctx.Context, secureID uuid.UUID) (*types.Order, error)
	GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Order, error)

	// ListPage returns orders by ascending id with their items attached.
	ListPage(dbc dbctx.Context, offset, limit int) ([]*types.Order, error)
	Count(dbc dbctx.Context) (int64, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

// orderItemRow is one row of orders LEFT JOIN order_items.
type orderItemRow struct {
	types.Order
	ItemID       *int64 `gorm:"column:item_id"`
	ItemPhoneID  *int64 `gorm:"column:item_phone_id"`
	ItemQuantity *int64 `gorm:"column:item_quantity"`
}

var orderItemFolder = rowfold.Folder[orderItemRow, int64, *types.Order, int64, *types.OrderItem]{
	ParentKey: func(r orderItemRow) int64 { return r.Order.ID },
	NewParent: func(r orderItemRow) *types.Order {
		o := r.Order
		o.Items = []*types.OrderItem{}
		return &o
	},
	ChildKey: func(r orderItemRow) (int64, bool) {
		if !rowfold.ValidID(r.ItemID) {
			return 0, false
		}
		return *r.ItemID, true
	},
	NewChild: func(r orderItemRow) *types.OrderItem {
		it := &types.OrderItem{ID: *r.ItemID, OrderID: r.Order.ID}
		if r.ItemPhoneID != nil {
			it.PhoneID = *r.ItemPhoneID
		}
		if r.ItemQuantity != nil {
			it.Quantity = *r.ItemQuantity
		}
		return it
	},
	Attach: func(o *types.Order, it *types.OrderItem) { o.Items = append(o.Items, it) },
}

func (r *orderRepo) Create(dbc dbctx.Context, o *types.Order) error {
	t := dbc.DB(r.db)
	return t.Create(o).Error
}

func (r *orderRepo) UpdateHeader(dbc dbctx.Context, o *types.Order) (int64, error) {
	t := dbc.DB(r.db)
	o.UpdatedAt = time.Now().UTC()
	res := t.
		Model(&types.Order{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"first_name":       o.FirstName,
			"last_name":        o.LastName,
			"delivery_address": o.DeliveryAddress,
			"contact_phone_no": o.ContactPhoneNo,
			"subtotal":         o.Subtotal,
			"delivery_price":   o.DeliveryPrice,
			"total_price":      o.TotalPrice,
			"status":           o.Status,
			"updated_at":       o.UpdatedAt,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *orderRepo) GetByID(dbc dbctx.Context, id int64) (*types.Order, error) {
	if id <= 0 {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *orderRepo) GetBySecureID(dbc dbctx.Context, secureID uuid.UUID) (*types.Order, error) {
	if secureID == uuid.Nil {
		return nil, nil
	}
	t := dbc.DB(r.db)
	var ids []int64
	err := t.
		Model(&types.Order{}).
		Where("secure_id = ?", secureID).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return r.GetByID(dbc, ids[0])
}

func (r *orderRepo) GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Order, error) {
	t := dbc.DB(r.db)
	if len(ids) == 0 {
		return []*types.Order{}, nil
	}
	var rows []orderItemRow
	err := t.
		Table("orders AS o").
		Select("o.*, i.id AS item_id, i.phone_id AS item_phone_id, i.quantity AS item_quantity").
		Joins("LEFT JOIN order_items AS i ON i.order_id = o.id").
		Where("o.id IN ?", ids).
		Order("o.id ASC, i.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return orderItemFolder.Fold(rows), nil
}

func (r *orderRepo) ListPage(dbc dbctx.Context, offset, limit int) ([]*types.Order, error) {
	t := dbc.DB(r.db)
	if limit <= 0 {
		return []*types.Order{}, nil
	}
	if offset < 0 {
		offset = 0
	}
	var ids []int64
	err := t.
		Model(&types.Order{}).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return r.GetByIDs(dbc, ids)
}

func (r *orderRepo) Count(dbc dbctx.Context) (int64, error) {
	t := dbc.DB(r.db)
	var n int64
	if err := t.Model(&types.Order{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
