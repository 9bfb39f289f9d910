package stock

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/phoneshop-backend/internal/domain/orders"
	types "github.com/yungbote/phoneshop-backend/internal/domain/stock"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/phoneshop-backend/internal/pkg/errors"
	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
)

// ErrReservedUnderflow means a release would push reserved below zero.
var ErrReservedUnderflow = errors.New("reserved stock would go negative")

type StockRepo interface {
	// Upsert sets stock and reserved for each phone, inserting missing rows.
	Upsert(dbc dbctx.Context, rows []*types.Stock) error

	GetByPhoneID(dbc dbctx.Context, phoneID int64) (*types.Stock, error)
	// GetByPhoneIDs reads the stock rows of the listed phones, keyed by phone id.
	GetByPhoneIDs(dbc dbctx.Context, phoneIDs []int64) (map[int64]*types.Stock, error)

	// LockByPhoneIDs takes a row lock on every listed stock record, in ascending
	// phone id order. Missing records are absent from the result.
	LockByPhoneIDs(dbc dbctx.Context, phoneIDs []int64) (map[int64]*types.Stock, error)

	// AvailableQuantity returns stock - reserved; it fails when no record exists.
	AvailableQuantity(dbc dbctx.Context, phoneID int64) (int64, error)

	// Reserve moves reserved by delta (negative releases). The write is guarded so
	// reserved stays within [0, stock] even without a prior lock.
	Reserve(dbc dbctx.Context, phoneID int64, delta int64) error
}

type stockRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStockRepo(db *gorm.DB, baseLog *logger.Logger) StockRepo {
	return &stockRepo{db: db, log: baseLog.With("repo", "StockRepo")}
}

func (r *stockRepo) Upsert(dbc dbctx.Context, rows []*types.Stock) error {
	t := dbc.DB(r.db)
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		if row == nil || row.PhoneID <= 0 {
			return pkgerrors.InvalidArgument("stock upsert", "phone_id required")
		}
		if row.Stock < 0 || row.Reserved < 0 || row.Reserved > row.Stock {
			return pkgerrors.InvalidArgument("stock upsert", "phone %d stock=%d reserved=%d", row.PhoneID, row.Stock, row.Reserved)
		}
	}
	return t.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"stock", "reserved", "updated_at"}),
		}).
		Create(&rows).Error
}

func (r *stockRepo) GetByPhoneID(dbc dbctx.Context, phoneID int64) (*types.Stock, error) {
	if phoneID <= 0 {
		return nil, nil
	}
	t := dbc.DB(r.db)
	var rows []*types.Stock
	if err := t.Where("phone_id = ?", phoneID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *stockRepo) GetByPhoneIDs(dbc dbctx.Context, phoneIDs []int64) (map[int64]*types.Stock, error) {
	out := make(map[int64]*types.Stock, len(phoneIDs))
	if len(phoneIDs) == 0 {
		return out, nil
	}
	t := dbc.DB(r.db)
	var rows []*types.Stock
	if err := t.Where("phone_id IN ?", phoneIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PhoneID] = row
	}
	return out, nil
}

func (r *stockRepo) LockByPhoneIDs(dbc dbctx.Context, phoneIDs []int64) (map[int64]*types.Stock, error) {
	t := dbc.DB(r.db)
	out := make(map[int64]*types.Stock, len(phoneIDs))
	ids := make([]int64, 0, len(phoneIDs))
	for _, id := range phoneIDs {
		if id > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i, id := range ids {
		if i > 0 && ids[i-1] == id {
			continue
		}
		var rows []*types.Stock
		err := t.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("phone_id = ?", id).
			Limit(1).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			out[id] = rows[0]
		}
	}
	return out, nil
}

func (r *stockRepo) AvailableQuantity(dbc dbctx.Context, phoneID int64) (int64, error) {
	row, err := r.GetByPhoneID(dbc, phoneID)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, pkgerrors.NotFound("stock for phone %d", phoneID)
	}
	return row.Available(), nil
}

func (r *stockRepo) Reserve(dbc dbctx.Context, phoneID int64, delta int64) error {
	if delta == 0 {
		return nil
	}
	t := dbc.DB(r.db)
	res := t.
		Model(&types.Stock{}).
		Where("phone_id = ? AND reserved + ? <= stock AND reserved + ? >= 0", phoneID, delta, delta).
		Updates(map[string]interface{}{
			"reserved":   gorm.Expr("reserved + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	row, err := r.GetByPhoneID(dbctx.Context{Ctx: dbc.Ctx, Tx: t}, phoneID)
	if err != nil {
		return err
	}
	if row == nil {
		return pkgerrors.NotFound("stock for phone %d", phoneID)
	}
	if delta < 0 {
		return fmt.Errorf("release %d from phone %d (reserved=%d): %w", -delta, phoneID, row.Reserved, ErrReservedUnderflow)
	}
	r.log.Warn("reserve rejected by guard", "phone_id", phoneID, "delta", delta, "available", row.Available())
	return &orders.InsufficientStockError{PhoneID: phoneID, Requested: delta, Available: row.Available()}
}
