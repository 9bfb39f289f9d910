package catalog

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/phoneshop-backend/internal/data/rowfold"
	types "github.com/yungbote/phoneshop-backend/internal/domain/catalog"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
)

type PhoneRepo interface {
	// Create inserts phones and links each to the colors already set on it.
	Create(dbc dbctx.Context, rows []*types.Phone) ([]*types.Phone, error)

	GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Phone, error)
	GetByID(dbc dbctx.Context, id int64) (*types.Phone, error)
	GetByBrandModel(dbc dbctx.Context, brand, model string) (*types.Phone, error)

	List(dbc dbctx.Context, offset, limit int) ([]*types.Phone, error)
	Count(dbc dbctx.Context) (int64, error)
}

type phoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhoneRepo(db *gorm.DB, baseLog *logger.Logger) PhoneRepo {
	return &phoneRepo{db: db, log: baseLog.With("repo", "PhoneRepo")}
}

// phoneColorRow is one row of phones LEFT JOIN phone2color LEFT JOIN colors.
type phoneColorRow struct {
	types.Phone
	ColorID   *int64  `gorm:"column:color_id"`
	ColorCode *string `gorm:"column:color_code"`
}

var phoneColorFolder = rowfold.Folder[phoneColorRow, int64, *types.Phone, int64, types.Color]{
	ParentKey: func(r phoneColorRow) int64 { return r.Phone.ID },
	NewParent: func(r phoneColorRow) *types.Phone {
		p := r.Phone
		p.Colors = []types.Color{}
		return &p
	},
	ChildKey: func(r phoneColorRow) (int64, bool) {
		if !rowfold.ValidID(r.ColorID) {
			return 0, false
		}
		return *r.ColorID, true
	},
	NewChild: func(r phoneColorRow) types.Color {
		c := types.Color{ID: *r.ColorID}
		if r.ColorCode != nil {
			c.Code = *r.ColorCode
		}
		return c
	},
	Attach: func(p *types.Phone, c types.Color) { p.Colors = append(p.Colors, c) },
}

func (r *phoneRepo) Create(dbc dbctx.Context, rows []*types.Phone) ([]*types.Phone, error) {
	t := dbc.DB(r.db)
	if len(rows) == 0 {
		return []*types.Phone{}, nil
	}
	err := t.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		var links []*types.PhoneColor
		for _, p := range rows {
			for _, c := range p.Colors {
				links = append(links, &types.PhoneColor{PhoneID: p.ID, ColorID: c.ID})
			}
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *phoneRepo) GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Phone, error) {
	t := dbc.DB(r.db)
	if len(ids) == 0 {
		return []*types.Phone{}, nil
	}
	var rows []phoneColorRow
	err := t.
		Table("phones AS p").
		Select("p.*, c.id AS color_id, c.code AS color_code").
		Joins("LEFT JOIN phone2color AS pc ON pc.phone_id = p.id").
		Joins("LEFT JOIN colors AS c ON c.id = pc.color_id").
		Where("p.id IN ?", ids).
		Order("p.id ASC, c.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return phoneColorFolder.Fold(rows), nil
}

func (r *phoneRepo) GetByID(dbc dbctx.Context, id int64) (*types.Phone, error) {
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

func (r *phoneRepo) GetByBrandModel(dbc dbctx.Context, brand, model string) (*types.Phone, error) {
	t := dbc.DB(r.db)
	var ids []int64
	err := t.
		Model(&types.Phone{}).
		Where("brand = ? AND model = ?", brand, model).
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

func (r *phoneRepo) List(dbc dbctx.Context, offset, limit int) ([]*types.Phone, error) {
	t := dbc.DB(r.db)
	if limit <= 0 {
		return []*types.Phone{}, nil
	}
	if offset < 0 {
		offset = 0
	}
	var ids []int64
	err := t.
		Model(&types.Phone{}).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return r.GetByIDs(dbc, ids)
}

func (r *phoneRepo) Count(dbc dbctx.Context) (int64, error) {
	t := dbc.DB(r.db)
	var n int64
	if err := t.Model(&types.Phone{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
