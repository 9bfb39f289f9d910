package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/phoneshop-backend/internal/data/repos"
	"github.com/yungbote/phoneshop-backend/internal/domain/catalog"
	"github.com/yungbote/phoneshop-backend/internal/domain/stock"
	"github.com/yungbote/phoneshop-backend/internal/pkg/ctxutil"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
)

// PhoneListing is a catalog phone together with what can still be ordered.
type PhoneListing struct {
	Phone     *catalog.Phone
	Available int64
}

type PhoneService interface {
	Get(ctx context.Context, id int64) (*PhoneListing, bool, error)
	List(ctx context.Context, offset, limit int) ([]*PhoneListing, error)
	PhoneCount(ctx context.Context) (int64, error)
}

type phoneService struct {
	db     *gorm.DB
	log    *logger.Logger
	phones repos.PhoneRepo
	stock  repos.StockRepo
}

func NewPhoneService(db *gorm.DB, baseLog *logger.Logger, phoneRepo repos.PhoneRepo, stockRepo repos.StockRepo) PhoneService {
	return &phoneService{
		db:     db,
		log:    baseLog.With("service", "PhoneService"),
		phones: phoneRepo,
		stock:  stockRepo,
	}
}

func (s *phoneService) readCtx(ctx context.Context) (dbctx.Context, error) {
	if s == nil || s.db == nil || s.phones == nil || s.stock == nil {
		return dbctx.Context{}, fmt.Errorf("phone service not configured")
	}
	ctx = ctxutil.Default(ctx)
	return dbctx.Context{Ctx: ctx, Tx: s.db.WithContext(ctx)}, nil
}

func (s *phoneService) Get(ctx context.Context, id int64) (*PhoneListing, bool, error) {
	dbc, err := s.readCtx(ctx)
	if err != nil {
		return nil, false, err
	}
	p, err := s.phones.GetByID(dbc, id)
	if err != nil {
		return nil, false, fmt.Errorf("get phone %d: %w", id, err)
	}
	if p == nil {
		return nil, false, nil
	}
	out, err := s.withAvailability(dbc, []*catalog.Phone{p})
	if err != nil {
		return nil, false, err
	}
	return out[0], true, nil
}

func (s *phoneService) List(ctx context.Context, offset, limit int) ([]*PhoneListing, error) {
	dbc, err := s.readCtx(ctx)
	if err != nil {
		return nil, err
	}
	phones, err := s.phones.List(dbc, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list phones: %w", err)
	}
	return s.withAvailability(dbc, phones)
}

func (s *phoneService) PhoneCount(ctx context.Context) (int64, error) {
	dbc, err := s.readCtx(ctx)
	if err != nil {
		return 0, err
	}
	return s.phones.Count(dbc)
}

// withAvailability reports 0 for phones without a stock row.
func (s *phoneService) withAvailability(dbc dbctx.Context, phones []*catalog.Phone) ([]*PhoneListing, error) {
	ids := make([]int64, 0, len(phones))
	for _, p := range phones {
		ids = append(ids, p.ID)
	}
	rows, err := s.stock.GetByPhoneIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("stock for phones: %w", err)
	}
	out := make([]*PhoneListing, 0, len(phones))
	for _, p := range phones {
		out = append(out, &PhoneListing{Phone: p, Available: availableOf(rows[p.ID])})
	}
	return out, nil
}

func availableOf(row *stock.Stock) int64 {
	if row == nil {
		return 0
	}
	return row.Available()
}
