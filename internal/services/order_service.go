package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/phoneshop-backend/internal/data/repos"
	domainagg "github.com/yungbote/phoneshop-backend/internal/domain/aggregates"
	"github.com/yungbote/phoneshop-backend/internal/domain/catalog"
	"github.com/yungbote/phoneshop-backend/internal/domain/orders"
	"github.com/yungbote/phoneshop-backend/internal/pkg/ctxutil"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
)

type OrderService interface {
	// Get loads the order with its items, each resolved to its phone.
	// found is false with a nil error when no order has this id.
	Get(ctx context.Context, id int64) (*orders.Order, bool, error)
	GetBySecureID(ctx context.Context, secureID uuid.UUID) (*orders.Order, bool, error)

	// Save persists o through the order aggregate. Generated ids appear on o
	// only after the save committed. A stock shortfall is returned as
	// *orders.InsufficientStockError; other failures arrive as a coded
	// *aggregates.Error wrapping the cause, so match driver errors with errors.As.
	Save(ctx context.Context, o *orders.Order) (*orders.Order, error)

	OrderCount(ctx context.Context) (int64, error)
	FindAll(ctx context.Context, offset, limit int) ([]*orders.Order, error)
}

type orderService struct {
	db     *gorm.DB
	log    *logger.Logger
	orders repos.OrderRepo
	phones repos.PhoneRepo
	agg    domainagg.OrderAggregate
}

func NewOrderService(
	db *gorm.DB,
	baseLog *logger.Logger,
	orderRepo repos.OrderRepo,
	phoneRepo repos.PhoneRepo,
	agg domainagg.OrderAggregate,
) OrderService {
	return &orderService{
		db:     db,
		log:    baseLog.With("service", "OrderService"),
		orders: orderRepo,
		phones: phoneRepo,
		agg:    agg,
	}
}

func (s *orderService) readCtx(ctx context.Context) (dbctx.Context, error) {
	if s == nil || s.db == nil || s.orders == nil {
		return dbctx.Context{}, fmt.Errorf("order service not configured")
	}
	ctx = ctxutil.Default(ctx)
	return dbctx.Context{Ctx: ctx, Tx: s.db.WithContext(ctx)}, nil
}

func (s *orderService) Get(ctx context.Context, id int64) (*orders.Order, bool, error) {
	dbc, err := s.readCtx(ctx)
	if err != nil {
		return nil, false, err
	}
	o, err := s.orders.GetByID(dbc, id)
	if err != nil {
		return nil, false, fmt.Errorf("get order %d: %w", id, err)
	}
	if o == nil {
		return nil, false, nil
	}
	if err := s.attachPhones(dbc, []*orders.Order{o}); err != nil {
		return nil, false, err
	}
	return o, true, nil
}

func (s *orderService) GetBySecureID(ctx context.Context, secureID uuid.UUID) (*orders.Order, bool, error) {
	dbc, err := s.readCtx(ctx)
	if err != nil {
		return nil, false, err
	}
	if secureID == uuid.Nil {
		return nil, false, nil
	}
	o, err := s.orders.GetBySecureID(dbc, secureID)
	if err != nil {
		return nil, false, fmt.Errorf("get order %s: %w", secureID, err)
	}
	if o == nil {
		return nil, false, nil
	}
	if err := s.attachPhones(dbc, []*orders.Order{o}); err != nil {
		return nil, false, err
	}
	return o, true, nil
}

func (s *orderService) Save(ctx context.Context, o *orders.Order) (*orders.Order, error) {
	if s == nil || s.agg == nil {
		return nil, fmt.Errorf("order service not configured")
	}
	res, err := s.agg.Save(ctxutil.Default(ctx), domainagg.SaveOrderInput{Order: o})
	if err != nil {
		return nil, err
	}
	s.log.Info("order saved", "order_id", res.OrderID, "inserted", res.Inserted, "phones_reserved", len(res.ReservedDeltas))
	return o, nil
}

func (s *orderService) OrderCount(ctx context.Context) (int64, error) {
	dbc, err := s.readCtx(ctx)
	if err != nil {
		return 0, err
	}
	return s.orders.Count(dbc)
}

func (s *orderService) FindAll(ctx context.Context, offset, limit int) ([]*orders.Order, error) {
	dbc, err := s.readCtx(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.orders.ListPage(dbc, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := s.attachPhones(dbc, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachPhones resolves every item's phone with one catalog query.
func (s *orderService) attachPhones(dbc dbctx.Context, list []*orders.Order) error {
	if s.phones == nil {
		return nil
	}
	seen := map[int64]bool{}
	var ids []int64
	for _, o := range list {
		for _, it := range o.Items {
			if it == nil || seen[it.PhoneID] {
				continue
			}
			seen[it.PhoneID] = true
			ids = append(ids, it.PhoneID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	phones, err := s.phones.GetByIDs(dbc, ids)
	if err != nil {
		return fmt.Errorf("resolve order phones: %w", err)
	}
	byID := make(map[int64]*catalog.Phone, len(phones))
	for _, p := range phones {
		byID[p.ID] = p
	}
	for _, o := range list {
		for _, it := range o.Items {
			if it == nil {
				continue
			}
			p, ok := byID[it.PhoneID]
			if !ok {
				s.log.Warn("order item references unknown phone", "order_id", o.ID, "item_id", it.ID, "phone_id", it.PhoneID)
				continue
			}
			it.Phone = p
		}
	}
	return nil
}
