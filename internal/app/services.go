package app

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/phoneshop-backend/internal/data/aggregates"
	"github.com/yungbote/phoneshop-backend/internal/data/db"
	"github.com/yungbote/phoneshop-backend/internal/observability"
	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
	"github.com/yungbote/phoneshop-backend/internal/services"
)

type Services struct {
	Orders services.OrderService
	Phones services.PhoneService
}

func wireServices(theDB *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	runner := aggregates.NewGormTxRunner(theDB)
	if cfg.SerializableSaves && cfg.Database.Driver == db.DriverPostgres {
		runner = aggregates.NewGormTxRunnerWithOptions(theDB, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}
	orderAgg := aggregates.NewOrderAggregate(aggregates.OrderAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:     theDB,
			Log:    log,
			Runner: runner,
			Hooks:  aggregates.NewObservabilityHooks(metrics),
		},
		Orders: reposet.Order,
		Items:  reposet.OrderItem,
		Stock:  reposet.Stock,
	})
	if c := orderAgg.Contract(); !c.RequiresAggregateOwnedTx() {
		return Services{}, fmt.Errorf("aggregate %s must own its write transaction", c)
	}
	log.Info("aggregate wired", "contract", orderAgg.Contract().String())
	return Services{
		Orders: services.NewOrderService(theDB, log, reposet.Order, reposet.Phone, orderAgg),
		Phones: services.NewPhoneService(theDB, log, reposet.Phone, reposet.Stock),
	}, nil
}
