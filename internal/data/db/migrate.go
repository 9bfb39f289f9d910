package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/phoneshop-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return err
	}

	// Item reload per order, in insertion order.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_order_items_order_id_id
		ON order_items (order_id, id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_order_items_order_id_id: %w", err)
	}

	if db.Dialector.Name() != DriverPostgres {
		return nil
	}

	// Reserved may never leave [0, stock], whatever writes the row.
	if err := db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'chk_stocks_reserved_bounds'
			) THEN
				ALTER TABLE stocks
				ADD CONSTRAINT chk_stocks_reserved_bounds CHECK (reserved >= 0 AND reserved <= stock);
			END IF;
		END $$;
	`).Error; err != nil {
		return fmt.Errorf("create chk_stocks_reserved_bounds: %w", err)
	}
	return nil
}
