package stock

import "time"

// Stock tracks on-hand units and the share already committed to orders.
// Invariant: 0 <= Reserved <= Stock.
type Stock struct {
	PhoneID   int64     `gorm:"column:phone_id;primaryKey;autoIncrement:false" json:"phone_id"`
	Stock     int64     `gorm:"column:stock;not null;default:0" json:"stock"`
	Reserved  int64     `gorm:"column:reserved;not null;default:0" json:"reserved"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
}

func (Stock) TableName() string { return "stocks" }

// Available is the quantity a new or larger order line may still claim.
func (s Stock) Available() int64 {
	return s.Stock - s.Reserved
}
