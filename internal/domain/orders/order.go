package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/phoneshop-backend/internal/domain/catalog"
)

type Status string

const (
	StatusNew       Status = "NEW"
	StatusDelivered Status = "DELIVERED"
	StatusRejected  Status = "REJECTED"
)

// Order is the aggregate root. It owns Items; ID is zero until first persisted.
type Order struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SecureID uuid.UUID `gorm:"column:secure_id;type:uuid;not null;uniqueIndex" json:"secure_id"`

	FirstName       string `gorm:"column:first_name;size:50;not null" json:"first_name"`
	LastName        string `gorm:"column:last_name;size:50;not null" json:"last_name"`
	DeliveryAddress string `gorm:"column:delivery_address;size:254;not null" json:"delivery_address"`
	ContactPhoneNo  string `gorm:"column:contact_phone_no;size:30;not null" json:"contact_phone_no"`

	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:decimal(10,2);not null" json:"subtotal"`
	DeliveryPrice decimal.Decimal `gorm:"column:delivery_price;type:decimal(10,2);not null" json:"delivery_price"`
	TotalPrice    decimal.Decimal `gorm:"column:total_price;type:decimal(10,2);not null" json:"total_price"`

	// NEW|DELIVERED|REJECTED; transitions are not enforced.
	Status Status `gorm:"column:status;size:20;not null;index" json:"status"`

	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`

	Items []*OrderItem `gorm:"-" json:"items"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one line of an order. Phone is attached on read and is never written.
type OrderItem struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID  int64 `gorm:"column:order_id;not null;index" json:"order_id"`
	PhoneID  int64 `gorm:"column:phone_id;not null;index" json:"phone_id"`
	Quantity int64 `gorm:"column:quantity;not null" json:"quantity"`

	Phone *catalog.Phone `gorm:"-" json:"phone,omitempty"`
}

func (OrderItem) TableName() string { return "order_items" }

// ItemKey is the comparable identity of a line: phone plus quantity.
type ItemKey struct {
	PhoneID  int64
	Quantity int64
}

// ItemKeys lists the (phone, quantity) pairs of the order in item order.
func (o *Order) ItemKeys() []ItemKey {
	if o == nil {
		return nil
	}
	out := make([]ItemKey, 0, len(o.Items))
	for _, it := range o.Items {
		if it == nil {
			continue
		}
		out = append(out, ItemKey{PhoneID: it.PhoneID, Quantity: it.Quantity})
	}
	return out
}
