package catalog

type Color struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"column:code;size:50;not null;uniqueIndex" json:"code"`
}

func (Color) TableName() string { return "colors" }

// PhoneColor links a phone to one of its colors.
type PhoneColor struct {
	PhoneID int64 `gorm:"column:phone_id;primaryKey;autoIncrement:false" json:"phone_id"`
	ColorID int64 `gorm:"column:color_id;primaryKey;autoIncrement:false;index" json:"color_id"`
}

func (PhoneColor) TableName() string { return "phone2color" }
