package catalog

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Phone is a catalog row. The order subsystem only reads it.
type Phone struct {
	ID    int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Brand string          `gorm:"column:brand;size:50;not null;uniqueIndex:idx_phone_brand_model,priority:1" json:"brand"`
	Model string          `gorm:"column:model;size:254;not null;uniqueIndex:idx_phone_brand_model,priority:2" json:"model"`
	Price decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"`

	DisplaySizeInches decimal.NullDecimal `gorm:"column:display_size_inches;type:decimal(4,2)" json:"display_size_inches"`
	WeightGr          *int                `gorm:"column:weight_gr" json:"weight_gr,omitempty"`
	LengthMm          decimal.NullDecimal `gorm:"column:length_mm;type:decimal(6,2)" json:"length_mm"`
	WidthMm           decimal.NullDecimal `gorm:"column:width_mm;type:decimal(6,2)" json:"width_mm"`
	HeightMm          decimal.NullDecimal `gorm:"column:height_mm;type:decimal(6,2)" json:"height_mm"`
	Announced         *datatypes.Date     `gorm:"column:announced" json:"announced,omitempty"`

	DeviceType         string              `gorm:"column:device_type;size:50" json:"device_type"`
	OS                 string              `gorm:"column:os;size:100" json:"os"`
	DisplayResolution  string              `gorm:"column:display_resolution;size:50" json:"display_resolution"`
	PixelDensity       *int                `gorm:"column:pixel_density" json:"pixel_density,omitempty"`
	DisplayTechnology  string              `gorm:"column:display_technology;size:50" json:"display_technology"`
	BackCameraMpx      decimal.NullDecimal `gorm:"column:back_camera_megapixels;type:decimal(5,2)" json:"back_camera_megapixels"`
	FrontCameraMpx     decimal.NullDecimal `gorm:"column:front_camera_megapixels;type:decimal(5,2)" json:"front_camera_megapixels"`
	RAMGb              decimal.NullDecimal `gorm:"column:ram_gb;type:decimal(6,2)" json:"ram_gb"`
	InternalStorageGb  decimal.NullDecimal `gorm:"column:internal_storage_gb;type:decimal(6,2)" json:"internal_storage_gb"`
	BatteryCapacityMah *int                `gorm:"column:battery_capacity_mah" json:"battery_capacity_mah,omitempty"`
	TalkTimeHours      decimal.NullDecimal `gorm:"column:talk_time_hours;type:decimal(6,2)" json:"talk_time_hours"`
	StandByTimeHours   decimal.NullDecimal `gorm:"column:stand_by_time_hours;type:decimal(6,2)" json:"stand_by_time_hours"`
	Bluetooth          string              `gorm:"column:bluetooth;size:50" json:"bluetooth"`
	ImageURL           string              `gorm:"column:image_url;size:254" json:"image_url"`
	Description        string              `gorm:"column:description;type:text" json:"description"`

	// Colors is a set keyed by color id. It is filled by the catalog repo, never by gorm.
	Colors []Color `gorm:"-" json:"colors"`
}

func (Phone) TableName() string { return "phones" }

// HasColor reports whether the phone already carries colorID.
func (p *Phone) HasColor(colorID int64) bool {
	for _, c := range p.Colors {
		if c.ID == colorID {
			return true
		}
	}
	return false
}
