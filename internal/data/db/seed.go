package db

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/phoneshop-backend/internal/data/repos"
	"github.com/yungbote/phoneshop-backend/internal/domain/catalog"
	"github.com/yungbote/phoneshop-backend/internal/domain/stock"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
	"github.com/yungbote/phoneshop-backend/internal/pkg/pointers"
)

// CatalogSeed is the YAML layout of a catalog import file.
type CatalogSeed struct {
	Phones []PhoneSeed `yaml:"phones"`
}

type PhoneSeed struct {
	Brand  string   `yaml:"brand"`
	Model  string   `yaml:"model"`
	Price  string   `yaml:"price"`
	Colors []string `yaml:"colors"`
	Stock  int64    `yaml:"stock"`

	DisplaySizeInches  string `yaml:"display_size_inches"`
	WeightGr           *int   `yaml:"weight_gr"`
	LengthMm           string `yaml:"length_mm"`
	WidthMm            string `yaml:"width_mm"`
	HeightMm           string `yaml:"height_mm"`
	Announced          string `yaml:"announced"`
	DeviceType         string `yaml:"device_type"`
	OS                 string `yaml:"os"`
	DisplayResolution  string `yaml:"display_resolution"`
	PixelDensity       *int   `yaml:"pixel_density"`
	DisplayTechnology  string `yaml:"display_technology"`
	BackCameraMpx      string `yaml:"back_camera_megapixels"`
	FrontCameraMpx     string `yaml:"front_camera_megapixels"`
	RAMGb              string `yaml:"ram_gb"`
	InternalStorageGb  string `yaml:"internal_storage_gb"`
	BatteryCapacityMah *int   `yaml:"battery_capacity_mah"`
	TalkTimeHours      string `yaml:"talk_time_hours"`
	StandByTimeHours   string `yaml:"stand_by_time_hours"`
	Bluetooth          string `yaml:"bluetooth"`
	ImageURL           string `yaml:"image_url"`
	Description        string `yaml:"description"`
}

type SeedResult struct {
	PhonesCreated int
	PhonesKept    int
	StockRows     int
}

func ParseCatalogSeed(r io.Reader) (*CatalogSeed, error) {
	var seed CatalogSeed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog seed: %w", err)
	}
	return &seed, nil
}

// SeedCatalogFile loads path and applies it with SeedCatalog.
func SeedCatalogFile(ctx context.Context, db *gorm.DB, logg *logger.Logger, path string) (SeedResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return SeedResult{}, fmt.Errorf("open catalog seed: %w", err)
	}
	defer f.Close()
	seed, err := ParseCatalogSeed(f)
	if err != nil {
		return SeedResult{}, err
	}
	return SeedCatalog(ctx, db, logg, seed)
}

// SeedCatalog creates colors, phones and their color links, then sets each
// phone's stock with reserved reset to zero. Phones already present (by brand
// and model) are kept as they are; only their stock row is rewritten.
func SeedCatalog(ctx context.Context, db *gorm.DB, logg *logger.Logger, seed *CatalogSeed) (SeedResult, error) {
	var res SeedResult
	if seed == nil || len(seed.Phones) == 0 {
		return res, nil
	}
	log := logg.With("service", "CatalogSeed")

	phones := make([]*catalog.Phone, 0, len(seed.Phones))
	var codes []string
	for i, ps := range seed.Phones {
		p, err := ps.toPhone()
		if err != nil {
			return res, fmt.Errorf("phone %d (%s %s): %w", i, ps.Brand, ps.Model, err)
		}
		phones = append(phones, p)
		codes = append(codes, ps.Colors...)
	}

	colorRepo := repos.NewColorRepo(db, logg)
	phoneRepo := repos.NewPhoneRepo(db, logg)
	stockRepo := repos.NewStockRepo(db, logg)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		res = SeedResult{}

		byCode, err := colorRepo.EnsureCodes(dbc, codes)
		if err != nil {
			return err
		}

		stockRows := make([]*stock.Stock, 0, len(phones))
		for i, p := range phones {
			existing, err := phoneRepo.GetByBrandModel(dbc, p.Brand, p.Model)
			if err != nil {
				return err
			}
			if existing != nil {
				p = existing
				res.PhonesKept++
			} else {
				for _, code := range seed.Phones[i].Colors {
					if c, ok := byCode[strings.TrimSpace(code)]; ok && !p.HasColor(c.ID) {
						p.Colors = append(p.Colors, *c)
					}
				}
				if _, err := phoneRepo.Create(dbc, []*catalog.Phone{p}); err != nil {
					return err
				}
				res.PhonesCreated++
			}
			stockRows = append(stockRows, &stock.Stock{PhoneID: p.ID, Stock: seed.Phones[i].Stock})
		}
		if err := stockRepo.Upsert(dbc, stockRows); err != nil {
			return err
		}
		res.StockRows = len(stockRows)
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	log.Info("catalog seeded", "created", res.PhonesCreated, "kept", res.PhonesKept, "stock_rows", res.StockRows)
	return res, nil
}

func (ps PhoneSeed) toPhone() (*catalog.Phone, error) {
	brand := strings.TrimSpace(ps.Brand)
	model := strings.TrimSpace(ps.Model)
	if brand == "" || model == "" {
		return nil, fmt.Errorf("brand and model are required")
	}
	if ps.Stock < 0 {
		return nil, fmt.Errorf("stock must be >= 0, got %d", ps.Stock)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(ps.Price))
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	p := &catalog.Phone{
		Brand:              brand,
		Model:              model,
		Price:              price,
		WeightGr:           positiveInt(ps.WeightGr),
		DeviceType:         ps.DeviceType,
		OS:                 ps.OS,
		DisplayResolution:  ps.DisplayResolution,
		PixelDensity:       positiveInt(ps.PixelDensity),
		DisplayTechnology:  ps.DisplayTechnology,
		BatteryCapacityMah: positiveInt(ps.BatteryCapacityMah),
		Bluetooth:          ps.Bluetooth,
		ImageURL:           ps.ImageURL,
		Description:        ps.Description,
	}
	decimals := []struct {
		name string
		raw  string
		dst  *decimal.NullDecimal
	}{
		{"display_size_inches", ps.DisplaySizeInches, &p.DisplaySizeInches},
		{"length_mm", ps.LengthMm, &p.LengthMm},
		{"width_mm", ps.WidthMm, &p.WidthMm},
		{"height_mm", ps.HeightMm, &p.HeightMm},
		{"back_camera_megapixels", ps.BackCameraMpx, &p.BackCameraMpx},
		{"front_camera_megapixels", ps.FrontCameraMpx, &p.FrontCameraMpx},
		{"ram_gb", ps.RAMGb, &p.RAMGb},
		{"internal_storage_gb", ps.InternalStorageGb, &p.InternalStorageGb},
		{"talk_time_hours", ps.TalkTimeHours, &p.TalkTimeHours},
		{"stand_by_time_hours", ps.StandByTimeHours, &p.StandByTimeHours},
	}
	for _, d := range decimals {
		raw := strings.TrimSpace(d.raw)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = decimal.NewNullDecimal(v)
	}
	if raw := strings.TrimSpace(ps.Announced); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("announced: %w", err)
		}
		d := datatypes.Date(t)
		p.Announced = &d
	}
	return p, nil
}

// positiveInt copies an optional integer spec; zero or negative means unknown.
func positiveInt(v *int) *int {
	if n := pointers.Deref(v); n > 0 {
		return pointers.Int(n)
	}
	return nil
}
