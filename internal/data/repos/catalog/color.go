package catalog

import (
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/phoneshop-backend/internal/domain/catalog"
	"github.com/yungbote/phoneshop-backend/internal/pkg/dbctx"
	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
)

type ColorRepo interface {
	// EnsureCodes returns one color per distinct code, creating the missing ones.
	EnsureCodes(dbc dbctx.Context, codes []string) (map[string]*types.Color, error)
	GetByCodes(dbc dbctx.Context, codes []string) ([]*types.Color, error)
}

type colorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewColorRepo(db *gorm.DB, baseLog *logger.Logger) ColorRepo {
	return &colorRepo{db: db, log: baseLog.With("repo", "ColorRepo")}
}

func (r *colorRepo) GetByCodes(dbc dbctx.Context, codes []string) ([]*types.Color, error) {
	t := dbc.DB(r.db)
	var out []*types.Color
	if len(codes) == 0 {
		return out, nil
	}
	if err := t.Where("code IN ?", codes).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *colorRepo) EnsureCodes(dbc dbctx.Context, codes []string) (map[string]*types.Color, error) {
	t := dbc.DB(r.db)
	wanted := make([]string, 0, len(codes))
	seen := map[string]bool{}
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		wanted = append(wanted, c)
	}
	out := make(map[string]*types.Color, len(wanted))
	if len(wanted) == 0 {
		return out, nil
	}
	existing, err := r.GetByCodes(dbctx.Context{Ctx: dbc.Ctx, Tx: t}, wanted)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		out[c.Code] = c
	}
	var missing []*types.Color
	for _, code := range wanted {
		if _, ok := out[code]; !ok {
			missing = append(missing, &types.Color{Code: code})
		}
	}
	if len(missing) == 0 {
		return out, nil
	}
	if err := t.Create(&missing).Error; err != nil {
		return nil, err
	}
	for _, c := range missing {
		out[c.Code] = c
	}
	r.log.Debug("colors created", "count", len(missing))
	return out, nil
}
