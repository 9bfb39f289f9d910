package dbctx

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/phoneshop-backend/internal/pkg/ctxutil"
)

// Context carries the request context and, inside a write, the open transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// DB returns the transaction when set, else fallback, bound to Ctx.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	db := c.Tx
	if db == nil {
		db = fallback
	}
	return db.WithContext(ctxutil.Default(c.Ctx))
}
