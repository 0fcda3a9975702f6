package dbctx

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/brandstorm-backend/internal/platform/ctxutil"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Background is a Context with no transaction and a background ctx.
func Background() Context {
	return Context{Ctx: context.Background()}
}

// Context returns Ctx, or context.Background() when unset.
func (c Context) Context() context.Context {
	return ctxutil.Default(c.Ctx)
}

// DB picks the transaction when one is attached, otherwise fallback,
// bound to the request context either way.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	db := c.Tx
	if db == nil {
		db = fallback
	}
	return db.WithContext(c.Context())
}

// WithTx returns a copy of c bound to tx.
func (c Context) WithTx(tx *gorm.DB) Context {
	return Context{Ctx: c.Ctx, Tx: tx}
}
