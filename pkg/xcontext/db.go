package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type txHolder struct {
	tx   *gorm.DB
	done bool
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the transaction bound to ctx if it is still open, otherwise the
// plain database handle.
func DB(ctx context.Context) *gorm.DB {
	if h, ok := ctx.Value(dbTxKey{}).(*txHolder); ok && !h.done {
		return h.tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("not found database in context")
	}

	return db.WithContext(ctx)
}

// WithDBTransaction begins a transaction and binds it to the returned
// context.
func WithDBTransaction(ctx context.Context) context.Context {
	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("not found database in context")
	}

	return context.WithValue(ctx, dbTxKey{}, &txHolder{tx: db.WithContext(ctx).Begin()})
}

// WithCommitDBTransaction commits the transaction bound to ctx.
func WithCommitDBTransaction(ctx context.Context) error {
	h, ok := ctx.Value(dbTxKey{}).(*txHolder)
	if !ok || h.done {
		return nil
	}

	h.done = true
	return h.tx.Commit().Error
}

// WithRollbackDBTransaction rolls back the transaction bound to ctx unless it
// was committed. It is safe to defer right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) {
	h, ok := ctx.Value(dbTxKey{}).(*txHolder)
	if !ok || h.done {
		return
	}

	h.done = true
	h.tx.Rollback()
}
