package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by gorm-backed repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Transaction runs fn with a Base scoped to a single transaction. The
// transaction rolls back when fn returns an error.
func (b Base) Transaction(ctx context.Context, fn func(tx Base) error) error {
	return b.DB(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Base{db: tx})
	})
}

// Window bounds a listing query. Non-positive or oversized limits fall
// back to def.
func Window(limit, def, max int) func(*gorm.DB) *gorm.DB {
	if limit <= 0 || limit > max {
		limit = def
	}
	return func(q *gorm.DB) *gorm.DB {
		return q.Limit(limit)
	}
}

// NewestFirst orders by creation time, newest first.
func NewestFirst(q *gorm.DB) *gorm.DB {
	return q.Order("created_at DESC")
}
