package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type note struct {
	ID        uint
	Body      string
	CreatedAt time.Time
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "base.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&note{}))
	return conn
}

func TestBaseDBBindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx.Statement)
	require.Equal(t, ctx, withCtx.Statement.Context)

	//nolint:staticcheck // nil context returns the raw connection
	require.Same(t, db, base.DB(nil))
}

func TestTransactionCommitsAndRollsBack(t *testing.T) {
	ctx := context.Background()
	base := NewBase(newTestDB(t))

	require.NoError(t, base.Transaction(ctx, func(tx Base) error {
		return tx.DB(ctx).Create(&note{Body: "kept"}).Error
	}))

	boom := errors.New("boom")
	err := base.Transaction(ctx, func(tx Base) error {
		if err := tx.DB(ctx).Create(&note{Body: "dropped"}).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var bodies []string
	require.NoError(t, base.DB(ctx).Model(&note{}).Pluck("body", &bodies).Error)
	require.Equal(t, []string{"kept"}, bodies)
}

func TestListingScopes(t *testing.T) {
	ctx := context.Background()
	base := NewBase(newTestDB(t))
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, body := range []string{"first", "second", "third"} {
		require.NoError(t, base.DB(ctx).Create(&note{Body: body, CreatedAt: start.Add(time.Duration(i) * time.Minute)}).Error)
	}

	var newest []note
	require.NoError(t, base.DB(ctx).Scopes(NewestFirst, Window(2, 10, 50)).Find(&newest).Error)
	require.Len(t, newest, 2)
	require.Equal(t, "third", newest[0].Body)

	var fallback []note
	require.NoError(t, base.DB(ctx).Scopes(Window(500, 1, 50)).Find(&fallback).Error)
	require.Len(t, fallback, 1)
}
