package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vegthaliclub/catering-backend/pkg/config"
)

type dish struct {
	ID   int
	Name string
}

func openSQLite(t *testing.T) *Client {
	t.Helper()
	cfg := config.DBConfig{Driver: config.DBDriverSQLite, DSN: "file:" + filepath.Join(t.TempDir(), "catering.db"), MaxOpenConns: 1}
	client, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(&dish{}))
	return client
}

func countDishes(t *testing.T, c *Client) int64 {
	t.Helper()
	var n int64
	require.NoError(t, c.DB().Model(&dish{}).Count(&n).Error)
	return n
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	client := openSQLite(t)
	require.NoError(t, client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&dish{Name: "paneer tikka"}).Error
	}))
	assert.Equal(t, int64(1), countDishes(t, client))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := openSQLite(t)
	boom := errors.New("boom")
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		require.NoError(t, tx.Create(&dish{Name: "dal makhani"}).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, countDishes(t, client))
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	client := openSQLite(t)
	assert.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			require.NoError(t, tx.Create(&dish{Name: "aloo gobi"}).Error)
			panic("kitchen fire")
		})
	})
	assert.Zero(t, countDishes(t, client))
}

func TestPingAndDriver(t *testing.T) {
	client := openSQLite(t)
	assert.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, config.DBDriverSQLite, client.Driver())

	sqlDB, err := client.SQLDB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: config.DBDriverSQLite}, nil)
	assert.Error(t, err)
	_, err = New(context.Background(), config.DBConfig{Driver: "oracle", DSN: "x"}, nil)
	assert.ErrorContains(t, err, "unsupported")
}
