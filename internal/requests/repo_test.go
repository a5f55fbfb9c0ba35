package requests

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vegthaliclub/catering-backend/pkg/db/models"
	"github.com/vegthaliclub/catering-backend/pkg/enums"
	"github.com/vegthaliclub/catering-backend/pkg/migrate"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "requests.db")), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.Run(context.Background(), sqlDB, "sqlite", migrate.EmbeddedDir, "up"))
	return NewRepository(conn)
}

func TestCreateAndUpdateStatus(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	row := &models.CateringRequest{
		Kind:          models.RequestKindCatering,
		PackageName:   "Vegetarian",
		PricingModel:  enums.PricingModelPerPerson.String(),
		CustomerName:  "Asha Patel",
		CustomerEmail: "asha@example.com",
		EventDate:     "2026-11-02",
		GrandTotal:    decimal.RequireFromString("287.98"),
		Payload:       `{"package_name":"Vegetarian"}`,
	}
	require.NoError(t, r.Create(ctx, row))
	require.NotEqual(t, uuid.Nil, row.ID)

	got, err := r.FindByID(ctx, row.ID)
	require.NoError(t, err)
	require.Equal(t, enums.CateringRequestStatusPending, got.Status)
	require.True(t, got.GrandTotal.Equal(decimal.RequireFromString("287.98")))

	require.NoError(t, r.UpdateStatus(ctx, row.ID, enums.CateringRequestStatusFailed, "fallback", "auth rejected"))
	got, err = r.FindByID(ctx, row.ID)
	require.NoError(t, err)
	require.Equal(t, enums.CateringRequestStatusFailed, got.Status)
	require.Equal(t, "fallback", got.Transport)
	require.Equal(t, "auth rejected", got.Error)

	failed, err := r.Recent(ctx, enums.CateringRequestStatusFailed, 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	sent, err := r.Recent(ctx, enums.CateringRequestStatusSent, 10)
	require.NoError(t, err)
	require.Empty(t, sent)
}

func TestUpdateStatusErrors(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	require.ErrorIs(t, r.UpdateStatus(ctx, uuid.New(), enums.CateringRequestStatusSent, "primary", ""), ErrNotFound)
	require.Error(t, r.UpdateStatus(ctx, uuid.New(), "bounced", "primary", ""))

	_, err := r.FindByID(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOlderThanKeepsPendingAndRecent(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	rows := []*models.CateringRequest{
		{Kind: models.RequestKindCatering, Status: enums.CateringRequestStatusSent, CreatedAt: now.AddDate(0, 0, -120)},
		{Kind: models.RequestKindContact, Status: enums.CateringRequestStatusFailed, CreatedAt: now.AddDate(0, 0, -100)},
		{Kind: models.RequestKindCatering, Status: enums.CateringRequestStatusPending, CreatedAt: now.AddDate(0, 0, -100)},
		{Kind: models.RequestKindCatering, Status: enums.CateringRequestStatusSent, CreatedAt: now.AddDate(0, 0, -5)},
	}
	for _, row := range rows {
		require.NoError(t, r.Create(ctx, row))
	}

	deleted, err := r.DeleteOlderThan(ctx, now.AddDate(0, 0, -90))
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	left, err := r.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, left, 2)
	ids := []uuid.UUID{left[0].ID, left[1].ID}
	require.ElementsMatch(t, []uuid.UUID{rows[2].ID, rows[3].ID}, ids)
}
