package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vegthaliclub/catering-backend/internal/repo"
	"github.com/vegthaliclub/catering-backend/pkg/db/models"
	"github.com/vegthaliclub/catering-backend/pkg/enums"
)

// ErrNotFound is returned when no request log row matches.
var ErrNotFound = errors.New("catering request not found")

// Repository persists the relay request log.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a pending row, assigning an id when missing.
func (r *Repository) Create(ctx context.Context, req *models.CateringRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = enums.CateringRequestStatusPending
	}
	if !req.Status.IsValid() {
		return fmt.Errorf("invalid status %q", req.Status)
	}
	return r.DB(ctx).Create(req).Error
}

// UpdateStatus records the delivery outcome of a request.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CateringRequestStatus, transport, errMsg string) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status %q", status)
	}
	res := r.DB(ctx).Model(&models.CateringRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    status,
			"transport": transport,
			"error":     errMsg,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CateringRequest, error) {
	var row models.CateringRequest
	err := r.DB(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Recent lists the newest requests first, optionally filtered by status.
func (r *Repository) Recent(ctx context.Context, status enums.CateringRequestStatus, limit int) ([]models.CateringRequest, error) {
	q := r.DB(ctx).Model(&models.CateringRequest{}).Scopes(repo.NewestFirst, repo.Window(limit, 20, 100))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []models.CateringRequest
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteOlderThan prunes settled rows created before cutoff. Pending rows are
// kept so an in-flight delivery can still record its outcome.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.Transaction(ctx, func(tx repo.Base) error {
		res := tx.DB(ctx).
			Where("created_at < ? AND status <> ?", cutoff.UTC(), enums.CateringRequestStatusPending).
			Delete(&models.CateringRequest{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("prune request log: %w", err)
	}
	return deleted, nil
}
