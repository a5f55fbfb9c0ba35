package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vegthaliclub/catering-backend/pkg/enums"
)

// Request kinds recorded in catering_requests.
const (
	RequestKindCatering = "catering"
	RequestKindContact  = "contact"
)

// CateringRequest logs one relayed email and its delivery outcome.
type CateringRequest struct {
	ID            uuid.UUID                   `gorm:"column:id;primaryKey"`
	Kind          string                      `gorm:"column:kind;not null;default:'catering'"`
	PackageName   string                      `gorm:"column:package_name"`
	PricingModel  string                      `gorm:"column:pricing_model"`
	CustomerName  string                      `gorm:"column:customer_name"`
	CustomerEmail string                      `gorm:"column:customer_email"`
	EventDate     string                      `gorm:"column:event_date"`
	GrandTotal    decimal.Decimal             `gorm:"column:grand_total"`
	Status        enums.CateringRequestStatus `gorm:"column:status;not null;default:'pending'"`
	Transport     string                      `gorm:"column:transport"`
	Error         string                      `gorm:"column:error"`
	Payload       string                      `gorm:"column:payload"`
	CreatedAt     time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (CateringRequest) TableName() string { return "catering_requests" }
