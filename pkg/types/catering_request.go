package types

import (
	"github.com/shopspring/decimal"

	"github.com/vegthaliclub/catering-backend/pkg/enums"
)

// CateringRequest is the body posted to the email relay for one submitted order.
type CateringRequest struct {
	Package      string             `json:"package" validate:"required"`
	PricingModel enums.PricingModel `json:"pricing_model" validate:"required"`
	UnitPrice    decimal.Decimal    `json:"unit_price"`
	BaseItems    []string           `json:"base_items"`
	Steps        []StepSelection    `json:"steps" validate:"dive"`
	IncludeAddOn bool               `json:"include_add_on"`
	AddOnFee     decimal.Decimal    `json:"add_on_fee"`
	PerPerson    decimal.Decimal    `json:"per_person"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Tax          *decimal.Decimal   `json:"tax,omitempty"`
	TaxRate      *decimal.Decimal   `json:"tax_rate,omitempty"`
	GrandTotal   decimal.Decimal    `json:"grand_total"`
	Form         OrderContact       `json:"form"`
}

// IsWeightOrder reports whether the order is priced by weight.
func (r CateringRequest) IsWeightOrder() bool {
	return r.PricingModel == enums.PricingModelPerWeight || (r.Form.WeightKg != nil && r.Form.WeightKg.IsPositive())
}

// StepSelection is one wizard step and what was picked in it.
type StepSelection struct {
	Title      string   `json:"title" validate:"required"`
	Selections []string `json:"selections"`
}

// OrderContact is the customer form plus the order quantity.
type OrderContact struct {
	FullName  string           `json:"full_name" validate:"required,max=120"`
	Phone     string           `json:"phone" validate:"required,max=40"`
	Email     string           `json:"email" validate:"required,email"`
	EventType string           `json:"event_type" validate:"max=200"`
	Date      string           `json:"date" validate:"required,max=64"`
	PartySize *int             `json:"party_size,omitempty" validate:"omitempty,min=1"`
	WeightKg  *decimal.Decimal `json:"weight_kg,omitempty"`
	Message   string           `json:"message" validate:"max=2000"`
}

// ContactRequest is the general contact form submitted from the contact section.
type ContactRequest struct {
	FullName     string `json:"full_name" validate:"required,max=120"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,max=40"`
	DateTime     string `json:"date_time" validate:"required,max=64"`
	People       string `json:"people" validate:"required,max=16"`
	Instructions string `json:"instructions" validate:"required,max=200"`
}
