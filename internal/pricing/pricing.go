package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vegthaliclub/catering-backend/internal/catalog"
	"github.com/vegthaliclub/catering-backend/internal/wizard"
	"github.com/vegthaliclub/catering-backend/pkg/enums"
)

const moneyPlaces = 2

// Policy is the per-deployment pricing configuration.
type Policy struct {
	// AddOnFee is the per-person serviceware surcharge.
	AddOnFee decimal.Decimal
	// TaxRate applies to per-person orders; zero disables the tax line.
	TaxRate decimal.Decimal
}

// Quotation is the derived price of a session. All amounts are rounded to cents.
type Quotation struct {
	Model      enums.PricingModel `json:"pricing_model"`
	UnitPrice  decimal.Decimal    `json:"unit_price"`
	PerUnit    decimal.Decimal    `json:"per_unit"`
	Quantity   decimal.Decimal    `json:"quantity"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	Tax        decimal.Decimal    `json:"tax"`
	TaxRate    decimal.Decimal    `json:"tax_rate"`
	HasTax     bool               `json:"has_tax"`
	GrandTotal decimal.Decimal    `json:"grand_total"`
}

// Validate rejects negative fees and rates.
func (p Policy) Validate() error {
	if p.AddOnFee.IsNegative() {
		return fmt.Errorf("add-on fee must not be negative")
	}
	if p.TaxRate.IsNegative() {
		return fmt.Errorf("tax rate must not be negative")
	}
	return nil
}

// PerUnit is the per-person price including the add-on when selected.
func (p Policy) PerUnit(pkg catalog.Package, includeAddOn bool) decimal.Decimal {
	if includeAddOn && pkg.PricingModel == enums.PricingModelPerPerson {
		return pkg.UnitPrice.Add(p.AddOnFee)
	}
	return pkg.UnitPrice
}

// Quote prices a session. A quantity that does not match the package's model
// prices as zero.
func (p Policy) Quote(s wizard.Session) Quotation {
	pkg := s.Package
	q := Quotation{
		Model:      pkg.PricingModel,
		UnitPrice:  pkg.UnitPrice,
		PerUnit:    p.PerUnit(pkg, s.IncludeAddOn),
		Quantity:   decimal.Zero,
		Subtotal:   decimal.Zero,
		Tax:        decimal.Zero,
		TaxRate:    decimal.Zero,
		GrandTotal: decimal.Zero,
	}

	switch pkg.PricingModel {
	case enums.PricingModelPerPerson:
		if people, ok := s.PartySize(); ok {
			q.Quantity = decimal.NewFromInt(int64(people))
		}
		q.Subtotal = q.PerUnit.Mul(q.Quantity).Round(moneyPlaces)
		if p.TaxRate.IsPositive() {
			q.HasTax = true
			q.TaxRate = p.TaxRate
			q.Tax = q.Subtotal.Mul(p.TaxRate).Round(moneyPlaces)
		}
		q.GrandTotal = q.Subtotal.Add(q.Tax)
	case enums.PricingModelPerWeight:
		if kg, ok := s.WeightKg(); ok {
			q.Quantity = kg
		}
		q.Subtotal = pkg.UnitPrice.Mul(q.Quantity).Round(moneyPlaces)
		q.GrandTotal = q.Subtotal
	default:
		panic(fmt.Sprintf("pricing: unhandled pricing model %q", pkg.PricingModel))
	}
	return q
}

// Format renders a money amount with two decimal places.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(moneyPlaces)
}
