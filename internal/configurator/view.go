package configurator

import (
	"github.com/shopspring/decimal"

	"github.com/vegthaliclub/catering-backend/internal/pricing"
	"github.com/vegthaliclub/catering-backend/internal/wizard"
	"github.com/vegthaliclub/catering-backend/pkg/enums"
)

// StepView is one wizard step with the client's selections.
type StepView struct {
	Index         int            `json:"index"`
	Title         string         `json:"title"`
	Kind          enums.StepKind `json:"kind"`
	MaxSelections int            `json:"max_selections,omitempty"`
	Options       []string       `json:"options,omitempty"`
	Selections    []string       `json:"selections"`
	Complete      bool           `json:"complete"`
	Current       bool           `json:"current"`
}

// View is the derived state returned after every configurator call.
// Open is false when the client has no order in progress.
type View struct {
	Open          bool                `json:"open"`
	Package       string              `json:"package,omitempty"`
	PricingModel  enums.PricingModel  `json:"pricing_model,omitempty"`
	IncludedItems []string            `json:"included_items,omitempty"`
	Stage         wizard.Stage        `json:"stage,omitempty"`
	CurrentStep   int                 `json:"current_step,omitempty"`
	TotalSteps    int                 `json:"total_steps,omitempty"`
	Steps         []StepView          `json:"steps,omitempty"`
	CanAdvance    bool                `json:"can_advance"`
	PartySize     *int                `json:"party_size,omitempty"`
	WeightKg      *decimal.Decimal    `json:"weight_kg,omitempty"`
	IncludeAddOn  bool                `json:"include_add_on"`
	AddOnFee      *decimal.Decimal    `json:"add_on_fee,omitempty"`
	Contact       *wizard.ContactForm `json:"contact,omitempty"`
	Quote         *pricing.Quotation  `json:"quote,omitempty"`
}

func closedView() View {
	return View{}
}

func buildView(m wizard.Machine, policy pricing.Policy, s wizard.Session) View {
	pkg := s.Package
	v := View{
		Open:          true,
		Package:       pkg.Name,
		PricingModel:  pkg.PricingModel,
		IncludedItems: append([]string(nil), pkg.IncludedItems...),
		Stage:         s.Stage(),
		CurrentStep:   s.CurrentStep,
		TotalSteps:    len(pkg.Steps),
		Steps:         make([]StepView, 0, len(pkg.Steps)),
		IncludeAddOn:  s.IncludeAddOn,
	}
	for i, def := range pkg.Steps {
		index := i + 1
		v.Steps = append(v.Steps, StepView{
			Index:         index,
			Title:         def.Title,
			Kind:          def.Kind,
			MaxSelections: def.MaxSelections,
			Options:       append([]string(nil), def.Options...),
			Selections:    append([]string{}, s.SelectionsAt(index)...),
			Complete:      m.CanAdvance(s, index),
			Current:       index == s.CurrentStep && !s.CheckoutReached,
		})
	}
	if v.Stage == wizard.StageConfiguring {
		v.CanAdvance = m.CanAdvance(s, s.CurrentStep)
	}
	if people, ok := s.PartySize(); ok {
		v.PartySize = &people
	}
	if kg, ok := s.WeightKg(); ok {
		v.WeightKg = &kg
	}
	if pkg.PricingModel == enums.PricingModelPerPerson {
		fee := policy.AddOnFee
		v.AddOnFee = &fee
	}
	contact := s.Contact
	v.Contact = &contact
	quote := policy.Quote(s)
	v.Quote = &quote
	return v
}
