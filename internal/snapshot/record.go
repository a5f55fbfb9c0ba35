package snapshot

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vegthaliclub/catering-backend/internal/catalog"
	"github.com/vegthaliclub/catering-backend/internal/wizard"
	"github.com/vegthaliclub/catering-backend/pkg/enums"
)

// Record is the serialized form of a wizard session. The package is stored by name.
type Record struct {
	PackageName     string             `json:"selected_package_name"`
	CurrentStep     int                `json:"current_step"`
	Selections      map[int][]string   `json:"step_selections"`
	IncludeAddOn    bool               `json:"include_add_on"`
	PartySize       *int               `json:"party_size,omitempty"`
	WeightKg        *decimal.Decimal   `json:"weight_kg,omitempty"`
	Contact         wizard.ContactForm `json:"form"`
	CheckoutReached bool               `json:"show_checkout"`
	SavedAt         time.Time          `json:"saved_at"`
}

// FromSession captures a session as a Record.
func FromSession(s wizard.Session, now time.Time) Record {
	rec := Record{
		PackageName:     s.Package.Name,
		CurrentStep:     s.CurrentStep,
		Selections:      make(map[int][]string, len(s.Selections)),
		IncludeAddOn:    s.IncludeAddOn,
		Contact:         s.Contact,
		CheckoutReached: s.CheckoutReached,
		SavedAt:         now.UTC(),
	}
	for step, items := range s.Selections {
		rec.Selections[step] = append([]string(nil), items...)
	}
	if people, ok := s.PartySize(); ok {
		rec.PartySize = &people
	}
	if kg, ok := s.WeightKg(); ok {
		rec.WeightKg = &kg
	}
	return rec
}

// Restore rebuilds a session from the record. It reports false when the
// named package is no longer in the catalog, leaving the record inert.
// Values that violate the session invariants are dropped or clamped.
func (r Record) Restore(cat *catalog.Catalog, m wizard.Machine) (wizard.Session, bool) {
	pkg, ok := cat.Lookup(r.PackageName)
	if !ok {
		return wizard.Session{}, false
	}

	s := m.Open(pkg)
	s.IncludeAddOn = r.IncludeAddOn && pkg.PricingModel == enums.PricingModelPerPerson
	s.Contact = r.Contact

	for step, items := range r.Selections {
		def, ok := pkg.Step(step)
		if !ok {
			continue
		}
		seen := make(map[string]struct{}, len(items))
		for _, item := range items {
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			switch def.Kind {
			case enums.StepKindChoice:
				s = m.ToggleChoice(s, item, step)
			case enums.StepKindBreadChoice:
				s = m.SelectBread(s, item, step)
			}
		}
	}

	switch pkg.PricingModel {
	case enums.PricingModelPerPerson:
		if r.PartySize != nil {
			s = m.SetPartySize(s, *r.PartySize)
		}
	case enums.PricingModelPerWeight:
		if r.WeightKg != nil {
			s = m.SetWeight(s, *r.WeightKg)
		}
	}

	s.CurrentStep = r.CurrentStep
	if s.CurrentStep < 1 {
		s.CurrentStep = 1
	}
	if s.CurrentStep > pkg.SummaryIndex() {
		s.CurrentStep = pkg.SummaryIndex()
	}
	s.CheckoutReached = r.CheckoutReached && s.CurrentStep == pkg.SummaryIndex()
	return s, true
}
