package wizard

import (
	"github.com/shopspring/decimal"

	"github.com/vegthaliclub/catering-backend/internal/catalog"
	"github.com/vegthaliclub/catering-backend/pkg/enums"
)

// Options carries the per-deployment quantity floors.
type Options struct {
	// MinPartySize is the smallest accepted head count; values below 1 mean no minimum.
	MinPartySize int
	MinWeightKg  decimal.Decimal
	// DefaultWeightKg seeds per-weight sessions.
	DefaultWeightKg decimal.Decimal
}

// DefaultOptions mirrors the floors used by the site.
func DefaultOptions() Options {
	return Options{
		MinPartySize:    15,
		MinWeightKg:     decimal.RequireFromString("0.5"),
		DefaultWeightKg: decimal.NewFromInt(1),
	}
}

// Machine applies wizard transitions. Out-of-bound operations return the
// session unchanged rather than failing.
type Machine struct {
	opts Options
}

// NewMachine normalizes the options and returns a Machine.
func NewMachine(opts Options) Machine {
	if opts.MinPartySize < 1 {
		opts.MinPartySize = 1
	}
	if !opts.MinWeightKg.IsPositive() {
		opts.MinWeightKg = decimal.RequireFromString("0.5")
	}
	if opts.DefaultWeightKg.LessThan(opts.MinWeightKg) {
		opts.DefaultWeightKg = opts.MinWeightKg
	}
	return Machine{opts: opts}
}

// Options returns the normalized options.
func (m Machine) Options() Options {
	return m.opts
}

// Open starts a fresh session for pkg.
func (m Machine) Open(pkg catalog.Package) Session {
	return Session{
		Package:     pkg,
		CurrentStep: 1,
		Selections:  map[int][]string{},
		Quantity:    m.DefaultQuantity(pkg.PricingModel),
	}
}

// DefaultQuantity is the minimum valid quantity for a pricing model.
func (m Machine) DefaultQuantity(model enums.PricingModel) Quantity {
	if model == enums.PricingModelPerWeight {
		return Weight{Kg: m.opts.DefaultWeightKg}
	}
	return PartySize{People: m.opts.MinPartySize}
}

// ToggleChoice removes item if it is selected at step, otherwise adds it while
// the step is below its cap.
func (m Machine) ToggleChoice(s Session, item string, step int) Session {
	def, ok := s.Package.Step(step)
	if !ok || def.Kind != enums.StepKindChoice || !def.HasOption(item) {
		return s
	}
	current := s.Selections[step]
	for i, existing := range current {
		if existing == item {
			out := s.clone()
			kept := make([]string, 0, len(current)-1)
			kept = append(kept, current[:i]...)
			kept = append(kept, current[i+1:]...)
			if len(kept) == 0 {
				delete(out.Selections, step)
			} else {
				out.Selections[step] = kept
			}
			return out
		}
	}
	if len(current) >= def.MaxSelections {
		return s
	}
	out := s.clone()
	out.Selections[step] = append(out.Selections[step], item)
	return out
}

// SelectBread replaces the selection at a bread step with item.
func (m Machine) SelectBread(s Session, item string, step int) Session {
	def, ok := s.Package.Step(step)
	if !ok || def.Kind != enums.StepKindBreadChoice || !def.HasOption(item) {
		return s
	}
	out := s.clone()
	out.Selections[step] = []string{item}
	return out
}

// SetWeight stores kg for per-weight sessions, clamped to the minimum weight.
func (m Machine) SetWeight(s Session, kg decimal.Decimal) Session {
	if s.Package.PricingModel != enums.PricingModelPerWeight {
		return s
	}
	if kg.LessThan(m.opts.MinWeightKg) {
		kg = m.opts.MinWeightKg
	}
	out := s.clone()
	out.Quantity = Weight{Kg: kg}
	return out
}

// SetPartySize stores the head count for per-person sessions, clamped to the minimum.
func (m Machine) SetPartySize(s Session, people int) Session {
	if s.Package.PricingModel != enums.PricingModelPerPerson {
		return s
	}
	if people < m.opts.MinPartySize {
		people = m.opts.MinPartySize
	}
	out := s.clone()
	out.Quantity = PartySize{People: people}
	return out
}

// SetAddOn toggles the serviceware add-on on per-person sessions.
func (m Machine) SetAddOn(s Session, include bool) Session {
	if s.Package.PricingModel != enums.PricingModelPerPerson {
		return s
	}
	out := s.clone()
	out.IncludeAddOn = include
	return out
}

// UpdateContact replaces the contact form.
func (m Machine) UpdateContact(s Session, form ContactForm) Session {
	out := s.clone()
	out.Contact = form
	return out
}

// CanAdvance reports whether the completion predicate of step holds.
func (m Machine) CanAdvance(s Session, step int) bool {
	def, ok := s.Package.Step(step)
	if !ok {
		return false
	}
	count := len(s.Selections[step])
	switch def.Kind {
	case enums.StepKindChoice:
		return count == def.MaxSelections
	case enums.StepKindBreadChoice:
		return count >= 1
	case enums.StepKindWeightInput:
		return s.Quantity != nil && s.Quantity.IsPositive()
	default:
		return false
	}
}

// Advance moves to the next step, or to the summary after the last step.
// It does nothing on an incomplete step, at the summary, or in checkout.
func (m Machine) Advance(s Session) Session {
	if s.CheckoutReached || s.CurrentStep > len(s.Package.Steps) {
		return s
	}
	if !m.CanAdvance(s, s.CurrentStep) {
		return s
	}
	out := s.clone()
	out.CurrentStep++
	return out
}

// Retreat leaves checkout for the summary, otherwise steps back (floored at 1).
// Backward navigation ignores completion.
func (m Machine) Retreat(s Session) Session {
	out := s.clone()
	if s.CheckoutReached {
		out.CheckoutReached = false
		return out
	}
	if out.CurrentStep > 1 {
		out.CurrentStep--
	}
	return out
}

// EnterCheckout is only valid from the summary pseudo-step.
func (m Machine) EnterCheckout(s Session) Session {
	if s.Stage() != StageSummary {
		return s
	}
	out := s.clone()
	out.CheckoutReached = true
	return out
}
