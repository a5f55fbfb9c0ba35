package wizard

import (
	"github.com/shopspring/decimal"

	"github.com/vegthaliclub/catering-backend/internal/catalog"
	"github.com/vegthaliclub/catering-backend/pkg/enums"
)

// Stage is the coarse state of an open session.
type Stage string

const (
	StageConfiguring Stage = "configuring"
	StageSummary     Stage = "summary"
	StageCheckout    Stage = "checkout"
)

// Quantity is either a PartySize or a Weight, matching the package's pricing model.
type Quantity interface {
	Model() enums.PricingModel
	IsPositive() bool
	quantity()
}

// PartySize is the head count of a per-person order.
type PartySize struct {
	People int
}

func (PartySize) Model() enums.PricingModel { return enums.PricingModelPerPerson }

func (p PartySize) IsPositive() bool { return p.People > 0 }

func (PartySize) quantity() {}

// Weight is the ordered quantity of a per-weight order.
type Weight struct {
	Kg decimal.Decimal
}

func (Weight) Model() enums.PricingModel { return enums.PricingModelPerWeight }

func (w Weight) IsPositive() bool { return w.Kg.IsPositive() }

func (Weight) quantity() {}

// ContactForm holds the customer's details. It is only validated on submission.
type ContactForm struct {
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	EventType string `json:"event_type"`
	Date      string `json:"date"`
	Message   string `json:"message"`
}

// Session is one client's in-progress order. Values are treated as immutable:
// every transition returns a new Session.
type Session struct {
	Package         catalog.Package
	CurrentStep     int
	Selections      map[int][]string
	IncludeAddOn    bool
	Quantity        Quantity
	Contact         ContactForm
	CheckoutReached bool
}

// Stage derives the state machine position of the session.
func (s Session) Stage() Stage {
	switch {
	case s.CheckoutReached:
		return StageCheckout
	case s.CurrentStep > len(s.Package.Steps):
		return StageSummary
	default:
		return StageConfiguring
	}
}

// SelectionsAt returns the items chosen at a step in insertion order.
func (s Session) SelectionsAt(step int) []string {
	return append([]string(nil), s.Selections[step]...)
}

// PartySize returns the head count for per-person sessions.
func (s Session) PartySize() (int, bool) {
	p, ok := s.Quantity.(PartySize)
	return p.People, ok
}

// WeightKg returns the weight for per-weight sessions.
func (s Session) WeightKg() (decimal.Decimal, bool) {
	w, ok := s.Quantity.(Weight)
	return w.Kg, ok
}

func (s Session) clone() Session {
	out := s
	out.Selections = make(map[int][]string, len(s.Selections))
	for step, items := range s.Selections {
		out.Selections[step] = append([]string(nil), items...)
	}
	return out
}
