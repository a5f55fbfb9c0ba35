package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/vegthaliclub/catering-backend/internal/pricing"
	"github.com/vegthaliclub/catering-backend/internal/wizard"
	"github.com/vegthaliclub/catering-backend/pkg/enums"
	pkgerrors "github.com/vegthaliclub/catering-backend/pkg/errors"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
	"github.com/vegthaliclub/catering-backend/pkg/metrics"
	"github.com/vegthaliclub/catering-backend/pkg/types"
)

// Customer-facing messages.
const (
	MsgMissingPartySize = "Please fill in Full Name, Phone, Email, Date and Party Size."
	MsgMissingWeight    = "Please fill in Full Name, Phone, Email, Date and Weight."
	MsgFailed           = "Failed to send. Please try again."
	MsgBusy             = "Your request is already being sent."
)

type contactFields struct {
	FullName string `validate:"required"`
	Phone    string `validate:"required"`
	Email    string `validate:"required,email"`
	Date     string `validate:"required"`
}

// Gateway validates a session, builds the relay payload and makes exactly
// one relay call per accepted submission.
type Gateway struct {
	relay    RelayClient
	policy   pricing.Policy
	minParty int
	validate *validator.Validate
	logg     *logger.Logger
	metrics  *metrics.CateringMetrics

	mu   sync.Mutex
	busy map[string]struct{}
}

type Params struct {
	Relay        RelayClient
	Policy       pricing.Policy
	MinPartySize int
	Logger       *logger.Logger
	Metrics      *metrics.CateringMetrics
}

func NewGateway(p Params) (*Gateway, error) {
	if p.Relay == nil {
		return nil, errors.New("relay client is required")
	}
	if p.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if err := p.Policy.Validate(); err != nil {
		return nil, err
	}
	if p.MinPartySize < 1 {
		p.MinPartySize = 1
	}
	return &Gateway{
		relay:    p.Relay,
		policy:   p.Policy,
		minParty: p.MinPartySize,
		validate: validator.New(),
		logg:     p.Logger,
		metrics:  p.Metrics,
		busy:     map[string]struct{}{},
	}, nil
}

// Validate checks the contact form and quantity without any network access.
func (g *Gateway) Validate(s wizard.Session) error {
	msg := MsgMissingPartySize
	if s.Package.PricingModel == enums.PricingModelPerWeight {
		msg = MsgMissingWeight
	}

	fields := contactFields{
		FullName: strings.TrimSpace(s.Contact.FullName),
		Phone:    strings.TrimSpace(s.Contact.Phone),
		Email:    strings.TrimSpace(s.Contact.Email),
		Date:     strings.TrimSpace(s.Contact.Date),
	}
	if err := g.validate.Struct(fields); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(fieldNames(err))
	}

	switch s.Package.PricingModel {
	case enums.PricingModelPerPerson:
		if people, ok := s.PartySize(); !ok || people < g.minParty {
			return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails([]string{"party_size"})
		}
	case enums.PricingModelPerWeight:
		if kg, ok := s.WeightKg(); !ok || !kg.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails([]string{"weight_kg"})
		}
	default:
		return pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported pricing model %q", s.Package.PricingModel)
	}
	return nil
}

// BuildRequest serializes the session and its quotation for the relay.
func (g *Gateway) BuildRequest(s wizard.Session) types.CateringRequest {
	pkg := s.Package
	quote := g.policy.Quote(s)

	req := types.CateringRequest{
		Package:      pkg.Name,
		PricingModel: pkg.PricingModel,
		UnitPrice:    pkg.UnitPrice,
		BaseItems:    append([]string(nil), pkg.IncludedItems...),
		PerPerson:    quote.PerUnit,
		Subtotal:     quote.Subtotal,
		GrandTotal:   quote.GrandTotal,
		Form: types.OrderContact{
			FullName:  strings.TrimSpace(s.Contact.FullName),
			Phone:     strings.TrimSpace(s.Contact.Phone),
			Email:     strings.TrimSpace(s.Contact.Email),
			EventType: s.Contact.EventType,
			Date:      strings.TrimSpace(s.Contact.Date),
			Message:   s.Contact.Message,
		},
	}
	if pkg.PricingModel == enums.PricingModelPerPerson {
		req.IncludeAddOn = s.IncludeAddOn
		req.AddOnFee = g.policy.AddOnFee
	}
	if quote.HasTax {
		tax, rate := quote.Tax, quote.TaxRate
		req.Tax, req.TaxRate = &tax, &rate
	}
	if people, ok := s.PartySize(); ok {
		req.Form.PartySize = &people
	}
	if kg, ok := s.WeightKg(); ok {
		req.Form.WeightKg = &kg
	}

	for i, step := range pkg.Steps {
		sel := types.StepSelection{Title: step.Title, Selections: append([]string{}, s.SelectionsAt(i+1)...)}
		if step.Kind == enums.StepKindWeightInput && req.Form.WeightKg != nil {
			sel.Selections = []string{fmt.Sprintf("%s kg", pricing.Format(*req.Form.WeightKg))}
		}
		req.Steps = append(req.Steps, sel)
	}
	return req
}

// Submit validates s and relays it once. Concurrent submissions for the same
// scope are rejected while one is in flight. Relay failures of any kind
// surface as a single generic message.
func (g *Gateway) Submit(ctx context.Context, scope string, s wizard.Session) error {
	if err := g.Validate(s); err != nil {
		g.metrics.Submission(metrics.ResultInvalid)
		return err
	}
	if !g.acquire(scope) {
		return pkgerrors.New(pkgerrors.CodeConflict, MsgBusy)
	}
	defer g.release(scope)

	req := g.BuildRequest(s)
	if err := g.relay.Send(ctx, req); err != nil {
		g.metrics.Submission(metrics.ResultError)
		g.logg.Error(g.logg.WithField(ctx, "package", req.Package), "catering submission failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, MsgFailed)
	}
	g.metrics.Submission(metrics.ResultOK)
	return nil
}

// Busy reports whether a submission for scope is in flight.
func (g *Gateway) Busy(scope string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.busy[scope]
	return ok
}

func (g *Gateway) acquire(scope string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.busy[scope]; ok {
		return false
	}
	g.busy[scope] = struct{}{}
	return true
}

func (g *Gateway) release(scope string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, scope)
}

func fieldNames(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, toSnake(fe.Field()))
	}
	return out
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
