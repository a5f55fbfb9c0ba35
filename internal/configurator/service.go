package configurator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vegthaliclub/catering-backend/internal/catalog"
	"github.com/vegthaliclub/catering-backend/internal/pricing"
	"github.com/vegthaliclub/catering-backend/internal/snapshot"
	"github.com/vegthaliclub/catering-backend/internal/wizard"
	pkgerrors "github.com/vegthaliclub/catering-backend/pkg/errors"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
	"github.com/vegthaliclub/catering-backend/pkg/metrics"
)

const defaultIdleTTL = 2 * time.Hour

var (
	errNoOrder     = pkgerrors.New(pkgerrors.CodeNotFound, "no order in progress")
	errNotCheckout = pkgerrors.New(pkgerrors.CodeStateConflict, "review your order before submitting")
	errUnknownStep = pkgerrors.New(pkgerrors.CodeValidation, "unknown step")
)

// Service drives one wizard session per client. Calls for the same client
// are serialized; different clients never block each other.
type Service interface {
	Current(ctx context.Context, client string) (View, error)
	Open(ctx context.Context, client, pkg string) (View, error)
	Close(ctx context.Context, client string) (View, error)
	Toggle(ctx context.Context, client string, step int, item string) (View, error)
	SelectBread(ctx context.Context, client string, step int, item string) (View, error)
	SetWeight(ctx context.Context, client string, kg decimal.Decimal) (View, error)
	SetPartySize(ctx context.Context, client string, people int) (View, error)
	SetAddOn(ctx context.Context, client string, include bool) (View, error)
	UpdateContact(ctx context.Context, client string, form wizard.ContactForm) (View, error)
	Next(ctx context.Context, client string) (View, error)
	Back(ctx context.Context, client string) (View, error)
	Checkout(ctx context.Context, client string) (View, error)
	Submit(ctx context.Context, client string) (View, error)
	EvictIdle(ctx context.Context) (int, error)
}

// SnapshotStore persists sessions between requests. Implemented by snapshot.Writer.
type SnapshotStore interface {
	Save(ctx context.Context, scope string, rec snapshot.Record)
	Load(ctx context.Context, scope string) (snapshot.Record, bool)
	Clear(ctx context.Context, scope string) error
}

// Submitter relays a finished session. Implemented by submission.Gateway.
type Submitter interface {
	Submit(ctx context.Context, scope string, s wizard.Session) error
}

// ServiceParams wires the configurator.
type ServiceParams struct {
	Catalog   *catalog.Catalog
	Machine   wizard.Machine
	Policy    pricing.Policy
	Snapshots SnapshotStore
	Submitter Submitter
	Logger    *logger.Logger
	Metrics   *metrics.CateringMetrics
	IdleTTL   time.Duration
}

// entry holds one client's session. generation changes whenever the session
// is replaced or dropped, so an in-flight submission can tell whether the
// order it relayed is still the one held.
type entry struct {
	mu         sync.Mutex
	loaded     bool
	evicted    bool
	submitting int
	generation uint64
	session    *wizard.Session
	lastSeen   time.Time
}

type service struct {
	catalog   *catalog.Catalog
	machine   wizard.Machine
	policy    pricing.Policy
	snapshots SnapshotStore
	submitter Submitter
	logg      *logger.Logger
	metrics   *metrics.CateringMetrics
	idleTTL   time.Duration
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	open    atomic.Int64
}

// NewService builds the configurator.
func NewService(p ServiceParams) (Service, error) {
	if p.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if p.Snapshots == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if p.Submitter == nil {
		return nil, fmt.Errorf("submitter required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if err := p.Policy.Validate(); err != nil {
		return nil, err
	}
	if p.IdleTTL <= 0 {
		p.IdleTTL = defaultIdleTTL
	}
	return &service{
		catalog:   p.Catalog,
		machine:   p.Machine,
		policy:    p.Policy,
		snapshots: p.Snapshots,
		submitter: p.Submitter,
		logg:      p.Logger,
		metrics:   p.Metrics,
		idleTTL:   p.IdleTTL,
		now:       time.Now,
		entries:   map[string]*entry{},
	}, nil
}

func (s *service) Current(ctx context.Context, client string) (View, error) {
	e := s.acquire(ctx, client)
	defer e.mu.Unlock()
	return s.viewOf(e), nil
}

func (s *service) Open(ctx context.Context, client, name string) (View, error) {
	pkg, ok := s.catalog.Lookup(strings.TrimSpace(name))
	if !ok {
		return View{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "package %q not found", name)
	}

	e := s.acquire(ctx, client)
	defer e.mu.Unlock()

	next := s.machine.Open(pkg)
	s.setSession(e, &next)
	e.generation++
	s.snapshots.Save(ctx, client, snapshot.FromSession(next, s.now()))
	s.logg.Info(s.logg.WithPackage(ctx, pkg.Name), "order opened")
	return s.viewOf(e), nil
}

func (s *service) Close(ctx context.Context, client string) (View, error) {
	e := s.acquire(ctx, client)
	defer e.mu.Unlock()

	s.destroy(ctx, client, e)
	return closedView(), nil
}

func (s *service) Toggle(ctx context.Context, client string, step int, item string) (View, error) {
	return s.mutate(ctx, client, func(cur wizard.Session) (wizard.Session, error) {
		if _, ok := cur.Package.Step(step); !ok {
			return cur, errUnknownStep
		}
		return s.machine.ToggleChoice(cur, item, step), nil
	})
}

func (s *service) SelectBread(ctx context.Context, client string, step int, item string) (View, error) {
	return s.mutate(ctx, client, func(cur wizard.Session) (wizard.Session, error) {
		if _, ok := cur.Package.Step(step); !ok {
			return cur, errUnknownStep
		}
		return s.machine.SelectBread(cur, item, step), nil
	})
}

func (s *service) SetWeight(ctx context.Context, client string, kg decimal.Decimal) (View, error) {
	return s.mutate(ctx, client, func(cur wizard.Session) (wizard.Session, error) {
		return s.machine.SetWeight(cur, kg), nil
	})
}

func (s *service) SetPartySize(ctx context.Context, client string, people int) (View, error) {
	return s.mutate(ctx, client, func(cur wizard.Session) (wizard.Session, error) {
		return s.machine.SetPartySize(cur, people), nil
	})
}

func (s *service) SetAddOn(ctx context.Context, client string, include bool) (View, error) {
	return s.mutate(ctx, client, func(cur wizard.Session) (wizard.Session, error) {
		return s.machine.SetAddOn(cur, include), nil
	})
}

func (s *service) UpdateContact(ctx context.Context, client string, form wizard.ContactForm) (View, error) {
	return s.mutate(ctx, client, func(cur wizard.Session) (wizard.Session, error) {
		return s.machine.UpdateContact(cur, form), nil
	})
}

func (s *service) Next(ctx context.Context, client string) (View, error) {
	return s.mutate(ctx, client, func(cur wizard.Session) (wizard.Session, error) {
		return s.machine.Advance(cur), nil
	})
}

func (s *service) Back(ctx context.Context, client string) (View, error) {
	return s.mutate(ctx, client, func(cur wizard.Session) (wizard.Session, error) {
		return s.machine.Retreat(cur), nil
	})
}

func (s *service) Checkout(ctx context.Context, client string) (View, error) {
	return s.mutate(ctx, client, func(cur wizard.Session) (wizard.Session, error) {
		return s.machine.EnterCheckout(cur), nil
	})
}

// Submit relays the session from checkout. The client lock is not held
// during the relay call, so the client may keep editing; the gateway's busy
// flag rejects a second submission while the first is in flight. On success
// the submitted order is destroyed unless the client has since closed it or
// opened another; on failure it stays open for a retry.
func (s *service) Submit(ctx context.Context, client string) (View, error) {
	e := s.acquire(ctx, client)
	if e.session == nil {
		e.mu.Unlock()
		return closedView(), errNoOrder
	}
	if e.session.Stage() != wizard.StageCheckout {
		view := s.viewOf(e)
		e.mu.Unlock()
		return view, errNotCheckout
	}
	pending := *e.session
	generation := e.generation
	e.submitting++
	e.mu.Unlock()

	ctx = s.logg.WithPackage(ctx, pending.Package.Name)
	err := s.submitter.Submit(ctx, client, pending)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.submitting--
	e.lastSeen = s.now()
	if err != nil {
		return s.viewOf(e), err
	}
	if e.generation == generation {
		s.destroy(ctx, client, e)
	}
	s.logg.Info(ctx, "order submitted")
	return s.viewOf(e), nil
}

// EvictIdle drops in-memory sessions not touched within the idle TTL. Their
// snapshots stay, so the next request for the client resumes them.
func (s *service) EvictIdle(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	evicted := 0
	for client, e := range s.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.submitting == 0 && e.lastSeen.Before(cutoff) {
			s.setSession(e, nil)
			e.evicted = true
			delete(s.entries, client)
			evicted++
		}
		e.mu.Unlock()
	}
	s.mu.Unlock()

	if evicted > 0 {
		s.logg.Info(s.logg.WithField(ctx, "evicted", evicted), "idle sessions evicted")
	}
	return evicted, ctx.Err()
}

func (s *service) mutate(ctx context.Context, client string, fn func(wizard.Session) (wizard.Session, error)) (View, error) {
	e := s.acquire(ctx, client)
	defer e.mu.Unlock()

	if e.session == nil {
		return closedView(), nil
	}
	next, err := fn(*e.session)
	if err != nil {
		return s.viewOf(e), err
	}
	e.session = &next
	s.snapshots.Save(ctx, client, snapshot.FromSession(next, s.now()))
	return s.viewOf(e), nil
}

// acquire returns the client's entry locked and resumed from its snapshot.
func (s *service) acquire(ctx context.Context, client string) *entry {
	for {
		s.mu.Lock()
		e, ok := s.entries[client]
		if !ok {
			e = &entry{}
			s.entries[client] = e
		}
		s.mu.Unlock()

		e.mu.Lock()
		if e.evicted {
			e.mu.Unlock()
			continue
		}
		if !e.loaded {
			e.loaded = true
			s.resume(ctx, client, e)
		}
		e.lastSeen = s.now()
		return e
	}
}

func (s *service) resume(ctx context.Context, client string, e *entry) {
	rec, ok := s.snapshots.Load(ctx, client)
	if !ok {
		return
	}
	restored, ok := rec.Restore(s.catalog, s.machine)
	if !ok {
		s.logg.Warn(s.logg.WithPackage(ctx, rec.PackageName), "snapshot names an unknown package; ignoring")
		return
	}
	s.setSession(e, &restored)
	s.logg.Debug(s.logg.WithPackage(ctx, restored.Package.Name), "order resumed from snapshot")
}

func (s *service) destroy(ctx context.Context, client string, e *entry) {
	s.setSession(e, nil)
	e.generation++
	if err := s.snapshots.Clear(ctx, client); err != nil && !errors.Is(err, context.Canceled) {
		s.logg.Error(ctx, "clear snapshot", err)
	}
}

func (s *service) viewOf(e *entry) View {
	if e.session == nil {
		return closedView()
	}
	return buildView(s.machine, s.policy, *e.session)
}

// setSession swaps the entry's session and keeps the open-order gauge in step.
func (s *service) setSession(e *entry, next *wizard.Session) {
	switch {
	case e.session == nil && next != nil:
		s.metrics.SetActiveOrders(int(s.open.Add(1)))
	case e.session != nil && next == nil:
		s.metrics.SetActiveOrders(int(s.open.Add(-1)))
	}
	e.session = next
}
