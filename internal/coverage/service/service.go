// Package service orchestrates a coverage check: it validates the input,
// matches the address against the compiled tables and, in parallel, asks the
// geocoder where to place the map marker.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"usittel_backend/internal/coverage/data"
	"usittel_backend/internal/coverage/domain"
	"usittel_backend/internal/coverage/mapview"
	"usittel_backend/internal/events"
	"usittel_backend/internal/geocode"
	"usittel_backend/platform/apperr"
	"usittel_backend/platform/logger"
	"usittel_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Geocoder places an address on the map. A nil result means "no marker".
type Geocoder interface {
	Locate(ctx context.Context, sessionID, street string, number int) *geocode.Result
}

// ZoneSource produces the raw zone entries the tables are compiled from.
type ZoneSource func() (data.Zones, error)

// Contact is the sales contact block attached to positive verdicts.
type Contact struct {
	WhatsAppURL string
	Email       string
}

// Tables are the two compiled coverage tables.
type Tables struct {
	Current *domain.CompiledTable
	Planned *domain.CompiledTable
}

// Outcome is the full result of one check.
type Outcome struct {
	Verdict domain.Verdict
	Reason  domain.InvalidReason
	Message string
	Address *domain.ParsedAddress
	Contact *Contact
	View    mapview.View
	Phase   domain.Phase
}

// Err maps non-answer verdicts to typed errors for the HTTP layer.
func (o Outcome) Err() error {
	switch o.Verdict {
	case domain.VerdictInvalid:
		return apperr.Unprocessable(o.Message).WithDetails(o.Reason)
	case domain.VerdictTransientError:
		return apperr.Unavailable(o.Message)
	default:
		return nil
	}
}

// Deps are the collaborators of a Service.
type Deps struct {
	Zones    ZoneSource
	Geocoder Geocoder
	Layout   mapview.Layout
	// City is appended to marker labels, e.g. "Nigro 575, Tandil".
	City    string
	Contact Contact
	Bus     events.Bus
	Log     *logger.Logger
}

// Service is safe for concurrent use. Tables are compiled once, on first use
// or by Prewarm, and only read afterwards.
type Service struct {
	zones    ZoneSource
	geocoder Geocoder
	layout   mapview.Layout
	city     string
	contact  Contact
	bus      events.Bus
	log      *logger.Logger

	once    sync.Once
	tables  Tables
	loadErr error
}

// New creates a coverage service.
func New(deps Deps) *Service {
	log := deps.Log
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		zones:    deps.Zones,
		geocoder: deps.Geocoder,
		layout:   deps.Layout,
		city:     deps.City,
		contact:  deps.Contact,
		bus:      deps.Bus,
		log:      log,
	}
}

// Tables returns the compiled tables, compiling them on first call.
func (s *Service) Tables() (Tables, error) {
	s.once.Do(func() {
		s.tables, s.loadErr = s.compile()
	})
	return s.tables, s.loadErr
}

func (s *Service) compile() (Tables, error) {
	if s.zones == nil {
		return Tables{}, fmt.Errorf("no zone source configured")
	}

	start := time.Now()
	zones, err := s.zones()
	if err != nil {
		return Tables{}, fmt.Errorf("load zones: %w", err)
	}

	tables := Tables{
		Current: domain.Compile(zones.Current),
		Planned: domain.Compile(zones.Planned),
	}

	current, planned := tables.Current.Stats(), tables.Planned.Stats()
	if dropped := current.Dropped + planned.Dropped; dropped > 0 {
		s.log.Warn("dropped malformed coverage entries", "count", dropped)
	}
	s.log.Info("coverage tables compiled",
		"currentStreets", current.Streets,
		"plannedStreets", planned.Streets,
		"skippedRows", zones.Skipped,
		"duration", time.Since(start),
	)
	return tables, nil
}

// Prewarm compiles the tables in the background. A failed compile is logged
// and not retried; every Check then reports a transient error.
func (s *Service) Prewarm(ctx context.Context) {
	go func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.Tables(); err != nil {
			s.log.Error("coverage prewarm failed", "error", err)
		}
	}()
}

// TableStats describes both compiled tables.
type TableStats struct {
	Current domain.TableStats `json:"current"`
	Planned domain.TableStats `json:"planned"`
}

// Stats compiles the tables if needed and reports their sizes.
func (s *Service) Stats() (TableStats, error) {
	tables, err := s.Tables()
	if err != nil {
		return TableStats{}, err
	}
	return TableStats{Current: tables.Current.Stats(), Planned: tables.Planned.Stats()}, nil
}

// Layout returns the static map layout.
func (s *Service) Layout() mapview.Layout {
	return s.layout
}

// Check runs one coverage check for a session. It never returns an error:
// every failure is expressed as a verdict.
func (s *Service) Check(ctx context.Context, sessionID, raw string) Outcome {
	start := time.Now()
	log := s.log.WithContext(ctx)
	phase := domain.PhaseIdle

	advance := func(next domain.Phase) {
		if !phase.CanTransition(next) {
			log.Error("illegal coverage phase transition", "from", phase, "to", next)
		}
		phase = next
	}

	advance(domain.PhaseValidating)

	input := sanitize.Text(raw)
	if input == "" {
		advance(domain.PhaseInvalid)
		return s.invalid(domain.ReasonEmpty, phase)
	}
	addr, ok := domain.ParseAddress(input)
	if !ok {
		advance(domain.PhaseInvalid)
		return s.invalid(domain.ReasonInvalidFormat, phase)
	}

	advance(domain.PhaseGeocoding)

	var (
		located *geocode.Result
		verdict domain.Verdict
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return recovered("geocode", func() error {
			if s.geocoder != nil {
				located = s.geocoder.Locate(gctx, sessionID, addr.Street, addr.Number)
			}
			return nil
		})
	})
	g.Go(func() error {
		return recovered("match", func() error {
			tables, err := s.Tables()
			if err != nil {
				return err
			}
			verdict = domain.Match(tables.Current, tables.Planned, addr)
			return nil
		})
	})
	err := g.Wait()

	advance(domain.PhaseMatching)
	advance(domain.PhaseDone)

	out := Outcome{Address: &addr, Phase: phase}
	if err != nil {
		log.Error("coverage check failed", "error", err, "street", addr.Street, "number", addr.Number)
		out.Verdict = domain.VerdictTransientError
		out.Message = out.Verdict.Message()
		out.View = s.layout.ResetView()
		return out
	}

	out.Verdict = verdict
	out.Message = verdict.Message()
	out.Contact = s.contactFor(verdict)
	out.View = s.viewFor(addr, located)

	log.CoverageChecked(string(verdict), domain.NormalizeStreet(addr.Street), addr.Number, time.Since(start))
	s.publish(ctx, sessionID, addr, verdict, located != nil)

	return out
}

func (s *Service) invalid(reason domain.InvalidReason, phase domain.Phase) Outcome {
	return Outcome{
		Verdict: domain.VerdictInvalid,
		Reason:  reason,
		Message: reason.Message(),
		View:    s.layout.ResetView(),
		Phase:   phase,
	}
}

func (s *Service) viewFor(addr domain.ParsedAddress, located *geocode.Result) mapview.View {
	if located == nil {
		return s.layout.ResetView()
	}
	label := addr.Label()
	if s.city != "" {
		label += ", " + s.city
	}
	return s.layout.MarkerView(mapview.LatLng{Lat: located.Latitude, Lon: located.Longitude}, label)
}

func (s *Service) contactFor(verdict domain.Verdict) *Contact {
	var c Contact
	switch verdict {
	case domain.VerdictCovered, domain.VerdictPlanned:
		c = s.contact
	case domain.VerdictNotCovered:
		c = Contact{Email: s.contact.Email}
	}
	if c == (Contact{}) {
		return nil
	}
	return &c
}

func (s *Service) publish(ctx context.Context, sessionID string, addr domain.ParsedAddress, verdict domain.Verdict, geocoded bool) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.CoverageChecked{
		BaseEvent: events.NewBaseEvent(),
		CheckID:   uuid.New(),
		SessionID: sessionID,
		Street:    domain.NormalizeStreet(addr.Street),
		Number:    addr.Number,
		Verdict:   string(verdict),
		Geocoded:  geocoded,
	})
}

// recovered runs fn and turns a panic into an error.
func recovered(step string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", step, r)
		}
	}()
	return fn()
}
