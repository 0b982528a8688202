package geocode

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"usittel_backend/platform/logger"
)

// DefaultTimeout bounds each geocoder request.
const DefaultTimeout = 8 * time.Second

// Searcher is the network side of the locator. *Client implements it.
type Searcher interface {
	SearchURL(query string) string
	Search(ctx context.Context, reqURL string) ([]Place, error)
}

// pacer is implemented by searchers that space out their requests. The
// locator extends its deadline by one interval per extra probe.
type pacer interface {
	Interval() time.Duration
}

// LocatorOptions configures where addresses are searched.
type LocatorOptions struct {
	// TargetCity must equal the provider's city, town or municipality field.
	TargetCity string
	// RegionContext is appended to every query, e.g. "Tandil, Buenos Aires, Argentina".
	RegionContext string
	// Timeout bounds the network time of a lookup. Time spent waiting for
	// the searcher's pacing between probes is added on top.
	Timeout time.Duration
}

// activeLookup is the cancellation handle of the lookup currently running
// for a session.
type activeLookup struct {
	id     uint64
	cancel context.CancelFunc
}

// Locator resolves street + number to coordinates. Each session has at most
// one lookup in flight: starting a new one cancels the previous one.
type Locator struct {
	searcher      Searcher
	cache         *Cache
	targetCity    string
	regionContext string
	timeout       time.Duration
	pacing        time.Duration
	log           *logger.Logger

	mu     sync.Mutex
	active map[string]activeLookup
	nextID atomic.Uint64
}

// NewLocator creates a Locator backed by searcher and cache.
func NewLocator(searcher Searcher, cache *Cache, opts LocatorOptions, log *logger.Logger) *Locator {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if cache == nil {
		cache = NewCache()
	}
	var pacing time.Duration
	if p, ok := searcher.(pacer); ok {
		pacing = p.Interval()
	}
	return &Locator{
		searcher:      searcher,
		cache:         cache,
		targetCity:    opts.TargetCity,
		regionContext: opts.RegionContext,
		timeout:       timeout,
		pacing:        pacing,
		log:           log,
		active:        make(map[string]activeLookup),
	}
}

// Cache exposes the lookup cache for diagnostics.
func (l *Locator) Cache() *Cache {
	return l.cache
}

// Locate finds a precise match for street + number, probing nearby numbers
// one at a time when the exact number is unknown to the provider. It never
// returns an error: failures, timeouts and cancellation all yield nil, and
// a lookup superseded while its last request was in flight yields nil too.
func (l *Locator) Locate(ctx context.Context, sessionID, street string, number int) *Result {
	ctx, done := l.begin(ctx, sessionID, l.budget(number))
	defer done()

	log := l.log.WithContext(ctx)

	for candidate := range probeNumbers(number) {
		if ctx.Err() != nil {
			l.logStop(log, ctx.Err(), street, number)
			return nil
		}

		res, err := l.lookup(ctx, street, candidate)
		if ctx.Err() != nil {
			l.logStop(log, ctx.Err(), street, number)
			return nil
		}
		switch {
		case errors.Is(err, ErrRateLimited):
			log.Warn("geocode probes stopped by outbound rate limit", "street", street, "number", number, "reached", candidate)
			return nil
		case err != nil:
			log.GeocodeFailed(l.query(street, candidate), err)
			return nil
		}
		if res != nil {
			if candidate != number {
				log.Debug("geocode matched nearby number", "street", street, "requested", number, "matched", candidate)
			}
			return res
		}
	}

	log.Debug("geocode found no precise match", "street", street, "number", number)
	return nil
}

// budget is the deadline of a whole Locate call: the network timeout plus
// the pacing the searcher imposes between consecutive probes.
func (l *Locator) budget(number int) time.Duration {
	probes := 0
	for range probeNumbers(number) {
		probes++
	}
	return l.timeout + time.Duration(probes-1)*l.pacing
}

// begin registers a new lookup for the session, cancelling the previous one,
// and returns its context plus a cleanup func.
func (l *Locator) begin(parent context.Context, sessionID string, budget time.Duration) (context.Context, func()) {
	ctx, cancel := context.WithTimeout(parent, budget)
	id := l.nextID.Add(1)

	l.mu.Lock()
	if prev, ok := l.active[sessionID]; ok {
		prev.cancel()
	}
	l.active[sessionID] = activeLookup{id: id, cancel: cancel}
	l.mu.Unlock()

	return ctx, func() {
		l.mu.Lock()
		if cur, ok := l.active[sessionID]; ok && cur.id == id {
			delete(l.active, sessionID)
		}
		l.mu.Unlock()
		cancel()
	}
}

// Active returns the number of sessions with a lookup in flight.
func (l *Locator) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.active)
}

func (l *Locator) lookup(ctx context.Context, street string, number int) (*Result, error) {
	key := l.searcher.SearchURL(l.query(street, number))
	if res, ok := l.cache.Get(key); ok {
		return res, nil
	}

	places, err := l.searcher.Search(ctx, key)
	if err != nil {
		return nil, err
	}

	res := l.pickPrecise(places)
	l.cache.Put(key, res)
	return res, nil
}

func (l *Locator) pickPrecise(places []Place) *Result {
	for _, p := range places {
		if !p.precise(l.targetCity) {
			continue
		}
		if res, ok := p.toResult(); ok {
			return res
		}
	}
	return nil
}

func (l *Locator) query(street string, number int) string {
	if l.regionContext == "" {
		return fmt.Sprintf("%s %d", street, number)
	}
	return fmt.Sprintf("%s %d, %s", street, number, l.regionContext)
}

func (l *Locator) logStop(log *logger.Logger, err error, street string, number int) {
	if errors.Is(err, context.DeadlineExceeded) {
		log.Warn("geocode lookup timed out", "street", street, "number", number, "budget", l.budget(number))
		return
	}
	log.Debug("geocode lookup cancelled", "street", street, "number", number)
}
