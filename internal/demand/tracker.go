// Package demand counts coverage checks that fell outside current coverage,
// per street, so expansion can be prioritized. Counts live in process memory.
package demand

import (
	"context"
	"sort"
	"sync"

	"usittel_backend/internal/events"
	"usittel_backend/platform/logger"
)

const (
	verdictPlanned    = "planned_coverage"
	verdictNotCovered = "not_covered"
)

// Entry is the demand recorded for one normalized street.
type Entry struct {
	Street     string
	Planned    int
	NotCovered int
}

// Total is the number of recorded lookups for the street.
func (e Entry) Total() int {
	return e.Planned + e.NotCovered
}

// Tracker is an events.Handler for events.CoverageChecked.
type Tracker struct {
	mu      sync.Mutex
	streets map[string]*Entry
	log     *logger.Logger
}

var _ events.Handler = (*Tracker)(nil)

// NewTracker creates an empty tracker.
func NewTracker(log *logger.Logger) *Tracker {
	return &Tracker{streets: make(map[string]*Entry), log: log}
}

// Handle records a coverage check. Other events are ignored.
func (t *Tracker) Handle(ctx context.Context, event events.Event) error {
	checked, ok := event.(events.CoverageChecked)
	if !ok || checked.Street == "" {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entry := t.streets[checked.Street]
	switch checked.Verdict {
	case verdictPlanned:
		if entry == nil {
			entry = t.add(checked.Street)
		}
		entry.Planned++
	case verdictNotCovered:
		if entry == nil {
			entry = t.add(checked.Street)
		}
		entry.NotCovered++
	default:
		return nil
	}

	t.log.WithContext(ctx).Debug("uncovered demand recorded", "street", checked.Street, "verdict", checked.Verdict, "total", entry.Total())
	return nil
}

func (t *Tracker) add(street string) *Entry {
	entry := &Entry{Street: street}
	t.streets[street] = entry
	return entry
}

// Top returns up to limit streets ordered by total demand, most requested
// first. A limit <= 0 returns every street.
func (t *Tracker) Top(limit int) []Entry {
	t.mu.Lock()
	out := make([]Entry, 0, len(t.streets))
	for _, e := range t.streets {
		out = append(out, *e)
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total() != out[j].Total() {
			return out[i].Total() > out[j].Total()
		}
		return out[i].Street < out[j].Street
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
