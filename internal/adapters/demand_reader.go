package adapters

import (
	"usittel_backend/internal/coverage/transport"
	"usittel_backend/internal/demand"
)

// DemandReaderAdapter exposes the demand tracker to the coverage admin
// endpoint. It implements coverage/handler.DemandReader.
type DemandReaderAdapter struct {
	tracker *demand.Tracker
}

// NewDemandReaderAdapter returns nil when tracker is nil.
func NewDemandReaderAdapter(tracker *demand.Tracker) *DemandReaderAdapter {
	if tracker == nil {
		return nil
	}
	return &DemandReaderAdapter{tracker: tracker}
}

// TopDemand maps the tracker's ranking to the coverage transport format.
func (a *DemandReaderAdapter) TopDemand(limit int) []transport.DemandEntry {
	if a == nil || a.tracker == nil {
		return nil
	}

	top := a.tracker.Top(limit)
	out := make([]transport.DemandEntry, 0, len(top))
	for _, e := range top {
		out = append(out, transport.DemandEntry{
			Street:     e.Street,
			Planned:    e.Planned,
			NotCovered: e.NotCovered,
			Total:      e.Total(),
		})
	}
	return out
}
