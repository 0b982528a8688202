package demand

import (
	"usittel_backend/internal/events"
	"usittel_backend/platform/logger"
)

// Module wires the demand tracker to the event bus. It has no routes of its
// own; the coverage admin endpoint reads from it.
type Module struct {
	tracker *Tracker
}

// NewModule creates the demand module.
func NewModule(log *logger.Logger) *Module {
	return &Module{tracker: NewTracker(log)}
}

// RegisterHandlers subscribes the tracker to coverage events.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.CoverageCheckedName, m.tracker)
}

// Tracker returns the demand tracker for external use.
func (m *Module) Tracker() *Tracker {
	return m.tracker
}
