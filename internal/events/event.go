// Package events holds the domain events modules exchange over the bus. The
// bus itself lives in platform/events; the aliases below let modules depend
// on this package alone.
package events

import (
	platformevents "usittel_backend/platform/events"
	"usittel_backend/platform/logger"

	"github.com/google/uuid"
)

type (
	Event       = platformevents.Event
	Bus         = platformevents.Bus
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	BaseEvent   = platformevents.BaseEvent
	InMemoryBus = platformevents.InMemoryBus
)

var NewBaseEvent = platformevents.NewBaseEvent

func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// CoverageCheckedName is the bus topic of CoverageChecked.
const CoverageCheckedName = "coverage.checked"

// CoverageChecked is published after every check that got past address
// validation, whatever the verdict.
type CoverageChecked struct {
	BaseEvent
	CheckID   uuid.UUID `json:"checkId"`
	SessionID string    `json:"sessionId"`
	// Street is normalized, so spellings of one street count together.
	Street   string `json:"street"`
	Number   int    `json:"number"`
	Verdict  string `json:"verdict"`
	Geocoded bool   `json:"geocoded"`
}

func (e CoverageChecked) EventName() string { return CoverageCheckedName }
