package demand

import (
	"context"
	"testing"

	"usittel_backend/internal/events"
	"usittel_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checked(street, verdict string) events.CoverageChecked {
	return events.CoverageChecked{BaseEvent: events.NewBaseEvent(), Street: street, Verdict: verdict}
}

func TestTrackerCountsUncoveredVerdicts(t *testing.T) {
	tr := NewTracker(logger.Discard())
	ctx := context.Background()

	for _, e := range []events.CoverageChecked{
		checked("nicaragua", "planned_coverage"),
		checked("nicaragua", "not_covered"),
		checked("nicaragua", "planned_coverage"),
		checked("paz", "covered"),
		checked("rivadavia", "not_covered"),
		checked("", "not_covered"),
	} {
		require.NoError(t, tr.Handle(ctx, e))
	}

	top := tr.Top(0)
	require.Len(t, top, 2)
	assert.Equal(t, Entry{Street: "nicaragua", Planned: 2, NotCovered: 1}, top[0])
	assert.Equal(t, 3, top[0].Total())
	assert.Equal(t, "rivadavia", top[1].Street)
}

func TestTrackerTopLimitAndTieBreak(t *testing.T) {
	tr := NewTracker(logger.Discard())
	for _, s := range []string{"c", "a", "b"} {
		_ = tr.Handle(context.Background(), checked(s, "not_covered"))
	}

	assert.Equal(t, []Entry{{Street: "a", NotCovered: 1}, {Street: "b", NotCovered: 1}}, tr.Top(2))
}

func TestModuleSubscribesToBus(t *testing.T) {
	bus := events.NewInMemoryBus(logger.Discard())
	m := NewModule(logger.Discard())
	m.RegisterHandlers(bus)

	require.NoError(t, bus.PublishSync(context.Background(), checked("paz", "not_covered")))

	assert.Equal(t, []Entry{{Street: "paz", NotCovered: 1}}, m.Tracker().Top(10))
}
