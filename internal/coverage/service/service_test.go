package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"usittel_backend/internal/coverage/data"
	"usittel_backend/internal/coverage/domain"
	"usittel_backend/internal/coverage/mapview"
	"usittel_backend/internal/events"
	"usittel_backend/internal/geocode"
	"usittel_backend/platform/apperr"
	"usittel_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	result *geocode.Result
	panics bool
}

func (s stubGeocoder) Locate(ctx context.Context, sessionID, street string, number int) *geocode.Result {
	if s.panics {
		panic("geocoder exploded")
	}
	return s.result
}

func embeddedZones() (data.Zones, error) {
	return data.LoadZones("", logger.Discard())
}

func newTestService(t *testing.T, geo Geocoder, bus events.Bus) *Service {
	t.Helper()
	layout, err := data.LoadLayout("")
	require.NoError(t, err)

	return New(Deps{
		Zones:    embeddedZones,
		Geocoder: geo,
		Layout:   layout,
		City:     "Tandil",
		Contact:  Contact{WhatsAppURL: "https://wa.me/5491123456789", Email: "ventas@example.com"},
		Bus:      bus,
		Log:      logger.Discard(),
	})
}

func TestCheckVerdicts(t *testing.T) {
	svc := newTestService(t, nil, nil)

	tests := []struct {
		name  string
		input string
		want  domain.Verdict
	}{
		{name: "abbreviated street with period", input: "Gral. Paz 500", want: domain.VerdictCovered},
		{name: "current coverage", input: "Nicaragua 250", want: domain.VerdictCovered},
		{name: "shared bound prefers current", input: "Nicaragua 200", want: domain.VerdictCovered},
		{name: "planned coverage", input: "Nicaragua 150", want: domain.VerdictPlanned},
		{name: "spelling variant", input: "Avenida Falucho 900", want: domain.VerdictCovered},
		{name: "known street outside every range", input: "Falucho 5000", want: domain.VerdictNotCovered},
		{name: "unknown street", input: "Inexistente 999", want: domain.VerdictNotCovered},
		{name: "trailing text ignored", input: "Nicaragua 250 depto 3", want: domain.VerdictCovered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := svc.Check(context.Background(), "s1", tt.input)
			assert.Equal(t, tt.want, out.Verdict)
			assert.Equal(t, tt.want.Message(), out.Message)
			assert.Equal(t, domain.PhaseDone, out.Phase)
			require.NotNil(t, out.Address)
			assert.NoError(t, out.Err())
		})
	}
}

func TestCheckInvalidInput(t *testing.T) {
	svc := newTestService(t, stubGeocoder{panics: true}, nil)

	tests := []struct {
		input  string
		reason domain.InvalidReason
	}{
		{input: "", reason: domain.ReasonEmpty},
		{input: "   ", reason: domain.ReasonEmpty},
		{input: "<b></b>", reason: domain.ReasonEmpty},
		{input: "Nigro", reason: domain.ReasonInvalidFormat},
		{input: "575", reason: domain.ReasonInvalidFormat},
		{input: "Nigro 0", reason: domain.ReasonInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out := svc.Check(context.Background(), "s1", tt.input)
			assert.Equal(t, domain.VerdictInvalid, out.Verdict)
			assert.Equal(t, tt.reason, out.Reason)
			assert.Equal(t, tt.reason.Message(), out.Message)
			assert.Equal(t, domain.PhaseInvalid, out.Phase)
			assert.Nil(t, out.Address)
			assert.True(t, apperr.Is(out.Err(), apperr.KindUnprocessable))
		})
	}
}

func TestCheckPlacesMarkerWhenGeocoded(t *testing.T) {
	geo := stubGeocoder{result: &geocode.Result{Latitude: -37.32, Longitude: -59.13, DisplayLabel: "250, Nicaragua"}}
	svc := newTestService(t, geo, nil)

	out := svc.Check(context.Background(), "s1", "Nicaragua 250")

	require.NotNil(t, out.View.Marker)
	assert.Equal(t, "Nicaragua 250, Tandil", out.View.Marker.Label)
	assert.Equal(t, mapview.LatLng{Lat: -37.32, Lon: -59.13}, out.View.Center)
	assert.Equal(t, mapview.MarkerZoom, out.View.Zoom)
	assert.Nil(t, out.View.Bounds)
}

func TestCheckWithoutGeocodeResetsView(t *testing.T) {
	svc := newTestService(t, stubGeocoder{}, nil)

	out := svc.Check(context.Background(), "s1", "Inexistente 999")

	assert.Nil(t, out.View.Marker)
	assert.NotNil(t, out.View.Bounds)
	assert.Equal(t, domain.VerdictNotCovered, out.Verdict)
}

func TestCheckContactBlock(t *testing.T) {
	svc := newTestService(t, nil, nil)

	covered := svc.Check(context.Background(), "s1", "Nicaragua 250")
	require.NotNil(t, covered.Contact)
	assert.Equal(t, "https://wa.me/5491123456789", covered.Contact.WhatsAppURL)

	planned := svc.Check(context.Background(), "s1", "Nicaragua 150")
	require.NotNil(t, planned.Contact)
	assert.NotEmpty(t, planned.Contact.WhatsAppURL)

	missing := svc.Check(context.Background(), "s1", "Inexistente 999")
	require.NotNil(t, missing.Contact)
	assert.Empty(t, missing.Contact.WhatsAppURL)
	assert.Equal(t, "ventas@example.com", missing.Contact.Email)
}

func TestCheckTransientErrors(t *testing.T) {
	t.Run("geocoder panic", func(t *testing.T) {
		svc := newTestService(t, stubGeocoder{panics: true}, nil)
		out := svc.Check(context.Background(), "s1", "Nicaragua 250")
		assert.Equal(t, domain.VerdictTransientError, out.Verdict)
		assert.True(t, apperr.Is(out.Err(), apperr.KindUnavailable))
		assert.Nil(t, out.View.Marker)
	})

	t.Run("zone source failure", func(t *testing.T) {
		svc := New(Deps{
			Zones: func() (data.Zones, error) { return data.Zones{}, errors.New("disk gone") },
			Log:   logger.Discard(),
		})
		out := svc.Check(context.Background(), "s1", "Nicaragua 250")
		assert.Equal(t, domain.VerdictTransientError, out.Verdict)

		_, err := svc.Stats()
		assert.Error(t, err)
	})
}

func TestCheckPublishesEvent(t *testing.T) {
	bus := events.NewInMemoryBus(logger.Discard())

	var mu sync.Mutex
	var got []events.CoverageChecked
	bus.Subscribe(events.CoverageCheckedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(events.CoverageChecked))
		return nil
	}))

	svc := newTestService(t, nil, bus)
	svc.Check(context.Background(), "s1", "Nicaragua 150")
	svc.Check(context.Background(), "s1", "nope")
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1, "invalid input is not published")
	assert.Equal(t, "nicaragua", got[0].Street)
	assert.Equal(t, 150, got[0].Number)
	assert.Equal(t, string(domain.VerdictPlanned), got[0].Verdict)
	assert.Equal(t, "s1", got[0].SessionID)
	assert.False(t, got[0].Geocoded)
}

func TestStatsCompilesOnce(t *testing.T) {
	calls := 0
	svc := New(Deps{
		Zones: func() (data.Zones, error) {
			calls++
			return data.Zones{Current: []domain.ZoneEntry{{Street: "Paz", From: 1, To: 10}}}, nil
		},
	})

	svc.Prewarm(context.Background())
	stats, err := svc.Stats()
	require.NoError(t, err)
	_, _ = svc.Tables()

	assert.Equal(t, 1, stats.Current.Streets)
	assert.Equal(t, 0, stats.Planned.Streets)
	assert.Eventually(t, func() bool { return calls == 1 }, time.Second, 5*time.Millisecond)
}

// blockingSearcher holds every search until release is closed.
type blockingSearcher struct {
	release chan struct{}
}

func (b blockingSearcher) SearchURL(query string) string { return "q=" + query }

func (b blockingSearcher) Search(ctx context.Context, reqURL string) ([]geocode.Place, error) {
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []geocode.Place{{
		DisplayName: reqURL,
		Lat:         "-37.3",
		Lon:         "-59.1",
		Type:        "house",
		Address:     &geocode.PlaceAddress{HouseNumber: "1", City: "Tandil"},
	}}, nil
}

func TestNewCheckSupersedesPendingMarker(t *testing.T) {
	searcher := blockingSearcher{release: make(chan struct{})}
	locator := geocode.NewLocator(searcher, geocode.NewCache(), geocode.LocatorOptions{TargetCity: "Tandil"}, logger.Discard())
	svc := newTestService(t, locator, nil)

	first := make(chan Outcome, 1)
	go func() { first <- svc.Check(context.Background(), "s1", "Nicaragua 250") }()
	require.Eventually(t, func() bool { return locator.Active() == 1 }, time.Second, 5*time.Millisecond)

	second := make(chan Outcome, 1)
	go func() { second <- svc.Check(context.Background(), "s1", "Nicaragua 150") }()

	stale := <-first
	assert.Equal(t, domain.VerdictCovered, stale.Verdict, "verdict does not depend on geocoding")
	assert.Nil(t, stale.View.Marker, "superseded lookup must not place a marker")

	close(searcher.release)
	fresh := <-second
	assert.Equal(t, domain.VerdictPlanned, fresh.Verdict)
	require.NotNil(t, fresh.View.Marker)
	assert.Equal(t, "Nicaragua 150, Tandil", fresh.View.Marker.Label)
}
