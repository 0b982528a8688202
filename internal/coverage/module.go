// Package coverage provides the coverage bounded context module: it answers
// "is my address covered" for the website widget.
package coverage

import (
	"context"
	"fmt"

	"usittel_backend/internal/coverage/data"
	"usittel_backend/internal/coverage/handler"
	"usittel_backend/internal/coverage/service"
	"usittel_backend/internal/events"
	"usittel_backend/internal/geocode"
	apphttp "usittel_backend/internal/http"
	"usittel_backend/platform/config"
	"usittel_backend/platform/logger"
	"usittel_backend/platform/phone"
	"usittel_backend/platform/validator"
)

// ModuleConfig is the configuration the coverage module reads.
type ModuleConfig interface {
	config.GeocoderConfig
	config.CoverageConfig
	config.ContactConfig
}

// Module is the coverage bounded context module.
type Module struct {
	service *service.Service
	locator *geocode.Locator
	handler *handler.Handler
	prewarm bool
}

// NewModule wires the geocoder, the coverage tables and the HTTP handler.
// The overlay layout is loaded eagerly; zone tables compile on first use or
// on Prewarm.
func NewModule(cfg ModuleConfig, bus events.Bus, demand handler.DemandReader, val *validator.Validator, log *logger.Logger) (*Module, error) {
	layout, err := data.LoadLayout(cfg.GetCoverageOverlaysFile())
	if err != nil {
		return nil, fmt.Errorf("load coverage overlays: %w", err)
	}

	client := geocode.NewClient(geocode.Options{
		BaseURL:       cfg.GetGeocoderBaseURL(),
		UserAgent:     cfg.GetGeocoderUserAgent(),
		CountryCodes:  cfg.GetGeocoderCountryCodes(),
		Limit:         cfg.GetGeocoderResultLimit(),
		RatePerSecond: cfg.GetGeocoderRatePerSecond(),
		HTTPTimeout:   cfg.GetGeocodeTimeout(),
	}, log)
	locator := geocode.NewLocator(client, geocode.NewCache(), geocode.LocatorOptions{
		TargetCity:    cfg.GetGeocoderTargetCity(),
		RegionContext: cfg.GetGeocoderRegionContext(),
		Timeout:       cfg.GetGeocodeTimeout(),
	}, log)

	zonesFile := cfg.GetCoverageZonesFile()
	svc := service.New(service.Deps{
		Zones: func() (data.Zones, error) {
			return data.LoadZones(zonesFile, log)
		},
		Geocoder: locator,
		Layout:   layout,
		City:     cfg.GetGeocoderTargetCity(),
		Contact:  contactFromConfig(cfg, log),
		Bus:      bus,
		Log:      log,
	})

	log.Info("coverage module initialized",
		"zonesFile", zonesFile,
		"overlays", len(layout.Overlays),
		"targetCity", cfg.GetGeocoderTargetCity(),
	)

	return &Module{
		service: svc,
		locator: locator,
		handler: handler.New(svc, locator.Cache(), demand, val, log),
		prewarm: cfg.GetCoveragePrewarm(),
	}, nil
}

func contactFromConfig(cfg config.ContactConfig, log *logger.Logger) service.Contact {
	number, region := cfg.GetContactWhatsAppNumber(), cfg.GetContactPhoneRegion()
	link := phone.WhatsAppLink(number, region)
	switch {
	case number != "" && link == "":
		log.Warn("contact whatsapp number is not valid, link disabled", "number", number, "region", region)
	case link != "":
		log.Debug("contact whatsapp link enabled", "number", phone.NormalizeE164(number, region))
	}
	return service.Contact{WhatsAppURL: link, Email: cfg.GetContactEmail()}
}

func (m *Module) Name() string {
	return "coverage"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Public.Group("/coverage")
	group.POST("/check", m.handler.Check)
	group.GET("/zones", m.handler.Zones)

	if ctx.Admin != nil {
		ctx.Admin.GET("/coverage/stats", m.handler.Stats)
	}
}

// Prewarm compiles the coverage tables in the background when enabled.
func (m *Module) Prewarm(ctx context.Context) {
	if m.prewarm {
		m.service.Prewarm(ctx)
	}
}

// Service returns the coverage service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

var _ apphttp.Module = (*Module)(nil)
