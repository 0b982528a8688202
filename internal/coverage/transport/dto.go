// Package transport provides DTOs for the coverage domain.
package transport

import (
	"usittel_backend/internal/coverage/mapview"
	"usittel_backend/internal/geocode"

	"github.com/twpayne/go-geom/encoding/geojson"
)

// CheckRequest is the body of POST /coverage/check.
type CheckRequest struct {
	// Address is free text such as "Nigro 575". Emptiness is reported as a
	// verdict, not a validation error.
	Address string `json:"address" validate:"max=200"`
}

// Address echoes the parsed input.
type Address struct {
	Street string `json:"street"`
	Number int    `json:"number"`
	Label  string `json:"label"`
}

// Contact is the sales contact block.
type Contact struct {
	WhatsAppURL string `json:"whatsappUrl,omitempty"`
	Email       string `json:"email,omitempty"`
}

// CheckResponse is the verdict plus everything the widget needs to render it.
type CheckResponse struct {
	Verdict string       `json:"verdict"`
	Reason  string       `json:"reason,omitempty"`
	Message string       `json:"message"`
	Address *Address     `json:"address,omitempty"`
	Contact *Contact     `json:"contact,omitempty"`
	Map     mapview.View `json:"map"`
}

// ZonesResponse is the initial map render: overlay polygons and the view
// that fits them.
type ZonesResponse struct {
	View     mapview.View               `json:"view"`
	Overlays *geojson.FeatureCollection `json:"overlays"`
}

// TableStats describes one compiled table.
type TableStats struct {
	Streets int `json:"streets"`
	Ranges  int `json:"ranges"`
	Tokens  int `json:"tokens"`
	Dropped int `json:"dropped"`
}

// DemandEntry counts lookups outside current coverage for one street.
type DemandEntry struct {
	Street     string `json:"street"`
	Planned    int    `json:"planned"`
	NotCovered int    `json:"notCovered"`
	Total      int    `json:"total"`
}

// StatsResponse is the admin diagnostics payload.
type StatsResponse struct {
	Current TableStats         `json:"current"`
	Planned TableStats         `json:"planned"`
	Cache   geocode.CacheStats `json:"geocodeCache"`
	Demand  []DemandEntry      `json:"demand"`
}
