// Package data loads the static coverage configuration: zone entries for the
// current and planned tables, and the map overlays. The defaults are embedded
// in the binary; files on disk can replace them.
package data

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"usittel_backend/internal/coverage/domain"
	"usittel_backend/internal/coverage/mapview"
	"usittel_backend/platform/logger"

	"gopkg.in/yaml.v3"
)

//go:embed zones.yaml
var defaultZones []byte

//go:embed overlays.yaml
var defaultOverlays []byte

// Zones holds the raw entries of both coverage tables.
type Zones struct {
	Current []domain.ZoneEntry
	Planned []domain.ZoneEntry
	// Skipped counts rows whose bounds were not integers.
	Skipped int
}

// LoadZones reads zone entries from path, or the embedded defaults when path
// is empty.
func LoadZones(path string, log *logger.Logger) (Zones, error) {
	raw, err := readOrDefault(path, defaultZones)
	if err != nil {
		return Zones{}, err
	}
	return ParseZones(raw, log)
}

// ParseZones decodes zones YAML. Rows with non-numeric bounds are skipped
// with a warning; they never fail the whole document.
func ParseZones(raw []byte, log *logger.Logger) (Zones, error) {
	var dto zonesFileDTO
	if err := yaml.Unmarshal(raw, &dto); err != nil {
		return Zones{}, fmt.Errorf("decode zones: %w", err)
	}

	var zones Zones
	zones.Current = mapEntries(dto.Current, "current", &zones.Skipped, log)
	zones.Planned = mapEntries(dto.Planned, "planned", &zones.Skipped, log)
	return zones, nil
}

func mapEntries(groups []zoneGroupDTO, table string, skipped *int, log *logger.Logger) []domain.ZoneEntry {
	var out []domain.ZoneEntry
	for _, g := range groups {
		for _, e := range g.Entries {
			from, okFrom := toInt(e.From)
			to, okTo := toInt(e.To)
			if !okFrom || !okTo {
				*skipped++
				if log != nil {
					log.Warn("skipping malformed coverage entry",
						"table", table, "zone", g.Zone, "street", e.Street,
						"from", e.From, "to", e.To)
				}
				continue
			}
			out = append(out, domain.ZoneEntry{Street: e.Street, From: from, To: to})
		}
	}
	return out
}

// toInt accepts YAML integers, integral floats and numeric strings.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// LoadLayout reads map overlays from path, or the embedded defaults when
// path is empty.
func LoadLayout(path string) (mapview.Layout, error) {
	raw, err := readOrDefault(path, defaultOverlays)
	if err != nil {
		return mapview.Layout{}, err
	}
	return ParseLayout(raw)
}

// ParseLayout decodes overlays YAML into a map layout.
func ParseLayout(raw []byte) (mapview.Layout, error) {
	var dto overlaysFileDTO
	if err := yaml.Unmarshal(raw, &dto); err != nil {
		return mapview.Layout{}, fmt.Errorf("decode overlays: %w", err)
	}

	center, err := toLatLng(dto.DefaultView.Center)
	if err != nil {
		return mapview.Layout{}, fmt.Errorf("default view center: %w", err)
	}

	layout := mapview.Layout{
		Default: mapview.View{Center: center, Zoom: dto.DefaultView.Zoom},
	}

	for _, o := range dto.Overlays {
		vertices := make([]mapview.LatLng, 0, len(o.Vertices))
		for _, v := range o.Vertices {
			ll, err := toLatLng(v)
			if err != nil {
				return mapview.Layout{}, fmt.Errorf("overlay %q: %w", o.ID, err)
			}
			vertices = append(vertices, ll)
		}

		overlay, err := mapview.NewOverlay(o.ID, o.Label, o.Kind, vertices)
		if err != nil {
			return mapview.Layout{}, err
		}
		layout.Overlays = append(layout.Overlays, overlay)
	}

	return layout, nil
}

func toLatLng(pair []float64) (mapview.LatLng, error) {
	if len(pair) != 2 {
		return mapview.LatLng{}, fmt.Errorf("expected [lat, lon], got %d values", len(pair))
	}
	return mapview.LatLng{Lat: pair[0], Lon: pair[1]}, nil
}

func readOrDefault(path string, fallback []byte) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return fallback, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}
