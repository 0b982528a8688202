// Package mapview computes what the coverage map should show: overlay
// polygons, the view that fits them, and the marker view for a geocoded
// address. Rendering itself is left to the browser map library.
package mapview

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// MarkerZoom is the zoom level used when centering on a geocoded address.
const MarkerZoom = 16

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is the south-west / north-east box a map should fit.
type Bounds struct {
	SouthWest LatLng `json:"southWest"`
	NorthEast LatLng `json:"northEast"`
}

// Marker is a single pin placed for a geocoded address.
type Marker struct {
	Position LatLng `json:"position"`
	Label    string `json:"label"`
}

// View is what the client map should display after a check. When Bounds is
// set the client fits it; otherwise it centers on Center at Zoom.
type View struct {
	Center LatLng  `json:"center"`
	Zoom   int     `json:"zoom"`
	Bounds *Bounds `json:"bounds,omitempty"`
	Marker *Marker `json:"marker,omitempty"`
}

// Overlay is a coverage area polygon. Coordinates are stored lon/lat (XY).
type Overlay struct {
	ID      string
	Label   string
	Kind    string
	Polygon *geom.Polygon
}

// NewOverlay builds an overlay from lat/lon vertices, closing the ring when
// the last vertex differs from the first.
func NewOverlay(id, label, kind string, vertices []LatLng) (Overlay, error) {
	if len(vertices) < 3 {
		return Overlay{}, fmt.Errorf("overlay %q: need at least 3 vertices, got %d", id, len(vertices))
	}

	ring := make([]geom.Coord, 0, len(vertices)+1)
	for _, v := range vertices {
		ring = append(ring, geom.Coord{v.Lon, v.Lat})
	}
	if first, last := vertices[0], vertices[len(vertices)-1]; first != last {
		ring = append(ring, geom.Coord{first.Lon, first.Lat})
	}

	polygon, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	if err != nil {
		return Overlay{}, fmt.Errorf("overlay %q: %w", id, err)
	}
	polygon.SetSRID(4326)

	return Overlay{ID: id, Label: label, Kind: kind, Polygon: polygon}, nil
}

// Layout is the static map configuration: the fallback view and the overlays.
type Layout struct {
	Default  View
	Overlays []Overlay
}

// MarkerView centers the map on a geocoded address.
func (l Layout) MarkerView(position LatLng, label string) View {
	return View{
		Center: position,
		Zoom:   MarkerZoom,
		Marker: &Marker{Position: position, Label: label},
	}
}

// ResetView shows every overlay, or the fixed default view when there are none.
func (l Layout) ResetView() View {
	bounds, ok := OverlayBounds(l.Overlays)
	if !ok {
		return View{Center: l.Default.Center, Zoom: l.Default.Zoom}
	}

	return View{
		Center: LatLng{
			Lat: (bounds.SouthWest.Lat + bounds.NorthEast.Lat) / 2,
			Lon: (bounds.SouthWest.Lon + bounds.NorthEast.Lon) / 2,
		},
		Zoom:   l.Default.Zoom,
		Bounds: bounds,
	}
}

// OverlayBounds returns the box enclosing all overlays.
func OverlayBounds(overlays []Overlay) (*Bounds, bool) {
	b := geom.NewBounds(geom.XY)
	for _, o := range overlays {
		if o.Polygon != nil {
			b.Extend(o.Polygon)
		}
	}
	if b.IsEmpty() {
		return nil, false
	}

	return &Bounds{
		SouthWest: LatLng{Lat: b.Min(1), Lon: b.Min(0)},
		NorthEast: LatLng{Lat: b.Max(1), Lon: b.Max(0)},
	}, true
}

// FeatureCollection encodes the overlays as GeoJSON for the client map.
func (l Layout) FeatureCollection() *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(l.Overlays))}
	for _, o := range l.Overlays {
		if o.Polygon == nil {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       o.ID,
			Geometry: o.Polygon,
			Properties: map[string]interface{}{
				"label": o.Label,
				"kind":  o.Kind,
			},
		})
	}
	return fc
}
