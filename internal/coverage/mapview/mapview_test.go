package mapview

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var square = []LatLng{
	{Lat: -37.30, Lon: -59.14},
	{Lat: -37.30, Lon: -59.10},
	{Lat: -37.33, Lon: -59.10},
	{Lat: -37.33, Lon: -59.14},
}

func TestNewOverlayClosesRing(t *testing.T) {
	o, err := NewOverlay("a", "Zone A", "current", square)
	require.NoError(t, err)

	coords := o.Polygon.Coords()
	require.Len(t, coords, 1)
	require.Len(t, coords[0], 5)
	assert.Equal(t, coords[0][0], coords[0][4])
	assert.Equal(t, 4326, o.Polygon.SRID())
}

func TestNewOverlayNeedsThreeVertices(t *testing.T) {
	_, err := NewOverlay("a", "", "", square[:2])
	require.Error(t, err)
}

func TestResetViewFitsOverlays(t *testing.T) {
	o, err := NewOverlay("a", "Zone A", "current", square)
	require.NoError(t, err)

	layout := Layout{Default: View{Center: LatLng{Lat: -37.321, Lon: -59.135}, Zoom: 13}, Overlays: []Overlay{o}}
	view := layout.ResetView()

	require.NotNil(t, view.Bounds)
	assert.Nil(t, view.Marker)
	assert.InDelta(t, -37.33, view.Bounds.SouthWest.Lat, 1e-9)
	assert.InDelta(t, -59.14, view.Bounds.SouthWest.Lon, 1e-9)
	assert.InDelta(t, -37.30, view.Bounds.NorthEast.Lat, 1e-9)
	assert.InDelta(t, -59.10, view.Bounds.NorthEast.Lon, 1e-9)
	assert.InDelta(t, -37.315, view.Center.Lat, 1e-9)
}

func TestResetViewWithoutOverlaysUsesDefault(t *testing.T) {
	layout := Layout{Default: View{Center: LatLng{Lat: -37.321, Lon: -59.135}, Zoom: 13}}
	view := layout.ResetView()

	assert.Nil(t, view.Bounds)
	assert.Equal(t, 13, view.Zoom)
	assert.Equal(t, LatLng{Lat: -37.321, Lon: -59.135}, view.Center)
}

func TestMarkerView(t *testing.T) {
	view := Layout{}.MarkerView(LatLng{Lat: -37.32, Lon: -59.13}, "Nigro 575, Tandil")

	require.NotNil(t, view.Marker)
	assert.Equal(t, MarkerZoom, view.Zoom)
	assert.Equal(t, "Nigro 575, Tandil", view.Marker.Label)
	assert.Equal(t, view.Center, view.Marker.Position)
}

func TestFeatureCollectionEncodesGeoJSON(t *testing.T) {
	o, err := NewOverlay("a", "Zone A", "current", square)
	require.NoError(t, err)

	raw, err := json.Marshal(Layout{Overlays: []Overlay{o}}.FeatureCollection())
	require.NoError(t, err)

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			ID       string `json:"id"`
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]string `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "FeatureCollection", decoded.Type)
	require.Len(t, decoded.Features, 1)
	assert.Equal(t, "a", decoded.Features[0].ID)
	assert.Equal(t, "Polygon", decoded.Features[0].Geometry.Type)
	assert.Equal(t, "current", decoded.Features[0].Properties["kind"])
}
