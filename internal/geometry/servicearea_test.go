package geometry

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shifty/server/config"
	"shifty/server/internal/models"
)

func TestRoute(t *testing.T) {
	area := NewServiceArea(config.CampusNodes)

	route := area.Route()
	require.Len(t, route, 3)
	assert.Equal(t, orb.Point{78.0138, 30.2666}, route[0])
	assert.Equal(t, orb.Point{77.9947, 30.3561}, route[2])

	polyline := area.Polyline()
	require.Len(t, polyline, 3)
	assert.Equal(t, [2]float64{30.2666, 78.0138}, polyline[0])

	assert.InDelta(t, 12.5, area.RouteLengthKm(), 0.001)
}

func TestBounds(t *testing.T) {
	bounds := NewServiceArea(config.CampusNodes).Bounds()

	assert.Equal(t, Bounds{South: 30.2666, West: 77.9947, North: 30.3561, East: 78.0415}, bounds)
}

func TestNearest(t *testing.T) {
	area := NewServiceArea(config.CampusNodes)

	tests := []struct {
		listing  string
		campus   string
		distance float64
	}{
		{"clement-courtyard", "Graphic Era Hill University", 0.0},
		{"geu-green-homes", "Graphic Era University", 0.3},
		{"rajpur-rise", "Graphic Era Hill University", 2.9},
		{"doon-duplex", "Graphic Era Hill University", 4.4},
	}

	for _, tt := range tests {
		t.Run(tt.listing, func(t *testing.T) {
			listing := config.GetListingByID(tt.listing)
			require.NotNil(t, listing)

			nearest, ok := area.Nearest(listing.Coordinates)
			require.True(t, ok)
			assert.Equal(t, tt.campus, nearest.Name)
			assert.InDelta(t, tt.distance, nearest.DistanceKm, 0.001)
		})
	}
}

func TestNearest_EmptyArea(t *testing.T) {
	_, ok := NewServiceArea(nil).Nearest(models.Coordinates{Lat: 30.3, Lng: 78.0})
	assert.False(t, ok)
}

func TestFeatureCollection(t *testing.T) {
	fc := NewServiceArea(config.CampusNodes).FeatureCollection()

	require.Len(t, fc.Features, 4)
	for _, f := range fc.Features[:3] {
		assert.Equal(t, "checkpoint", f.Properties["kind"])
		assert.IsType(t, orb.Point{}, f.Geometry)
	}
	assert.Equal(t, "Graphic Era University", fc.Features[0].Properties["name"])

	route := fc.Features[3]
	assert.Equal(t, "route", route.Properties["kind"])
	assert.IsType(t, orb.LineString{}, route.Geometry)

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "FeatureCollection", decoded["type"])
}

func TestFeatureCollection_SingleCheckpointHasNoRoute(t *testing.T) {
	fc := NewServiceArea(config.CampusNodes[:1]).FeatureCollection()

	require.Len(t, fc.Features, 1)
	assert.Equal(t, "checkpoint", fc.Features[0].Properties["kind"])
}
