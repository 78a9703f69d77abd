package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"

	"shifty/server/internal/models"
)

// ServiceArea is the set of campus checkpoints the fleet shuttles between.
type ServiceArea struct {
	checkpoints []models.CampusNode
}

// Bounds is a lat/lng bounding box.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// NearestCheckpoint is the closest checkpoint to some location.
type NearestCheckpoint struct {
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distanceKm"`
}

func NewServiceArea(checkpoints []models.CampusNode) *ServiceArea {
	return &ServiceArea{checkpoints: checkpoints}
}

func toPoint(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

// Checkpoints returns the checkpoints in route order.
func (s *ServiceArea) Checkpoints() []models.CampusNode {
	return s.checkpoints
}

// Route is the fleet route through every checkpoint in order.
func (s *ServiceArea) Route() orb.LineString {
	line := make(orb.LineString, len(s.checkpoints))
	for i, node := range s.checkpoints {
		line[i] = toPoint(node.Lat, node.Lng)
	}
	return line
}

// Polyline returns the route as [lat, lng] pairs for map widgets.
func (s *ServiceArea) Polyline() [][2]float64 {
	polyline := make([][2]float64, len(s.checkpoints))
	for i, node := range s.checkpoints {
		polyline[i] = [2]float64{node.Lat, node.Lng}
	}
	return polyline
}

// Bounds returns the box around all checkpoints.
func (s *ServiceArea) Bounds() Bounds {
	b := s.Route().Bound()
	return Bounds{
		South: b.Min.Lat(),
		West:  b.Min.Lon(),
		North: b.Max.Lat(),
		East:  b.Max.Lon(),
	}
}

// RouteLengthKm is the great-circle length of the route.
func (s *ServiceArea) RouteLengthKm() float64 {
	return roundTenth(geo.Length(s.Route()) / 1000)
}

// Nearest returns the checkpoint closest to the given coordinates. ok is
// false when the area has no checkpoints.
func (s *ServiceArea) Nearest(c models.Coordinates) (NearestCheckpoint, bool) {
	if len(s.checkpoints) == 0 {
		return NearestCheckpoint{}, false
	}

	target := toPoint(c.Lat, c.Lng)
	best := NearestCheckpoint{DistanceKm: math.Inf(1)}
	for _, node := range s.checkpoints {
		km := geo.Distance(target, toPoint(node.Lat, node.Lng)) / 1000
		if km < best.DistanceKm {
			best = NearestCheckpoint{Name: node.Name, DistanceKm: km}
		}
	}

	best.DistanceKm = roundTenth(best.DistanceKm)
	return best, true
}

// FeatureCollection renders the checkpoints and route as GeoJSON.
func (s *ServiceArea) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, node := range s.checkpoints {
		feature := geojson.NewFeature(toPoint(node.Lat, node.Lng))
		feature.Properties = geojson.Properties{
			"name": node.Name,
			"kind": "checkpoint",
		}
		fc.Append(feature)
	}

	if len(s.checkpoints) > 1 {
		route := geojson.NewFeature(s.Route())
		route.Properties = geojson.Properties{
			"kind":      "route",
			"length_km": s.RouteLengthKm(),
		}
		fc.Append(route)
	}

	return fc
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
