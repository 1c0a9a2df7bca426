// Package geo carries the external geo-CRS contract the routing core
// treats as given: coordinates, line geometry, and the pure bearing and
// distance functions used by the directions builder. It is a thin shim
// over paulmach/orb so the rest of the repo keeps the teacher's
// Coord/CoordArray/Feature shapes instead of talking to orb directly.
package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Coord is (lon, lat), matching GeoJSON axis order.
type Coord [2]float64

func (c Coord) point() orb.Point {
	return orb.Point{c[0], c[1]}
}

type CoordArray []Coord

func (a CoordArray) lineString() orb.LineString {
	ls := make(orb.LineString, len(a))
	for i, c := range a {
		ls[i] = c.point()
	}
	return ls
}

// Distance is the haversine great-circle distance in meters.
func Distance(a, b Coord) float64 {
	return orbgeo.Distance(a.point(), b.point())
}

// Bearing returns the initial bearing in degrees from a to b, in [-180, 180].
func Bearing(a, b Coord) float64 {
	return orbgeo.Bearing(a.point(), b.point())
}

// Length returns the arc length of a line in meters, summing the
// haversine distance between consecutive points.
func Length(line CoordArray) float64 {
	total := 0.0
	for i := 0; i+1 < len(line); i++ {
		total += Distance(line[i], line[i+1])
	}
	return total
}

type LineString struct {
	Type        string     `json:"type"`
	Coordinates CoordArray `json:"coordinates"`
}

func NewLineString(line CoordArray) LineString {
	return LineString{Type: "LineString", Coordinates: line}
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   *LineString    `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

func NewFeature(geom *LineString, props map[string]any) Feature {
	return Feature{Type: "Feature", Geometry: geom, Properties: props}
}

// NormalizeAngle maps a raw difference of two bearings (each in
// [-180, 180]) into the signed range [-180, 180) used for maneuver
// classification, per spec section 9's explicit conversion rule.
func NormalizeAngle(post, pre float64) float64 {
	diff := post - pre
	return mod(diff+540, 360) - 180
}

func mod(a, b float64) float64 {
	m := a
	for m < 0 {
		m += b
	}
	for m >= b {
		m -= b
	}
	return m
}
