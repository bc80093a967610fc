// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package geo describes the visible map area and the coordinate helpers the
client needs.

The Lambert-93 conversion here is a linear scaling, not a projection. It is
only good enough for display hints and must not be used for distances.
*/
package geo

import "fmt"

// lambertScale is the metres-per-degree factor of the linear approximation.
const lambertScale = 100000

// Point is a WGS84 latitude/longitude pair.
type Point struct {
	Lat float64
	Lng float64
}

// Viewport is the visible map rectangle, refreshed on every pan or zoom.
type Viewport struct {
	NorthEastLat float64
	NorthEastLng float64
	SouthWestLat float64
	SouthWestLng float64
}

// FromBBox builds a viewport from north, west, south and east edges.
func FromBBox(north, west, south, east float64) (Viewport, error) {
	if north < south {
		return Viewport{}, fmt.Errorf("geo: north %.6f is below south %.6f", north, south)
	}
	if north > 90 || south < -90 || east > 180 || west < -180 {
		return Viewport{}, fmt.Errorf("geo: bounding box outside WGS84 range")
	}
	return Viewport{NorthEastLat: north, NorthEastLng: east, SouthWestLat: south, SouthWestLng: west}, nil
}

// TopLeft is the north-west corner.
func (v Viewport) TopLeft() Point {
	return Point{Lat: v.NorthEastLat, Lng: v.SouthWestLng}
}

// BottomRight is the south-east corner.
func (v Viewport) BottomRight() Point {
	return Point{Lat: v.SouthWestLat, Lng: v.NorthEastLng}
}

// Center is the midpoint of the rectangle.
func (v Viewport) Center() Point {
	return Point{Lat: (v.NorthEastLat + v.SouthWestLat) / 2, Lng: (v.NorthEastLng + v.SouthWestLng) / 2}
}

func (v Viewport) String() string {
	return fmt.Sprintf("[%.5f,%.5f → %.5f,%.5f]", v.NorthEastLat, v.SouthWestLng, v.SouthWestLat, v.NorthEastLng)
}

// ToLambert93 approximates Lambert-93 metres from WGS84 degrees.
func ToLambert93(lat, lng float64) (x, y float64) {
	return lng * lambertScale, lat * lambertScale
}

// FromLambert93 is the inverse of [ToLambert93].
func FromLambert93(x, y float64) (lat, lng float64) {
	return y / lambertScale, x / lambertScale
}
