// pkg/core/position.go
package core

import "fmt"

// LatLng is a geographic coordinate in WGS84 degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Add returns the coordinate offset by d, component-wise.
func (p LatLng) Add(d LatLng) LatLng {
	return LatLng{Lat: p.Lat + d.Lat, Lng: p.Lng + d.Lng}
}

// Sub returns the component-wise offset from o to p.
func (p LatLng) Sub(o LatLng) LatLng {
	return LatLng{Lat: p.Lat - o.Lat, Lng: p.Lng - o.Lng}
}

func (p LatLng) String() string {
	return fmt.Sprintf("%.7f,%.7f", p.Lat, p.Lng)
}

// Bounds is an axis-aligned lat/lng rectangle. The corners may be given in
// any order; Contains normalises them.
type Bounds struct {
	A LatLng
	B LatLng
}

// Contains reports whether p lies inside the rectangle, edges included.
func (b Bounds) Contains(p LatLng) bool {
	minLat, maxLat := b.A.Lat, b.B.Lat
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	minLng, maxLng := b.A.Lng, b.B.Lng
	if minLng > maxLng {
		minLng, maxLng = maxLng, minLng
	}
	return p.Lat >= minLat && p.Lat <= maxLat && p.Lng >= minLng && p.Lng <= maxLng
}
