package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/conecourse/editor/pkg/core"
	"github.com/wroge/wgs84"
	"gonum.org/v1/gonum/spatial/r2"
)

// PLANAR PROJECTION
// Rotation and snapping maths happens in Web Mercator pixel space at a fixed
// reference zoom. Rotating raw lat/lng distorts with latitude because a degree
// of longitude shrinks towards the poles.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// DefaultReferenceZoom is the zoom level whose pixel grid is used for
// geometric calculations. It matches the editor map's maximum zoom.
const DefaultReferenceZoom = 22

const (
	tileSize = 256
	// equatorial circumference of the EPSG:3857 sphere
	mercatorCircumference = 2 * math.Pi * 6378137
	// mean earth radius used for distances, same as the map widget
	earthRadius = 6371000
)

// Projector converts between geographic coordinates and a flat plane.
type Projector interface {
	Project(p core.LatLng) r2.Vec
	Unproject(v r2.Vec) core.LatLng
}

// Mercator projects through EPSG:3857 into pixel coordinates at Zoom, with
// x growing east and y growing south like screen space.
type Mercator struct {
	Zoom    int
	forward func(a, b, c float64) (float64, float64, float64)
	inverse func(a, b, c float64) (float64, float64, float64)
}

// NewMercator creates a projector for the given reference zoom.
func NewMercator(zoom int) *Mercator {
	epsg := wgs84.EPSG()
	return &Mercator{
		Zoom:    zoom,
		forward: epsg.Transform(4326, 3857),
		inverse: epsg.Transform(3857, 4326),
	}
}

func (m *Mercator) scale() float64 {
	return tileSize * math.Exp2(float64(m.Zoom)) / mercatorCircumference
}

// Project returns the pixel position of p at the reference zoom.
func (m *Mercator) Project(p core.LatLng) r2.Vec {
	x, y, _ := m.forward(p.Lng, p.Lat, 0)
	s := m.scale()
	return r2.Vec{
		X: (x + mercatorCircumference/2) * s,
		Y: (mercatorCircumference/2 - y) * s,
	}
}

// Unproject is the inverse of Project.
func (m *Mercator) Unproject(v r2.Vec) core.LatLng {
	s := m.scale()
	x := v.X/s - mercatorCircumference/2
	y := mercatorCircumference/2 - v.Y/s
	lng, lat, _ := m.inverse(x, y, 0)
	return core.LatLng{Lat: lat, Lng: lng}
}

// Centroid returns the arithmetic mean of the points. This is not
// geodesically exact but is fine at the scale of a single venue.
func Centroid(points []core.LatLng) (core.LatLng, bool) {
	if len(points) == 0 {
		return core.LatLng{}, false
	}
	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Lat
		sumLng += p.Lng
	}
	n := float64(len(points))
	return core.LatLng{Lat: sumLat / n, Lng: sumLng / n}, true
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RotateAbout rotates p around pivot by deg degrees in projected space.
// Positive angles turn clockwise on screen, the same sense as marker
// orientation.
func RotateAbout(p, pivot core.LatLng, deg float64, proj Projector) core.LatLng {
	rot := r2.NewRotation(Radians(deg), proj.Project(pivot))
	return proj.Unproject(rot.Rotate(proj.Project(p)))
}

// Distance returns the great-circle distance in metres between a and b.
func Distance(a, b core.LatLng) float64 {
	lat1 := Radians(a.Lat)
	lat2 := Radians(b.Lat)
	sinDLat := math.Sin(Radians(b.Lat-a.Lat) / 2)
	sinDLng := math.Sin(Radians(b.Lng-a.Lng) / 2)
	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLng*sinDLng
	return 2 * earthRadius * math.Asin(math.Sqrt(math.Min(1, h)))
}

// PathLength sums the distances between consecutive points, in metres.
func PathLength(points []core.LatLng) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// LatLngFromString parses a "lat,lng" string.
func LatLngFromString(coords string) (core.LatLng, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) != 2 {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	return core.LatLng{Lat: lat, Lng: lng}, nil
}
