package geo

import (
	"github.com/conecourse/editor/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// PathGeometry builds the course path as a lon/lat LineString.
// Fewer than two points, or points that fail validation, yield an empty
// LineString.
func PathGeometry(points []core.LatLng) geom.LineString {
	if len(points) < 2 {
		return geom.LineString{}
	}

	flatCoords := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flatCoords = append(flatCoords, p.Lng, p.Lat)
	}

	seq := geom.NewSequence(flatCoords, geom.DimXY)
	ls, err := geom.NewLineString(seq)
	if err != nil {
		return geom.LineString{}
	}
	return ls
}

// PathWKT renders the course path as WKT.
func PathWKT(points []core.LatLng) string {
	return PathGeometry(points).AsText()
}
