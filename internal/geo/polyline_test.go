package geo

import (
	"testing"

	"github.com/conecourse/editor/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathGeometry_Valid(t *testing.T) {
	points := []core.LatLng{
		{Lat: 39.95, Lng: -75.16},
		{Lat: 39.951, Lng: -75.161},
		{Lat: 39.952, Lng: -75.159},
	}
	ls := PathGeometry(points)

	require.False(t, ls.IsEmpty())
	seq := ls.Coordinates()
	require.Equal(t, 3, seq.Length())
	assert.Equal(t, -75.16, seq.Get(0).X)
	assert.Equal(t, 39.95, seq.Get(0).Y)
	assert.Equal(t, -75.159, seq.Get(2).X)
}

func TestPathGeometry_TooFewPoints(t *testing.T) {
	assert.True(t, PathGeometry(nil).IsEmpty())
	assert.True(t, PathGeometry([]core.LatLng{{Lat: 1, Lng: 2}}).IsEmpty())
}

func TestPathWKT_MultiplePoints(t *testing.T) {
	wkt := PathWKT([]core.LatLng{
		{Lat: 39.95, Lng: -75.16},
		{Lat: 39.951, Lng: -75.161},
		{Lat: 39.952, Lng: -75.159},
	})
	assert.Equal(t, "LINESTRING(-75.16 39.95,-75.161 39.951,-75.159 39.952)", wkt)
}
