// Package grid snaps points onto a rotated square lattice.
package grid

import (
	"math"

	"github.com/conecourse/editor/internal/geo"
	"github.com/conecourse/editor/pkg/core"
	"gonum.org/v1/gonum/spatial/r2"
)

// MinZoom is the lowest map zoom at which grid lines are drawn.
const MinZoom = 17

// metresPerDegreeLat is the flat-earth approximation used to size the lattice.
const metresPerDegreeLat = 111111

// Snapper maps points to the nearest lattice point. The lattice passes
// through Origin, has Settings.Size feet spacing and is rotated by
// Settings.Rotation degrees.
type Snapper struct {
	Settings  core.GridSettings
	Origin    core.LatLng
	Projector geo.Projector
}

// Line is a grid line segment for the rendering surface.
type Line struct {
	From core.LatLng `json:"from"`
	To   core.LatLng `json:"to"`
}

// Snap returns the lattice point nearest to p, or p itself when snapping is
// disabled or the lattice is degenerate.
func (s Snapper) Snap(p core.LatLng) core.LatLng {
	if !s.Settings.Enabled || s.Projector == nil {
		return p
	}
	stepX, stepY := s.steps()
	if !usable(stepX) || !usable(stepY) {
		return p
	}

	origin := s.Projector.Project(s.Origin)
	rel := r2.Sub(s.Projector.Project(p), origin)

	theta := geo.Radians(s.Settings.Rotation)
	aligned := r2.NewRotation(-theta, r2.Vec{}).Rotate(rel)
	snapped := r2.Vec{
		X: math.Round(aligned.X/stepX) * stepX,
		Y: math.Round(aligned.Y/stepY) * stepY,
	}
	back := r2.NewRotation(theta, r2.Vec{}).Rotate(snapped)

	return s.Projector.Unproject(r2.Add(back, origin))
}

// steps returns the lattice spacing along the projected x and y axes.
func (s Snapper) steps() (float64, float64) {
	metres := s.Settings.SizeMetres()
	p0 := s.Projector.Project(s.Origin)
	pLat := s.Projector.Project(core.LatLng{
		Lat: s.Origin.Lat + metres/metresPerDegreeLat,
		Lng: s.Origin.Lng,
	})
	pLng := s.Projector.Project(core.LatLng{
		Lat: s.Origin.Lat,
		Lng: s.Origin.Lng + metres/(metresPerDegreeLat*math.Cos(geo.Radians(s.Origin.Lat))),
	})
	return math.Abs(pLng.X - p0.X), math.Abs(pLat.Y - p0.Y)
}

func usable(step float64) bool {
	return step > 0 && !math.IsInf(step, 0) && !math.IsNaN(step)
}

// Visible reports whether grid lines should be drawn at the given zoom.
func (s Snapper) Visible(zoom int) bool {
	return s.Settings.Enabled && zoom >= MinZoom
}

// Lines returns the lattice lines covering a circle of radius metres around
// center. Lines are long enough to cross the whole circle at any rotation.
func (s Snapper) Lines(center core.LatLng, radius float64) []Line {
	if s.Projector == nil || radius <= 0 {
		return nil
	}
	stepX, stepY := s.steps()
	if !usable(stepX) || !usable(stepY) {
		return nil
	}
	size := s.Settings.SizeMetres()
	n := int(math.Ceil(radius/size)) + 2

	origin := s.Projector.Project(s.Origin)
	theta := geo.Radians(s.Settings.Rotation)
	toLattice := r2.NewRotation(-theta, r2.Vec{})
	fromLattice := r2.NewRotation(theta, r2.Vec{})

	c := toLattice.Rotate(r2.Sub(s.Projector.Project(center), origin))
	kx := math.Round(c.X / stepX)
	ky := math.Round(c.Y / stepY)
	halfX := float64(n) * stepX * 2
	halfY := float64(n) * stepY * 2

	unproject := func(v r2.Vec) core.LatLng {
		return s.Projector.Unproject(r2.Add(fromLattice.Rotate(v), origin))
	}

	lines := make([]Line, 0, 4*n+2)
	for i := -n; i <= n; i++ {
		x := (kx + float64(i)) * stepX
		lines = append(lines, Line{
			From: unproject(r2.Vec{X: x, Y: c.Y - halfY}),
			To:   unproject(r2.Vec{X: x, Y: c.Y + halfY}),
		})
		y := (ky + float64(i)) * stepY
		lines = append(lines, Line{
			From: unproject(r2.Vec{X: c.X - halfX, Y: y}),
			To:   unproject(r2.Vec{X: c.X + halfX, Y: y}),
		})
	}
	return lines
}
