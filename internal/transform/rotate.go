// Package transform rotates a group of cones about their centroid.
package transform

import (
	"errors"
	"math"

	"github.com/conecourse/editor/internal/geo"
	"github.com/conecourse/editor/internal/history"
	"github.com/conecourse/editor/pkg/core"
)

var (
	// ErrTooFewCones is returned when a group rotation starts with fewer than
	// two cones.
	ErrTooFewCones = errors.New("group rotation needs at least two cones")
	// ErrNoSession is returned when updating a session that was never started.
	ErrNoSession = errors.New("no group rotation in progress")
	// ErrNoProjector is returned when a session has nothing to project with.
	ErrNoProjector = errors.New("no projector configured")
)

// Session is one interactive group rotation. Angles passed to Update are
// absolute relative to the cones as they were when Start was called, so
// repeated updates never accumulate drift.
type Session struct {
	proj      geo.Projector
	originals []core.Cone
	current   []core.Cone
	pivot     core.LatLng
	angle     float64
	active    bool
}

// NewSession creates an idle session using proj for the rotation maths.
func NewSession(proj geo.Projector) *Session {
	return &Session{proj: proj}
}

// Start caches the cones and their centroid. Any previous session state is
// discarded.
func (s *Session) Start(cones []core.Cone) error {
	if s.proj == nil {
		return ErrNoProjector
	}
	if len(cones) < 2 {
		return ErrTooFewCones
	}

	positions := make([]core.LatLng, len(cones))
	for i, c := range cones {
		positions[i] = c.Position
	}
	pivot, _ := geo.Centroid(positions)

	s.originals = append(s.originals[:0], cones...)
	s.current = append([]core.Cone(nil), cones...)
	s.pivot = pivot
	s.angle = 0
	s.active = true
	return nil
}

// Active reports whether a session is in progress.
func (s *Session) Active() bool {
	return s.active
}

// Pivot returns the centroid the group rotates about.
func (s *Session) Pivot() core.LatLng {
	return s.pivot
}

// Angle returns the angle of the last update.
func (s *Session) Angle() float64 {
	return s.angle
}

// Update rotates every cached cone by angle degrees about the pivot and
// returns the new states.
func (s *Session) Update(angle float64) ([]core.Cone, error) {
	if !s.active {
		return nil, ErrNoSession
	}
	s.angle = angle
	for i, orig := range s.originals {
		c := orig
		c.Position = geo.RotateAbout(orig.Position, s.pivot, angle, s.proj)
		c.Angle = core.NormalizeAngle(orig.Angle + angle)
		s.current[i] = c
	}
	return append([]core.Cone(nil), s.current...), nil
}

// Finish ends the session and returns the net change of every cone from its
// original state. A full turn or no turn at all yields no changes.
func (s *Session) Finish() []history.Change {
	if !s.active {
		return nil
	}
	defer s.reset()

	if math.Mod(s.angle, 360) == 0 {
		return nil
	}
	changes := make([]history.Change, len(s.originals))
	for i := range s.originals {
		changes[i] = history.Change{Before: s.originals[i], After: s.current[i]}
	}
	return changes
}

// Cancel ends the session and returns the original cone states so the caller
// can put them back.
func (s *Session) Cancel() []core.Cone {
	if !s.active {
		return nil
	}
	originals := append([]core.Cone(nil), s.originals...)
	s.reset()
	return originals
}

func (s *Session) reset() {
	s.originals = nil
	s.current = nil
	s.pivot = core.LatLng{}
	s.angle = 0
	s.active = false
}
