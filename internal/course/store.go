// Package course holds the authoritative list of placed cones.
package course

import (
	"errors"
	"fmt"
	"sort"

	"github.com/conecourse/editor/internal/geo"
	"github.com/conecourse/editor/pkg/core"
)

var (
	// ErrNotFound is returned when no live cone has the requested id.
	ErrNotFound = errors.New("cone not found")
	// ErrDuplicateID is returned when restoring a cone whose id is live.
	ErrDuplicateID = errors.New("cone id already in use")
)

// Store owns the lifecycle of every cone. Cones are kept ordered by id,
// which is also creation order and therefore course path order.
// Store is not safe for concurrent use.
type Store struct {
	cones  []core.Cone
	nextID uint64
}

// NewStore creates an empty store. The first cone gets id 1.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Add places a new cone and returns its snapshot.
func (s *Store) Add(pos core.LatLng, kind core.ConeKind, angle float64) core.Cone {
	c := core.Cone{
		ID:       s.nextID,
		Position: pos,
		Angle:    core.NormalizeAngle(angle),
		Kind:     kind,
	}
	s.nextID++
	s.cones = append(s.cones, c)
	return c
}

// Restore re-inserts a previously removed cone under its original id.
func (s *Store) Restore(c core.Cone) error {
	i, found := s.search(c.ID)
	if found {
		return fmt.Errorf("%w: %d", ErrDuplicateID, c.ID)
	}
	c.Angle = core.NormalizeAngle(c.Angle)
	s.cones = append(s.cones, core.Cone{})
	copy(s.cones[i+1:], s.cones[i:])
	s.cones[i] = c
	if c.ID >= s.nextID {
		s.nextID = c.ID + 1
	}
	return nil
}

// Remove deletes the cone with the given id and returns its last state.
func (s *Store) Remove(id uint64) (core.Cone, bool) {
	i, found := s.search(id)
	if !found {
		return core.Cone{}, false
	}
	c := s.cones[i]
	s.cones = append(s.cones[:i], s.cones[i+1:]...)
	return c, true
}

// Replace overwrites position, angle and kind of a live cone.
func (s *Store) Replace(c core.Cone) error {
	i, found := s.search(c.ID)
	if !found {
		return fmt.Errorf("%w: %d", ErrNotFound, c.ID)
	}
	c.Angle = core.NormalizeAngle(c.Angle)
	s.cones[i] = c
	return nil
}

// Get returns the cone with the given id.
func (s *Store) Get(id uint64) (core.Cone, bool) {
	i, found := s.search(id)
	if !found {
		return core.Cone{}, false
	}
	return s.cones[i], true
}

// SetPosition moves a cone and returns its previous state.
func (s *Store) SetPosition(id uint64, pos core.LatLng) (core.Cone, error) {
	return s.update(id, func(c *core.Cone) { c.Position = pos })
}

// SetAngle changes a cone's orientation and returns its previous state.
func (s *Store) SetAngle(id uint64, angle float64) (core.Cone, error) {
	return s.update(id, func(c *core.Cone) { c.Angle = core.NormalizeAngle(angle) })
}

// SetKind changes a cone's kind and returns its previous state.
func (s *Store) SetKind(id uint64, kind core.ConeKind) (core.Cone, error) {
	return s.update(id, func(c *core.Cone) { c.Kind = kind })
}

func (s *Store) update(id uint64, fn func(*core.Cone)) (core.Cone, error) {
	i, found := s.search(id)
	if !found {
		return core.Cone{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	old := s.cones[i]
	fn(&s.cones[i])
	return old, nil
}

// Clear removes every cone and returns them in path order.
// Id assignment continues from where it was; ids are never reused.
func (s *Store) Clear() []core.Cone {
	removed := s.cones
	s.cones = nil
	return removed
}

// All returns a copy of every cone in path order.
func (s *Store) All() []core.Cone {
	out := make([]core.Cone, len(s.cones))
	copy(out, s.cones)
	return out
}

// Len returns the number of live cones.
func (s *Store) Len() int {
	return len(s.cones)
}

// Positions returns the cone positions in path order.
func (s *Store) Positions() []core.LatLng {
	out := make([]core.LatLng, len(s.cones))
	for i, c := range s.cones {
		out[i] = c.Position
	}
	return out
}

// PathLength returns the length in metres of the path through every cone in
// order.
func (s *Store) PathLength() float64 {
	return geo.PathLength(s.Positions())
}

func (s *Store) search(id uint64) (int, bool) {
	i := sort.Search(len(s.cones), func(i int) bool { return s.cones[i].ID >= id })
	return i, i < len(s.cones) && s.cones[i].ID == id
}
