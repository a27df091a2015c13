// Package selection tracks which cones are selected, in selection order.
package selection

import "slices"

// Set is an ordered set of cone ids. The last element is the most recently
// selected cone. Set is not safe for concurrent use.
type Set struct {
	ids []uint64
}

// New creates an empty selection.
func New() *Set {
	return &Set{}
}

// Only replaces the selection with a single id.
func (s *Set) Only(id uint64) {
	s.ids = append(s.ids[:0], id)
}

// Add selects id if it is not already selected.
func (s *Set) Add(id uint64) {
	if !s.Contains(id) {
		s.ids = append(s.ids, id)
	}
}

// Toggle flips the selection state of id and reports whether it is now selected.
func (s *Set) Toggle(id uint64) bool {
	if s.Remove(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove deselects id and reports whether it was selected.
func (s *Set) Remove(id uint64) bool {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	return true
}

// Replace sets the selection to ids, dropping duplicates.
func (s *Set) Replace(ids []uint64) {
	s.ids = s.ids[:0]
	for _, id := range ids {
		s.Add(id)
	}
}

// Clear deselects everything.
func (s *Set) Clear() {
	s.ids = s.ids[:0]
}

// Retain drops every id for which live returns false. The editor calls this
// whenever cones disappear so the selection stays a subset of the store.
func (s *Set) Retain(live func(id uint64) bool) {
	s.ids = slices.DeleteFunc(s.ids, func(id uint64) bool { return !live(id) })
}

// Contains reports whether id is selected.
func (s *Set) Contains(id uint64) bool {
	return slices.Contains(s.ids, id)
}

// IDs returns a copy of the selected ids in selection order.
func (s *Set) IDs() []uint64 {
	return slices.Clone(s.ids)
}

// Len returns the number of selected cones.
func (s *Set) Len() int {
	return len(s.ids)
}

// Last returns the most recently selected id.
func (s *Set) Last() (uint64, bool) {
	if len(s.ids) == 0 {
		return 0, false
	}
	return s.ids[len(s.ids)-1], true
}
