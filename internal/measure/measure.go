// Package measure implements the two-click distance tool.
package measure

import (
	"fmt"

	"github.com/conecourse/editor/internal/geo"
	"github.com/conecourse/editor/pkg/core"
)

// Segment is one completed measurement.
type Segment struct {
	From   core.LatLng `json:"from"`
	To     core.LatLng `json:"to"`
	Metres float64     `json:"metres"`
}

// Feet returns the segment length in feet.
func (s Segment) Feet() float64 {
	return Feet(s.Metres)
}

// Feet converts metres to feet.
func Feet(metres float64) float64 {
	return metres * core.FeetPerMetre
}

// FormatFeet renders a length in metres as feet with one decimal.
func FormatFeet(metres float64) string {
	return fmt.Sprintf("%.1f ft", Feet(metres))
}

// Tool collects clicks in pairs. The first click of a pair sets the start
// point and the second completes a segment.
type Tool struct {
	active   bool
	start    core.LatLng
	hasStart bool
	segments []Segment
}

// Active reports whether clicks are being measured.
func (t *Tool) Active() bool {
	return t.active
}

// SetActive turns measuring on or off. Turning it off clears all segments.
func (t *Tool) SetActive(active bool) {
	t.active = active
	if !active {
		t.Clear()
	}
}

// Start returns the pending start point, if any.
func (t *Tool) Start() (core.LatLng, bool) {
	return t.start, t.hasStart
}

// Click records p. It returns the completed segment on every second click.
func (t *Tool) Click(p core.LatLng) (Segment, bool) {
	if !t.hasStart {
		t.start = p
		t.hasStart = true
		return Segment{}, false
	}
	seg := Segment{From: t.start, To: p, Metres: geo.Distance(t.start, p)}
	t.segments = append(t.segments, seg)
	t.start = core.LatLng{}
	t.hasStart = false
	return seg, true
}

// Segments returns the completed measurements.
func (t *Tool) Segments() []Segment {
	return append([]Segment(nil), t.segments...)
}

// Clear forgets the pending start point and all segments.
func (t *Tool) Clear() {
	t.start = core.LatLng{}
	t.hasStart = false
	t.segments = nil
}
