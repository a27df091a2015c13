// Package drawing keeps permanent lines drawn between pairs of cones.
package drawing

import (
	"errors"
	"slices"
)

// Default line style.
const (
	DefaultColor   = "#ff0000"
	DefaultWeight  = 2
	DefaultOpacity = 0.8
)

// ErrSameCone is returned when both ends of a line are the same cone.
var ErrSameCone = errors.New("line needs two different cones")

// Style is how a line is rendered.
type Style struct {
	Color   string  `json:"color"`
	Weight  float64 `json:"weight"`
	Opacity float64 `json:"opacity"`
}

// DefaultStyle returns the style new lines get unless changed.
func DefaultStyle() Style {
	return Style{Color: DefaultColor, Weight: DefaultWeight, Opacity: DefaultOpacity}
}

// Line connects two cones by id.
type Line struct {
	ID          uint64 `json:"id"`
	StartConeID uint64 `json:"startConeId"`
	EndConeID   uint64 `json:"endConeId"`
	Style
}

// Touches reports whether the line ends at cone id.
func (l Line) Touches(id uint64) bool {
	return l.StartConeID == id || l.EndConeID == id
}

// Tool builds lines from pairs of cone clicks.
type Tool struct {
	Style Style

	active   bool
	start    uint64
	hasStart bool
	lines    []Line
	nextID   uint64
}

// NewTool creates an inactive tool with the default style.
func NewTool() *Tool {
	return &Tool{Style: DefaultStyle(), nextID: 1}
}

// Active reports whether cone clicks are drawing lines.
func (t *Tool) Active() bool {
	return t.active
}

// SetActive turns the tool on or off. Any pending start cone is dropped.
func (t *Tool) SetActive(active bool) {
	t.active = active
	t.start = 0
	t.hasStart = false
}

// Begin sets the first end of the next line.
func (t *Tool) Begin(coneID uint64) {
	t.start = coneID
	t.hasStart = true
}

// Pending returns the start cone of a half-drawn line.
func (t *Tool) Pending() (uint64, bool) {
	return t.start, t.hasStart
}

// End completes a line from the pending start cone to coneID. It returns
// false when there is no pending start.
func (t *Tool) End(coneID uint64) (Line, bool, error) {
	if !t.hasStart {
		return Line{}, false, nil
	}
	start := t.start
	t.start = 0
	t.hasStart = false
	if start == coneID {
		return Line{}, false, ErrSameCone
	}
	return t.Add(start, coneID), true, nil
}

// Click feeds a cone click to the tool: the first click begins a line and the
// second ends it.
func (t *Tool) Click(coneID uint64) (Line, bool, error) {
	if !t.hasStart {
		t.Begin(coneID)
		return Line{}, false, nil
	}
	return t.End(coneID)
}

// Add draws a line with the current style.
func (t *Tool) Add(startConeID, endConeID uint64) Line {
	return t.AddStyled(startConeID, endConeID, t.Style)
}

// AddStyled draws a line with an explicit style.
func (t *Tool) AddStyled(startConeID, endConeID uint64, style Style) Line {
	l := Line{ID: t.nextID, StartConeID: startConeID, EndConeID: endConeID, Style: style}
	t.nextID++
	t.lines = append(t.lines, l)
	return l
}

// Remove deletes a line by id.
func (t *Tool) Remove(id uint64) (Line, bool) {
	i := slices.IndexFunc(t.lines, func(l Line) bool { return l.ID == id })
	if i < 0 {
		return Line{}, false
	}
	l := t.lines[i]
	t.lines = slices.Delete(t.lines, i, i+1)
	return l, true
}

// Detach removes and returns every line that ends at cone id.
func (t *Tool) Detach(coneID uint64) []Line {
	var removed []Line
	t.lines = slices.DeleteFunc(t.lines, func(l Line) bool {
		if l.Touches(coneID) {
			removed = append(removed, l)
			return true
		}
		return false
	})
	if t.start == coneID {
		t.start = 0
		t.hasStart = false
	}
	return removed
}

// Lines returns all lines in drawing order.
func (t *Tool) Lines() []Line {
	return slices.Clone(t.lines)
}

// Clear removes every line and returns them.
func (t *Tool) Clear() []Line {
	removed := t.lines
	t.lines = nil
	t.start = 0
	t.hasStart = false
	return removed
}
