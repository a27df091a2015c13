// Package clipboard holds copied cones and the paste preview built from them.
package clipboard

import (
	"errors"

	"github.com/conecourse/editor/internal/geo"
	"github.com/conecourse/editor/pkg/core"
)

var (
	// ErrEmptySelection is returned by Copy when there is nothing to copy.
	ErrEmptySelection = errors.New("nothing selected to copy")
	// ErrEmptyClipboard is returned by StartPaste before anything was copied.
	ErrEmptyClipboard = errors.New("clipboard is empty")
	// ErrNotPasting is returned when rotating a preview that does not exist.
	ErrNotPasting = errors.New("no paste in progress")
)

// Entry is a copied cone. The first entry is the anchor the others are
// placed relative to.
type Entry struct {
	Kind     core.ConeKind `json:"type"`
	Angle    float64       `json:"angle"`
	Position core.LatLng   `json:"latlng"`
}

// Preview is a cone that will be created if the paste is confirmed.
type Preview struct {
	Kind     core.ConeKind `json:"type"`
	Angle    float64       `json:"angle"`
	Position core.LatLng   `json:"latlng"`
}

// Clipboard is not safe for concurrent use.
type Clipboard struct {
	proj    geo.Projector
	entries []Entry

	// paste state
	active   bool
	target   core.LatLng
	angle    float64
	base     []core.LatLng
	previews []Preview
}

// New creates an empty clipboard. proj is used to rotate previews; without
// it only orientations turn.
func New(proj geo.Projector) *Clipboard {
	return &Clipboard{proj: proj}
}

// Copy replaces the clipboard content with a snapshot of cones. An empty
// slice leaves the previous content in place.
func (c *Clipboard) Copy(cones []core.Cone) error {
	if len(cones) == 0 {
		return ErrEmptySelection
	}
	entries := make([]Entry, len(cones))
	for i, cone := range cones {
		entries[i] = Entry{Kind: cone.Kind, Angle: cone.Angle, Position: cone.Position}
	}
	c.entries = entries
	return nil
}

// Entries returns a copy of the clipboard content.
func (c *Clipboard) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Len returns the number of copied cones.
func (c *Clipboard) Len() int {
	return len(c.entries)
}

// StartPaste builds previews keeping every cone's offset from the anchor,
// with the anchor at target. Rotation is reset to zero and any earlier
// preview is replaced.
func (c *Clipboard) StartPaste(target core.LatLng) ([]Preview, error) {
	if len(c.entries) == 0 {
		return nil, ErrEmptyClipboard
	}
	anchor := c.entries[0].Position

	c.active = true
	c.target = target
	c.angle = 0
	c.base = make([]core.LatLng, len(c.entries))
	c.previews = make([]Preview, len(c.entries))
	for i, e := range c.entries {
		c.base[i] = target.Add(e.Position.Sub(anchor))
		c.previews[i] = Preview{Kind: e.Kind, Angle: e.Angle, Position: c.base[i]}
	}
	return c.Previews(), nil
}

// Active reports whether a paste preview is showing.
func (c *Clipboard) Active() bool {
	return c.active
}

// Angle returns the current paste rotation in degrees.
func (c *Clipboard) Angle() float64 {
	return c.angle
}

// Previews returns a copy of the current previews.
func (c *Clipboard) Previews() []Preview {
	return append([]Preview(nil), c.previews...)
}

// UpdateRotation turns the preview by angle degrees about its first cone.
// The angle is absolute relative to the unrotated preview.
func (c *Clipboard) UpdateRotation(angle float64) ([]Preview, error) {
	if !c.active {
		return nil, ErrNotPasting
	}
	c.angle = angle
	pivot := c.base[0]
	for i, e := range c.entries {
		pos := c.base[i]
		if i > 0 && c.proj != nil {
			pos = geo.RotateAbout(pos, pivot, angle, c.proj)
		}
		c.previews[i] = Preview{
			Kind:     e.Kind,
			Angle:    core.NormalizeAngle(e.Angle + angle),
			Position: pos,
		}
	}
	return c.Previews(), nil
}

// ConfirmPaste ends the paste and returns the previews to create. It returns
// false when no paste was in progress.
func (c *Clipboard) ConfirmPaste() ([]Preview, bool) {
	if !c.active {
		return nil, false
	}
	previews := c.Previews()
	c.reset()
	return previews, true
}

// CancelPaste discards the preview. The clipboard content is kept.
func (c *Clipboard) CancelPaste() bool {
	if !c.active {
		return false
	}
	c.reset()
	return true
}

func (c *Clipboard) reset() {
	c.active = false
	c.target = core.LatLng{}
	c.angle = 0
	c.base = nil
	c.previews = nil
}
