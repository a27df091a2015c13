package editor

import (
	"github.com/conecourse/editor/internal/drawing"
	"github.com/conecourse/editor/internal/grid"
	"github.com/conecourse/editor/internal/measure"
	"github.com/conecourse/editor/pkg/core"
)

// StartLine remembers id as the first end of a new line.
func (e *Editor) StartLine(id uint64) error {
	if !e.isLive(id) {
		return e.missing(id)
	}
	e.lines.Begin(id)
	return nil
}

// EndLine draws a line from the pending cone to id.
func (e *Editor) EndLine(id uint64) error {
	if !e.isLive(id) {
		return e.missing(id)
	}
	l, ok, err := e.lines.End(id)
	if err != nil {
		return e.warn(err)
	}
	if ok {
		e.drawLine(l)
	}
	return nil
}

// Lines returns the drawn lines.
func (e *Editor) Lines() []drawing.Line {
	return e.lines.Lines()
}

// RemoveLine erases one drawn line.
func (e *Editor) RemoveLine(id uint64) bool {
	if _, ok := e.lines.Remove(id); !ok {
		return false
	}
	e.surface.RemoveLine(id)
	return true
}

// RemoveLines erases every drawn line.
func (e *Editor) RemoveLines() int {
	removed := e.lines.Clear()
	for _, l := range removed {
		e.surface.RemoveLine(l.ID)
	}
	return len(removed)
}

func (e *Editor) drawLine(l drawing.Line) {
	from, ok1 := e.store.Get(l.StartConeID)
	to, ok2 := e.store.Get(l.EndConeID)
	if !ok1 || !ok2 {
		return
	}
	e.surface.DrawLine(l, from.Position, to.Position)
}

// redrawLines redraws every line attached to cone id.
func (e *Editor) redrawLines(id uint64) {
	for _, l := range e.lines.Lines() {
		if l.Touches(id) {
			e.drawLine(l)
		}
	}
}

// MeasureClick adds a measurement point. Every second point completes a
// segment whose length is reported through the Measurement hook.
func (e *Editor) MeasureClick(p core.LatLng) (measure.Segment, bool) {
	if !e.meas.Active() {
		e.meas.SetActive(true)
	}
	seg, ok := e.meas.Click(p)
	if ok {
		e.hooks.Measurement(seg.Metres)
	}
	return seg, ok
}

// Measurements returns the completed measurement segments.
func (e *Editor) Measurements() []measure.Segment {
	return e.meas.Segments()
}

// Grid returns the snapping grid settings.
func (e *Editor) Grid() core.GridSettings {
	return e.snapper.Settings
}

// SetGrid replaces the grid settings. A zero origin keeps the current one.
// Cones already placed are not moved.
func (e *Editor) SetGrid(settings core.GridSettings, origin core.LatLng) {
	e.snapper.Settings = settings
	if origin != (core.LatLng{}) {
		e.snapper.Origin = origin
	}
	e.redrawGrid()
}

// View returns the visible map area.
func (e *Editor) View() View {
	return e.view
}

// SetView records the visible map area and redraws the grid for it.
func (e *Editor) SetView(v View) {
	e.view = v
	if e.snapper.Origin == (core.LatLng{}) {
		e.snapper.Origin = v.Center
	}
	e.redrawGrid()
}

func (e *Editor) redrawGrid() {
	e.surface.DrawGrid(e.GridLines())
}

// GridLines returns the lattice lines for the current view, or nil when the
// grid is hidden.
func (e *Editor) GridLines() []grid.Line {
	if !e.snapper.Visible(int(e.view.Zoom)) {
		return nil
	}
	return e.snapper.Lines(e.view.Center, e.view.Radius)
}
