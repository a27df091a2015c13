package editor

import (
	"fmt"
	"time"

	"github.com/conecourse/editor/internal/courseio"
	"github.com/conecourse/editor/pkg/core"
)

// Export snapshots the course and view state as a course file.
func (e *Editor) Export(now time.Time) courseio.File {
	return courseio.Build(e.store.All(), e.lines.Lines(), courseio.Meta{
		MapCenter: e.view.Center,
		MapZoom:   e.view.Zoom,
		Grid:      e.snapper.Settings,
		Time:      now,
	})
}

// Import replaces the course with f. The file is checked before anything
// changes, so a bad file leaves the editor as it was. Import is not undoable
// and empties the history.
func (e *Editor) Import(f courseio.File) error {
	if err := validate(f); err != nil {
		return e.warn(err)
	}

	e.cancelSessions()
	for _, c := range e.store.Clear() {
		e.surface.RemoveMarker(c.ID)
	}
	e.RemoveLines()
	e.sel.Clear()
	e.hist.Clear()

	ids := make([]uint64, len(f.Cones))
	for i, cj := range f.Cones {
		c := e.store.Add(cj.LatLng, cj.Type, cj.Angle)
		ids[i] = c.ID
		e.surface.PlaceMarker(c, e.draggable())
	}
	for _, lj := range f.Lines {
		e.drawLine(e.lines.AddStyled(ids[lj.Start], ids[lj.End], lj.Style))
	}

	if f.GridSettings != nil {
		e.snapper.Settings = *f.GridSettings
	}
	if f.MapCenter != nil {
		e.view.Center = *f.MapCenter
		if e.snapper.Origin == (core.LatLng{}) {
			e.snapper.Origin = *f.MapCenter
		}
	}
	if f.MapZoom != 0 {
		e.view.Zoom = f.MapZoom
	}
	e.redrawGrid()

	e.selectionChanged()
	e.refreshStats()
	e.logger.Info("course imported", "cones", len(f.Cones), "lines", len(f.Lines))
	return nil
}

// ImportBytes decodes a plain or gzip compressed course file and imports it.
func (e *Editor) ImportBytes(data []byte) error {
	f, err := courseio.Parse(data)
	if err != nil {
		return e.warn(err)
	}
	return e.Import(f)
}

func validate(f courseio.File) error {
	for i, c := range f.Cones {
		if _, err := core.ParseConeKind(c.Type.String()); err != nil {
			return fmt.Errorf("cone %d: %w", i, err)
		}
	}
	for i, l := range f.Lines {
		if l.Start < 0 || l.Start >= len(f.Cones) || l.End < 0 || l.End >= len(f.Cones) {
			return fmt.Errorf("line %d: %w", i, courseio.ErrBadLine)
		}
		if l.Start == l.End {
			return fmt.Errorf("line %d: %w", i, courseio.ErrBadLine)
		}
	}
	return nil
}
