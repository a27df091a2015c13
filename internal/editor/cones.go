package editor

import (
	"errors"
	"fmt"

	"github.com/conecourse/editor/internal/history"
	"github.com/conecourse/editor/pkg/core"
)

// ErrNoSuchCone is returned when an operation names a cone that is not live.
var ErrNoSuchCone = errors.New("no such cone")

type dragState struct {
	id     uint64
	starts []core.Cone
}

// Click handles a click on the empty map according to the current mode.
func (e *Editor) Click(p core.LatLng) {
	if e.clip.Active() {
		e.DeselectAll()
		return
	}
	switch e.mode {
	case ModePlace:
		e.PlaceCone(p, e.kind)
	case ModeMeasure:
		e.MeasureClick(p)
	case ModeCursor, ModeSelect:
		e.DeselectAll()
	}
}

// ConeClick handles a click on a cone according to the current mode.
func (e *Editor) ConeClick(id uint64) error {
	if _, ok := e.store.Get(id); !ok {
		return e.missing(id)
	}
	switch e.mode {
	case ModeLine:
		if _, pending := e.lines.Pending(); pending {
			return e.EndLine(id)
		}
		return e.StartLine(id)
	case ModeSelect:
		return e.ToggleSelect(id)
	default:
		return e.Select(id)
	}
}

// PlaceCone snaps p to the grid and places a new cone there.
func (e *Editor) PlaceCone(p core.LatLng, kind core.ConeKind) core.Cone {
	e.commitRotation()
	c := e.store.Add(e.snapper.Snap(p), kind, 0)
	e.surface.PlaceMarker(c, e.draggable())
	e.hist.Record(history.Created(c))
	e.refreshStats()
	return c
}

// DeleteCone removes one cone.
func (e *Editor) DeleteCone(id uint64) error {
	e.commitRotation()
	c, ok := e.removeCone(id)
	if !ok {
		return e.missing(id)
	}
	e.hist.Record(history.Deleted(c))
	e.afterRemoval()
	return nil
}

// DeleteSelected removes every selected cone as one undoable action.
func (e *Editor) DeleteSelected() int {
	e.commitRotation()
	ids := e.sel.IDs()
	removed := make([]core.Cone, 0, len(ids))
	for _, id := range ids {
		if c, ok := e.removeCone(id); ok {
			removed = append(removed, c)
		}
	}
	if len(removed) == 0 {
		return 0
	}
	e.hist.Record(history.Deleted(removed...))
	e.afterRemoval()
	return len(removed)
}

// ClearAll removes every cone and line.
func (e *Editor) ClearAll() int {
	e.cancelSessions()
	removed := e.store.Clear()
	for _, c := range removed {
		e.surface.RemoveMarker(c.ID)
	}
	for _, l := range e.lines.Clear() {
		e.surface.RemoveLine(l.ID)
	}
	if len(removed) > 0 {
		e.hist.Record(history.Cleared(removed...))
	}
	e.afterRemoval()
	return len(removed)
}

// BeginDrag starts dragging cone id. An unselected cone becomes the only
// selected cone; a selected cone drags the whole selection with it.
func (e *Editor) BeginDrag(id uint64) error {
	e.commitRotation()
	if _, ok := e.store.Get(id); !ok {
		return e.missing(id)
	}
	if !e.sel.Contains(id) {
		e.sel.Only(id)
		e.selectionChanged()
	}
	starts := make([]core.Cone, 0, e.sel.Len())
	for _, sid := range e.sel.IDs() {
		if c, ok := e.store.Get(sid); ok {
			starts = append(starts, c)
		}
	}
	e.drag = &dragState{id: id, starts: starts}
	return nil
}

// Drag moves the dragged cone to p and every other dragged cone by the same
// offset.
func (e *Editor) Drag(id uint64, p core.LatLng) error {
	if e.drag == nil || e.drag.id != id {
		if err := e.BeginDrag(id); err != nil {
			return err
		}
	}
	var origin core.LatLng
	for _, c := range e.drag.starts {
		if c.ID == id {
			origin = c.Position
		}
	}
	delta := p.Sub(origin)
	for _, start := range e.drag.starts {
		updated, err := e.setPosition(start.ID, start.Position.Add(delta))
		if err != nil {
			e.logger.Warn("dragged cone disappeared", "id", start.ID)
			continue
		}
		e.surface.PlaceMarker(updated, e.draggable())
		e.redrawLines(start.ID)
	}
	e.hooks.PathLength(e.store.PathLength())
	return nil
}

// EndDrag snaps every dragged cone and records the net move.
func (e *Editor) EndDrag(id uint64) error {
	if e.drag == nil || e.drag.id != id {
		return nil
	}
	starts := e.drag.starts
	e.drag = nil

	changes := make([]history.Change, 0, len(starts))
	for _, start := range starts {
		cur, ok := e.store.Get(start.ID)
		if !ok {
			continue
		}
		snapped, err := e.setPosition(cur.ID, e.snapper.Snap(cur.Position))
		if err != nil {
			continue
		}
		e.surface.PlaceMarker(snapped, e.draggable())
		e.redrawLines(cur.ID)
		changes = append(changes, history.Change{Before: start, After: snapped})
	}
	e.hist.Record(history.Updated(history.MoveCones, changes...))
	e.refreshStats()
	return nil
}

// MoveCone moves one cone to p, snapped to the grid.
func (e *Editor) MoveCone(id uint64, p core.LatLng) error {
	e.commitRotation()
	before, ok := e.store.Get(id)
	if !ok {
		return e.missing(id)
	}
	after, err := e.setPosition(id, e.snapper.Snap(p))
	if err != nil {
		return err
	}
	e.surface.PlaceMarker(after, e.draggable())
	e.redrawLines(id)
	e.hist.Record(history.Updated(history.MoveCone, history.Change{Before: before, After: after}))
	e.refreshStats()
	return nil
}

// SetConeAngle sets the orientation of one cone.
func (e *Editor) SetConeAngle(id uint64, angle float64) error {
	e.commitRotation()
	before, err := e.store.SetAngle(id, angle)
	if err != nil {
		return e.missing(id)
	}
	after, _ := e.store.Get(id)
	if after == before {
		return nil
	}
	e.surface.PlaceMarker(after, e.draggable())
	e.hist.Record(history.Updated(history.RotateCone, history.Change{Before: before, After: after}))
	e.selectionRefreshIfSelected(id)
	return nil
}

// ResetConeAngle points a cone back to 0 degrees.
func (e *Editor) ResetConeAngle(id uint64) error {
	return e.SetConeAngle(id, 0)
}

// ToggleConeType lays a regular cone down or stands any other cone up.
func (e *Editor) ToggleConeType(id uint64) error {
	e.commitRotation()
	cur, ok := e.store.Get(id)
	if !ok {
		return e.missing(id)
	}
	before, err := e.store.SetKind(id, cur.Kind.Toggled())
	if err != nil {
		return e.missing(id)
	}
	after, _ := e.store.Get(id)
	e.surface.PlaceMarker(after, e.draggable())
	e.hist.Record(history.Updated(history.ToggleConeType, history.Change{Before: before, After: after}))
	e.selectionRefreshIfSelected(id)
	return nil
}

func (e *Editor) setPosition(id uint64, p core.LatLng) (core.Cone, error) {
	if _, err := e.store.SetPosition(id, p); err != nil {
		return core.Cone{}, err
	}
	c, _ := e.store.Get(id)
	return c, nil
}

// removeCone takes a cone off the store and the surface, with its lines and
// selection entry.
func (e *Editor) removeCone(id uint64) (core.Cone, bool) {
	c, ok := e.store.Remove(id)
	if !ok {
		return core.Cone{}, false
	}
	e.surface.RemoveMarker(id)
	for _, l := range e.lines.Detach(id) {
		e.surface.RemoveLine(l.ID)
	}
	e.sel.Remove(id)
	return c, true
}

func (e *Editor) afterRemoval() {
	e.sel.Retain(e.isLive)
	e.selectionChanged()
	e.refreshStats()
}

func (e *Editor) isLive(id uint64) bool {
	_, ok := e.store.Get(id)
	return ok
}

func (e *Editor) missing(id uint64) error {
	return e.warn(fmt.Errorf("%w: %d", ErrNoSuchCone, id))
}
