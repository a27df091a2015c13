package editor

import (
	"math"

	"github.com/conecourse/editor/internal/history"
)

// StartGroupRotation begins rotating the selected cones about their centroid.
func (e *Editor) StartGroupRotation() error {
	e.drag = nil
	if err := e.rot.Start(e.Selected()); err != nil {
		return e.warn(err)
	}
	e.hooks.GroupRotation(true, 0)
	return nil
}

// UpdateGroupRotation turns the group to angle degrees from where it started.
func (e *Editor) UpdateGroupRotation(angle float64) error {
	cones, err := e.rot.Update(angle)
	if err != nil {
		return e.warn(err)
	}
	for _, c := range cones {
		if err := e.store.Replace(c); err != nil {
			e.logger.Warn("rotated cone disappeared", "id", c.ID)
			continue
		}
		e.surface.PlaceMarker(c, e.draggable())
		e.redrawLines(c.ID)
	}
	e.hooks.PathLength(e.store.PathLength())
	e.hooks.GroupRotation(true, angle)
	return nil
}

// FinishGroupRotation ends the rotation and records it as one action. A net
// turn of a whole number of revolutions puts the original cones back exactly
// and records nothing.
func (e *Editor) FinishGroupRotation() {
	if !e.rot.Active() {
		return
	}
	if math.Mod(e.rot.Angle(), 360) == 0 {
		e.CancelGroupRotation()
		e.selectionChanged()
		return
	}
	var live []history.Change
	for _, ch := range e.rot.Finish() {
		if e.isLive(ch.ID()) {
			live = append(live, ch)
		}
	}
	e.hist.Record(history.Updated(history.RotateCones, live...))
	e.hooks.GroupRotation(false, 0)
	e.selectionChanged()
	e.refreshStats()
}

// CancelGroupRotation puts every cone back where the rotation started.
func (e *Editor) CancelGroupRotation() {
	if !e.rot.Active() {
		return
	}
	for _, c := range e.rot.Cancel() {
		if err := e.store.Replace(c); err != nil {
			continue
		}
		e.surface.PlaceMarker(c, e.draggable())
		e.redrawLines(c.ID)
	}
	e.hooks.GroupRotation(false, 0)
	e.refreshStats()
}

// commitRotation finishes a rotation in progress so that the next edit starts
// from the rotated cones.
func (e *Editor) commitRotation() {
	if e.rot.Active() {
		e.FinishGroupRotation()
	}
}

// cancelSessions abandons any drag, rotation or paste in progress.
func (e *Editor) cancelSessions() {
	e.drag = nil
	e.boxStart = nil
	e.CancelGroupRotation()
	e.CancelPaste()
}
