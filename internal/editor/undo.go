package editor

import "github.com/conecourse/editor/pkg/core"

// replayTarget applies history replays to the store and mirrors them on the
// surface.
type replayTarget struct {
	e *Editor
}

func (t replayTarget) Restore(c core.Cone) error {
	if err := t.e.store.Restore(c); err != nil {
		return err
	}
	t.e.surface.PlaceMarker(c, t.e.draggable())
	return nil
}

func (t replayTarget) Remove(id uint64) (core.Cone, bool) {
	return t.e.removeCone(id)
}

func (t replayTarget) Replace(c core.Cone) error {
	if err := t.e.store.Replace(c); err != nil {
		return err
	}
	t.e.surface.PlaceMarker(c, t.e.draggable())
	t.e.redrawLines(c.ID)
	return nil
}

// Undo reverts the most recent action. Any drag, rotation or paste in
// progress is abandoned first.
func (e *Editor) Undo() bool {
	e.cancelSessions()
	if !e.hist.Undo() {
		return false
	}
	e.afterReplay()
	return true
}

// Redo reapplies the most recently undone action.
func (e *Editor) Redo() bool {
	e.cancelSessions()
	if !e.hist.Redo() {
		return false
	}
	e.afterReplay()
	return true
}

func (e *Editor) afterReplay() {
	e.sel.Retain(e.isLive)
	e.selectionChanged()
	e.refreshStats()
}
