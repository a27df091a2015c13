package editor

import "github.com/conecourse/editor/pkg/core"

// Select makes id the only selected cone.
func (e *Editor) Select(id uint64) error {
	if !e.isLive(id) {
		return e.missing(id)
	}
	e.sel.Only(id)
	e.selectionChanged()
	return nil
}

// ToggleSelect adds id to the selection or removes it.
func (e *Editor) ToggleSelect(id uint64) error {
	if !e.isLive(id) {
		return e.missing(id)
	}
	e.sel.Toggle(id)
	e.selectionChanged()
	return nil
}

// SelectAll selects every cone in path order.
func (e *Editor) SelectAll() {
	cones := e.store.All()
	ids := make([]uint64, len(cones))
	for i, c := range cones {
		ids[i] = c.ID
	}
	e.sel.Replace(ids)
	e.selectionChanged()
}

// SelectInBox replaces the selection with every cone inside the rectangle
// spanned by a and b, edges included.
func (e *Editor) SelectInBox(a, b core.LatLng) int {
	box := core.Bounds{A: a, B: b}
	var ids []uint64
	for _, c := range e.store.All() {
		if box.Contains(c.Position) {
			ids = append(ids, c.ID)
		}
	}
	e.sel.Replace(ids)
	e.selectionChanged()
	return len(ids)
}

// BoxStart records the first corner of a box selection.
func (e *Editor) BoxStart(p core.LatLng) {
	e.boxStart = &p
}

// BoxEnd completes a box selection started with BoxStart.
func (e *Editor) BoxEnd(p core.LatLng) int {
	if e.boxStart == nil {
		return 0
	}
	start := *e.boxStart
	e.boxStart = nil
	return e.SelectInBox(start, p)
}

// DeselectAll empties the selection.
func (e *Editor) DeselectAll() {
	if e.sel.Len() == 0 {
		return
	}
	e.clearSelection()
}

// Selected returns the selected cones in selection order.
func (e *Editor) Selected() []core.Cone {
	ids := e.sel.IDs()
	out := make([]core.Cone, 0, len(ids))
	for _, id := range ids {
		if c, ok := e.store.Get(id); ok {
			out = append(out, c)
		}
	}
	return out
}

// ContextMenu is what a context menu needs to know to build itself.
type ContextMenu struct {
	Cones    []core.Cone `json:"cones"`
	CanPaste bool        `json:"canPaste"`
}

// ContextMenu prepares a context menu for a right click on cone id, or on the
// empty map when id is 0. Clicking an unselected cone selects only it.
func (e *Editor) ContextMenu(id uint64) ContextMenu {
	if id != 0 && e.isLive(id) && !e.sel.Contains(id) {
		e.sel.Only(id)
		e.selectionChanged()
	}
	var cones []core.Cone
	if id != 0 {
		cones = e.Selected()
	}
	return ContextMenu{Cones: cones, CanPaste: e.clip.Len() > 0}
}

func (e *Editor) clearSelection() {
	e.sel.Clear()
	e.selectionChanged()
}

func (e *Editor) selectionChanged() {
	e.hooks.SelectionChanged(e.Selected())
}

func (e *Editor) selectionRefreshIfSelected(id uint64) {
	if e.sel.Contains(id) {
		e.selectionChanged()
	}
}
