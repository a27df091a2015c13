package editor

import (
	"github.com/conecourse/editor/internal/clipboard"
	"github.com/conecourse/editor/internal/history"
	"github.com/conecourse/editor/pkg/core"
)

// Copy puts the selected cones on the clipboard.
func (e *Editor) Copy() error {
	if err := e.clip.Copy(e.Selected()); err != nil {
		return e.warn(err)
	}
	return nil
}

// StartPaste shows the clipboard content anchored at p.
func (e *Editor) StartPaste(p core.LatLng) ([]clipboard.Preview, error) {
	previews, err := e.clip.StartPaste(p)
	if err != nil {
		return nil, e.warn(err)
	}
	e.surface.ShowPreview(previews)
	e.hooks.PasteState(true, 0)
	return previews, nil
}

// UpdatePasteRotation turns the paste preview about its first cone.
func (e *Editor) UpdatePasteRotation(angle float64) ([]clipboard.Preview, error) {
	previews, err := e.clip.UpdateRotation(angle)
	if err != nil {
		return nil, e.warn(err)
	}
	e.surface.ShowPreview(previews)
	e.hooks.PasteState(true, angle)
	return previews, nil
}

// ConfirmPaste turns the preview into new cones, recorded as one action.
func (e *Editor) ConfirmPaste() []core.Cone {
	e.commitRotation()
	previews, ok := e.clip.ConfirmPaste()
	if !ok {
		return nil
	}
	e.surface.ClearPreview()

	added := make([]core.Cone, len(previews))
	for i, p := range previews {
		added[i] = e.store.Add(p.Position, p.Kind, p.Angle)
		e.surface.PlaceMarker(added[i], e.draggable())
	}
	e.hist.Record(history.Created(added...))
	e.hooks.PasteState(false, 0)
	e.refreshStats()
	return added
}

// CancelPaste discards the preview.
func (e *Editor) CancelPaste() {
	if !e.clip.CancelPaste() {
		return
	}
	e.surface.ClearPreview()
	e.hooks.PasteState(false, 0)
}
