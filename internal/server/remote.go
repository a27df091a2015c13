package server

import (
	"log/slog"

	"github.com/conecourse/editor/internal/clipboard"
	"github.com/conecourse/editor/internal/drawing"
	"github.com/conecourse/editor/internal/grid"
	"github.com/conecourse/editor/internal/measure"
	"github.com/conecourse/editor/pkg/core"
	"github.com/conecourse/editor/pkg/streaming"
)

// remote turns surface writes and hook calls into frames for the client.
type remote struct {
	send   func([]byte)
	logger *slog.Logger
}

func (r *remote) emit(msgType string, payload any) {
	data, err := streaming.Marshal(msgType, payload)
	if err != nil {
		r.logger.Error("Failed to marshal frame", "type", msgType, "error", err)
		return
	}
	r.send(data)
}

func (r *remote) PlaceMarker(c core.Cone, draggable bool) {
	r.emit(streaming.TypePlaceMarker, streaming.MarkerPayload{Cone: c, Draggable: draggable})
}

func (r *remote) RemoveMarker(id uint64) {
	r.emit(streaming.TypeRemoveMarker, streaming.IDPayload{ID: id})
}

func (r *remote) ShowPreview(previews []clipboard.Preview) {
	r.emit(streaming.TypeShowPreview, previews)
}

func (r *remote) ClearPreview() {
	r.emit(streaming.TypeClearPreview, nil)
}

func (r *remote) DrawGrid(lines []grid.Line) {
	if lines == nil {
		lines = []grid.Line{}
	}
	r.emit(streaming.TypeDrawGrid, lines)
}

func (r *remote) DrawLine(l drawing.Line, from, to core.LatLng) {
	r.emit(streaming.TypeDrawLine, streaming.LinePayload{
		ID:      l.ID,
		From:    from,
		To:      to,
		Color:   l.Color,
		Weight:  l.Weight,
		Opacity: l.Opacity,
	})
}

func (r *remote) RemoveLine(id uint64) {
	r.emit(streaming.TypeRemoveLine, streaming.IDPayload{ID: id})
}

func (r *remote) ConeCount(n int) {
	r.emit(streaming.TypeConeCount, streaming.CountPayload{Count: n})
}

func (r *remote) PathLength(metres float64) {
	r.emit(streaming.TypePathLength, streaming.LengthPayload{Metres: metres, Display: measure.FormatFeet(metres)})
}

func (r *remote) SelectionChanged(cones []core.Cone) {
	if cones == nil {
		cones = []core.Cone{}
	}
	r.emit(streaming.TypeSelection, cones)
}

func (r *remote) PasteState(active bool, angle float64) {
	r.emit(streaming.TypePasteState, streaming.SessionPayload{Active: active, Angle: angle})
}

func (r *remote) GroupRotation(active bool, angle float64) {
	r.emit(streaming.TypeGroupRotation, streaming.SessionPayload{Active: active, Angle: angle})
}

func (r *remote) UndoRedo(canUndo, canRedo bool) {
	r.emit(streaming.TypeUndoRedo, streaming.UndoRedoPayload{CanUndo: canUndo, CanRedo: canRedo})
}

func (r *remote) Measurement(metres float64) {
	r.emit(streaming.TypeMeasurement, streaming.LengthPayload{Metres: metres, Display: measure.FormatFeet(metres)})
}

func (r *remote) Warning(msg string) {
	r.emit(streaming.TypeWarning, streaming.WarningPayload{Message: msg})
}
