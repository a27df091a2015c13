package editor

import (
	"testing"
	"time"

	"github.com/conecourse/editor/internal/clipboard"
	"github.com/conecourse/editor/internal/courseio"
	"github.com/conecourse/editor/internal/drawing"
	"github.com/conecourse/editor/internal/grid"
	"github.com/conecourse/editor/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSurface struct {
	markers  map[uint64]core.Cone
	previews []clipboard.Preview
	grid     []grid.Line
	lines    map[uint64]drawing.Line
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{markers: map[uint64]core.Cone{}, lines: map[uint64]drawing.Line{}}
}

func (s *recordingSurface) PlaceMarker(c core.Cone, _ bool)           { s.markers[c.ID] = c }
func (s *recordingSurface) RemoveMarker(id uint64)                    { delete(s.markers, id) }
func (s *recordingSurface) ShowPreview(p []clipboard.Preview)         { s.previews = p }
func (s *recordingSurface) ClearPreview()                             { s.previews = nil }
func (s *recordingSurface) DrawGrid(lines []grid.Line)                { s.grid = lines }
func (s *recordingSurface) DrawLine(l drawing.Line, _, _ core.LatLng) { s.lines[l.ID] = l }
func (s *recordingSurface) RemoveLine(id uint64)                      { delete(s.lines, id) }

type recordingHooks struct {
	count       int
	length      float64
	selected    []core.Cone
	pasting     bool
	rotating    bool
	canUndo     bool
	canRedo     bool
	measurement float64
	warnings    []string
}

func (h *recordingHooks) ConeCount(n int)                      { h.count = n }
func (h *recordingHooks) PathLength(m float64)                 { h.length = m }
func (h *recordingHooks) SelectionChanged(c []core.Cone)       { h.selected = c }
func (h *recordingHooks) PasteState(active bool, _ float64)    { h.pasting = active }
func (h *recordingHooks) GroupRotation(active bool, _ float64) { h.rotating = active }
func (h *recordingHooks) UndoRedo(u, r bool)                   { h.canUndo, h.canRedo = u, r }
func (h *recordingHooks) Measurement(m float64)                { h.measurement = m }
func (h *recordingHooks) Warning(msg string)                   { h.warnings = append(h.warnings, msg) }

func newEditor(t *testing.T) (*Editor, *recordingSurface, *recordingHooks) {
	t.Helper()
	s := newRecordingSurface()
	h := &recordingHooks{}
	e := New(Deps{Surface: s, Hooks: h})
	return e, s, h
}

func ll(lat, lng float64) core.LatLng {
	return core.LatLng{Lat: lat, Lng: lng}
}

func placeLine(e *Editor) []core.Cone {
	return []core.Cone{
		e.PlaceCone(ll(0, 0), core.Regular),
		e.PlaceCone(ll(0, 1), core.Regular),
		e.PlaceCone(ll(0, 2), core.Regular),
	}
}

func TestPlaceCone_UpdatesSurfaceAndHooks(t *testing.T) {
	e, s, h := newEditor(t)

	e.Click(ll(39.95, -75.16))

	require.Len(t, e.Cones(), 1)
	assert.Len(t, s.markers, 1)
	assert.Equal(t, 1, h.count)
	assert.True(t, h.canUndo)
}

func TestClick_DeselectsOutsidePlaceMode(t *testing.T) {
	e, _, h := newEditor(t)
	cones := placeLine(e)
	e.SetMode(ModeSelect)
	require.NoError(t, e.ConeClick(cones[0].ID))
	require.NoError(t, e.ConeClick(cones[1].ID))
	assert.Len(t, h.selected, 2)

	e.Click(ll(1, 1))

	assert.Empty(t, h.selected)
	assert.Len(t, e.Cones(), 3, "select mode must not place cones")
}

func TestConeClick_SelectModeToggles(t *testing.T) {
	e, _, _ := newEditor(t)
	cones := placeLine(e)
	e.SetMode(ModeSelect)

	require.NoError(t, e.ConeClick(cones[0].ID))
	require.NoError(t, e.ConeClick(cones[0].ID))

	assert.Empty(t, e.Selected())
}

func TestGroupRotation_180(t *testing.T) {
	e, _, h := newEditor(t)
	placeLine(e)
	e.SelectAll()

	require.NoError(t, e.StartGroupRotation())
	assert.True(t, h.rotating)
	require.NoError(t, e.UpdateGroupRotation(180))
	e.FinishGroupRotation()
	assert.False(t, h.rotating)

	got := e.Cones()
	want := []core.LatLng{ll(0, 2), ll(0, 1), ll(0, 0)}
	for i, c := range got {
		assert.InDelta(t, want[i].Lat, c.Position.Lat, 1e-9)
		assert.InDelta(t, want[i].Lng, c.Position.Lng, 1e-9)
		assert.Equal(t, 180.0, c.Angle)
	}

	require.True(t, e.Undo())
	for i, c := range e.Cones() {
		assert.InDelta(t, want[len(want)-1-i].Lng, c.Position.Lng, 1e-12)
		assert.Equal(t, 0.0, c.Angle)
	}
}

func TestGroupRotation_ThereAndBack(t *testing.T) {
	e, _, _ := newEditor(t)
	e.PlaceCone(ll(39.9500, -75.1600), core.Regular)
	e.PlaceCone(ll(39.9502, -75.1598), core.Pointer)
	e.PlaceCone(ll(39.9501, -75.1603), core.LaidDown)
	start := e.Cones()
	e.SelectAll()

	require.NoError(t, e.StartGroupRotation())
	require.NoError(t, e.UpdateGroupRotation(37))
	e.FinishGroupRotation()
	require.NoError(t, e.StartGroupRotation())
	require.NoError(t, e.UpdateGroupRotation(-37))
	e.FinishGroupRotation()

	for i, c := range e.Cones() {
		assert.InDelta(t, start[i].Position.Lat, c.Position.Lat, 1e-6)
		assert.InDelta(t, start[i].Position.Lng, c.Position.Lng, 1e-6)
		assert.InDelta(t, start[i].Angle, c.Angle, 1e-9)
	}
}

func TestGroupRotation_NeedsTwoCones(t *testing.T) {
	e, _, h := newEditor(t)
	c := e.PlaceCone(ll(0, 0), core.Regular)
	require.NoError(t, e.Select(c.ID))

	assert.Error(t, e.StartGroupRotation())
	assert.Len(t, h.warnings, 1)
}

func TestGroupRotation_CancelRestores(t *testing.T) {
	e, s, _ := newEditor(t)
	start := placeLine(e)
	e.SelectAll()

	require.NoError(t, e.StartGroupRotation())
	require.NoError(t, e.UpdateGroupRotation(90))
	e.CancelGroupRotation()

	assert.Equal(t, start, e.Cones())
	assert.Equal(t, start[0], s.markers[start[0].ID])
	assert.Equal(t, 3, e.hist.UndoLen(), "cancel must not record")
}

func TestGroupRotation_FullTurnRestoresExactly(t *testing.T) {
	e, s, h := newEditor(t)
	start := placeLine(e)
	e.SelectAll()

	require.NoError(t, e.StartGroupRotation())
	require.NoError(t, e.UpdateGroupRotation(123))
	require.NoError(t, e.UpdateGroupRotation(360))
	e.FinishGroupRotation()

	assert.False(t, h.rotating)
	assert.Equal(t, start, e.Cones())
	for _, c := range start {
		assert.Equal(t, c, s.markers[c.ID])
	}
	assert.Equal(t, 3, e.hist.UndoLen(), "a full turn must not record")
}

func TestGroupRotation_EditDuringRotationCommitsIt(t *testing.T) {
	e, _, h := newEditor(t)
	start := placeLine(e)
	e.SelectAll()

	require.NoError(t, e.StartGroupRotation())
	require.NoError(t, e.UpdateGroupRotation(91))
	rotated := e.Cones()

	require.NoError(t, e.ToggleConeType(start[0].ID))
	assert.False(t, h.rotating)
	assert.Error(t, e.UpdateGroupRotation(45), "the rotation ended with the edit")
	assert.Equal(t, 5, e.hist.UndoLen())

	got, ok := e.Cone(start[0].ID)
	require.True(t, ok)
	assert.Equal(t, core.LaidDown, got.Kind)
	assert.Equal(t, rotated[0].Position, got.Position)
	assert.Equal(t, rotated[0].Angle, got.Angle)

	require.True(t, e.Undo())
	assert.Equal(t, rotated, e.Cones())
	require.True(t, e.Undo())
	assert.Equal(t, start, e.Cones())
}

func TestGroupRotation_DeleteDuringRotation(t *testing.T) {
	e, _, _ := newEditor(t)
	start := placeLine(e)
	e.SelectAll()

	require.NoError(t, e.StartGroupRotation())
	require.NoError(t, e.UpdateGroupRotation(45))
	require.NoError(t, e.DeleteCone(start[1].ID))
	require.Len(t, e.Cones(), 2)

	require.True(t, e.Undo())
	require.True(t, e.Undo())
	assert.Equal(t, start, e.Cones())
}

func TestCopyPaste(t *testing.T) {
	e, s, h := newEditor(t)
	a := e.PlaceCone(ll(0, 0), core.Regular)
	b := e.PlaceCone(ll(0, 1), core.Pointer)
	require.NoError(t, e.Select(a.ID))
	require.NoError(t, e.ToggleSelect(b.ID))
	require.NoError(t, e.Copy())

	previews, err := e.StartPaste(ll(10, 10))
	require.NoError(t, err)
	assert.True(t, h.pasting)
	assert.Len(t, s.previews, 2)
	assert.Equal(t, ll(10, 10), previews[0].Position)
	assert.Equal(t, ll(10, 11), previews[1].Position)

	added := e.ConfirmPaste()
	require.Len(t, added, 2)
	assert.NotEqual(t, a.ID, added[0].ID)
	assert.NotEqual(t, b.ID, added[1].ID)
	assert.Equal(t, ll(10, 10), added[0].Position)
	assert.Equal(t, core.Pointer, added[1].Kind)
	assert.Nil(t, s.previews)
	assert.False(t, h.pasting)
	assert.Len(t, e.Cones(), 4)

	require.True(t, e.Undo())
	assert.Len(t, e.Cones(), 2, "paste is one undoable action")
}

func TestCopy_EmptySelectionWarns(t *testing.T) {
	e, _, h := newEditor(t)

	assert.ErrorIs(t, e.Copy(), clipboard.ErrEmptySelection)
	assert.Len(t, h.warnings, 1)
}

func TestClick_WhilePastingDoesNotPlace(t *testing.T) {
	e, _, _ := newEditor(t)
	c := e.PlaceCone(ll(0, 0), core.Regular)
	require.NoError(t, e.Select(c.ID))
	require.NoError(t, e.Copy())
	_, err := e.StartPaste(ll(5, 5))
	require.NoError(t, err)

	e.Click(ll(6, 6))

	assert.Len(t, e.Cones(), 1)
}

func TestDrag_MovesSelectionTogether(t *testing.T) {
	e, _, _ := newEditor(t)
	cones := placeLine(e)
	e.SelectAll()

	require.NoError(t, e.BeginDrag(cones[1].ID))
	require.NoError(t, e.Drag(cones[1].ID, ll(1, 1.5)))
	require.NoError(t, e.EndDrag(cones[1].ID))

	got := e.Cones()
	assert.Equal(t, ll(1, 0.5), got[0].Position)
	assert.Equal(t, ll(1, 1.5), got[1].Position)
	assert.Equal(t, ll(1, 2.5), got[2].Position)

	require.True(t, e.Undo())
	assert.Equal(t, cones, e.Cones())
}

func TestDrag_UnselectedConeSelectsOnlyIt(t *testing.T) {
	e, _, _ := newEditor(t)
	cones := placeLine(e)
	require.NoError(t, e.Select(cones[0].ID))

	require.NoError(t, e.BeginDrag(cones[2].ID))

	assert.Equal(t, []uint64{cones[2].ID}, e.sel.IDs())
}

func TestBoxSelect(t *testing.T) {
	e, _, _ := newEditor(t)
	cones := placeLine(e)
	e.SetMode(ModeBox)

	e.BoxStart(ll(-1, 0.5))
	n := e.BoxEnd(ll(1, 2))

	assert.Equal(t, 2, n)
	assert.Equal(t, []uint64{cones[1].ID, cones[2].ID}, e.sel.IDs())
}

func TestUndoRedo_DeleteSelected(t *testing.T) {
	e, s, h := newEditor(t)
	cones := placeLine(e)
	e.SelectAll()

	assert.Equal(t, 3, e.DeleteSelected())
	assert.Empty(t, e.Cones())
	assert.Empty(t, s.markers)

	require.True(t, e.Undo())
	assert.Equal(t, cones, e.Cones())
	assert.Len(t, s.markers, 3)
	assert.True(t, h.canRedo)

	require.True(t, e.Redo())
	assert.Empty(t, e.Cones())
}

func TestUndo_DropsStaleSelection(t *testing.T) {
	e, _, h := newEditor(t)
	c := e.PlaceCone(ll(0, 0), core.Regular)
	require.NoError(t, e.Select(c.ID))

	require.True(t, e.Undo())

	assert.Empty(t, e.Selected())
	assert.Empty(t, h.selected)
	assert.Equal(t, 0, h.count)
}

func TestToggleConeTypeAndAngle(t *testing.T) {
	e, _, _ := newEditor(t)
	c := e.PlaceCone(ll(0, 0), core.Pointer)

	require.NoError(t, e.ToggleConeType(c.ID))
	got, _ := e.Cone(c.ID)
	assert.Equal(t, core.Regular, got.Kind)

	require.NoError(t, e.SetConeAngle(c.ID, -90))
	got, _ = e.Cone(c.ID)
	assert.Equal(t, 270.0, got.Angle)

	require.NoError(t, e.ResetConeAngle(c.ID))
	require.True(t, e.Undo())
	got, _ = e.Cone(c.ID)
	assert.Equal(t, 270.0, got.Angle)

	assert.ErrorIs(t, e.ToggleConeType(99), ErrNoSuchCone)
}

func TestClearAll_RemovesLines(t *testing.T) {
	e, s, _ := newEditor(t)
	cones := placeLine(e)
	e.SetMode(ModeLine)
	require.NoError(t, e.ConeClick(cones[0].ID))
	require.NoError(t, e.ConeClick(cones[1].ID))
	require.Len(t, s.lines, 1)

	assert.Equal(t, 3, e.ClearAll())
	assert.Empty(t, s.lines)
	assert.Empty(t, e.Lines())

	require.True(t, e.Undo())
	assert.Len(t, e.Cones(), 3)
	assert.Empty(t, e.Lines(), "lines are not part of history")
}

func TestDeleteCone_DetachesLines(t *testing.T) {
	e, s, _ := newEditor(t)
	cones := placeLine(e)
	require.NoError(t, e.StartLine(cones[0].ID))
	require.NoError(t, e.EndLine(cones[1].ID))
	require.NoError(t, e.StartLine(cones[1].ID))
	require.NoError(t, e.EndLine(cones[2].ID))

	require.NoError(t, e.DeleteCone(cones[0].ID))

	require.Len(t, e.Lines(), 1)
	assert.Len(t, s.lines, 1)
}

func TestMeasure(t *testing.T) {
	e, _, h := newEditor(t)
	e.SetMode(ModeMeasure)

	e.Click(ll(0, 0))
	e.Click(ll(0, 0.001))

	assert.InDelta(t, 111.19, h.measurement, 0.01)
	assert.Empty(t, e.Cones())
}

func TestSnapOnPlace(t *testing.T) {
	s := newRecordingSurface()
	origin := ll(39.95, -75.16)
	e := New(Deps{
		Surface:    s,
		Grid:       core.GridSettings{Enabled: true, Size: 10},
		GridOrigin: origin,
	})

	c := e.PlaceCone(ll(39.950001, -75.160001), core.Regular)

	assert.InDelta(t, origin.Lat, c.Position.Lat, 1e-9)
	assert.InDelta(t, origin.Lng, c.Position.Lng, 1e-9)
}

func TestGridLines_OnlyWhenZoomedIn(t *testing.T) {
	e, s, _ := newEditor(t)
	e.SetGrid(core.GridSettings{Enabled: true, Size: 20}, ll(39.95, -75.16))

	e.SetView(View{Center: ll(39.95, -75.16), Zoom: 15, Radius: 100})
	assert.Empty(t, s.grid)

	e.SetView(View{Center: ll(39.95, -75.16), Zoom: 19, Radius: 100})
	assert.NotEmpty(t, s.grid)
}

func TestExportImport(t *testing.T) {
	e, _, _ := newEditor(t)
	e.SetView(View{Center: ll(39.95, -75.16), Zoom: 19})
	cones := placeLine(e)
	require.NoError(t, e.SetConeAngle(cones[1].ID, 45))
	require.NoError(t, e.StartLine(cones[0].ID))
	require.NoError(t, e.EndLine(cones[2].ID))

	f := e.Export(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
	assert.Equal(t, "2024-01-15T10:30:00.000Z", f.Timestamp)
	assert.Equal(t, 3, f.Stats.ConeCount)
	require.Len(t, f.Lines, 1)

	other, s, h := newEditor(t)
	require.NoError(t, other.Import(f))

	got := other.Cones()
	require.Len(t, got, 3)
	assert.Equal(t, 45.0, got[1].Angle)
	assert.Len(t, s.markers, 3)
	assert.Len(t, other.Lines(), 1)
	assert.Equal(t, 3, h.count)
	assert.False(t, other.CanUndo())
	assert.Equal(t, 19.0, other.View().Zoom)
}

func TestImportBytes_Defaults(t *testing.T) {
	e, _, _ := newEditor(t)

	err := e.ImportBytes([]byte(`{"cones":[{"latlng":{"lat":1,"lng":2}}]}`))
	require.NoError(t, err)

	got := e.Cones()
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].Angle)
	assert.Equal(t, core.Regular, got[0].Kind)
	assert.Equal(t, float64(courseio.DefaultMapZoom), e.View().Zoom)
}

func TestImportBytes_MalformedKeepsState(t *testing.T) {
	e, _, h := newEditor(t)
	cones := placeLine(e)

	for _, data := range []string{
		`not json`,
		`{"cones":[{"latlng":{"lat":1,"lng":2},"type":"traffic_light"}]}`,
		`{"cones":[{"type":"regular_cone"}]}`,
		`{"cones":[{"latlng":{"lat":1,"lng":2}}],"lines":[{"start":0,"end":4}]}`,
	} {
		assert.Error(t, e.ImportBytes([]byte(data)), data)
	}

	assert.Equal(t, cones, e.Cones())
	assert.True(t, e.CanUndo())
	assert.Len(t, h.warnings, 4)
}

func TestSetMode_ClearsSelection(t *testing.T) {
	e, _, _ := newEditor(t)
	cones := placeLine(e)
	require.NoError(t, e.Select(cones[0].ID))

	e.SetMode(ModeBox)

	assert.Empty(t, e.Selected())
	assert.Equal(t, ModeBox, e.Mode())
}

func TestContextMenu(t *testing.T) {
	e, _, _ := newEditor(t)
	cones := placeLine(e)

	menu := e.ContextMenu(cones[1].ID)
	require.Len(t, menu.Cones, 1)
	assert.Equal(t, cones[1].ID, menu.Cones[0].ID)
	assert.False(t, menu.CanPaste)

	require.NoError(t, e.Copy())
	assert.True(t, e.ContextMenu(0).CanPaste)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Measure")
	require.NoError(t, err)
	assert.Equal(t, ModeMeasure, m)

	_, err = ParseMode("lasso")
	assert.Error(t, err)
}
