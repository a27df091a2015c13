// Package editor is the application context of a course editing session.
// It owns the cone store, selection, history, tools and clipboard, and
// projects every change onto a write-only Surface and a set of UI Hooks.
package editor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/conecourse/editor/internal/clipboard"
	"github.com/conecourse/editor/internal/course"
	"github.com/conecourse/editor/internal/drawing"
	"github.com/conecourse/editor/internal/geo"
	"github.com/conecourse/editor/internal/grid"
	"github.com/conecourse/editor/internal/history"
	"github.com/conecourse/editor/internal/measure"
	"github.com/conecourse/editor/internal/selection"
	"github.com/conecourse/editor/internal/transform"
	"github.com/conecourse/editor/pkg/core"
)

// Surface is the rendering side of the editor. It is only ever written to.
type Surface interface {
	PlaceMarker(c core.Cone, draggable bool)
	RemoveMarker(id uint64)
	ShowPreview(previews []clipboard.Preview)
	ClearPreview()
	DrawGrid(lines []grid.Line)
	DrawLine(l drawing.Line, from, to core.LatLng)
	RemoveLine(id uint64)
}

// Hooks receive UI state updates after mutating operations.
type Hooks interface {
	ConeCount(n int)
	PathLength(metres float64)
	SelectionChanged(cones []core.Cone)
	PasteState(active bool, angle float64)
	GroupRotation(active bool, angle float64)
	UndoRedo(canUndo, canRedo bool)
	Measurement(metres float64)
	Warning(msg string)
}

// Mode decides what a click on the empty map does.
type Mode int

const (
	ModePlace Mode = iota
	ModeCursor
	ModeSelect
	ModeBox
	ModeMeasure
	ModeLine
)

var modeNames = [...]string{
	ModePlace:   "place",
	ModeCursor:  "cursor",
	ModeSelect:  "select",
	ModeBox:     "box",
	ModeMeasure: "measure",
	ModeLine:    "line",
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(name, s) {
			return Mode(i), nil
		}
	}
	return ModePlace, fmt.Errorf("unknown mode %q", s)
}

// View is the visible map area, used for grid drawing and export.
type View struct {
	Center core.LatLng `json:"center"`
	Zoom   float64     `json:"zoom"`
	Radius float64     `json:"radius"` // metres from center to the view corner
}

// Stats summarises the course.
type Stats struct {
	ConeCount  int     `json:"coneCount"`
	PathLength float64 `json:"pathLength"`
}

// Deps are the collaborators and settings of an Editor.
type Deps struct {
	Surface         Surface
	Hooks           Hooks
	Logger          *slog.Logger
	Projector       geo.Projector
	HistoryCapacity int
	Grid            core.GridSettings
	GridOrigin      core.LatLng
	View            View
}

// Editor is not safe for concurrent use. All operations are expected to run
// on one goroutine, one UI event at a time.
type Editor struct {
	logger  *slog.Logger
	surface Surface
	hooks   Hooks
	proj    geo.Projector

	store   *course.Store
	sel     *selection.Set
	hist    *history.History
	rot     *transform.Session
	clip    *clipboard.Clipboard
	meas    measure.Tool
	lines   *drawing.Tool
	snapper grid.Snapper

	mode     Mode
	kind     core.ConeKind
	view     View
	drag     *dragState
	boxStart *core.LatLng
}

// New creates an editor with an empty course.
func New(deps Deps) *Editor {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	proj := deps.Projector
	if proj == nil {
		proj = geo.NewMercator(geo.DefaultReferenceZoom)
	}

	e := &Editor{
		logger:  logger,
		surface: deps.Surface,
		hooks:   deps.Hooks,
		proj:    proj,
		store:   course.NewStore(),
		sel:     selection.New(),
		rot:     transform.NewSession(proj),
		clip:    clipboard.New(proj),
		lines:   drawing.NewTool(),
		view:    deps.View,
	}
	if e.surface == nil {
		logger.Warn("editor has no rendering surface, marker updates are dropped")
		e.surface = nopSurface{}
	}
	if e.hooks == nil {
		logger.Warn("editor has no UI hooks, state updates are dropped")
		e.hooks = nopHooks{}
	}

	origin := deps.GridOrigin
	if origin == (core.LatLng{}) {
		origin = deps.View.Center
	}
	e.snapper = grid.Snapper{Settings: deps.Grid, Origin: origin, Projector: proj}

	e.hist = history.New(replayTarget{e},
		history.WithCapacity(deps.HistoryCapacity),
		history.WithLogger(logger),
		history.WithListener(func(canUndo, canRedo bool) {
			e.hooks.UndoRedo(canUndo, canRedo)
		}),
	)
	return e
}

// Mode returns the current interaction mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// SetMode switches interaction mode. Any switch clears the selection.
func (e *Editor) SetMode(m Mode) {
	if m == e.mode {
		return
	}
	wasDraggable := e.draggable()
	e.mode = m
	e.boxStart = nil
	e.meas.SetActive(m == ModeMeasure)
	e.lines.SetActive(m == ModeLine)
	e.clearSelection()

	if e.draggable() != wasDraggable {
		for _, c := range e.store.All() {
			e.surface.PlaceMarker(c, e.draggable())
		}
	}
	e.logger.Debug("mode changed", "mode", m.String())
}

// ConeKind returns the kind new cones are placed as.
func (e *Editor) ConeKind() core.ConeKind {
	return e.kind
}

// SetConeKind sets the kind new cones are placed as.
func (e *Editor) SetConeKind(k core.ConeKind) {
	e.kind = k
}

// Cones returns the live cones in path order.
func (e *Editor) Cones() []core.Cone {
	return e.store.All()
}

// Cone returns a live cone by id.
func (e *Editor) Cone(id uint64) (core.Cone, bool) {
	return e.store.Get(id)
}

// Stats returns the cone count and path length in metres.
func (e *Editor) Stats() Stats {
	return Stats{ConeCount: e.store.Len(), PathLength: e.store.PathLength()}
}

// CanUndo reports whether Undo would do anything.
func (e *Editor) CanUndo() bool {
	return e.hist.CanUndo()
}

// CanRedo reports whether Redo would do anything.
func (e *Editor) CanRedo() bool {
	return e.hist.CanRedo()
}

func (e *Editor) draggable() bool {
	return e.mode != ModeBox && e.mode != ModeMeasure
}

func (e *Editor) refreshStats() {
	e.hooks.ConeCount(e.store.Len())
	e.hooks.PathLength(e.store.PathLength())
}

// warn reports an invalid action to the user and returns err unchanged.
func (e *Editor) warn(err error) error {
	e.logger.Debug("action rejected", "error", err)
	e.hooks.Warning(err.Error())
	return err
}

type nopSurface struct{}

func (nopSurface) PlaceMarker(core.Cone, bool)                     {}
func (nopSurface) RemoveMarker(uint64)                             {}
func (nopSurface) ShowPreview([]clipboard.Preview)                 {}
func (nopSurface) ClearPreview()                                   {}
func (nopSurface) DrawGrid([]grid.Line)                            {}
func (nopSurface) DrawLine(drawing.Line, core.LatLng, core.LatLng) {}
func (nopSurface) RemoveLine(uint64)                               {}

type nopHooks struct{}

func (nopHooks) ConeCount(int)                {}
func (nopHooks) PathLength(float64)           {}
func (nopHooks) SelectionChanged([]core.Cone) {}
func (nopHooks) PasteState(bool, float64)     {}
func (nopHooks) GroupRotation(bool, float64)  {}
func (nopHooks) UndoRedo(bool, bool)          {}
func (nopHooks) Measurement(float64)          {}
func (nopHooks) Warning(string)               {}
