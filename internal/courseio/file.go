// internal/courseio/file.go

// Package courseio reads and writes course files.
package courseio

import (
	"fmt"
	"time"

	"github.com/conecourse/editor/internal/drawing"
	"github.com/conecourse/editor/internal/geo"
	"github.com/conecourse/editor/pkg/core"
)

// DefaultMapZoom is used when a file does not carry a zoom level.
const DefaultMapZoom = 18

// File is the course document written on export and read on import.
type File struct {
	Cones        []ConeJSON         `json:"cones"`
	MapCenter    *core.LatLng       `json:"mapCenter,omitempty"`
	MapZoom      float64            `json:"mapZoom"`
	GridSettings *core.GridSettings `json:"gridSettings,omitempty"`
	Timestamp    string             `json:"timestamp,omitempty"`
	Stats        Stats              `json:"stats"`
	Lines        []LineJSON         `json:"lines,omitempty"`
}

// ConeJSON is one cone in a course file. Cone ids are not persisted; the
// array order is the course path order.
type ConeJSON struct {
	LatLng core.LatLng   `json:"latlng"`
	Type   core.ConeKind `json:"type"`
	Angle  float64       `json:"angle"`
}

// Stats summarises the course at export time.
type Stats struct {
	ConeCount  int     `json:"coneCount"`
	PathLength float64 `json:"pathLength"` // metres
}

// LineJSON is a drawn line between two cones, referenced by their index in
// Cones.
type LineJSON struct {
	Start int `json:"start"`
	End   int `json:"end"`
	drawing.Style
}

// Meta is the view state stored alongside the cones.
type Meta struct {
	MapCenter core.LatLng
	MapZoom   float64
	Grid      core.GridSettings
	Time      time.Time
}

// Build assembles a course file from cones in path order. Lines whose cones
// are not in the list are left out.
func Build(cones []core.Cone, lines []drawing.Line, meta Meta) File {
	index := make(map[uint64]int, len(cones))
	positions := make([]core.LatLng, len(cones))
	out := File{
		Cones:        make([]ConeJSON, len(cones)),
		MapCenter:    &meta.MapCenter,
		MapZoom:      meta.MapZoom,
		GridSettings: &meta.Grid,
		Timestamp:    FormatTimestamp(meta.Time),
	}
	for i, c := range cones {
		index[c.ID] = i
		positions[i] = c.Position
		out.Cones[i] = ConeJSON{LatLng: c.Position, Type: c.Kind, Angle: c.Angle}
	}
	for _, l := range lines {
		start, ok1 := index[l.StartConeID]
		end, ok2 := index[l.EndConeID]
		if ok1 && ok2 {
			out.Lines = append(out.Lines, LineJSON{Start: start, End: end, Style: l.Style})
		}
	}
	out.Stats = Stats{ConeCount: len(cones), PathLength: geo.PathLength(positions)}
	return out
}

// Positions returns the cone positions in path order.
func (f File) Positions() []core.LatLng {
	out := make([]core.LatLng, len(f.Cones))
	for i, c := range f.Cones {
		out[i] = c.LatLng
	}
	return out
}

// FormatTimestamp renders t the way course files store it, e.g.
// 2024-01-15T10:30:00.000Z.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// FileName returns the download name for a course exported at t.
func FileName(t time.Time, compress bool) string {
	t = t.UTC()
	stamp := fmt.Sprintf("%s-%03dZ", t.Format("2006-01-02T15-04-05"), t.Nanosecond()/int(time.Millisecond))
	if compress {
		return fmt.Sprintf("autocross_course_%s.json.gz", stamp)
	}
	return fmt.Sprintf("autocross_course_%s.json", stamp)
}

// ExportTime recovers the export time from the file timestamp, falling back
// to now.
func (f File) ExportTime() time.Time {
	if t, err := time.Parse(time.RFC3339Nano, f.Timestamp); err == nil {
		return t
	}
	return time.Now()
}
