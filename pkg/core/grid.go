// pkg/core/grid.go
package core

// FeetPerMetre converts the editor's foot-based display units.
const FeetPerMetre = 3.28084

// GridSettings describes the snapping lattice as persisted in course files.
type GridSettings struct {
	Enabled  bool    `json:"enabled"`
	Size     float64 `json:"size"`     // lattice spacing in feet
	Rotation float64 `json:"rotation"` // degrees
}

// SizeMetres returns the lattice spacing in metres.
func (g GridSettings) SizeMetres() float64 {
	return g.Size / FeetPerMetre
}
