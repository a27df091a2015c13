// pkg/core/cone.go
package core

import (
	"errors"
	"fmt"
	"math"
)

// ConeKind is the marker variant of a cone.
type ConeKind int

const (
	Regular ConeKind = iota
	LaidDown
	Pointer
)

// ErrUnknownConeKind is returned when a cone kind name is not recognised.
var ErrUnknownConeKind = errors.New("unknown cone kind")

var coneKindNames = map[ConeKind]string{
	Regular:  "regular_cone",
	LaidDown: "laid_down_cone",
	Pointer:  "pointer_cone",
}

func (k ConeKind) String() string {
	if name, ok := coneKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ConeKind(%d)", int(k))
}

// ParseConeKind converts a file/UI name such as "laid_down_cone" to a ConeKind.
func ParseConeKind(s string) (ConeKind, error) {
	for k, name := range coneKindNames {
		if name == s {
			return k, nil
		}
	}
	return Regular, fmt.Errorf("%w: %q", ErrUnknownConeKind, s)
}

// Toggled returns the kind a type toggle switches to: regular cones are laid
// down, everything else stands back up as a regular cone.
func (k ConeKind) Toggled() ConeKind {
	if k == Regular {
		return LaidDown
	}
	return Regular
}

func (k ConeKind) MarshalText() ([]byte, error) {
	name, ok := coneKindNames[k]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownConeKind, int(k))
	}
	return []byte(name), nil
}

func (k *ConeKind) UnmarshalText(text []byte) error {
	parsed, err := ParseConeKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Cone is a placed course marker. Values of this type are snapshots; the
// course store owns the authoritative copy.
type Cone struct {
	ID       uint64   `json:"id"`
	Position LatLng   `json:"latlng"`
	Angle    float64  `json:"angle"`
	Kind     ConeKind `json:"type"`
}

// NormalizeAngle wraps degrees into [0,360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	// -1e-14 + 360 rounds to 360.
	if a >= 360 {
		a = 0
	}
	return a
}
