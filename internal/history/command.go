package history

import (
	"fmt"

	"github.com/conecourse/editor/pkg/core"
)

// Kind identifies the user action a command reverses.
type Kind int

const (
	AddCone Kind = iota
	AddCones
	DeleteCone
	DeleteCones
	MoveCone
	MoveCones
	RotateCone
	RotateCones
	ToggleConeType
	ClearAll
)

var kindNames = [...]string{
	AddCone:        "add_cone",
	AddCones:       "add_cones",
	DeleteCone:     "delete_cone",
	DeleteCones:    "delete_cones",
	MoveCone:       "move_cone",
	MoveCones:      "move_cones",
	RotateCone:     "rotate_cone",
	RotateCones:    "rotate_cones",
	ToggleConeType: "toggle_cone_type",
	ClearAll:       "clear_all",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type effect int

const (
	effectCreate effect = iota
	effectDestroy
	effectUpdate
)

func (k Kind) effect() effect {
	switch k {
	case AddCone, AddCones:
		return effectCreate
	case DeleteCone, DeleteCones, ClearAll:
		return effectDestroy
	default:
		return effectUpdate
	}
}

// Change is the before/after snapshot of one cone. Create commands only use
// After, destroy commands only use Before, updates use both.
type Change struct {
	Before core.Cone `json:"before"`
	After  core.Cone `json:"after"`
}

// ID returns the id of the cone the change applies to.
func (c Change) ID() uint64 {
	if c.After.ID != 0 {
		return c.After.ID
	}
	return c.Before.ID
}

// Command is one reversible user action. It holds plain values only, so it
// stays valid after the cones it mentions are deleted and recreated.
type Command struct {
	Kind    Kind     `json:"kind"`
	Changes []Change `json:"changes"`
}

// Created builds an add command from the cones that were placed.
func Created(cones ...core.Cone) Command {
	kind := AddCones
	if len(cones) == 1 {
		kind = AddCone
	}
	changes := make([]Change, len(cones))
	for i, c := range cones {
		changes[i] = Change{After: c}
	}
	return Command{Kind: kind, Changes: changes}
}

// Deleted builds a delete command from the cones that were removed.
func Deleted(cones ...core.Cone) Command {
	kind := DeleteCones
	if len(cones) == 1 {
		kind = DeleteCone
	}
	changes := make([]Change, len(cones))
	for i, c := range cones {
		changes[i] = Change{Before: c}
	}
	return Command{Kind: kind, Changes: changes}
}

// Cleared builds a clear-all command.
func Cleared(cones ...core.Cone) Command {
	cmd := Deleted(cones...)
	cmd.Kind = ClearAll
	return cmd
}

// Updated builds an update command of the given kind. Changes where nothing
// differs are dropped. The single-cone kind is used when one change remains.
func Updated(kind Kind, changes ...Change) Command {
	kept := make([]Change, 0, len(changes))
	for _, ch := range changes {
		if ch.Before != ch.After {
			kept = append(kept, ch)
		}
	}
	switch kind {
	case MoveCone, MoveCones:
		kind = pick(len(kept), MoveCone, MoveCones)
	case RotateCone, RotateCones:
		kind = pick(len(kept), RotateCone, RotateCones)
	}
	return Command{Kind: kind, Changes: kept}
}

func pick(n int, single, batch Kind) Kind {
	if n == 1 {
		return single
	}
	return batch
}
