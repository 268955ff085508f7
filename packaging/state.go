package packaging

import (
	"fmt"

	"github.com/ServiceFoundation/Vagabond/unit"
)

// Increment is one packaged, shippable fragment of a mutable unit's content,
// created when the unit has grown fresh, unpackaged definitions.
type Increment struct {
	// Origin is the name of the source unit this increment was cut from.
	Origin string
	// Index orders increments of one origin; higher is newer.
	Index int
	// Unit is the packaged unit shipped in place of the origin.
	Unit *unit.Unit
	// TypeNames holds the qualified names of the types this increment owns.
	TypeNames map[string]struct{}
}

// Owns reports whether the increment owns the named type.
func (inc *Increment) Owns(typeName string) bool {
	_, ok := inc.TypeNames[typeName]
	return ok
}

// State is the tracked packaging state of one mutable unit. Its existence
// means the unit has been packaged at least once.
type State struct {
	// FreshContent reports that the unit has grown definitions not yet
	// covered by any increment.
	FreshContent bool
	// Increments lists the increments cut so far, oldest first.
	Increments []*Increment
}

// Tracker is the external compiler/runtime state tracking, per code unit,
// whether it has been packaged and whether it now holds fresh content.
type Tracker interface {
	// State returns the tracked state for a unit name, or false if the unit
	// has never been packaged.
	State(unitName string) (*State, bool)
}

// Packager performs the actual increment creation and reports what the fresh
// increment depends on. It belongs to the binary-rewriting subsystem.
type Packager interface {
	Package(u *unit.Unit) (*Increment, []*unit.Unit, error)
}

// NotPackagedError reports a remap request for a unit with no packaging
// state at all.
type NotPackagedError struct {
	Unit string
}

func (e *NotPackagedError) Error() string {
	return fmt.Sprintf("packaging: unit %q has never been packaged", e.Unit)
}

// UnownedTypeError reports a type that maps to no increment, or to every
// increment; both are invalid states for a concrete type, which must belong
// to exactly one increment.
type UnownedTypeError struct {
	Unit   string
	Type   string
	Reason string
}

func (e *UnownedTypeError) Error() string {
	return fmt.Sprintf("packaging: type %q of unit %q: %s", e.Type, e.Unit, e.Reason)
}
