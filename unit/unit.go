package unit

import (
	"fmt"
	"reflect"
)

// ID is the stable structural identity of a code unit: qualified name plus
// content fingerprint. Two units with equal IDs are the same unit; two units
// with the same name but different fingerprints are distinct (and an error
// when both appear in one resolved graph).
type ID struct {
	Name        string
	Fingerprint string
}

// String returns "name (fingerprint)".
func (id ID) String() string {
	if id.Fingerprint == "" {
		return id.Name
	}

	return fmt.Sprintf("%s (%s)", id.Name, id.Fingerprint)
}

// Unit is one code unit: a compilation/library unit as seen by the
// surrounding compiler or runtime state.
type Unit struct {
	// Name is the fully-qualified unit name, e.g. "Lib, Version=1.0".
	Name string
	// Fingerprint is a content hash distinguishing rebuilds of the same name.
	Fingerprint string
	// Mutable is true for live units whose content can grow after prior
	// packaging (interactively or incrementally compiled).
	Mutable bool
	// References lists the qualified names of directly referenced units.
	References []string
	// Representative optionally names one type contained in the unit, used
	// as a proxy when the unit itself appears in an object graph.
	Representative reflect.Type
}

// ID returns the unit's structural identity.
func (u *Unit) ID() ID {
	return ID{Name: u.Name, Fingerprint: u.Fingerprint}
}

// Resolver is the external collaborator that resolves referenced units by
// qualified name, consulting already-loaded units first, then previously
// packaged increments, then a fresh load attempt.
type Resolver interface {
	// Resolve returns the unit for a qualified name, or false on a definitive
	// not-found. A missing reference is not an error for graph construction:
	// it may be resolvable only at the consuming end.
	Resolve(name string) (*Unit, bool)
	// Ignored reports units excluded from shipping altogether: the runtime's
	// own support units and trusted base units.
	Ignored(u *Unit) bool
}

// DuplicateNameError reports two or more resolved units sharing a
// fully-qualified name. Ambiguous graphs are a configuration error, never
// resolved by silently picking one unit.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("unit: duplicate code units resolved for name %q", e.Name)
}
