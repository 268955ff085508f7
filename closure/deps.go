package closure

import (
	"reflect"
	"sort"

	"github.com/ServiceFoundation/Vagabond/unit"
)

// Locator maps package paths onto the code units that own them. It is an
// external collaborator: the surrounding runtime decides how packages are
// grouped into shippable units.
type Locator interface {
	// UnitOf resolves the owning unit of a package path. It returns false for
	// packages that need no shipping (the host's base runtime).
	UnitOf(pkgPath string) (*unit.Unit, bool)
}

// Dependency pairs a code unit with the set of reachable types belonging to
// it. It is the grouping boundary for staleness selection and remapping.
type Dependency struct {
	Unit  *unit.Unit
	Types []reflect.Type
}

// Dependencies groups reachable named types by their owning code unit, in
// deterministic unit-name order. Function packages contribute their unit even
// when no named type of theirs was reached. Packages the locator does not
// know are dropped: they need no shipping.
func Dependencies(loc Locator, types []reflect.Type, funcPkgs []string) []Dependency {
	byID := make(map[unit.ID]*Dependency)

	var order []unit.ID

	add := func(u *unit.Unit) *Dependency {
		id := u.ID()
		if d, ok := byID[id]; ok {
			return d
		}

		d := &Dependency{Unit: u}
		byID[id] = d
		order = append(order, id)

		return d
	}

	for _, t := range types {
		u, ok := loc.UnitOf(t.PkgPath())
		if !ok {
			continue
		}

		d := add(u)
		d.Types = append(d.Types, t)
	}

	for _, pkg := range funcPkgs {
		if u, ok := loc.UnitOf(pkg); ok {
			add(u)
		}
	}

	sort.Slice(order, func(i, j int) bool {
		return order[i].Name < order[j].Name
	})

	out := make([]Dependency, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}

	return out
}
