package packaging

import (
	"sort"

	"github.com/ServiceFoundation/Vagabond/closure"
	"github.com/ServiceFoundation/Vagabond/internal/common"
)

// Remap rewrites a dependency list so that every type of a mutable unit
// points at the increment that actually owns it post-packaging. Immutable
// units own themselves and pass through unchanged.
//
// It fails with NotPackagedError for a mutable unit with no tracked state,
// and with UnownedTypeError when a type is owned by no increment or by every
// increment. The output feeds back into unit graph resolution to compute the
// final shipping order over the remapped units.
func Remap(tracker Tracker, deps []closure.Dependency) ([]closure.Dependency, error) {
	var out []closure.Dependency

	for _, d := range deps {
		if d.Unit == nil || !d.Unit.Mutable {
			out = append(out, d)
			continue
		}

		st, ok := tracker.State(d.Unit.Name)
		if !ok {
			return nil, &NotPackagedError{Unit: d.Unit.Name}
		}

		remapped, err := remapUnit(st, d)
		if err != nil {
			return nil, err
		}

		out = append(out, remapped...)
	}

	return out, nil
}

func remapUnit(st *State, d closure.Dependency) ([]closure.Dependency, error) {
	// A mutable unit reached with no specific types still ships: its newest
	// increment stands in for the unit itself.
	if common.IsEmpty(d.Types) {
		if inc, ok := common.Last(st.Increments); ok {
			return []closure.Dependency{{Unit: inc.Unit}}, nil
		}

		return nil, &NotPackagedError{Unit: d.Unit.Name}
	}

	byInc := make(map[*Increment]*closure.Dependency)

	var order []*Increment

	for _, t := range d.Types {
		inc, err := owningIncrement(st, d.Unit.Name, common.TypeFullName(t))
		if err != nil {
			return nil, err
		}

		entry, ok := byInc[inc]
		if !ok {
			entry = &closure.Dependency{Unit: inc.Unit}
			byInc[inc] = entry
			order = append(order, inc)
		}

		entry.Types = append(entry.Types, t)
	}

	sort.Slice(order, func(i, j int) bool {
		return order[i].Index < order[j].Index
	})

	out := make([]closure.Dependency, 0, len(order))
	for _, inc := range order {
		out = append(out, *byInc[inc])
	}

	return out, nil
}

// owningIncrement resolves the increment owning a type. No owner and
// every-owner are both invalid for a concrete type; when several (but not
// all) increments own a type, the newest wins, since an increment supersedes
// older content of its origin.
func owningIncrement(st *State, unitName, typeName string) (*Increment, error) {
	var owners []*Increment

	for _, inc := range st.Increments {
		if inc.Owns(typeName) {
			owners = append(owners, inc)
		}
	}

	if len(owners) == 0 {
		return nil, &UnownedTypeError{Unit: unitName, Type: typeName, Reason: "no increment owns it"}
	}

	if common.IsMultiple(owners) && len(owners) == len(st.Increments) {
		return nil, &UnownedTypeError{Unit: unitName, Type: typeName, Reason: "present in every increment"}
	}

	sort.Slice(owners, func(i, j int) bool {
		return owners[i].Index < owners[j].Index
	})

	newest, _ := common.Last(owners)

	return newest, nil
}
