package packaging

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/ServiceFoundation/Vagabond/unit"
)

// selectEntry records one performed packaging operation and the dependency
// list the packager reported for it.
type selectEntry struct {
	inc  *Increment
	deps []*unit.Unit
}

// SelectStale determines which reachable units contain fresh, unpackaged
// content, packages them through the collaborator, and returns the performed
// operations in topological, dependency-first order: a unit's increment is
// finalized only after the increments of everything it depends on.
//
// A unit requires packaging iff it is mutable AND it has never been packaged
// or its tracked state reports fresh content. Expansion recurses only into
// the mutable dependencies reported by each packaging operation.
func SelectStale(tracker Tracker, packager Packager, seeds []*unit.Unit) ([]*Increment, error) {
	entries := make(map[unit.ID]*selectEntry)
	seen := set.New[unit.ID](len(seeds))

	var order []unit.ID

	queue := make([]*unit.Unit, 0, len(seeds))
	queue = append(queue, seeds...)

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		if u == nil || !seen.Insert(u.ID()) {
			continue
		}

		if !u.Mutable {
			continue
		}

		if st, ok := tracker.State(u.Name); ok && !st.FreshContent {
			continue
		}

		inc, deps, err := packager.Package(u)
		if err != nil {
			return nil, err
		}

		entries[u.ID()] = &selectEntry{inc: inc, deps: deps}
		order = append(order, u.ID())

		for _, dep := range deps {
			if dep != nil && dep.Mutable {
				queue = append(queue, dep)
			}
		}
	}

	return orderIncrements(entries, order), nil
}

// orderIncrements is the DFS postorder over performed operations; edges into
// units that needed no packaging are skipped.
func orderIncrements(entries map[unit.ID]*selectEntry, order []unit.ID) []*Increment {
	visited := set.New[unit.ID](len(entries))
	out := make([]*Increment, 0, len(entries))

	var visit func(id unit.ID)
	visit = func(id unit.ID) {
		entry, ok := entries[id]
		if !ok || !visited.Insert(id) {
			return
		}

		for _, dep := range entry.deps {
			visit(dep.ID())
		}

		out = append(out, entry.inc)
	}

	for _, id := range order {
		visit(id)
	}

	return out
}
