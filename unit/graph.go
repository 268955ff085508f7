package unit

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-set/v3"

	"github.com/ServiceFoundation/Vagabond/internal/diagnostic"
)

// graphEntry records one resolved unit and its direct dependency edge list.
type graphEntry struct {
	unit *Unit
	deps []*Unit
}

// BuildGraph resolves the transitive reference graph of the seed units and
// returns it in topological, dependency-first order: a unit appears after
// every unit it depends on.
//
// Expansion is breadth-first. References the resolver cannot satisfy are
// dropped and noted as info diagnostics when diags is non-nil; a missing
// dependency may be resolvable at the consuming end and is not an error
// here. A fully-qualified name resolving to more than one distinct unit is,
// and is additionally recorded as an error diagnostic.
func BuildGraph(r Resolver, seeds []*Unit, diags *diagnostic.Diagnostics) ([]*Unit, error) {
	entries := make(map[ID]*graphEntry)

	var order []ID // insertion order, for determinism

	queue := make([]*Unit, 0, len(seeds))
	queue = append(queue, seeds...)

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		if u == nil {
			continue
		}

		id := u.ID()
		if _, ok := entries[id]; ok {
			continue
		}

		if r.Ignored(u) {
			continue
		}

		entry := &graphEntry{unit: u}

		for _, ref := range u.References {
			dep, ok := r.Resolve(ref)
			if !ok {
				if diags != nil {
					diags.AddInfo("unresolved_reference",
						fmt.Sprintf("reference %q could not be resolved and was dropped", ref),
						u.Name, ref)
				}

				continue
			}

			if r.Ignored(dep) {
				continue
			}

			entry.deps = append(entry.deps, dep)
			queue = append(queue, dep)
		}

		entries[id] = entry
		order = append(order, id)
	}

	sorted := topoSort(entries, order)

	if dup := checkDuplicateNames(sorted); dup != nil {
		if diags != nil {
			diags.AddError("duplicate_unit_name", dup.Error(), dup.Name, "")
		}

		return nil, dup
	}

	return sorted, nil
}

// topoSort orders recorded units dependency-first via DFS postorder over the
// insertion order. Edges into units that were never recorded (ignored during
// expansion) are skipped.
func topoSort(entries map[ID]*graphEntry, order []ID) []*Unit {
	visited := set.New[ID](len(entries))
	out := make([]*Unit, 0, len(entries))

	var visit func(id ID)
	visit = func(id ID) {
		entry, ok := entries[id]
		if !ok || !visited.Insert(id) {
			return
		}

		for _, dep := range entry.deps {
			visit(dep.ID())
		}

		out = append(out, entry.unit)
	}

	for _, id := range order {
		visit(id)
	}

	return out
}

// checkDuplicateNames fails when a fully-qualified name maps to more than one
// distinct resolved unit.
func checkDuplicateNames(units []*Unit) *DuplicateNameError {
	byName := make(map[string]*set.Set[ID])

	var names []string

	for _, u := range units {
		s, ok := byName[u.Name]
		if !ok {
			s = set.New[ID](1)
			byName[u.Name] = s
			names = append(names, u.Name)
		}

		s.Insert(u.ID())
	}

	sort.Strings(names)

	for _, name := range names {
		if byName[name].Size() > 1 {
			return &DuplicateNameError{Name: name}
		}
	}

	return nil
}
