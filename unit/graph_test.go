package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ServiceFoundation/Vagabond/internal/diagnostic"
	"github.com/ServiceFoundation/Vagabond/unit"
)

// mapResolver resolves units from a fixed table and ignores by name.
type mapResolver struct {
	units   map[string]*unit.Unit
	ignored map[string]bool
}

func (r *mapResolver) Resolve(name string) (*unit.Unit, bool) {
	u, ok := r.units[name]
	return u, ok
}

func (r *mapResolver) Ignored(u *unit.Unit) bool {
	return r.ignored[u.Name]
}

func mkUnit(name, fp string, refs ...string) *unit.Unit {
	return &unit.Unit{Name: name, Fingerprint: fp, References: refs}
}

func indexOf(units []*unit.Unit, name string) int {
	for i, u := range units {
		if u.Name == name {
			return i
		}
	}

	return -1
}

func TestBuildGraphTopologicalOrder(t *testing.T) {
	t.Parallel()

	c := mkUnit("c", "fc")
	b := mkUnit("b", "fb", "c")
	a := mkUnit("a", "fa", "b", "c")

	r := &mapResolver{units: map[string]*unit.Unit{"a": a, "b": b, "c": c}}

	sorted, err := unit.BuildGraph(r, []*unit.Unit{a}, nil)
	require.NoError(t, err)
	require.Len(t, sorted, 3)

	// Dependency-first: every unit appears after all units it depends on.
	assert.Less(t, indexOf(sorted, "c"), indexOf(sorted, "b"))
	assert.Less(t, indexOf(sorted, "b"), indexOf(sorted, "a"))
}

func TestBuildGraphDropsUnresolvableReferences(t *testing.T) {
	t.Parallel()

	a := mkUnit("a", "fa", "ghost")
	r := &mapResolver{units: map[string]*unit.Unit{"a": a}}

	var diags diagnostic.Diagnostics

	sorted, err := unit.BuildGraph(r, []*unit.Unit{a}, &diags)
	require.NoError(t, err)
	assert.Len(t, sorted, 1)

	require.Len(t, diags.Infos, 1)
	assert.Equal(t, "unresolved_reference", diags.Infos[0].Code)
	assert.Equal(t, "ghost", diags.Infos[0].Ref)
}

func TestBuildGraphSkipsIgnoredUnits(t *testing.T) {
	t.Parallel()

	sys := mkUnit("system.core", "fs")
	a := mkUnit("a", "fa", "system.core")

	r := &mapResolver{
		units:   map[string]*unit.Unit{"a": a, "system.core": sys},
		ignored: map[string]bool{"system.core": true},
	}

	sorted, err := unit.BuildGraph(r, []*unit.Unit{a}, nil)
	require.NoError(t, err)
	require.Len(t, sorted, 1)
	assert.Equal(t, "a", sorted[0].Name)
}

func TestBuildGraphDuplicateNameFails(t *testing.T) {
	t.Parallel()

	lib1 := mkUnit("Lib, Version=1.0", "aaa")
	lib2 := mkUnit("Lib, Version=1.0", "bbb")
	a := mkUnit("a", "fa", "lib-old")

	r := &mapResolver{units: map[string]*unit.Unit{
		"a":       a,
		"lib-old": lib2,
	}}

	var diags diagnostic.Diagnostics

	_, err := unit.BuildGraph(r, []*unit.Unit{a, lib1}, &diags)
	require.Error(t, err)

	var dup *unit.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Lib, Version=1.0", dup.Name)

	// The ambiguity also surfaces as an error diagnostic.
	require.True(t, diags.HasErrors())
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, "duplicate_unit_name", diags.Errors[0].Code)
	assert.Equal(t, "Lib, Version=1.0", diags.Errors[0].Unit)
}

func TestBuildGraphCycleTerminates(t *testing.T) {
	t.Parallel()

	a := mkUnit("a", "fa", "b")
	b := mkUnit("b", "fb", "a")

	r := &mapResolver{units: map[string]*unit.Unit{"a": a, "b": b}}

	sorted, err := unit.BuildGraph(r, []*unit.Unit{a}, nil)
	require.NoError(t, err)
	assert.Len(t, sorted, 2)
}

func TestBuildGraphStructuralIdentity(t *testing.T) {
	t.Parallel()

	// Two handles with the same ID are one graph node.
	a1 := mkUnit("a", "fa")
	a2 := mkUnit("a", "fa")

	r := &mapResolver{units: map[string]*unit.Unit{"a": a1}}

	sorted, err := unit.BuildGraph(r, []*unit.Unit{a1, a2}, nil)
	require.NoError(t, err)
	assert.Len(t, sorted, 1)
}
