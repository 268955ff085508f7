package packaging_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ServiceFoundation/Vagabond/packaging"
	"github.com/ServiceFoundation/Vagabond/unit"
)

// mapTracker serves packaging state from a fixed table.
type mapTracker map[string]*packaging.State

func (m mapTracker) State(unitName string) (*packaging.State, bool) {
	st, ok := m[unitName]
	return st, ok
}

// stubPackager cuts numbered increments and reports scripted dependencies.
type stubPackager struct {
	next     int
	deps     map[string][]*unit.Unit
	packaged []string
}

func (p *stubPackager) Package(u *unit.Unit) (*packaging.Increment, []*unit.Unit, error) {
	p.next++
	p.packaged = append(p.packaged, u.Name)

	inc := &packaging.Increment{
		Origin: u.Name,
		Index:  p.next,
		Unit:   &unit.Unit{Name: fmt.Sprintf("%s-slice%d", u.Name, p.next)},
	}

	return inc, p.deps[u.Name], nil
}

func TestSelectStalePackagesFreshAndNew(t *testing.T) {
	t.Parallel()

	// fresh was packaged before and grew content; clean has nothing new;
	// never has no packaging state yet; frozen is immutable.
	fresh := &unit.Unit{Name: "fresh", Mutable: true}
	clean := &unit.Unit{Name: "clean", Mutable: true}
	never := &unit.Unit{Name: "never", Mutable: true}
	frozen := &unit.Unit{Name: "frozen", Mutable: false}

	tracker := mapTracker{
		"fresh": {FreshContent: true},
		"clean": {FreshContent: false},
	}
	packager := &stubPackager{deps: map[string][]*unit.Unit{}}

	incs, err := packaging.SelectStale(tracker, packager, []*unit.Unit{fresh, clean, never, frozen})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"fresh", "never"}, packager.packaged)
	assert.Len(t, incs, 2)
}

func TestSelectStaleRecursesIntoMutableDeps(t *testing.T) {
	t.Parallel()

	depUnit := &unit.Unit{Name: "dep", Mutable: true}
	frozenDep := &unit.Unit{Name: "frozen", Mutable: false}
	top := &unit.Unit{Name: "top", Mutable: true}

	packager := &stubPackager{deps: map[string][]*unit.Unit{
		"top": {depUnit, frozenDep},
	}}

	incs, err := packaging.SelectStale(mapTracker{}, packager, []*unit.Unit{top})
	require.NoError(t, err)

	// Only the mutable dependency is followed.
	assert.ElementsMatch(t, []string{"top", "dep"}, packager.packaged)

	// Dependency-first: dep's increment precedes top's.
	require.Len(t, incs, 2)
	assert.Equal(t, "dep", incs[0].Origin)
	assert.Equal(t, "top", incs[1].Origin)
}

func TestSelectStaleNothingToDo(t *testing.T) {
	t.Parallel()

	clean := &unit.Unit{Name: "clean", Mutable: true}

	packager := &stubPackager{}

	incs, err := packaging.SelectStale(mapTracker{"clean": {}}, packager, []*unit.Unit{clean})
	require.NoError(t, err)
	assert.Empty(t, incs)
	assert.Empty(t, packager.packaged)
}
