// Package vagabond computes the minimal closure of structural types and
// code-unit dependencies that must be shipped to a remote node before a live
// object graph (or the code that produced it) can be reconstructed there.
//
// The Manager facade composes the two core algorithms: type-closure analysis
// over live object graphs (shape, closure) and code-unit dependency graph
// construction with staleness selection and increment remapping (unit,
// packaging). Serialization, transport, and increment creation live behind
// collaborator interfaces.
package vagabond

import (
	"errors"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ServiceFoundation/Vagabond/closure"
	"github.com/ServiceFoundation/Vagabond/internal/diagnostic"
	"github.com/ServiceFoundation/Vagabond/packaging"
	"github.com/ServiceFoundation/Vagabond/shape"
	"github.com/ServiceFoundation/Vagabond/unit"
)

var (
	// ErrNoResolver is returned when unit graph resolution is requested
	// without a configured resolver.
	ErrNoResolver = errors.New("vagabond: no unit resolver configured")
	// ErrNoLocator is returned when dependency grouping is requested without
	// a configured locator.
	ErrNoLocator = errors.New("vagabond: no unit locator configured")
	// ErrNoTracker is returned when packaging state is needed but no tracker
	// is configured.
	ErrNoTracker = errors.New("vagabond: no packaging tracker configured")
	// ErrNoPackager is returned when staleness selection is requested without
	// a configured packager.
	ErrNoPackager = errors.New("vagabond: no packager configured")
)

// Manager ties the closure core to its external collaborators. Each analysis
// call uses fresh memo tables; the optional shared shape cache is a pure
// performance hint. A Manager is single-writer: one resolution pass at a
// time.
type Manager struct {
	resolver unit.Resolver
	tracker  packaging.Tracker
	packager packaging.Packager
	locator  closure.Locator

	shared *lru.Cache[reflect.Type, *shape.Shape]
	diags  diagnostic.Diagnostics
}

// Option configures a Manager.
type Option func(*Manager) error

// WithResolver sets the code-unit resolver collaborator.
func WithResolver(r unit.Resolver) Option {
	return func(m *Manager) error {
		m.resolver = r
		return nil
	}
}

// WithTracker sets the packaging-state tracker collaborator.
func WithTracker(t packaging.Tracker) Option {
	return func(m *Manager) error {
		m.tracker = t
		return nil
	}
}

// WithPackager sets the increment-creation collaborator.
func WithPackager(p packaging.Packager) Option {
	return func(m *Manager) error {
		m.packager = p
		return nil
	}
}

// WithLocator sets the package-to-unit locator collaborator.
func WithLocator(l closure.Locator) Option {
	return func(m *Manager) error {
		m.locator = l
		return nil
	}
}

// WithSharedShapeCache attaches a process-scoped cache of finalized type
// shapes, reused across closure computations.
func WithSharedShapeCache(size int) Option {
	return func(m *Manager) error {
		cache, err := shape.NewSharedCache(size)
		if err != nil {
			return err
		}

		m.shared = cache

		return nil
	}
}

// New creates a Manager. Collaborators are optional; operations that need a
// missing one fail with the corresponding sentinel error.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ComputeTypeClosure walks the object graph rooted at the given value and
// returns every named type reachable from it, each at most once, in
// deterministic order.
func (m *Manager) ComputeTypeClosure(root any) ([]reflect.Type, error) {
	w := m.newWalker()
	if err := w.Walk(root); err != nil {
		return nil, err
	}

	return w.NamedTypes(), nil
}

// ComputeDependencies walks the object graph and groups the reachable types
// by their owning code unit.
func (m *Manager) ComputeDependencies(root any) ([]closure.Dependency, error) {
	if m.locator == nil {
		return nil, ErrNoLocator
	}

	w := m.newWalker()
	if err := w.Walk(root); err != nil {
		return nil, err
	}

	return closure.Dependencies(m.locator, w.NamedTypes(), w.FuncPackages()), nil
}

// ResolveUnitGraph resolves the transitive reference graph of the seed units
// into topological shipping order. Dropped unresolvable references are
// recorded as diagnostics, retrievable via Diagnostics.
func (m *Manager) ResolveUnitGraph(seeds []*unit.Unit) ([]*unit.Unit, error) {
	if m.resolver == nil {
		return nil, ErrNoResolver
	}

	m.diags = diagnostic.Diagnostics{}

	return unit.BuildGraph(m.resolver, seeds, &m.diags)
}

// SelectStaleUnits packages every reachable mutable unit holding fresh
// unpackaged content and returns the performed operations dependency-first.
func (m *Manager) SelectStaleUnits(seeds []*unit.Unit) ([]*packaging.Increment, error) {
	if m.tracker == nil {
		return nil, ErrNoTracker
	}

	if m.packager == nil {
		return nil, ErrNoPackager
	}

	return packaging.SelectStale(m.tracker, m.packager, seeds)
}

// RemapDependencies rewrites a dependency list so each type points at the
// increment owning it; the result is ready for ResolveUnitGraph.
func (m *Manager) RemapDependencies(deps []closure.Dependency) ([]closure.Dependency, error) {
	if m.tracker == nil {
		return nil, ErrNoTracker
	}

	return packaging.Remap(m.tracker, deps)
}

// Diagnostics returns the formatted diagnostics recorded by the most recent
// ResolveUnitGraph pass, fatal errors included, most severe first.
func (m *Manager) Diagnostics() []string {
	var out []string
	for _, d := range m.diags.Errors {
		out = append(out, d.String())
	}

	for _, d := range m.diags.Warnings {
		out = append(out, d.String())
	}

	for _, d := range m.diags.Infos {
		out = append(out, d.String())
	}

	return out
}

func (m *Manager) newWalker() *closure.Walker {
	var opts []shape.Option
	if m.shared != nil {
		opts = append(opts, shape.WithSharedCache(m.shared))
	}

	return closure.NewWalker(shape.NewAnalyzer(opts...))
}
