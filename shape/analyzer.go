package shape

import (
	"math/big"
	"reflect"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ServiceFoundation/Vagabond/internal/common"
)

// MaxClassifyDepth bounds recursive classification. The guard trips before
// the process stack does, so a pathologically deep type graph fails with a
// DepthError instead of crashing.
const MaxClassifyDepth = 512

// SharedCacheSize is the default capacity of a shared shape cache.
const SharedCacheSize = 1024

var enumeratorType = reflect.TypeOf((*FieldEnumerator)(nil)).Elem()

// nullShape is the singleton shape for the absent type.
var nullShape = &Shape{Kind: KindNull, Sealed: true, status: statusFinal}

// sealedWrappers are structural wrapper types treated as sealed regardless of
// their own field shapes, because their identity never varies across
// instances.
var sealedWrappers = map[reflect.Type]struct{}{
	reflect.TypeFor[time.Time]():     {},
	reflect.TypeFor[time.Location](): {},
	reflect.TypeFor[big.Int]():       {},
	reflect.TypeFor[big.Rat]():       {},
	reflect.TypeFor[big.Float]():     {},
}

// Analyzer classifies runtime types into shapes. It is not safe for
// concurrent use: concurrent closure computations need independent analyzers.
// After Classify returns a non-nil error the analyzer holds partial records
// and must be discarded.
type Analyzer struct {
	shapes   map[reflect.Type]*Shape
	order    []reflect.Type // insertion order of memo entries
	shared   *lru.Cache[reflect.Type, *Shape]
	wrappers map[reflect.Type]struct{}
	depth    int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSharedCache attaches a process-scoped cache of finalized shapes, reused
// across analysis runs purely as a performance hint. Only fully finalized
// records are promoted into it.
func WithSharedCache(c *lru.Cache[reflect.Type, *Shape]) Option {
	return func(a *Analyzer) {
		a.shared = c
	}
}

// WithSealedWrappers marks additional types as always-sealed structural
// wrappers, on top of the built-in set.
func WithSealedWrappers(types ...reflect.Type) Option {
	return func(a *Analyzer) {
		for _, t := range types {
			a.wrappers[t] = struct{}{}
		}
	}
}

// NewSharedCache creates a cache suitable for WithSharedCache. A non-positive
// size gets the SharedCacheSize default.
func NewSharedCache(size int) (*lru.Cache[reflect.Type, *Shape], error) {
	if size <= 0 {
		size = SharedCacheSize
	}

	return lru.New[reflect.Type, *Shape](size)
}

// NewAnalyzer creates an analyzer with an empty memo table.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		shapes:   make(map[reflect.Type]*Shape),
		wrappers: make(map[reflect.Type]struct{}, len(sealedWrappers)),
	}
	for t := range sealedWrappers {
		a.wrappers[t] = struct{}{}
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Classify returns the shape of the given type, computing and memoizing it on
// first request. A nil type yields the null shape. The returned record may
// still be partial when Classify is re-entered on a recursive type; that is
// intentional and breaks the cycle.
func (a *Analyzer) Classify(t reflect.Type) (*Shape, error) {
	if t == nil {
		return nullShape, nil
	}

	if s, ok := a.shapes[t]; ok {
		return s, nil
	}

	if a.shared != nil {
		if s, ok := a.shared.Get(t); ok {
			a.record(t, s)
			return s, nil
		}
	}

	if a.depth >= MaxClassifyDepth {
		return nil, &DepthError{Type: t, Depth: a.depth}
	}

	a.depth++
	defer func() { a.depth-- }()

	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128, reflect.String:
		return a.finalize(t, &Shape{Kind: KindPrimitive, Sealed: true}), nil

	case reflect.Array, reflect.Slice:
		s := a.begin(t, KindArray, false)

		elem, err := a.Classify(t.Elem())
		if err != nil {
			return nil, err
		}

		s.Sealed = elem.Sealed

		return a.finish(t, s), nil

	case reflect.Pointer:
		s := a.begin(t, KindReference, false)

		elem, err := a.Classify(t.Elem())
		if err != nil {
			return nil, err
		}

		s.Sealed = elem.Sealed

		return a.finish(t, s), nil

	case reflect.Map:
		s := a.begin(t, KindMap, false)

		key, err := a.Classify(t.Key())
		if err != nil {
			return nil, err
		}

		elem, err := a.Classify(t.Elem())
		if err != nil {
			return nil, err
		}

		s.Sealed = key.Sealed && elem.Sealed

		return a.finish(t, s), nil

	case reflect.Interface:
		return a.finalize(t, &Shape{Kind: KindInterface, Sealed: false}), nil

	case reflect.Func:
		return a.finalize(t, &Shape{Kind: KindFunc, Sealed: false}), nil

	case reflect.Chan, reflect.UnsafePointer:
		return a.finalize(t, &Shape{Kind: KindOpaque, Sealed: true}), nil

	case reflect.Struct:
		return a.classifyStruct(t)

	default:
		return a.finalize(t, &Shape{Kind: KindOpaque, Sealed: true}), nil
	}
}

// classifyStruct handles the general named-type case with the two-phase
// sealedness fixpoint.
func (a *Analyzer) classifyStruct(t reflect.Type) (*Shape, error) {
	generic := strings.IndexByte(t.Name(), '[') >= 0

	// Custom-serialization contract: the field set is only knowable per
	// instance, so the type is never structurally sealed.
	if t.Implements(enumeratorType) || reflect.PointerTo(t).Implements(enumeratorType) {
		return a.finalize(t, &Shape{
			Kind:               KindNamed,
			GenericInstance:    generic,
			CustomSerializable: true,
		}), nil
	}

	// Known structural wrappers are sealed regardless of their own fields;
	// their identity never varies across instances.
	if _, ok := a.wrappers[t]; ok {
		return a.finalize(t, &Shape{
			Kind:            KindNamed,
			GenericInstance: generic,
			Sealed:          true,
		}), nil
	}

	fields := Fields(t)

	// Phase one: insert the partial record before touching field types, so a
	// field that recursively references t resolves against this placeholder.
	s := a.begin(t, KindNamed, true)
	s.GenericInstance = generic

	sealed := true
	fieldShapes := make([]*Shape, len(fields))

	for i, f := range fields {
		fs, err := a.Classify(f.Type)
		if err != nil {
			return nil, err
		}

		fieldShapes[i] = fs
		sealed = sealed && fs.Sealed
	}

	// Refine the record in place before filtering, so recursive field types
	// that resolved against the placeholder see the final sealed value.
	s.Sealed = sealed

	// Container shapes classified against the placeholder carry its
	// provisional sealed flag; rederive them now that the record is refined.
	if !sealed {
		a.refreshContainers()
	}

	for i, f := range fields {
		if !fieldShapes[i].Sealed {
			s.UnsealedFields = append(s.UnsealedFields, f)
		}
	}

	return a.finish(t, s), nil
}

// NamedTypes returns every genuinely named type registered during
// classification, in deterministic qualified-name order.
func (a *Analyzer) NamedTypes() []reflect.Type {
	var out []reflect.Type
	for _, t := range a.order {
		if a.shapes[t].Kind == KindNamed {
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return common.TypeFullName(out[i]) < common.TypeFullName(out[j])
	})

	return out
}

// Shape returns the memoized shape for a type, or nil if the type has not
// been classified in this run.
func (a *Analyzer) Shape(t reflect.Type) *Shape {
	return a.shapes[t]
}

// refreshContainers rederives the sealed flag of every container record from
// the current memo state.
func (a *Analyzer) refreshContainers() {
	for _, t := range a.order {
		s := a.shapes[t]
		switch s.Kind {
		case KindArray, KindReference, KindMap:
			s.Sealed = a.sealedNow(t, make(map[reflect.Type]bool))
		}
	}
}

// sealedNow derives the current sealedness of a container chain. Named
// container types may chain back onto themselves (type L []L); a revisited
// type answers with its memoized flag, the same way Classify breaks cycles
// with partial records.
func (a *Analyzer) sealedNow(t reflect.Type, seen map[reflect.Type]bool) bool {
	s, ok := a.shapes[t]
	if !ok {
		return false
	}

	if seen[t] {
		return s.Sealed
	}

	seen[t] = true

	switch s.Kind {
	case KindArray, KindReference:
		return a.sealedNow(t.Elem(), seen)
	case KindMap:
		return a.sealedNow(t.Key(), seen) && a.sealedNow(t.Elem(), seen)
	default:
		return s.Sealed
	}
}

func (a *Analyzer) record(t reflect.Type, s *Shape) {
	a.shapes[t] = s
	a.order = append(a.order, t)
}

func (a *Analyzer) begin(t reflect.Type, k Kind, sealed bool) *Shape {
	s := &Shape{Kind: k, Sealed: sealed, status: statusPartial}
	a.record(t, s)

	return s
}

func (a *Analyzer) finish(t reflect.Type, s *Shape) *Shape {
	s.status = statusFinal
	if a.shared != nil {
		a.shared.Add(t, s)
	}

	return s
}

func (a *Analyzer) finalize(t reflect.Type, s *Shape) *Shape {
	a.record(t, s)

	return a.finish(t, s)
}
