package closure

import (
	"reflect"
	"runtime"
	"sort"
	"strings"

	"github.com/hashicorp/go-set/v3"

	"github.com/ServiceFoundation/Vagabond/shape"
	"github.com/ServiceFoundation/Vagabond/unit"
)

var reflectTypeIface = reflect.TypeOf((*reflect.Type)(nil)).Elem()

// visitKey identifies one reference-like value by exact identity. Two
// structurally equal objects at different addresses are distinct graph nodes
// and must each be visited once.
type visitKey struct {
	typ reflect.Type
	ptr uintptr
}

// Walker traverses a live object graph and collects every named type
// reachable from it. Like the analyzer it wraps, a Walker is single-threaded;
// concurrent closure computations need independent walkers.
type Walker struct {
	analyzer *shape.Analyzer
	visited  *set.Set[visitKey]
	funcPkgs *set.Set[string]
}

// NewWalker creates a walker over the given analyzer. A nil analyzer gets a
// fresh one with default options.
func NewWalker(analyzer *shape.Analyzer) *Walker {
	if analyzer == nil {
		analyzer = shape.NewAnalyzer()
	}

	return &Walker{
		analyzer: analyzer,
		visited:  set.New[visitKey](64),
		funcPkgs: set.New[string](4),
	}
}

// Analyzer returns the underlying shape analyzer.
func (w *Walker) Analyzer() *shape.Analyzer {
	return w.analyzer
}

// Walk traverses the graph rooted at the given value, dispatching on its
// node kind. It may be called multiple times; results accumulate.
func (w *Walker) Walk(root any) error {
	switch DispatchNode(root) {
	case NodeNil:
		return nil

	case NodeType:
		_, err := w.analyzer.Classify(root.(reflect.Type))
		return err

	case NodeField:
		f, ok := root.(shape.Field)
		if !ok {
			p := root.(*shape.Field)
			if p == nil {
				return nil
			}

			f = *p
		}

		_, err := w.analyzer.Classify(f.Declaring)

		return err

	case NodeUnit:
		u := root.(*unit.Unit)
		if u == nil || u.Representative == nil {
			return nil
		}

		_, err := w.analyzer.Classify(u.Representative)

		return err

	case NodeFunc, NodeObject:
		return w.walkValue(reflect.ValueOf(root))
	}

	return nil
}

// NamedTypes returns every genuinely named type reachable so far, in
// deterministic order, each type at most once.
func (w *Walker) NamedTypes() []reflect.Type {
	return w.analyzer.NamedTypes()
}

// FuncPackages returns the package paths of every function value encountered,
// sorted.
func (w *Walker) FuncPackages() []string {
	out := w.funcPkgs.Slice()
	sort.Strings(out)

	return out
}

func (w *Walker) walkValue(v reflect.Value) error {
	if !v.IsValid() {
		return nil
	}

	// A type descriptor stored behind an interface is still a type node:
	// classify the descriptor itself, never its implementation's internals.
	if v.Type().Implements(reflectTypeIface) && v.CanInterface() {
		if t, ok := v.Interface().(reflect.Type); ok {
			_, err := w.analyzer.Classify(t)
			return err
		}
	}

	s, err := w.analyzer.Classify(v.Type())
	if err != nil {
		return err
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}

		return w.walkValue(v.Elem())

	case reflect.Pointer:
		if v.IsNil() || !w.mark(v) {
			return nil
		}

		return w.walkValue(v.Elem())

	case reflect.Func:
		if v.IsNil() || !w.mark(v) {
			return nil
		}

		w.recordFunc(v)

		return nil

	case reflect.Slice:
		if v.IsNil() || s.Sealed || !w.mark(v) {
			return nil
		}

		return w.walkElements(v)

	case reflect.Array:
		if s.Sealed {
			return nil
		}

		return w.walkElements(v)

	case reflect.Map:
		if v.IsNil() || s.Sealed || !w.mark(v) {
			return nil
		}

		iter := v.MapRange()
		for iter.Next() {
			if err := w.walkValue(iter.Key()); err != nil {
				return err
			}

			if err := w.walkValue(iter.Value()); err != nil {
				return err
			}
		}

		return nil

	case reflect.Struct:
		return w.walkStruct(v, s)

	default:
		// Primitives, channels: the shape alone is enough.
		return nil
	}
}

func (w *Walker) walkElements(v reflect.Value) error {
	for i := range v.Len() {
		if err := w.walkValue(v.Index(i)); err != nil {
			return err
		}
	}

	return nil
}

func (w *Walker) walkStruct(v reflect.Value, s *shape.Shape) error {
	if s.CustomSerializable {
		if enum, ok := asEnumerator(v); ok {
			for _, nv := range enum.EnumerateSerializedFields() {
				if err := w.Walk(nv.Value); err != nil {
					return err
				}
			}

			return nil
		}

		// Unexported position: the contract cannot be invoked, fall back to
		// the declared structural fields.
		for _, f := range shape.Fields(v.Type()) {
			if err := w.walkValue(f.Read(v)); err != nil {
				return err
			}
		}

		return nil
	}

	for _, f := range s.UnsealedFields {
		if err := w.walkValue(f.Read(v)); err != nil {
			return err
		}
	}

	return nil
}

// mark records the identity of a reference-like value, reporting false when
// it was already visited. Identity, not structural equality: cyclic graphs
// must terminate and equal-but-distinct instances are distinct nodes.
func (w *Walker) mark(v reflect.Value) bool {
	return w.visited.Insert(visitKey{typ: v.Type(), ptr: v.Pointer()})
}

func (w *Walker) recordFunc(v reflect.Value) {
	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return
	}

	if pkg := funcPkgPath(fn.Name()); pkg != "" {
		w.funcPkgs.Insert(pkg)
	}
}

// funcPkgPath extracts the defining package path from a runtime symbol name,
// e.g. "github.com/acme/pkg.(*T).Method" -> "github.com/acme/pkg".
func funcPkgPath(name string) string {
	slash := strings.LastIndexByte(name, '/')

	dot := strings.IndexByte(name[slash+1:], '.')
	if dot < 0 {
		return ""
	}

	return name[:slash+1+dot]
}

func asEnumerator(v reflect.Value) (shape.FieldEnumerator, bool) {
	if !v.CanInterface() {
		return nil, false
	}

	if enum, ok := v.Interface().(shape.FieldEnumerator); ok {
		return enum, true
	}

	if v.CanAddr() && v.Addr().CanInterface() {
		if enum, ok := v.Addr().Interface().(shape.FieldEnumerator); ok {
			return enum, true
		}
	}

	return nil, false
}
