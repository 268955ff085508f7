package shape

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind discriminates the shape variants produced by classification.
type Kind int

const (
	KindUnknown Kind = iota

	// KindNull is the sentinel shape for the absent type; always sealed.
	KindNull
	// KindPrimitive covers numeric, boolean and text types; always sealed.
	KindPrimitive
	// KindArray covers arrays and slices; sealed iff the element shape is sealed.
	KindArray
	// KindReference covers pointers; sealed iff the pointed-to shape is sealed.
	KindReference
	// KindMap covers maps; sealed iff both key and element shapes are sealed.
	KindMap
	// KindInterface covers interface types; never sealed, since the dynamic
	// type behind an interface varies per instance.
	KindInterface
	// KindFunc covers function values; never sealed, since the target varies
	// per instance.
	KindFunc
	// KindOpaque covers channels and unsafe pointers; sealed, as they carry
	// no shippable structure.
	KindOpaque
	// KindNamed is the general case: a concrete named struct type.
	KindNamed

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)
