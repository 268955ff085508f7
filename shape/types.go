package shape

import (
	"fmt"
	"reflect"

	"github.com/ServiceFoundation/Vagabond/internal/common"
)

// status tracks whether a Shape record in the memo arena is still being
// computed. A partial record is a valid intermediate state: returning it from
// the memo table is what breaks classification cycles on recursive types.
type status int

const (
	statusPartial status = iota
	statusFinal
)

// Shape describes the structural classification of one runtime type.
// Exactly one Shape exists per distinct reflect.Type for the lifetime of one
// analysis run; its Sealed flag may be refined in place while the record is
// still partial.
type Shape struct {
	// Kind is the shape variant.
	Kind Kind
	// Sealed reports whether the type's structure is fully known without
	// inspecting a specific instance.
	Sealed bool
	// GenericInstance is true for instantiations of generic types.
	GenericInstance bool
	// CustomSerializable is true for types that supply their own field set
	// through the FieldEnumerator contract. Such types are never sealed.
	CustomSerializable bool
	// UnsealedFields lists only the instance fields whose declared type is
	// not sealed; these are the fields the object walker must inspect at the
	// instance level.
	UnsealedFields []Field

	status status
}

// Final reports whether classification of this shape has completed.
func (s *Shape) Final() bool {
	return s.status == statusFinal
}

// Field is the field-descriptor capability for one instance field: its name,
// the type that declared it, and a Read operation resolving the field on a
// concrete struct value. It is the one place where reflective access happens.
type Field struct {
	// Declaring is the struct type the field is declared on (for promoted
	// fields, the embedded type rather than the outer one).
	Declaring reflect.Type
	// Name is the Go field name.
	Name string
	// Index is the FieldByIndex path from the outer struct to the field.
	Index []int
	// Type is the field's declared type.
	Type reflect.Type
}

// Read returns the field's current value on the given struct value.
func (f Field) Read(v reflect.Value) reflect.Value {
	return v.FieldByIndex(f.Index)
}

// String returns the (declaring type, field name) pair.
func (f Field) String() string {
	return common.TypeFullName(f.Declaring) + "." + f.Name
}

// NamedValue is one field reported by a FieldEnumerator.
type NamedValue struct {
	Name  string
	Value any
}

// FieldEnumerator is implemented by types that supply their own field
// enumeration for shipping instead of exposing reflectable structure.
// Implementers are never structurally sealed: their field set is only
// knowable at the instance level.
type FieldEnumerator interface {
	EnumerateSerializedFields() []NamedValue
}

// DepthError reports that recursive classification ran out of execution
// headroom. It is distinct from other failures so callers can tell
// "graph too deep" from bad data.
type DepthError struct {
	// Type is the descriptor whose classification tripped the guard.
	Type reflect.Type
	// Depth is the recursion depth at the time of the trip.
	Depth int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("shape: classification of %s exceeded recursion depth %d",
		common.TypeFullName(e.Type), e.Depth)
}
