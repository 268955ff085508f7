package closure

import (
	"reflect"

	"github.com/ServiceFoundation/Vagabond/shape"
	"github.com/ServiceFoundation/Vagabond/unit"
)

// NodeKind discriminates the kinds of values the walker can encounter.
type NodeKind int

const (
	// NodeNil is an absent value; a no-op for traversal.
	NodeNil NodeKind = iota
	// NodeType is a type descriptor used as a value; its instances are not
	// traversed, only the descriptor itself is classified.
	NodeType
	// NodeField is a field descriptor; only its declaring type is classified.
	NodeField
	// NodeUnit is a code-unit handle; classified through its representative
	// type, under the assumption any one contained type pulls in the unit.
	NodeUnit
	// NodeFunc is a function value; contributes its own func type and the
	// package that defines the target.
	NodeFunc
	// NodeObject is any other live object.
	NodeObject

	// NodeTotal is a constant that represents the total number of kinds defined
	NodeTotal = int(iota)
)

// DispatchNode classifies a root value into its traversal kind.
func DispatchNode(v any) NodeKind {
	switch v.(type) {
	case nil:
		return NodeNil
	case reflect.Type:
		return NodeType
	case shape.Field, *shape.Field:
		return NodeField
	case *unit.Unit:
		return NodeUnit
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Func {
		return NodeFunc
	}

	return NodeObject
}
