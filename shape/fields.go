package shape

import (
	"reflect"
	"slices"
)

// Fields returns the flattened instance fields of a struct type.
//
// Embedded (anonymous) struct fields are flattened into their promoted leaf
// fields. When the same name occurs at several embedding depths, the
// shallowest occurrence wins, matching Go's own promotion and shadowing
// rules; within one depth the first occurrence wins. Embedded pointer fields
// are not flattened (reading through them would need a per-instance nil
// check) and stay as ordinary reference fields.
//
// Unexported fields are included: shipping an object graph needs the full
// structural shape, not just the public surface.
func Fields(t reflect.Type) []Field {
	var out []Field
	slots := make(map[string]fieldSlot)
	collectFields(t, nil, 0, slots, &out)

	return out
}

type fieldSlot struct {
	pos   int
	depth int
}

func collectFields(t reflect.Type, index []int, depth int, slots map[string]fieldSlot, out *[]Field) {
	for i := range t.NumField() {
		f := t.Field(i)
		idx := append(slices.Clone(index), i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			collectFields(f.Type, idx, depth+1, slots, out)
			continue
		}

		field := Field{
			Declaring: t,
			Name:      f.Name,
			Index:     idx,
			Type:      f.Type,
		}

		if slot, ok := slots[f.Name]; ok {
			if depth >= slot.depth {
				continue // shadowed by a shallower (more derived) field
			}

			(*out)[slot.pos] = field
			slots[f.Name] = fieldSlot{pos: slot.pos, depth: depth}

			continue
		}

		slots[f.Name] = fieldSlot{pos: len(*out), depth: depth}
		*out = append(*out, field)
	}
}
