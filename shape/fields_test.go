package shape_test

import (
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ServiceFoundation/Vagabond/shape"
)

type baseHeader struct {
	Name string
	Seq  int
}

type envelope struct {
	baseHeader

	Name string // shadows the promoted baseHeader.Name
	Body []byte
}

type viaPointer struct {
	*baseHeader

	Tag string
}

func TestFieldsFlattensEmbedded(t *testing.T) {
	t.Parallel()

	fields := shape.Fields(reflect.TypeFor[envelope]())
	spew.Dump(fields)

	byName := make(map[string]shape.Field, len(fields))
	for _, f := range fields {
		if _, dup := byName[f.Name]; dup {
			t.Fatalf("field %q collected twice", f.Name)
		}

		byName[f.Name] = f
	}

	require.Contains(t, byName, "Name")
	require.Contains(t, byName, "Seq")
	require.Contains(t, byName, "Body")

	// The shadowing outer field wins over the promoted one.
	assert.Equal(t, reflect.TypeFor[envelope](), byName["Name"].Declaring)
	assert.Equal(t, reflect.TypeFor[baseHeader](), byName["Seq"].Declaring)
}

func TestFieldsReadPromoted(t *testing.T) {
	t.Parallel()

	v := envelope{baseHeader: baseHeader{Seq: 42}, Name: "outer"}

	fields := shape.Fields(reflect.TypeFor[envelope]())

	for _, f := range fields {
		switch f.Name {
		case "Seq":
			assert.Equal(t, int64(42), f.Read(reflect.ValueOf(v)).Int())
		case "Name":
			assert.Equal(t, "outer", f.Read(reflect.ValueOf(v)).String())
		}
	}
}

func TestFieldsKeepsEmbeddedPointer(t *testing.T) {
	t.Parallel()

	fields := shape.Fields(reflect.TypeFor[viaPointer]())

	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
	}

	// The embedded pointer is not flattened: reading through it would need a
	// per-instance nil check.
	assert.ElementsMatch(t, []string{"baseHeader", "Tag"}, names)
}
