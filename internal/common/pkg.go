package common

import "reflect"

// UnknownStr is the fallback name for enum values outside their defined range.
const UnknownStr = "unknown"

// TypeFullName returns the qualified name of a type, e.g.
// "github.com/ServiceFoundation/Vagabond/examples/remote.Record".
// Unnamed and builtin types fall back to reflect's own notation.
func TypeFullName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}

	return t.PkgPath() + "." + t.Name()
}
