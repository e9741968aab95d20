// Package equal compares values held in facility storage.
package equal

import (
	"reflect"
	"sync"
)

var dynamic sync.Map // reflect.Type -> bool

// Values reports whether a and b, of the same type, are equal. Types whose
// == cannot panic are compared with ==, so pointers compare by address.
// Anything else, including comparable structs and arrays that hold
// interfaces, falls back to reflect.DeepEqual.
func Values(a, b reflect.Value) bool {
	if a.Type().Comparable() && !holdsInterface(a.Type()) {
		return a.Equal(b)
	}
	return reflect.DeepEqual(a.Interface(), b.Interface())
}

// holdsInterface reports whether == on t may compare dynamic values.
func holdsInterface(t reflect.Type) bool {
	if v, ok := dynamic.Load(t); ok {
		return v.(bool)
	}
	var out bool
	switch t.Kind() {
	case reflect.Interface:
		out = true
	case reflect.Array:
		out = holdsInterface(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if holdsInterface(t.Field(i).Type) {
				out = true
				break
			}
		}
	}
	dynamic.Store(t, out)
	return out
}
