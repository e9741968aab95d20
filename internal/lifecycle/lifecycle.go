// Package lifecycle runs Init/Destroy hooks on values held in
// facility-owned storage.
package lifecycle

import (
	"reflect"

	"github.com/wippyai/rsl"
)

// Construct runs the Init hook of the addressable value v, if any.
func Construct(v reflect.Value) {
	if hook, ok := hookTarget(v).(rsl.Initializer); ok {
		hook.Init()
	}
}

// Destruct runs the Destroy hook of the addressable value v, if any.
func Destruct(v reflect.Value) {
	if hook, ok := hookTarget(v).(rsl.Destroyer); ok {
		hook.Destroy()
	}
}

func hookTarget(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	if v.CanAddr() {
		return v.Addr().Interface()
	}
	if v.CanInterface() {
		return v.Interface()
	}
	return nil
}
