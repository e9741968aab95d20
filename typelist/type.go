package typelist

import (
	"reflect"

	"github.com/wippyai/rsl/internal/arena"
)

type Kind = reflect.Kind

const (
	Invalid       = reflect.Invalid
	Bool          = reflect.Bool
	Int           = reflect.Int
	Int8          = reflect.Int8
	Int16         = reflect.Int16
	Int32         = reflect.Int32
	Int64         = reflect.Int64
	Uint          = reflect.Uint
	Uint8         = reflect.Uint8
	Uint16        = reflect.Uint16
	Uint32        = reflect.Uint32
	Uint64        = reflect.Uint64
	Uintptr       = reflect.Uintptr
	Float32       = reflect.Float32
	Float64       = reflect.Float64
	Complex64     = reflect.Complex64
	Complex128    = reflect.Complex128
	Array         = reflect.Array
	Chan          = reflect.Chan
	Func          = reflect.Func
	Interface     = reflect.Interface
	Map           = reflect.Map
	Pointer       = reflect.Pointer
	Slice         = reflect.Slice
	String        = reflect.String
	Struct        = reflect.Struct
	UnsafePointer = reflect.UnsafePointer
)

var registry = arena.New()

// Type is a descriptor of a single Go type. The zero Type is invalid.
type Type struct {
	rt reflect.Type
	id arena.TypeID
}

// TypeOf returns the descriptor of T.
func TypeOf[T any]() Type {
	return FromReflect(reflect.TypeFor[T]())
}

// FromReflect returns the descriptor of rt. A nil rt yields the zero Type.
func FromReflect(rt reflect.Type) Type {
	if rt == nil {
		return Type{}
	}
	return Type{id: registry.Intern(rt), rt: rt}
}

// ID returns the interned identity, unique per Go type within the process.
func (t Type) ID() uint32 {
	return uint32(t.id)
}

// Valid reports whether t describes a type.
func (t Type) Valid() bool {
	return t.id != arena.Invalid
}

// Reflect returns the underlying reflect.Type, or nil for the zero Type.
func (t Type) Reflect() reflect.Type {
	return t.rt
}

func (t Type) Size() uintptr {
	if t.rt == nil {
		return 0
	}
	return t.rt.Size()
}

func (t Type) Align() uintptr {
	if t.rt == nil {
		return 1
	}
	return uintptr(t.rt.Align())
}

func (t Type) Kind() Kind {
	if t.rt == nil {
		return Invalid
	}
	return t.rt.Kind()
}

// Comparable reports whether values of t support ==.
func (t Type) Comparable() bool {
	return t.rt != nil && t.rt.Comparable()
}

// Name returns the canonical name of t in the given mode.
func (t Type) Name(mode NameMode) string {
	if t.rt == nil {
		return "<invalid>"
	}
	return canonicalName(t.rt, mode)
}

// String returns the qualified canonical name.
func (t Type) String() string {
	return t.Name(Qualified)
}

// IsScalar reports whether k is a boolean, numeric, or string kind.
func IsScalar(k Kind) bool {
	switch k {
	case Bool, Int, Int8, Int16, Int32, Int64,
		Uint, Uint8, Uint16, Uint32, Uint64, Uintptr,
		Float32, Float64, Complex64, Complex128, String:
		return true
	default:
		return false
	}
}
