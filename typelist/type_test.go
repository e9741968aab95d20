package typelist

import (
	"reflect"
	"testing"
	"unsafe"
)

type point struct {
	X, Y int32
}

type celsius float64

func (celsius) CanonicalName() string { return "temperature" }

func TestTypeIdentity(t *testing.T) {
	a := TypeOf[point]()
	b := FromReflect(reflect.TypeOf(point{}))

	if a != b {
		t.Error("descriptors of the same type must be equal")
	}
	if a.ID() != b.ID() || a.ID() == 0 {
		t.Errorf("IDs: %d vs %d", a.ID(), b.ID())
	}
	if a == TypeOf[int]() {
		t.Error("descriptors of distinct types must differ")
	}

	m := map[Type]int{a: 1}
	if m[b] != 1 {
		t.Error("Type must work as a map key")
	}
}

func TestTypeSizeAlign(t *testing.T) {
	tests := []struct {
		typ   Type
		size  uintptr
		align uintptr
		kind  Kind
	}{
		{TypeOf[bool](), 1, 1, Bool},
		{TypeOf[int32](), 4, 4, Int32},
		{TypeOf[int64](), 8, unsafe.Alignof(int64(0)), Int64},
		{TypeOf[point](), 8, 4, Struct},
		{TypeOf[string](), unsafe.Sizeof(""), unsafe.Alignof(""), String},
	}

	for _, tc := range tests {
		t.Run(tc.typ.Name(Unqualified), func(t *testing.T) {
			if tc.typ.Size() != tc.size {
				t.Errorf("Size() = %d, want %d", tc.typ.Size(), tc.size)
			}
			if tc.typ.Align() != tc.align {
				t.Errorf("Align() = %d, want %d", tc.typ.Align(), tc.align)
			}
			if tc.typ.Kind() != tc.kind {
				t.Errorf("Kind() = %v, want %v", tc.typ.Kind(), tc.kind)
			}
		})
	}
}

func TestZeroType(t *testing.T) {
	var zero Type
	if zero.Valid() {
		t.Error("zero Type should be invalid")
	}
	if zero.Kind() != Invalid || zero.Size() != 0 || zero.Align() != 1 {
		t.Errorf("zero Type: kind=%v size=%d align=%d", zero.Kind(), zero.Size(), zero.Align())
	}
	if zero.String() != "<invalid>" {
		t.Errorf("String() = %q", zero.String())
	}
	if FromReflect(nil) != zero {
		t.Error("FromReflect(nil) should be the zero Type")
	}
}

func TestCanonicalNames(t *testing.T) {
	tests := []struct {
		typ  Type
		mode NameMode
		want string
	}{
		{TypeOf[int](), Qualified, "int"},
		{TypeOf[point](), Unqualified, "point"},
		{TypeOf[point](), Qualified, "typelist.point"},
		{TypeOf[point](), FullyQualified, "github.com/wippyai/rsl/typelist.point"},
		{TypeOf[*point](), Unqualified, "*point"},
		{TypeOf[[]point](), Qualified, "[]typelist.point"},
		{TypeOf[[4]byte](), Unqualified, "[4]uint8"},
		{TypeOf[map[string]*point](), Unqualified, "map[string]*point"},
		{TypeOf[<-chan int](), Unqualified, "<-chan int"},
		{TypeOf[struct {
			A int
			point
		}](), Unqualified, "struct{A int; point}"},
		{TypeOf[celsius](), FullyQualified, "temperature"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.typ.Name(tc.mode); got != tc.want {
				t.Errorf("Name(%v) = %q, want %q", tc.mode, got, tc.want)
			}
		})
	}
}

func TestRegisterName(t *testing.T) {
	type local struct{}
	rt := reflect.TypeOf(local{})

	RegisterName(rt, "geo.Local")
	defer UnregisterName(rt)

	typ := FromReflect(rt)
	for _, mode := range []NameMode{Unqualified, Qualified, FullyQualified} {
		if got := typ.Name(mode); got != "geo.Local" {
			t.Errorf("Name(%v) = %q, want override", mode, got)
		}
	}
	if got := TypeOf[[]local]().Name(Unqualified); got != "[]geo.Local" {
		t.Errorf("composite name = %q", got)
	}
}

func TestNameModeString(t *testing.T) {
	if Qualified.String() != "qualified" || NameMode(9).String() != "unknown" {
		t.Errorf("got %q / %q", Qualified.String(), NameMode(9).String())
	}
}
