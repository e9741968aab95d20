package tuple

import (
	"reflect"

	"github.com/wippyai/rsl/internal/lifecycle"
	"github.com/wippyai/rsl/typelist"
)

func construct[T any](p *T) {
	lifecycle.Construct(reflect.ValueOf(p).Elem())
}

func destruct[T any](p *T) {
	lifecycle.Destruct(reflect.ValueOf(p).Elem())
}

// T2 is a statically typed pair. Getters keep returning the last stored
// values after Destroy; check Destroyed before relying on them.
type T2[A, B any] struct {
	v0        A
	v1        B
	destroyed bool
}

// NewT2 returns a pair of zero values, running Init hooks in order.
func NewT2[A, B any]() *T2[A, B] {
	t := &T2[A, B]{}
	construct(&t.v0)
	construct(&t.v1)
	return t
}

// MakeT2 returns a pair holding a and b.
func MakeT2[A, B any](a A, b B) *T2[A, B] {
	return &T2[A, B]{v0: a, v1: b}
}

func (t *T2[A, B]) Len() int { return 2 }
func (t *T2[A, B]) Get0() A  { return t.v0 }
func (t *T2[A, B]) Get1() B  { return t.v1 }
func (t *T2[A, B]) Set0(v A) { t.v0 = v }
func (t *T2[A, B]) Set1(v B) { t.v1 = v }

// Destroyed reports whether Destroy has run.
func (t *T2[A, B]) Destroyed() bool { return t.destroyed }

// Destroy runs Destroy hooks in reverse order, once.
func (t *T2[A, B]) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	destruct(&t.v1)
	destruct(&t.v0)
}

// Untyped copies the pair into a dynamic Tuple. The element types are the
// static types A and B, so interface elements keep their interface type.
func (t *T2[A, B]) Untyped() *Tuple {
	return untyped(&t.v0, &t.v1)
}

// T3 is a statically typed triple.
type T3[A, B, C any] struct {
	v0        A
	v1        B
	v2        C
	destroyed bool
}

func NewT3[A, B, C any]() *T3[A, B, C] {
	t := &T3[A, B, C]{}
	construct(&t.v0)
	construct(&t.v1)
	construct(&t.v2)
	return t
}

func MakeT3[A, B, C any](a A, b B, c C) *T3[A, B, C] {
	return &T3[A, B, C]{v0: a, v1: b, v2: c}
}

func (t *T3[A, B, C]) Len() int { return 3 }
func (t *T3[A, B, C]) Get0() A  { return t.v0 }
func (t *T3[A, B, C]) Get1() B  { return t.v1 }
func (t *T3[A, B, C]) Get2() C  { return t.v2 }
func (t *T3[A, B, C]) Set0(v A) { t.v0 = v }
func (t *T3[A, B, C]) Set1(v B) { t.v1 = v }
func (t *T3[A, B, C]) Set2(v C) { t.v2 = v }

func (t *T3[A, B, C]) Destroyed() bool { return t.destroyed }

func (t *T3[A, B, C]) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	destruct(&t.v2)
	destruct(&t.v1)
	destruct(&t.v0)
}

func (t *T3[A, B, C]) Untyped() *Tuple {
	return untyped(&t.v0, &t.v1, &t.v2)
}

// T4 is a statically typed 4-tuple.
type T4[A, B, C, D any] struct {
	v0        A
	v1        B
	v2        C
	v3        D
	destroyed bool
}

func NewT4[A, B, C, D any]() *T4[A, B, C, D] {
	t := &T4[A, B, C, D]{}
	construct(&t.v0)
	construct(&t.v1)
	construct(&t.v2)
	construct(&t.v3)
	return t
}

func MakeT4[A, B, C, D any](a A, b B, c C, d D) *T4[A, B, C, D] {
	return &T4[A, B, C, D]{v0: a, v1: b, v2: c, v3: d}
}

func (t *T4[A, B, C, D]) Len() int { return 4 }
func (t *T4[A, B, C, D]) Get0() A  { return t.v0 }
func (t *T4[A, B, C, D]) Get1() B  { return t.v1 }
func (t *T4[A, B, C, D]) Get2() C  { return t.v2 }
func (t *T4[A, B, C, D]) Get3() D  { return t.v3 }
func (t *T4[A, B, C, D]) Set0(v A) { t.v0 = v }
func (t *T4[A, B, C, D]) Set1(v B) { t.v1 = v }
func (t *T4[A, B, C, D]) Set2(v C) { t.v2 = v }
func (t *T4[A, B, C, D]) Set3(v D) { t.v3 = v }

func (t *T4[A, B, C, D]) Destroyed() bool { return t.destroyed }

func (t *T4[A, B, C, D]) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	destruct(&t.v3)
	destruct(&t.v2)
	destruct(&t.v1)
	destruct(&t.v0)
}

func (t *T4[A, B, C, D]) Untyped() *Tuple {
	return untyped(&t.v0, &t.v1, &t.v2, &t.v3)
}

// untyped copies the pointed-to elements into a new dynamic Tuple typed
// by the pointers' element types.
func untyped(ptrs ...any) *Tuple {
	rts := make([]reflect.Type, len(ptrs))
	for i, p := range ptrs {
		rts[i] = reflect.TypeOf(p).Elem()
	}
	tp := &Tuple{types: typelist.Make(rts...)}
	tp.storage = reflect.New(StorageType(tp.types)).Elem()
	for i, p := range ptrs {
		tp.storage.Field(i).Set(reflect.ValueOf(p).Elem())
	}
	return tp
}
