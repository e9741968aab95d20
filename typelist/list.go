package typelist

import (
	"reflect"
	"strings"

	"github.com/wippyai/rsl/errors"
	"github.com/wippyai/rsl/internal/layout"
)

// NotFound is returned by IndexOf and IndexOfUnique when no position matches.
const NotFound = -1

// List is an immutable ordered sequence of Types. The zero List is empty.
type List struct {
	types []Type
}

// Predicate selects Types for Filter, All and Any.
type Predicate func(Type) bool

// Layout is the Go struct layout of a List: one member per entry.
type Layout struct {
	Offsets []uintptr
	Size    uintptr
	Align   uintptr
}

// Of builds a List from descriptors.
func Of(types ...Type) List {
	if len(types) == 0 {
		return List{}
	}
	return List{types: append([]Type(nil), types...)}
}

// Make builds a List from reflect types.
func Make(rts ...reflect.Type) List {
	types := make([]Type, len(rts))
	for i, rt := range rts {
		types[i] = FromReflect(rt)
	}
	return List{types: types}
}

// TypesOf builds a List from the dynamic types of values.
// A nil interface value contributes the zero Type.
func TypesOf(values ...any) List {
	types := make([]Type, len(values))
	for i, v := range values {
		types[i] = FromReflect(reflect.TypeOf(v))
	}
	return List{types: types}
}

func (l List) Len() int {
	return len(l.types)
}

// At returns the entry at i. It panics if i is out of range, like a slice index.
func (l List) At(i int) Type {
	return l.types[i]
}

// Types returns a copy of the entries.
func (l List) Types() []Type {
	return append([]Type(nil), l.types...)
}

// Contains reports whether t occurs in l.
func (l List) Contains(t Type) bool {
	return IndexOf(l, t) != NotFound
}

// All reports whether every entry satisfies p. It is true for the empty List.
func (l List) All(p Predicate) bool {
	for _, t := range l.types {
		if !p(t) {
			return false
		}
	}
	return true
}

// Any reports whether some entry satisfies p. It is false for the empty List.
func (l List) Any(p Predicate) bool {
	for _, t := range l.types {
		if p(t) {
			return true
		}
	}
	return false
}

// Equal reports whether l and o hold the same types in the same order.
func (l List) Equal(o List) bool {
	if len(l.types) != len(o.types) {
		return false
	}
	for i := range l.types {
		if l.types[i] != o.types[i] {
			return false
		}
	}
	return true
}

// Layout computes the layout of a struct holding one value per entry.
func (l List) Layout() Layout {
	infos := make([]layout.Info, len(l.types))
	for i, t := range l.types {
		infos[i] = layout.Info{Size: t.Size(), Align: t.Align()}
	}
	rec := layout.Sequential(infos)
	return Layout{
		Offsets: rec.Offsets,
		Size:    rec.Size,
		Align:   rec.Align,
	}
}

func (l List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, t := range l.types {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.Name(Unqualified))
	}
	b.WriteByte(']')
	return b.String()
}

// Concat returns the entries of every list in order.
func Concat(lists ...List) List {
	n := 0
	for _, l := range lists {
		n += len(l.types)
	}
	if n == 0 {
		return List{}
	}
	types := make([]Type, 0, n)
	for _, l := range lists {
		types = append(types, l.types...)
	}
	return List{types: types}
}

// Filter returns the entries of l satisfying p, in order.
// A nil p is a programming error and panics.
func Filter(l List, p Predicate) List {
	if p == nil {
		panic(errors.InvalidInput(errors.PhaseTypeList, "nil predicate"))
	}
	var types []Type
	for _, t := range l.types {
		if p(t) {
			types = append(types, t)
		}
	}
	return List{types: types}
}

// IndexOf returns the position of the first occurrence of t, or NotFound.
func IndexOf(l List, t Type) int {
	for i, e := range l.types {
		if e == t {
			return i
		}
	}
	return NotFound
}

// IndexOfUnique returns the position of t if it occurs exactly once in l,
// otherwise NotFound.
func IndexOfUnique(l List, t Type) int {
	idx, count := locate(l, t)
	if count != 1 {
		return NotFound
	}
	return idx
}

// Lookup returns the position of t, failing when t is absent or ambiguous.
func Lookup(l List, t Type) (int, error) {
	idx, count := locate(l, t)
	switch count {
	case 0:
		return NotFound, errors.NotFound(errors.PhaseTypeList, "type", t.String())
	case 1:
		return idx, nil
	default:
		return NotFound, errors.Ambiguous(errors.PhaseTypeList, t.String(), count)
	}
}

func locate(l List, t Type) (first, count int) {
	first = NotFound
	for i, e := range l.types {
		if e == t {
			if count == 0 {
				first = i
			}
			count++
		}
	}
	return first, count
}

// Dedupe keeps the first occurrence of every type, in order.
func Dedupe(l List) List {
	if len(l.types) == 0 {
		return List{}
	}
	seen := make(map[Type]struct{}, len(l.types))
	types := make([]Type, 0, len(l.types))
	for _, t := range l.types {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}
	return List{types: types}
}
