// Package witgen exports Go types as WebAssembly Interface Types.
//
// Aggregates become records, tuples become WIT tuples, and variant
// alternatives become variant cases:
//
//	g := witgen.NewGenerator()
//	t, err := g.TypeOf(typelist.TypeOf[Point]())      // record point { x: s32, y: s32 }
//	v, err := g.Variant(typelist.Of(intT, stringT))  // variant { int(s64), %string(string) }
//
// Go names are converted to kebab-case. Pointers map to option, slices and
// arrays to list, and maps to a list of key/value tuples. Interfaces,
// channels and functions have no WIT form.
//
// Layout computes the canonical ABI size, alignment and field offsets of
// any WIT type.
package witgen
