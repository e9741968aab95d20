// Package tuple provides heterogeneous fixed-size tuples built from a
// typelist.List.
//
// A dynamic Tuple owns one storage struct created with reflect.StructOf,
// one field per list entry, so its layout is the Go layout of the list:
//
//	tp := tuple.New(typelist.Of(typelist.TypeOf[int](), typelist.TypeOf[bool]()))
//	_ = tp.Set(0, 3)
//	_ = tp.Set(1, true)
//	n, _ := tuple.GetAs[int](tp, 0) // 3
//
// Positional access outside the list is an out_of_bounds error, and storing
// a value of the wrong type is a type_mismatch error. Access by type goes
// through typelist.IndexOfUnique, so a type present twice is not found.
//
// The typed tuples T2, T3 and T4 carry their element types as type
// parameters. They have exactly one GetN method per element, so an
// out-of-range positional access does not compile.
//
// # Lifecycle
//
// New constructs every element in list order, calling Init on elements
// whose pointer implements rsl.Initializer. Destroy calls rsl.Destroyer
// hooks in reverse order, once. A destroyed tuple reports valueless on
// every access.
//
// Tuples are single-owner values and are not safe for concurrent use.
package tuple
