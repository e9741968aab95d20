// Package rsl provides reflective reimplementations of standard facilities
// for Go: type lists, aggregate shapes, tuples, variants, and structural
// visitors, built from type information instead of per-type boilerplate.
//
// # Architecture Overview
//
// The library is organized into layered packages, leaves first:
//
//	rsl/                 Root package with lifecycle hook interfaces
//	├── typelist/        Type descriptors, type lists and their algebra
//	├── introspect/      Aggregate shapes of struct types (reflect)
//	│   └── static/      Aggregate shapes from source via go/types
//	├── tuple/           Tuples generated from a type list
//	├── variant/         Discriminated unions generated from a type list
//	├── visit/           Structural visitation over aggregate shapes
//	├── repr/            Human-readable value representation
//	├── serial/          Shape-driven varint binary serialization
//	├── witgen/          WIT type export with canonical ABI layout
//	├── errors/          Structured error types
//	└── cmd/rslshape/    Command line shape inspector
//
// # Quick Start
//
// Build a type list and a tuple from it:
//
//	l := typelist.Of(typelist.TypeOf[int](), typelist.TypeOf[bool]())
//	tup, err := tuple.Make(3, true)
//	v, err := tuple.GetAs[int](tup) // 3
//
// Inspect a struct:
//
//	shape, err := introspect.ShapeOf[Point]()
//	for _, m := range shape.Members {
//	    fmt.Println(m.Name, m.Type, m.Offset)
//	}
//
// # Lifecycle
//
// Go values have no constructors or destructors. Facilities that own
// storage call Init on values whose pointer implements Initializer when
// they construct them in place, and Destroy on values whose pointer
// implements Destroyer when they release them. Construction follows
// declaration order; destruction runs in reverse.
//
// # Thread Safety
//
// Descriptors, lists, shapes and the introspection cache are immutable or
// internally synchronized and safe for concurrent use. Tuple and Variant
// values have ordinary single-owner semantics and are NOT thread-safe.
package rsl
