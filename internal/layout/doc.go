// Package layout provides storage layout arithmetic shared by the facility
// packages and the WIT exporter.
//
// The same two rules cover every aggregate the module builds:
//   - Sequential: members placed in order, each aligned to its own
//     alignment, total size rounded up to the largest alignment
//     (Go structs, tuple storage, canonical ABI records and tuples).
//   - Union: a discriminant followed by the largest payload, aligned to the
//     largest alignment (variant storage, canonical ABI variants).
//
// Callers supply primitive sizes; the package knows nothing about Go or WIT
// types. This package is internal to the module.
package layout
