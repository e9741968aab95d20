// Package typelist provides type descriptors and immutable type lists.
//
// A Type describes one Go type: a stable identity, its size and alignment,
// its kind, and a canonical name for diagnostics. A List is an ordered
// sequence of Types. Every operation returns a new List and leaves its
// inputs untouched.
//
// # Operations
//
//	Concat(a, b)       a's entries followed by b's
//	Filter(l, p)       entries satisfying p, order preserved
//	IndexOf(l, t)      first position of t, or NotFound
//	IndexOfUnique(l,t) position of t if it occurs exactly once, or NotFound
//	Lookup(l, t)       like IndexOfUnique, with a structured error
//	Dedupe(l)          first occurrence of each type, order preserved
//
// The empty List is the identity of Concat, and IndexOf on it is always
// NotFound.
//
// # Identity
//
// Types are interned in a process-wide arena, so two descriptors of the same
// Go type are equal under ==, and a Type can be used as a map key.
//
// # Canonical Names
//
// Name renders a type in one of three modes:
//
//	Unqualified      Point, []Point, map[string]*Point
//	Qualified        geo.Point
//	FullyQualified   github.com/acme/geo.Point
//
// RegisterName and the CanonicalNamer interface override the derived name.
package typelist
