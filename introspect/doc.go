// Package introspect enumerates the members of Go struct types.
//
// An Aggregate Shape lists the directly accessible data members of a struct
// in declaration order: each Member carries its type descriptor, its name,
// and its byte offset within the struct. No annotation on the struct is
// needed.
//
// # Reflectable
//
// Shapes are produced through the Reflectable capability, implemented by
// Inspector with runtime reflection. The static subpackage applies the same
// domain rules to type-checked source, where no reflect.Type exists, and
// therefore produces no Shape. It yields the mechanism-independent Summary:
//
//	Inspector          *Shape and Summary from reflect.Type
//	static.Inspector   Summary and Fields from *types.Named, no running program
//
// # Supported Domain
//
// A type is an aggregate when it is a struct (or a pointer to one) whose
// storage lives entirely inside the value. ShapeOf rejects, with a
// not_aggregate diagnostic naming the type and member:
//
//   - non-struct kinds
//   - unexported named fields, unless WithSkipUnexported(true)
//   - embedded pointers and embedded interfaces
//   - embedded structs whose promoted fields collide
//   - two members with the same name after tag renaming
//
// Every problem found in a type is reported, joined with multierr.
//
// # Tags
//
// Blank "_" fields are padding and never members. The struct tag key
// (default "rsl") renames a member, and "-" drops it:
//
//	type User struct {
//	    ID    int    `rsl:"id"`
//	    Cache []byte `rsl:"-"`
//	}
//
// # Names
//
// Name recovery is best effort across mechanisms. A Member whose name could
// not be recovered carries NameUnavailable; offsets and types are always
// exact.
//
// # Thread Safety
//
// Inspector caches shapes in a sync.Map and is safe for concurrent use.
// Configure it with the With* methods before sharing it.
package introspect
