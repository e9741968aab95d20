// Package visit applies an operation to every member of an aggregate.
//
// Fields walks the direct members of a struct (or of a tuple) in
// declaration order, handing each Visitor the Member descriptor and the
// member's value. Passing a pointer makes the values settable:
//
//	err := visit.Fields(&cfg, visit.Func(func(m introspect.Member, v reflect.Value) error {
//	    fmt.Println(m.Name, v.Interface())
//	    return nil
//	}))
//
// On restricts a visitor to members of one type, and Walk descends into
// nested aggregates reporting dotted member paths. The first error
// returned by a visitor stops iteration and comes back annotated with the
// member path.
package visit
