// Package variant provides a tagged union over a typelist.List.
//
// A Variant holds exactly one alternative at a time or, after a failed
// construction or Destroy, nothing at all:
//
//	v := variant.New(typelist.Of(typelist.TypeOf[int](), typelist.TypeOf[string]()))
//	v.Index()                         // 0, holding int(0)
//	_ = v.Set("hello")                // destroys the int, constructs the string
//	s, _ := variant.GetAs[string](v)  // "hello"
//	_, err := variant.GetAs[int](v)   // bad_access
//
// The alternative list is deduplicated on construction, so every
// alternative is addressable by type. A Variant over an empty list is
// permanently empty: Index reports typelist.NotFound and every Emplace
// fails.
//
// # States
//
// The state is either an alternative index k in [0, Len()) or valueless.
// Only Emplace, Set, Reset and Destroy change it. Every transition destroys
// the current alternative before constructing the next one. When the
// Init hook of the new alternative panics, the variant is left valueless
// and the panic is returned as an error.
//
// # Tagged variants
//
// A Tagged names its alternatives by the members of an aggregate shape
// instead of by type, so two tags may share a type:
//
//	type Reading struct {
//	    Celsius    float64
//	    Fahrenheit float64
//	    Fault      string
//	}
//	r, _ := variant.TaggedOf[Reading]()
//	_ = r.EmplaceTag("Fahrenheit", 98.6)
//	r.Tag()                     // "Fahrenheit"
//	_, err := r.GetTag("Celsius") // bad_access
//
// Variants are single-owner values and are not safe for concurrent use.
package variant
