package typelist

// IsKind matches types of any of the given kinds.
func IsKind(kinds ...Kind) Predicate {
	return func(t Type) bool {
		for _, k := range kinds {
			if t.Kind() == k {
				return true
			}
		}
		return false
	}
}

// Is matches exactly T.
func Is[T any]() Predicate {
	want := TypeOf[T]()
	return func(t Type) bool {
		return t == want
	}
}

// Not negates p.
func Not(p Predicate) Predicate {
	return func(t Type) bool {
		return !p(t)
	}
}

// Comparable matches types whose values support ==.
func Comparable() Predicate {
	return Type.Comparable
}

// SizeAtMost matches types no larger than n bytes.
func SizeAtMost(n uintptr) Predicate {
	return func(t Type) bool {
		return t.Size() <= n
	}
}

// Scalar matches boolean, numeric and string types.
func Scalar() Predicate {
	return func(t Type) bool {
		return IsScalar(t.Kind())
	}
}
