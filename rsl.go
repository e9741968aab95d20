package rsl

// Initializer is implemented by types that need setup when a facility
// constructs them in place.
type Initializer interface {
	Init()
}

// Destroyer is implemented by types that release resources when the
// facility owning them drops the value.
type Destroyer interface {
	Destroy()
}
