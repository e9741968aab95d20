// Package arena interns Go types into stable numeric identities.
//
// Each distinct reflect.Type gets a unique TypeID the first time it is
// stored. IDs are dense, start at 1, and are never reused, so descriptors
// can be compared and hashed by ID alone. ID 0 is reserved for "no type".
package arena

import (
	"reflect"
	"sync"
)

// TypeID is a unique identifier for a type in the arena
type TypeID uint32

// Invalid is the zero TypeID; it never names a stored type.
const Invalid TypeID = 0

// Arena maps reflect.Type values to TypeIDs and back.
// It is safe for concurrent use.
type Arena struct {
	ids   map[reflect.Type]TypeID
	types []reflect.Type
	mu    sync.RWMutex
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{
		ids:   make(map[reflect.Type]TypeID),
		types: []reflect.Type{nil},
	}
}

// Intern returns the ID for t, allocating one on first use.
func (a *Arena) Intern(t reflect.Type) TypeID {
	if t == nil {
		return Invalid
	}

	a.mu.RLock()
	id, ok := a.ids[t]
	a.mu.RUnlock()
	if ok {
		return id
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if id, ok := a.ids[t]; ok {
		return id
	}
	id = TypeID(len(a.types))
	a.types = append(a.types, t)
	a.ids[t] = id
	return id
}

// Lookup returns the type stored under id, or nil.
func (a *Arena) Lookup(id TypeID) reflect.Type {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if int(id) >= len(a.types) {
		return nil
	}
	return a.types[id]
}

// Len returns the number of interned types.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.types) - 1
}
